package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"platform/services/logger"

	"github.com/disintegration/imaging"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	maxImageEdge     = 1920
	thumbnailWidth   = 400
	thumbnailHeight  = 300
	thumbCacheSize   = 100
	thumbnailsSubdir = "thumbnails"
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// AllowedFile reports whether the filename carries a permitted image
// extension.
func AllowedFile(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// SafeFilename reduces a user-supplied title to a filesystem-safe fragment.
func SafeFilename(title string) string {
	safe := unsafeChars.ReplaceAllString(strings.TrimSpace(title), "_")
	safe = strings.Trim(safe, "._")
	if safe == "" {
		return "untitled"
	}
	return safe
}

// MediaService is the filesystem-backed media store: it persists optimized
// uploads under root and derives thumbnails under root/thumbnails.
type MediaService struct {
	root    string
	baseURL string
	log     logger.Logger

	// thumbCache memoizes generated thumbnail paths keyed by original
	// filename. Shared across requests; a race between two first requests
	// for the same thumbnail is benign, both writes produce the same file.
	thumbCache *lru.Cache[string, string]
}

// NewMediaService creates the uploads tree and the bounded thumbnail cache.
// baseURL empty means relative URLs.
func NewMediaService(root, baseURL string, log logger.Logger) (*MediaService, error) {
	if err := os.MkdirAll(filepath.Join(root, thumbnailsSubdir), 0o755); err != nil {
		return nil, fmt.Errorf("create uploads tree: %w", err)
	}
	cache, err := lru.New[string, string](thumbCacheSize)
	if err != nil {
		return nil, err
	}
	return &MediaService{
		root:       root,
		baseURL:    baseURL,
		log:        log,
		thumbCache: cache,
	}, nil
}

func (m *MediaService) Root() string {
	return m.root
}

// Exists reports whether the stored filename is present in the media store.
func (m *MediaService) Exists(filename string) bool {
	if filename == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(m.root, filepath.Base(filename)))
	return err == nil
}

// URLFor builds the public URL for a stored filename. The stored value is a
// bare filename, never a URL.
func (m *MediaService) URLFor(filename string) string {
	return m.baseURL + "/uploads/" + filepath.Base(filename)
}

// SaveOptimized decodes an uploaded image, downscales it to at most
// maxImageEdge on the long side and stores it as JPEG quality 85 under the
// given filename. An undecodable payload is stored verbatim.
func (m *MediaService) SaveOptimized(r io.Reader, filename string) error {
	target := filepath.Join(m.root, filepath.Base(filename))

	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		m.log.Error("could not decode upload %s, storing raw: %v", filename, err)
		// Decode consumed the reader; rewind when the source allows it.
		if seeker, ok := r.(io.Seeker); ok {
			seeker.Seek(0, io.SeekStart)
		}
		out, createErr := os.Create(target)
		if createErr != nil {
			return createErr
		}
		defer out.Close()
		_, copyErr := io.Copy(out, r)
		return copyErr
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxImageEdge || bounds.Dy() > maxImageEdge {
		img = imaging.Fit(img, maxImageEdge, maxImageEdge, imaging.Lanczos)
	}

	return imaging.Save(img, target, imaging.JPEGQuality(85))
}

// ThumbnailPath returns the relative path of the thumbnail for an original
// filename, generating it on first request and memoizing the result. A
// replaced original under the same filename keeps serving the stale
// thumbnail for the process lifetime; the cleanup sweep bounds that on disk.
func (m *MediaService) ThumbnailPath(original string) (string, error) {
	original = filepath.Base(original)
	if original == "" {
		return "", fmt.Errorf("empty image path")
	}

	if cached, ok := m.thumbCache.Get(original); ok {
		return cached, nil
	}

	originalFull := filepath.Join(m.root, original)
	if _, err := os.Stat(originalFull); err != nil {
		return "", fmt.Errorf("original %s not found: %w", original, err)
	}

	thumbRel := filepath.Join(thumbnailsSubdir, "thumb_"+original)
	thumbFull := filepath.Join(m.root, thumbRel)

	if _, err := os.Stat(thumbFull); err != nil {
		img, err := imaging.Open(originalFull)
		if err != nil {
			return "", fmt.Errorf("open original %s: %w", original, err)
		}
		thumb := imaging.Fit(img, thumbnailWidth, thumbnailHeight, imaging.Lanczos)
		if err := imaging.Save(thumb, thumbFull, imaging.JPEGQuality(85)); err != nil {
			return "", fmt.Errorf("save thumbnail for %s: %w", original, err)
		}
	}

	m.thumbCache.Add(original, thumbRel)
	return thumbRel, nil
}

// CleanupThumbnails removes thumbnail files older than maxAge and reports
// how many were deleted.
func (m *MediaService) CleanupThumbnails(maxAge time.Duration) int {
	thumbDir := filepath.Join(m.root, thumbnailsSubdir)
	entries, err := os.ReadDir(thumbDir)
	if err != nil {
		m.log.Error("could not read thumbnails dir: %v", err)
		return 0
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(thumbDir, entry.Name())); err != nil {
				m.log.Error("could not remove thumbnail %s: %v", entry.Name(), err)
				continue
			}
			removed++
		}
	}
	if removed > 0 {
		m.log.Info("removed %d old thumbnails", removed)
	}
	return removed
}
