package controllers

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"platform/config"
	"platform/dto"
	"platform/response"
	"platform/services"

	"github.com/gin-gonic/gin"
)

// MaxUploadBytes caps a single upload at 16MB.
const MaxUploadBytes = 16 << 20

// UploadImage stores one optimized image and returns its public URL. The URL
// is relative except in production, where BASE_URL makes it absolute.
func UploadImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "image file is required")
		return
	}
	if fh.Size > MaxUploadBytes {
		response.BadRequest(c, "image exceeds the 16MB limit")
		return
	}
	if !services.AllowedFile(fh.Filename) {
		response.BadRequest(c, "file type not allowed, expected png, jpg, jpeg or gif")
		return
	}

	title := c.PostForm("title")
	ext := strings.ToLower(path.Ext(fh.Filename))
	if title == "" {
		title = strings.TrimSuffix(fh.Filename, ext)
	}
	name := fmt.Sprintf("%s_%d%s", services.SafeFilename(title), time.Now().UnixNano(), ext)

	src, err := fh.Open()
	if err != nil {
		response.ServerError(c, err)
		return
	}
	defer src.Close()

	if err := Media.SaveOptimized(src, name); err != nil {
		response.ServerError(c, err)
		return
	}

	url := "/uploads/" + name
	if config.GetEnv("APP_ENV") == "production" {
		url = strings.TrimRight(config.GetEnv("BASE_URL"), "/") + url
	}
	response.Created(c, dto.UploadResponse{URL: url, Message: "Image uploaded"})
}

// ServeUpload serves a stored original, or the lazily generated 400x300
// thumbnail when the path goes through /uploads/thumbnails/. One handler
// covers both because gin cannot route a static segment under a wildcard.
func ServeUpload(c *gin.Context) {
	rel := strings.TrimPrefix(c.Param("filepath"), "/")

	if strings.HasPrefix(rel, "thumbnails/") {
		name := filepath.Base(strings.TrimPrefix(rel, "thumbnails/"))
		name = strings.TrimPrefix(name, "thumb_")
		thumb, err := Media.ThumbnailPath(name)
		if err != nil {
			response.NotFound(c, "File not found")
			return
		}
		c.File(filepath.Join(Media.Root(), thumb))
		return
	}

	name := filepath.Base(rel)
	full := filepath.Join(Media.Root(), name)
	if _, err := os.Stat(full); err != nil {
		response.NotFound(c, "File not found")
		return
	}
	c.File(full)
}
