package jobs

import (
	"time"

	"platform/services"
	"platform/services/logger"

	"github.com/robfig/cron/v3"
)

// thumbnailMaxAge is how long a generated thumbnail may sit on disk before
// the sweep removes it; the next request regenerates it.
const thumbnailMaxAge = 7 * 24 * time.Hour

// InitCronJobs registers the background sweeps. The thumbnail sweep runs once
// at startup and daily at midnight thereafter.
func InitCronJobs(c *cron.Cron, media *services.MediaService, log logger.Logger) error {
	sweep := func() {
		removed := media.CleanupThumbnails(thumbnailMaxAge)
		if removed > 0 {
			log.Info("thumbnail sweep removed %d stale files", removed)
		}
	}

	if _, err := c.AddFunc("0 0 * * *", sweep); err != nil {
		return err
	}

	go sweep()
	return nil
}
