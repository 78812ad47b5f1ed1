package controllers

import (
	"platform/services"
	"platform/services/logger"
)

var (
	// Media is the filesystem media store shared by the handlers.
	Media *services.MediaService
	// Log is the handlers' logger.
	Log logger.Logger = logger.NewDefaultLogger(logger.InfoLevel)
)

// Init wires the shared handler dependencies once at startup.
func Init(media *services.MediaService, log logger.Logger) {
	Media = media
	if log != nil {
		Log = log
	}
}
