package fiberlog

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Config of the request log middleware
type Config struct {
	// nil logs every request at info level through the standard logger
	Logger *logrus.Logger
	Tags   []string
	// responses with this status or above are logged as warnings, zero means 400
	WarnStatus int
	// SkipBody drops the request body tag for matching requests
	SkipBody func(c *fiber.Ctx) bool
}

// ConfigDefault logs the request line with its id
var ConfigDefault = Config{
	Tags: []string{
		RequestID,
		TagMethod,
		TagPath,
		TagStatus,
		TagLatency,
	},
	WarnStatus: fiber.StatusBadRequest,
}

func (c Config) warnStatus() int {
	if c.WarnStatus == 0 {
		return fiber.StatusBadRequest
	}
	return c.WarnStatus
}
