package fiberlog

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// getLogrusFields calls FuncTag functions on matching keys
func getLogrusFields(ftm map[string]FuncTag, c *fiber.Ctx, d *data) log.Fields {
	f := make(log.Fields)
	for k, ft := range ftm {
		value := ft(c, d)
		strValue, ok := value.(string)
		if ok {
			if strValue != "" {
				f[k] = strValue
			}
		} else {
			f[k] = value
		}
	}
	return f
}

// New creates a new middleware handler
func New(config ...Config) fiber.Handler {
	var cfg Config
	if len(config) == 0 {
		cfg = ConfigDefault
	} else {
		cfg = config[0]
	}
	pid := os.Getpid()
	ftm := getFuncTagMap(cfg)
	return func(c *fiber.Ctx) error {
		// per request, handlers run concurrently
		d := &data{pid: pid, start: time.Now()}
		err := c.Next()
		d.end = time.Now()
		if c.Method() == fiber.MethodOptions {
			return err
		}

		message := getMessage(c)
		fields := getLogrusFields(ftm, c, d)
		if cfg.SkipBody != nil && cfg.SkipBody(c) {
			delete(fields, TagBody)
		}
		switch cfg.Logger {
		case nil:
			log.WithFields(fields).Info(message)
		default:
			entity := cfg.Logger.WithFields(fields)
			if c.Response() != nil && c.Response().StatusCode() >= cfg.warnStatus() {
				entity.Warn(message)
			} else {
				entity.Info(message)
			}
		}

		return err
	}
}

func getMessage(c *fiber.Ctx) string {
	return "api request " + c.Route().Path
}
