package fiberlog

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"talentflow-backend/middleware"
)

const (
	TagPid       = "pid"
	TagStatus    = "status"
	TagLatency   = "latency"
	TagMethod    = "method"
	TagPath      = "path"
	TagIP        = "ip"
	TagUserAgent = "user_agent"
	TagBody      = "body"
	TagResBody   = "resBody"
	RequestID    = "request_id"
)

// bodies longer than this are cut in the log
const maxBodyLogLen = 2048

type data struct {
	pid   int
	start time.Time
	end   time.Time
}

// FuncTag returns the value logged under a tag
type FuncTag func(c *fiber.Ctx, d *data) interface{}

func getFuncTagMap(cfg Config) map[string]FuncTag {
	all := map[string]FuncTag{
		TagPid: func(_ *fiber.Ctx, d *data) interface{} {
			return d.pid
		},
		TagStatus: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Response().StatusCode()
		},
		TagLatency: func(_ *fiber.Ctx, d *data) interface{} {
			return d.end.Sub(d.start).String()
		},
		TagMethod: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Method()
		},
		TagPath: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Path()
		},
		TagIP: func(c *fiber.Ctx, _ *data) interface{} {
			return c.IP()
		},
		TagUserAgent: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Get(fiber.HeaderUserAgent)
		},
		TagBody: func(c *fiber.Ctx, _ *data) interface{} {
			return cut(c.Body())
		},
		TagResBody: func(c *fiber.Ctx, _ *data) interface{} {
			if c.GetRespHeader(fiber.HeaderContentType) != fiber.MIMEApplicationJSON {
				return ""
			}
			return cut(c.Response().Body())
		},
		RequestID: func(c *fiber.Ctx, _ *data) interface{} {
			return middleware.GetRequestID(c)
		},
	}
	ftm := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if ft, ok := all[tag]; ok {
			ftm[tag] = ft
		}
	}
	return ftm
}

func cut(body []byte) string {
	if len(body) > maxBodyLogLen {
		return string(body[:maxBodyLogLen]) + "..."
	}
	return string(body)
}
