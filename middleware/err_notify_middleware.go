package middleware

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// ErrNotify reports every 5xx answer with the message taken from the response envelope.
func ErrNotify() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		statusCode := c.Response().StatusCode()
		if statusCode < fiber.StatusInternalServerError {
			return err
		}

		var data struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		}
		if unmErr := json.Unmarshal(c.Response().Body(), &data); unmErr != nil {
			log.WithError(unmErr).Debug("error response is not a json envelope")
			data.Message = string(c.Response().Body())
		}

		path := c.OriginalURL()
		if r := c.Route(); r != nil {
			path = r.Path
		}
		log.
			WithField("request_id", GetRequestID(c)).
			WithField("code", statusCode).
			WithField("method", c.Method()).
			WithField("path", path).
			Error(data.Message)
		return err
	}
}
