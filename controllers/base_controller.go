package controllers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"talentflow-backend/lib/transport"
	"talentflow-backend/lib/utils/optimistic"
	"talentflow-backend/middleware"
	"talentflow-backend/models"
	apimodels "talentflow-backend/models/api"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		c.GetLogger(ctx).WithError(err).Error("request body parse failed")
		return errors.New("unable to read request body")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (uint, error) {
	return c.GetUintParam(ctx, "id")
}

func (c *BaseAPIController) GetUintParam(ctx *fiber.Ctx, name string) (uint, error) {
	value := ctx.Params(name)
	if value == "" {
		return 0, errors.Errorf("%s is required", name)
	}
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.Errorf("invalid %s %q", name, value)
	}
	return uint(id), nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("request_id", middleware.GetRequestID(ctx)).
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path())
}

// SendError maps handler errors to the http status, msg is used for unexpected errors only.
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, msg string) error {
	switch {
	case models.IsNotFound(err):
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(notFoundMessage(err)))
	case errors.Is(err, models.ErrUnknownStage),
		errors.Is(err, models.ErrUnknownJobStatus),
		errors.Is(err, optimistic.ErrIndexOutOfRange):
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	case transport.IsSimulated(err):
		logger.WithError(err).Warn(msg)
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(apimodels.NewError(err.Error()))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logger.WithError(err).Warn(msg)
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(apimodels.NewError(msg))
	}
	logger.WithError(err).Error(msg)
	return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(msg))
}

func notFoundMessage(err error) string {
	var target models.NotFoundError
	if errors.As(err, &target) {
		return target.Message
	}
	return err.Error()
}
