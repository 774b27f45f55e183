package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"talentflow-backend/controllers"
	jobhandler "talentflow-backend/lib/job"
	"talentflow-backend/models"
	apimodels "talentflow-backend/models/api"
	jobapimodels "talentflow-backend/models/api/job"
)

type jobApiController struct {
	controllers.BaseAPIController
}

func InitJobApiRouters(app *fiber.App) {
	controller := jobApiController{}
	app.Route("jobs", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Post("", controller.create)
		router.Patch("reorder", controller.reorder)
		router.Get("slug/:slug", controller.getBySlug)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Patch("", controller.update)
			idRoute.Delete("", controller.delete)
			idRoute.Patch("status", controller.setStatus)
			idRoute.Patch("toggle-status", controller.toggleStatus)
		})
	})
}

// @Summary Job list
// @Tags Jobs
// @Description Jobs sorted by order
// @Param   search	query	string	false	"substring of title or slug"
// @Param   status	query	string	false	"Open or Closed"
// @Success 200 {array} jobapimodels.JobView
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/jobs [get]
func (c *jobApiController) list(ctx *fiber.Ctx) error {
	var filter jobapimodels.JobFilter
	if err := ctx.QueryParser(&filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := jobhandler.Instance.List(ctx.UserContext(), filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to get job list")
	}
	return ctx.Status(fiber.StatusOK).JSON(list)
}

// @Summary Create job
// @Tags Jobs
// @Description Create job, slug and order are generated when empty
// @Param	body body	 jobapimodels.JobData	true	"request body"
// @Success 201 {object} jobapimodels.JobView
// @Failure 400 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/jobs [post]
func (c *jobApiController) create(ctx *fiber.Ctx) error {
	var payload jobapimodels.JobData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	item, err := jobhandler.Instance.Create(ctx.UserContext(), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to create job")
	}
	return ctx.Status(fiber.StatusCreated).JSON(item)
}

// @Summary Reorder jobs
// @Tags Jobs
// @Description Move the job at fromIndex to toIndex, on failure data holds the previous order
// @Param	body body	 jobapimodels.ReorderRequest	true	"request body"
// @Success 200 {array} jobapimodels.JobView
// @Failure 400 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response{data=[]jobapimodels.JobView}
// @Failure 500 {object} apimodels.Response
// @router /api/jobs/reorder [patch]
func (c *jobApiController) reorder(ctx *fiber.Ctx) error {
	var payload jobapimodels.ReorderRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := jobhandler.Instance.Reorder(ctx.UserContext(), payload.FromIndex, payload.ToIndex)
	if err != nil {
		var persistErr *jobhandler.ReorderPersistError
		if errors.As(err, &persistErr) {
			c.GetLogger(ctx).WithError(err).Warn("job reorder rolled back")
			return ctx.Status(fiber.StatusServiceUnavailable).
				JSON(apimodels.NewErrorWithData(persistErr.Error(), persistErr.Snapshot))
		}
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to reorder jobs")
	}
	return ctx.Status(fiber.StatusOK).JSON(list)
}

// @Summary Job by slug
// @Tags Jobs
// @Param   slug	path	string	true	"job slug"
// @Success 200 {object} jobapimodels.JobView
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/jobs/slug/{slug} [get]
func (c *jobApiController) getBySlug(ctx *fiber.Ctx) error {
	item, err := jobhandler.Instance.GetBySlug(ctx.UserContext(), ctx.Params("slug"))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to get job")
	}
	return ctx.Status(fiber.StatusOK).JSON(item)
}

// @Summary Job by ID
// @Tags Jobs
// @Param   id	path	int	true	"job ID"
// @Success 200 {object} jobapimodels.JobView
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/jobs/{id} [get]
func (c *jobApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	item, err := jobhandler.Instance.GetByID(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to get job")
	}
	return ctx.Status(fiber.StatusOK).JSON(item)
}

// @Summary Update job
// @Tags Jobs
// @Description Partial update, missing fields are kept
// @Param   id	path	int	true	"job ID"
// @Param	body body	 jobapimodels.JobUpdate	true	"request body"
// @Success 200 {object} jobapimodels.JobView
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/jobs/{id} [patch]
func (c *jobApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	var payload jobapimodels.JobUpdate
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	item, err := jobhandler.Instance.Update(ctx.UserContext(), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to update job")
	}
	return ctx.Status(fiber.StatusOK).JSON(item)
}

// @Summary Delete job
// @Tags Jobs
// @Param   id	path	int	true	"job ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/jobs/{id} [delete]
func (c *jobApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = jobhandler.Instance.Delete(ctx.UserContext(), id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to delete job")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Set job status
// @Tags Jobs
// @Param   id	path	int	true	"job ID"
// @Param	body body	 jobapimodels.StatusRequest	true	"request body"
// @Success 200 {object} jobapimodels.JobView
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/jobs/{id}/status [patch]
func (c *jobApiController) setStatus(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	var payload jobapimodels.StatusRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	status, err := models.ParseJobStatus(payload.Status)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err = jobhandler.Instance.SetStatus(ctx.UserContext(), id, status); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to change job status")
	}
	item, err := jobhandler.Instance.GetByID(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to get job")
	}
	return ctx.Status(fiber.StatusOK).JSON(item)
}

// @Summary Toggle job status
// @Tags Jobs
// @Description Open <-> Closed
// @Param   id	path	int	true	"job ID"
// @Success 200 {object} jobapimodels.JobView
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/jobs/{id}/toggle-status [patch]
func (c *jobApiController) toggleStatus(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	item, err := jobhandler.Instance.ToggleStatus(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to toggle job status")
	}
	return ctx.Status(fiber.StatusOK).JSON(item)
}
