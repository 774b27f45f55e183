package apiv1

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"talentflow-backend/controllers"
	"talentflow-backend/lib/assessment"
	apimodels "talentflow-backend/models/api"
	assessmentapimodels "talentflow-backend/models/api/assessment"
)

type assessmentApiController struct {
	controllers.BaseAPIController
}

func InitAssessmentApiRouters(app *fiber.App) {
	controller := assessmentApiController{}
	app.Route("assessments", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Get("export", controller.export)
		router.Post("import", controller.importAll)
		router.Route("responses", func(responsesRoute fiber.Router) {
			responsesRoute.Get("pending", controller.pending)
			responsesRoute.Put(":id/synced", controller.markSynced)
		})
		router.Route(":jobId", func(jobRoute fiber.Router) {
			jobRoute.Get("", controller.get)
			jobRoute.Put("", controller.save)
			jobRoute.Delete("", controller.delete)
			jobRoute.Post("submit", controller.submit)
			jobRoute.Route("responses", func(responsesRoute fiber.Router) {
				responsesRoute.Get("", controller.responses)
				responsesRoute.Get(":id", controller.response)
				responsesRoute.Get(":id/pdf", controller.responsePdf)
			})
		})
	})
}

// @Summary Assessment list
// @Tags Assessments
// @Success 200 {array} assessmentapimodels.AssessmentView
// @Failure 500 {object} apimodels.Response
// @router /api/assessments [get]
func (c *assessmentApiController) list(ctx *fiber.Ctx) error {
	list, err := assessment.Instance.List(ctx.UserContext())
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to get assessment list")
	}
	return ctx.Status(fiber.StatusOK).JSON(list)
}

// @Summary Export assessments
// @Tags Assessments
// @Description All assessments as a json file accepted by import
// @Success 200 {file} file
// @Failure 500 {object} apimodels.Response
// @router /api/assessments/export [get]
func (c *assessmentApiController) export(ctx *fiber.Ctx) error {
	body, err := assessment.Instance.Export(ctx.UserContext())
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to export assessments")
	}
	fileName := fmt.Sprintf("assessments_%s.json", time.Now().Format("2006-01-02"))
	ctx.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, fileName))
	return ctx.SendStream(bytes.NewReader(body))
}

// @Summary Import assessments
// @Tags Assessments
// @Description Upserts every assessment of the file, nothing is saved when one of them is invalid
// @Param	body body	 []assessmentapimodels.AssessmentView	true	"exported assessments"
// @Success 200 {object} assessmentapimodels.ImportResult
// @Failure 400 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/assessments/import [post]
func (c *assessmentApiController) importAll(ctx *fiber.Ctx) error {
	count, err := assessment.Instance.Import(ctx.UserContext(), ctx.Body())
	if err != nil {
		if errors.Is(err, assessment.ErrInvalidImport) {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to import assessments")
	}
	return ctx.Status(fiber.StatusOK).JSON(assessmentapimodels.ImportResult{Imported: count})
}

// @Summary Responses waiting for sync
// @Tags Assessments
// @Success 200 {array} assessmentapimodels.ResponseView
// @Failure 500 {object} apimodels.Response
// @router /api/assessments/responses/pending [get]
func (c *assessmentApiController) pending(ctx *fiber.Ctx) error {
	list, err := assessment.Instance.PendingResponses(ctx.UserContext())
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to get pending responses")
	}
	return ctx.Status(fiber.StatusOK).JSON(list)
}

// @Summary Mark response synced
// @Tags Assessments
// @Param   id	path	int	true	"response ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/assessments/responses/{id}/synced [put]
func (c *assessmentApiController) markSynced(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = assessment.Instance.MarkResponseSynced(ctx.UserContext(), id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to mark response synced")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Assessment of job
// @Tags Assessments
// @Param   jobId	path	int	true	"job ID"
// @Success 200 {object} assessmentapimodels.AssessmentView
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/assessments/{jobId} [get]
func (c *assessmentApiController) get(ctx *fiber.Ctx) error {
	jobID, err := c.GetUintParam(ctx, "jobId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	item, err := assessment.Instance.Get(ctx.UserContext(), jobID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to get assessment")
	}
	return ctx.Status(fiber.StatusOK).JSON(item)
}

// @Summary Save assessment of job
// @Tags Assessments
// @Description Creates or replaces the assessment of the job
// @Param   jobId	path	int	true	"job ID"
// @Param	body body	 assessmentapimodels.AssessmentData	true	"request body"
// @Success 200 {object} assessmentapimodels.AssessmentView
// @Failure 400 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/assessments/{jobId} [put]
func (c *assessmentApiController) save(ctx *fiber.Ctx) error {
	jobID, err := c.GetUintParam(ctx, "jobId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	var payload assessmentapimodels.AssessmentData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	item, err := assessment.Instance.Save(ctx.UserContext(), jobID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to save assessment")
	}
	return ctx.Status(fiber.StatusOK).JSON(item)
}

// @Summary Delete assessment of job
// @Tags Assessments
// @Param   jobId	path	int	true	"job ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/assessments/{jobId} [delete]
func (c *assessmentApiController) delete(ctx *fiber.Ctx) error {
	jobID, err := c.GetUintParam(ctx, "jobId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = assessment.Instance.Delete(ctx.UserContext(), jobID); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to delete assessment")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Submit assessment response
// @Tags Assessments
// @Description Answers are validated against the assessment, data holds questionId -> message on failure
// @Param   jobId	path	int	true	"job ID"
// @Param	body body	 assessmentapimodels.SubmitRequest	true	"request body"
// @Success 200 {object} assessmentapimodels.SubmitResult
// @Failure 400 {object} apimodels.Response{data=map[string]string}
// @Failure 404 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/assessments/{jobId}/submit [post]
func (c *assessmentApiController) submit(ctx *fiber.Ctx) error {
	jobID, err := c.GetUintParam(ctx, "jobId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	var payload assessmentapimodels.SubmitRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	result, err := assessment.Instance.SubmitResponse(ctx.UserContext(), jobID, payload.CandidateID, payload.Answers)
	if err != nil {
		if validationErr, ok := assessment.IsValidationError(err); ok {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewErrorWithData(validationErr.Error(), validationErr.Errors))
		}
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to submit assessment response")
	}
	return ctx.Status(fiber.StatusOK).JSON(result)
}

// @Summary Responses of job
// @Tags Assessments
// @Param   jobId	path	int	true	"job ID"
// @Success 200 {array} assessmentapimodels.ResponseView
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/assessments/{jobId}/responses [get]
func (c *assessmentApiController) responses(ctx *fiber.Ctx) error {
	jobID, err := c.GetUintParam(ctx, "jobId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := assessment.Instance.ListResponses(ctx.UserContext(), jobID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to get responses")
	}
	return ctx.Status(fiber.StatusOK).JSON(list)
}

// @Summary Response by ID
// @Tags Assessments
// @Param   jobId	path	int	true	"job ID"
// @Param   id		path	int	true	"response ID"
// @Success 200 {object} assessmentapimodels.ResponseView
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/assessments/{jobId}/responses/{id} [get]
func (c *assessmentApiController) response(ctx *fiber.Ctx) error {
	jobID, err := c.GetUintParam(ctx, "jobId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	item, err := assessment.Instance.GetResponse(ctx.UserContext(), jobID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to get response")
	}
	return ctx.Status(fiber.StatusOK).JSON(item)
}

// @Summary Response report. Export to PDF
// @Tags Assessments
// @Param   jobId	path	int	true	"job ID"
// @Param   id		path	int	true	"response ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/assessments/{jobId}/responses/{id}/pdf [get]
func (c *assessmentApiController) responsePdf(ctx *fiber.Ctx) error {
	jobID, err := c.GetUintParam(ctx, "jobId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	body, err := assessment.Instance.ResponseReportPdf(ctx.UserContext(), jobID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to build response report")
	}
	ctx.Set(fiber.HeaderContentType, "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="response_%d_%d.pdf"`, jobID, id))
	return ctx.SendStream(bytes.NewReader(body))
}
