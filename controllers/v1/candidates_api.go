package apiv1

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"talentflow-backend/controllers"
	"talentflow-backend/lib/assessment"
	"talentflow-backend/lib/candidate"
	candidatenotes "talentflow-backend/lib/candidate-notes"
	"talentflow-backend/lib/dashboard"
	"talentflow-backend/models"
	apimodels "talentflow-backend/models/api"
	candidateapimodels "talentflow-backend/models/api/candidate"
)

type candidateApiController struct {
	controllers.BaseAPIController
}

func InitCandidateApiRouters(app *fiber.App) {
	controller := candidateApiController{}
	app.Route("candidates", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Post("", controller.create)
		router.Get("export", controller.export)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Patch("", controller.changeStage)
			idRoute.Delete("", controller.delete)
			idRoute.Get("timeline", controller.timeline)
			idRoute.Get("responses", controller.responses)
			idRoute.Route("notes", func(notesRoute fiber.Router) {
				notesRoute.Get("", controller.notes)
				notesRoute.Post("", controller.addNote)
				notesRoute.Delete(":noteId", controller.deleteNote)
			})
		})
	})
}

// @Summary Candidate list
// @Tags Candidates
// @Description Filtered page of candidates, total counts all rows after filtering
// @Param   search	query	string	false	"substring of name or email"
// @Param   stage	query	string	false	"stage"
// @Param   page	query	int		false	"page, 1-based"
// @Param   limit	query	int		false	"rows per page"
// @Success 200 {object} apimodels.PageResponse[candidateapimodels.CandidateView]
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/candidates [get]
func (c *candidateApiController) list(ctx *fiber.Ctx) error {
	var filter candidateapimodels.CandidateFilter
	if err := ctx.QueryParser(&filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := candidate.Instance.List(ctx.UserContext(), filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to get candidate list")
	}
	return ctx.Status(fiber.StatusOK).JSON(result)
}

// @Summary Create candidate
// @Tags Candidates
// @Param	body body	 candidateapimodels.CandidateData	true	"request body"
// @Success 201 {object} candidateapimodels.CandidateView
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/candidates [post]
func (c *candidateApiController) create(ctx *fiber.Ctx) error {
	var payload candidateapimodels.CandidateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	item, err := candidate.Instance.Create(ctx.UserContext(), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to create candidate")
	}
	return ctx.Status(fiber.StatusCreated).JSON(item)
}

// @Summary Candidate list. Export to Excel
// @Tags Candidates
// @Param   search	query	string	false	"substring of name or email"
// @Param   stage	query	string	false	"stage"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/candidates/export [get]
func (c *candidateApiController) export(ctx *fiber.Ctx) error {
	var filter candidateapimodels.CandidateFilter
	if err := ctx.QueryParser(&filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	data, err := dashboard.Instance.CandidatesExportToXls(ctx.UserContext(), filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to export candidates")
	}
	fileName := fmt.Sprintf("candidates_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Set(fiber.HeaderContentType, "application/vnd.ms-excel")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, fileName))
	return ctx.SendStream(data)
}

// @Summary Candidate by ID
// @Tags Candidates
// @Param   id	path	int	true	"candidate ID"
// @Success 200 {object} candidateapimodels.CandidateView
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/candidates/{id} [get]
func (c *candidateApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	item, err := candidate.Instance.GetByID(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to get candidate")
	}
	return ctx.Status(fiber.StatusOK).JSON(item)
}

// @Summary Change candidate stage
// @Tags Candidates
// @Description Writes the stage and appends a timeline event, same stage is a no-op
// @Param   id	path	int	true	"candidate ID"
// @Param	body body	 candidateapimodels.StageRequest	true	"request body"
// @Success 200 {object} candidateapimodels.StageResponse
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/candidates/{id} [patch]
func (c *candidateApiController) changeStage(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	var payload candidateapimodels.StageRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	stage, err := models.ParseStage(payload.Stage)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if _, err = candidate.Instance.ChangeStage(ctx.UserContext(), id, stage); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to change candidate stage")
	}
	return ctx.Status(fiber.StatusOK).JSON(candidateapimodels.StageResponse{
		ID:    strconv.FormatUint(uint64(id), 10),
		Stage: stage,
	})
}

// @Summary Delete candidate
// @Tags Candidates
// @Description Deletes the candidate with timeline and notes
// @Param   id	path	int	true	"candidate ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/candidates/{id} [delete]
func (c *candidateApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = candidate.Instance.Delete(ctx.UserContext(), id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to delete candidate")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Candidate timeline
// @Tags Candidates
// @Description Stage events, ascending by timestamp
// @Param   id	path	int	true	"candidate ID"
// @Success 200 {array} candidateapimodels.TimelineView
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/candidates/{id}/timeline [get]
func (c *candidateApiController) timeline(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := candidate.Instance.GetTimeline(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to get candidate timeline")
	}
	return ctx.Status(fiber.StatusOK).JSON(list)
}

// @Summary Candidate assessment responses
// @Tags Candidates
// @Param   id	path	int	true	"candidate ID"
// @Success 200 {array} assessmentapimodels.ResponseView
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/candidates/{id}/responses [get]
func (c *candidateApiController) responses(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := assessment.Instance.ListCandidateResponses(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to get candidate responses")
	}
	return ctx.Status(fiber.StatusOK).JSON(list)
}

// @Summary Candidate notes
// @Tags Candidates
// @Description Notes ascending by timestamp, @mentions resolved to segments
// @Param   id	path	int	true	"candidate ID"
// @Success 200 {array} candidateapimodels.NoteView
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/candidates/{id}/notes [get]
func (c *candidateApiController) notes(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := candidatenotes.Instance.GetNotes(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to get candidate notes")
	}
	return ctx.Status(fiber.StatusOK).JSON(list)
}

// @Summary Add note
// @Tags Candidates
// @Param   id	path	int	true	"candidate ID"
// @Param	body body	 candidateapimodels.NoteRequest	true	"request body"
// @Success 201 {object} candidateapimodels.NoteView
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/candidates/{id}/notes [post]
func (c *candidateApiController) addNote(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	var payload candidateapimodels.NoteRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	item, err := candidatenotes.Instance.AddNote(ctx.UserContext(), id, payload.Content)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to add note")
	}
	return ctx.Status(fiber.StatusCreated).JSON(item)
}

// @Summary Delete note
// @Tags Candidates
// @Param   id		path	int	true	"candidate ID"
// @Param   noteId	path	int	true	"note ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/candidates/{id}/notes/{noteId} [delete]
func (c *candidateApiController) deleteNote(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	noteID, err := c.GetUintParam(ctx, "noteId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = candidatenotes.Instance.DeleteNote(ctx.UserContext(), id, noteID); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to delete note")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
