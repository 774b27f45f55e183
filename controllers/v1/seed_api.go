package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"talentflow-backend/controllers"
	"talentflow-backend/lib/seeder"
	apimodels "talentflow-backend/models/api"
)

type seedApiController struct {
	controllers.BaseAPIController
}

func InitSeedApiRouters(app *fiber.App) {
	controller := seedApiController{}
	app.Route("seed", func(router fiber.Router) {
		router.Post("", controller.seed)
	})
}

// @Summary Seed demo data
// @Tags Seed
// @Description Fills empty collections, with reset all data is wiped first
// @Param   reset	query	bool	false	"wipe all data before seeding"
// @Success 200 {object} seeder.Result
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/seed [post]
func (c *seedApiController) seed(ctx *fiber.Ctx) error {
	reset := ctx.QueryBool("reset", false)
	result, err := seeder.Instance.Reseed(ctx.UserContext(), reset)
	if err != nil {
		if errors.Is(err, seeder.ErrSeedingInProgress) {
			return ctx.Status(fiber.StatusConflict).JSON(apimodels.NewError(err.Error()))
		}
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to seed data")
	}
	return ctx.Status(fiber.StatusOK).JSON(result)
}
