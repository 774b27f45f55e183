package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"talentflow-backend/controllers"
	"talentflow-backend/lib/dashboard"
)

type dashboardApiController struct {
	controllers.BaseAPIController
}

func InitDashboardApiRouters(app *fiber.App) {
	controller := dashboardApiController{}
	app.Route("dashboard", func(router fiber.Router) {
		router.Get("", controller.stats)
	})
}

// @Summary Dashboard
// @Tags Dashboard
// @Description Totals, candidates by stage and candidates per job
// @Success 200 {object} dashboardapimodels.Stats
// @Failure 500 {object} apimodels.Response
// @router /api/dashboard [get]
func (c *dashboardApiController) stats(ctx *fiber.Ctx) error {
	data, err := dashboard.Instance.Stats(ctx.UserContext())
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to get dashboard")
	}
	return ctx.Status(fiber.StatusOK).JSON(data)
}
