package apiv1

import "github.com/gofiber/fiber/v2"

// InitRouters registers the whole mock api on app, paths are relative to its mount point.
func InitRouters(app *fiber.App) {
	InitJobApiRouters(app)
	InitCandidateApiRouters(app)
	InitAssessmentApiRouters(app)
	InitDashboardApiRouters(app)
	InitSeedApiRouters(app)
}
