package routers

import (
	_ "audio-translator/docs"

	"audio-translator/internal/delivery/http/handlers"
	"audio-translator/internal/usecases"
	consts "audio-translator/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

func SetupRunRoutes(app *fiber.App, runService usecases.RunService) {
	runHandler := handlers.NewRunHandler(runService)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": consts.StatusOK})
	})

	// Swagger UI
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Routes:
	api := app.Group("/api/v1")
	api.Post("/runs", runHandler.CreateRun)
	api.Get("/runs/:id", runHandler.GetRun)
}
