package routes

import (
	"github.com/gofiber/fiber/v2"

	"screentime-metrics-service/internal/controller"
)

// Register attaches all HTTP routes to the Fiber app.
func Register(app *fiber.App, reportController controller.ReportController) {
	app.Get("/report", reportController.GetReport)
	app.Get("/events", reportController.ListEvents)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
