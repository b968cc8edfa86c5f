package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"screentime-metrics-service/internal/controller"
	"screentime-metrics-service/internal/routes"
)

// Server wraps the Fiber application setup.
type Server struct {
	app *fiber.App
}

// NewServer configures routes and middleware.
func NewServer(reportController controller.ReportController) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(recover.New())

	routes.Register(app, reportController)

	return &Server{app: app}
}

// Listen runs the server on the provided addr.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
