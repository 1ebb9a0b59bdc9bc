package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"supportbot/internal/domain"
	"supportbot/internal/logging"
)

type Server struct {
	app    *fiber.App
	logger logging.Logger
}

// Options configures the HTTP adapter.
type Options struct {
	MaxUploadMB int
}

func New(registry *Registry, logger logging.Logger, opts Options) *Server {
	if opts.MaxUploadMB <= 0 {
		opts.MaxUploadMB = 20
	}
	app := fiber.New(fiber.Config{
		BodyLimit:             (opts.MaxUploadMB + 1) << 20,
		ErrorHandler:          errorHandler(logger),
		DisableStartupMessage: true,
	})

	app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(SuccessResponse("ok", fiber.Map{"sessions": registry.Count()}))
	})

	api := app.Group("/api")
	NewSessionController(registry, opts.MaxUploadMB).RegisterRoutes(api)
	NewLogController(logger).RegisterRoutes(api)

	return &Server{app: app, logger: logger}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run(addr string) error {
	s.logger.Info("server", "HTTP server listening", map[string]interface{}{"addr": addr})
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// errorHandler maps domain errors to status codes.
func errorHandler(logger logging.Logger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := err.Error()
		var fe *fiber.Error
		switch {
		case errors.As(err, &fe):
			code = fe.Code
			message = fe.Message
		case errors.Is(err, domain.ErrModelUnavailable):
			code = fiber.StatusServiceUnavailable
			message = "The model is unavailable. Please try again."
		case errors.Is(err, domain.ErrUnsupportedFormat):
			code = fiber.StatusUnsupportedMediaType
		case errors.Is(err, domain.ErrDecodeFailure):
			code = fiber.StatusUnprocessableEntity
		}
		if code >= fiber.StatusInternalServerError {
			logger.Error("server", "Request failed", map[string]interface{}{
				"path":   ctx.Path(),
				"status": code,
				"error":  err,
			})
		}
		return ctx.Status(code).JSON(ErrorResponse(message, nil))
	}
}
