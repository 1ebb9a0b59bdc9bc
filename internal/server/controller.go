package server

import (
	"errors"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"supportbot/internal/domain"
	"supportbot/internal/logging"
	"supportbot/internal/service"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Upload(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
}

type sessionController struct {
	registry    *Registry
	validate    *validator.Validate
	maxUploadMB int
}

func NewSessionController(registry *Registry, maxUploadMB int) ISessionController {
	return &sessionController{registry: registry, validate: validator.New(), maxUploadMB: maxUploadMB}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/v1/sessions")
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
	h.Post(":id/document", c.Upload)
	h.Post(":id/messages", c.SendMessage)
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	id, bot, err := c.registry.Create()
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(SuccessResponse("Session created", newSessionView(id, bot.Snapshot())))
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	id, bot, err := c.lookup(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(SuccessResponse("Success get session", newSessionView(id, bot.Snapshot())))
}

func (c *sessionController) Delete(ctx *fiber.Ctx) error {
	id, _, err := c.lookup(ctx)
	if err != nil {
		return err
	}
	c.registry.Delete(id)
	return ctx.JSON(SuccessResponse("Session deleted", nil))
}

func (c *sessionController) Upload(ctx *fiber.Ctx) error {
	id, bot, err := c.lookup(ctx)
	if err != nil {
		return err
	}
	fh, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "multipart field \"file\" is required")
	}
	limit := int64(c.maxUploadMB) << 20
	if fh.Size > limit {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "file too large")
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, limit))
	if err != nil {
		return err
	}

	err = bot.Upload(ctx.UserContext(), fh.Filename, data)
	view := newSessionView(id, bot.Snapshot())
	switch {
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return ctx.Status(fiber.StatusUnsupportedMediaType).JSON(ErrorResponse("Unsupported file format", view))
	case errors.Is(err, domain.ErrDecodeFailure):
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse("Could not read the file", view))
	case err != nil:
		return err
	}
	return ctx.JSON(SuccessResponse("File processed", view))
}

func (c *sessionController) SendMessage(ctx *fiber.Ctx) error {
	id, bot, err := c.lookup(ctx)
	if err != nil {
		return err
	}
	var req SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := c.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := bot.Submit(ctx.UserContext(), req.Text); err != nil {
		return err
	}
	return ctx.JSON(SuccessResponse("Success send message", newSessionView(id, bot.Snapshot())))
}

func (c *sessionController) lookup(ctx *fiber.Ctx) (string, *service.SupportBot, error) {
	id := ctx.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", nil, fiber.NewError(fiber.StatusNotFound, "session not found")
	}
	bot, ok := c.registry.Get(id)
	if !ok {
		return "", nil, fiber.NewError(fiber.StatusNotFound, "session not found")
	}
	return id, bot, nil
}

type ILogController interface {
	RegisterRoutes(r fiber.Router)
	Download(ctx *fiber.Ctx) error
	Entries(ctx *fiber.Ctx) error
}

type logController struct {
	logger logging.Logger
}

func NewLogController(logger logging.Logger) ILogController {
	return &logController{logger: logger}
}

func (c *logController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/v1/log")
	h.Get("", c.Download)
	h.Get("entries", c.Entries)
}

func (c *logController) Download(ctx *fiber.Ctx) error {
	path, err := c.logger.Snapshot()
	if err != nil {
		return err
	}
	return ctx.Download(path, "support_bot_log.txt")
}

func (c *logController) Entries(ctx *fiber.Ctx) error {
	entries, err := c.logger.Read(ctx.Query("level"), ctx.QueryInt("limit", 100), ctx.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return ctx.JSON(SuccessResponse("Success get log entries", entries))
}
