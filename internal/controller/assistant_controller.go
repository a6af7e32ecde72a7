package controller

import (
	"commerce-assistant-be/internal/dto"
	"commerce-assistant-be/internal/pkg/serverutils"
	"commerce-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	ChatQuery(ctx *fiber.Ctx) error
	Knowledge(ctx *fiber.Ctx) error
	Classify(ctx *fiber.Ctx) error
}

type assistantController struct {
	assistantService service.IAssistantService
}

func NewAssistantController(assistantService service.IAssistantService) IAssistantController {
	return &assistantController{
		assistantService: assistantService,
	}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1")
	h.Post("chat", c.Chat)
	h.Get("chat", c.ChatQuery)
	h.Get("knowledge/:doc", c.Knowledge)
	h.Post("classify", c.Classify)
}

// Chat serves the widget over POST. The response body is the raw chat
// payload, not the standard envelope: the gateway synthesizes the same
// shape when offline and the widget parses both identically.
func (c *assistantController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.assistantService.Chat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

// ChatQuery serves the widget over GET with query parameters, which is
// how the in-page widget talks so the gateway can intercept the call.
func (c *assistantController) ChatQuery(ctx *fiber.Ctx) error {
	req := dto.ChatRequest{
		Message:   ctx.Query("message"),
		VisitorID: ctx.Query("visitorId"),
		SessionID: ctx.Query("sessionId"),
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.assistantService.Chat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *assistantController) Knowledge(ctx *fiber.Ctx) error {
	doc, ok := c.assistantService.Knowledge(ctx.Params("doc"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Unknown knowledge document")
	}

	return ctx.JSON(doc)
}

// Classify exposes the classifier directly for diagnostics.
func (c *assistantController) Classify(ctx *fiber.Ctx) error {
	var req dto.ClassifyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	result := c.assistantService.Classify(req.Message)

	return ctx.JSON(serverutils.SuccessResponse("Success classify message", result))
}
