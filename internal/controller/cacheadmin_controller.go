package controller

import (
	"commerce-assistant-be/internal/pkg/serverutils"
	"commerce-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICacheAdminController interface {
	RegisterRoutes(r fiber.Router)
	Prewarm(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
}

type cacheAdminController struct {
	cacheService service.ICacheService
}

func NewCacheAdminController(cacheService service.ICacheService) ICacheAdminController {
	return &cacheAdminController{
		cacheService: cacheService,
	}
}

func (c *cacheAdminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/cache/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("prewarm", c.Prewarm)
	h.Delete("", c.Clear)
	h.Get("status", c.Status)
}

// Prewarm kicks off a knowledge prewarm pass. The pass runs in the
// background, so success here only means the command was accepted.
func (c *cacheAdminController) Prewarm(ctx *fiber.Ctx) error {
	if err := c.cacheService.Prewarm(ctx.Context()); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Prewarm started", nil))
}

func (c *cacheAdminController) Clear(ctx *fiber.Ctx) error {
	res, err := c.cacheService.Clear(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success clear caches", res))
}

func (c *cacheAdminController) Status(ctx *fiber.Ctx) error {
	res, err := c.cacheService.Status(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get cache status", res))
}
