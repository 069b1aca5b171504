package controller

import (
	"perfumeshop-be/internal/apperr"
	"perfumeshop-be/internal/pkg/serverutils"
	"perfumeshop-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IOrderController interface {
	RegisterRoutes(r fiber.Router)
	ListMine(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type orderController struct {
	orderService service.IOrderService
}

func NewOrderController(orderService service.IOrderService) IOrderController {
	return &orderController{
		orderService: orderService,
	}
}

func (c *orderController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/order/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.ListMine)
	h.Get(":id", c.Show)
}

func (c *orderController) ListMine(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.orderService.ListMine(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get orders", res))
}

func (c *orderController) Show(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	orderId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperr.Validationf("invalid order id")
	}

	res, err := c.orderService.Show(ctx.Context(), userId, orderId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get order", res))
}
