package controller

import (
	"perfumeshop-be/internal/apperr"
	"perfumeshop-be/internal/dto"
	"perfumeshop-be/internal/pkg/serverutils"
	"perfumeshop-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPayController interface {
	RegisterRoutes(r fiber.Router)
	ReadySingle(ctx *fiber.Ctx) error
	ReadyCart(ctx *fiber.Ctx) error
	Approve(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	Fail(ctx *fiber.Ctx) error
	CancelPaid(ctx *fiber.Ctx) error
}

type payController struct {
	payService service.IPayService
}

func NewPayController(payService service.IPayService) IPayController {
	return &payController{
		payService: payService,
	}
}

func (c *payController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/pay/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("ready/single", c.ReadySingle)
	h.Post("ready/cart", c.ReadyCart)
	h.Get(":orderId/approve", c.Approve)
	h.Get(":orderId/cancel", c.Cancel)
	h.Get(":orderId/fail", c.Fail)
	h.Post(":orderId/cancel-paid", c.CancelPaid)
}

func (c *payController) ReadySingle(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.SingleCheckoutRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.payService.ReadySingle(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ready payment", res))
}

func (c *payController) ReadyCart(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CartCheckoutRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.payService.ReadyCart(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ready payment", res))
}

// Approve is the gateway success callback; pg_token arrives as a query param.
func (c *payController) Approve(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	orderId, err := uuid.Parse(ctx.Params("orderId"))
	if err != nil {
		return apperr.Validationf("invalid order id")
	}

	pgToken := ctx.Query("pg_token")
	if pgToken == "" {
		return apperr.Validationf("pg_token is required")
	}

	res, err := c.payService.Approve(ctx.Context(), userId, orderId, pgToken)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success approve payment", res))
}

func (c *payController) Cancel(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	orderId, err := uuid.Parse(ctx.Params("orderId"))
	if err != nil {
		return apperr.Validationf("invalid order id")
	}

	if err := c.payService.Cancel(ctx.Context(), userId, orderId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Payment canceled", nil))
}

func (c *payController) Fail(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	orderId, err := uuid.Parse(ctx.Params("orderId"))
	if err != nil {
		return apperr.Validationf("invalid order id")
	}

	if err := c.payService.Fail(ctx.Context(), userId, orderId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Payment failed", nil))
}

func (c *payController) CancelPaid(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	orderId, err := uuid.Parse(ctx.Params("orderId"))
	if err != nil {
		return apperr.Validationf("invalid order id")
	}

	res, err := c.payService.CancelPaid(ctx.Context(), userId, orderId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success cancel paid order", res))
}
