package controller

import (
	"perfumeshop-be/internal/apperr"
	"perfumeshop-be/internal/dto"
	"perfumeshop-be/internal/pkg/serverutils"
	"perfumeshop-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IRefundController interface {
	RegisterRoutes(r fiber.Router)
	Request(ctx *fiber.Ctx) error
	ListMine(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	AdminList(ctx *fiber.Ctx) error
	AdminApprove(ctx *fiber.Ctx) error
}

type refundController struct {
	refundService service.IRefundService
}

func NewRefundController(refundService service.IRefundService) IRefundController {
	return &refundController{
		refundService: refundService,
	}
}

func (c *refundController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/refund/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Request)
	h.Get("", c.ListMine)
	h.Get(":id", c.Show)

	admin := r.Group("/admin/v1/refunds")
	admin.Use(serverutils.JwtMiddleware)
	admin.Use(serverutils.AdminMiddleware)
	admin.Get("", c.AdminList)
	admin.Post(":id/approve", c.AdminApprove)
}

func (c *refundController) Request(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.RefundRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.refundService.Request(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success request refund", res))
}

func (c *refundController) ListMine(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.refundService.ListMine(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get refunds", res))
}

func (c *refundController) Show(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	refundId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperr.Validationf("invalid refund id")
	}

	res, err := c.refundService.Show(ctx.Context(), userId, refundId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get refund", res))
}

func (c *refundController) AdminList(ctx *fiber.Ctx) error {
	res, err := c.refundService.AdminList(ctx.Context(),
		ctx.Query("status"),
		ctx.QueryInt("limit", 0),
		ctx.QueryInt("offset", 0),
	)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get refunds", res))
}

func (c *refundController) AdminApprove(ctx *fiber.Ctx) error {
	refundId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperr.Validationf("invalid refund id")
	}

	var req dto.AdminApproveRefundRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.refundService.Approve(ctx.Context(), refundId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success process refund", res))
}
