package controller

import (
	"strings"

	"perfumeshop-be/internal/apperr"
	"perfumeshop-be/internal/dto"
	"perfumeshop-be/internal/pkg/serverutils"
	"perfumeshop-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICheckoutController interface {
	RegisterRoutes(r fiber.Router)
	StashQuantity(ctx *fiber.Ctx) error
	OrderSheetSingle(ctx *fiber.Ctx) error
	OrderSheetCart(ctx *fiber.Ctx) error
}

type checkoutController struct {
	checkoutService service.ICheckoutService
}

func NewCheckoutController(checkoutService service.ICheckoutService) ICheckoutController {
	return &checkoutController{
		checkoutService: checkoutService,
	}
}

func (c *checkoutController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/checkout/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("stash", c.StashQuantity)
	h.Get("sheet/single/:productId", c.OrderSheetSingle)
	h.Get("sheet/cart", c.OrderSheetCart)
}

func (c *checkoutController) StashQuantity(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.StashQuantityRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.checkoutService.StashQuantity(ctx.Context(), userId, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success stash quantity", nil))
}

func (c *checkoutController) OrderSheetSingle(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	productId, err := uuid.Parse(ctx.Params("productId"))
	if err != nil {
		return apperr.Validationf("invalid product id")
	}

	res, err := c.checkoutService.OrderSheetSingle(ctx.Context(), userId, productId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get order sheet", res))
}

// OrderSheetCart reads the selected cart line ids from the `lines` query
// param (comma-separated uuids).
func (c *checkoutController) OrderSheetCart(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var lineIds []uuid.UUID
	for _, raw := range strings.Split(ctx.Query("lines"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperr.Validationf("invalid cart line id %q", raw)
		}
		lineIds = append(lineIds, id)
	}

	res, err := c.checkoutService.OrderSheetCart(ctx.Context(), userId, lineIds)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get order sheet", res))
}
