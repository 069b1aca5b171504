package serverutils

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"perfumeshop-be/internal/apperr"
)

type Response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(message string) Response[any] {
	return Response[any]{
		Success: false,
		Message: message,
	}
}

var validate = validator.New()

// ValidateRequest runs struct-tag validation and wraps the first failure as a
// validation error so the handler maps it to 400.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			first := errs[0]
			return apperr.Validationf("field %s failed on '%s' rule", first.Field(), first.Tag())
		}
		return apperr.Newf(apperr.KindValidation, "invalid request: %v", err)
	}
	return nil
}

// ErrorHandler maps application errors to HTTP statuses. Ledger conflicts
// (stock, balance) and state-machine violations surface as 409 so the client
// can distinguish a retryable race from a bad request.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		code = fiber.StatusBadRequest
	case apperr.KindNotFound:
		code = fiber.StatusNotFound
	case apperr.KindConflict, apperr.KindInsufficientStock, apperr.KindInsufficientBalance:
		code = fiber.StatusConflict
	case apperr.KindGateway:
		code = fiber.StatusBadGateway
	default:
		if fe, ok := err.(*fiber.Error); ok {
			code = fe.Code
		}
	}

	return ctx.Status(code).JSON(ErrorResponse(apperr.MessageOf(err)))
}
