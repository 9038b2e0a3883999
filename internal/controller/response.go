package controller

import (
	"errors"

	"kelly-ai-client/internal/entity"
	"kelly-ai-client/internal/service"

	"github.com/gofiber/fiber/v2"
)

// fail writes the error envelope with the status the error maps to.
func fail(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	body := fiber.Map{
		"success": false,
		"message": err.Error(),
	}

	var (
		validationErr *service.ValidationError
		authErr       *service.AuthError
	)
	switch {
	case errors.As(err, &validationErr):
		code = fiber.StatusBadRequest
	case errors.As(err, &authErr):
		code = fiber.StatusUnauthorized
		body["message"] = authErr.Message
		body["title"] = authErr.Title
	case errors.Is(err, service.ErrEmptyMessage):
		code = fiber.StatusBadRequest
	case errors.Is(err, entity.ErrConversationNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, service.ErrSendInFlight):
		code = fiber.StatusConflict
	case errors.Is(err, service.ErrConnection):
		code = fiber.StatusBadGateway
		body["message"] = service.ErrConnection.Error()
	case errors.Is(err, service.ErrStoreClosed):
		code = fiber.StatusServiceUnavailable
	}

	body["code"] = code
	return ctx.Status(code).JSON(body)
}

func ok(ctx *fiber.Ctx, message string, data interface{}) error {
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    fiber.StatusOK,
		"message": message,
		"data":    data,
	})
}

func badBody(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"code":    fiber.StatusBadRequest,
		"message": "Invalid request body",
	})
}
