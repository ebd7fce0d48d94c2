package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/apperr"
)

// Success writes the uniform success envelope.
func Success(c *fiber.Ctx, code int, message string, data interface{}) error {
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  "success",
		"message": message,
		"data":    data,
	})
}

// Error writes the uniform error envelope.
func Error(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  "error",
		"message": message,
	})
}

// ValidationError translates validator.v10 field errors into a per-field map.
func ValidationError(c *fiber.Ctx, err error) error {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return Error(c, fiber.StatusBadRequest, "Invalid input")
	}

	fields := make(map[string]string, len(ve))
	for _, fieldErr := range ve {
		fields[fieldErr.Field()] = fieldErr.Tag()
	}

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"code":    fiber.StatusBadRequest,
		"status":  "error",
		"message": "Validation failed",
		"errors":  fields,
	})
}

// AppError maps a service error onto an HTTP status. Storage failures are
// logged with their cause but surface only a generic message.
func AppError(c *fiber.Ctx, err error) error {
	kind := apperr.KindOf(err)

	switch kind {
	case apperr.KindValidation:
		return Error(c, fiber.StatusBadRequest, apperr.MessageOf(err))
	case apperr.KindPrecondition:
		return Error(c, fiber.StatusUnprocessableEntity, apperr.MessageOf(err))
	case apperr.KindNotFound:
		return Error(c, fiber.StatusNotFound, apperr.MessageOf(err))
	case apperr.KindConflict:
		return Error(c, fiber.StatusConflict, apperr.MessageOf(err))
	case apperr.KindPermission:
		return Error(c, fiber.StatusForbidden, apperr.MessageOf(err))
	default:
		log.Printf("❌ %s %s failed: %v\n", c.Method(), c.Path(), err)
		return Error(c, fiber.StatusInternalServerError, apperr.MessageOf(err))
	}
}
