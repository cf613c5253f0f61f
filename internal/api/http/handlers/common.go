package handlers

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/event-service/pkg/util"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// parseBody decodes the JSON body into dest and runs struct validation.
func parseBody(c *fiber.Ctx, validate *validator.Validate, dest any) error {
	if err := c.BodyParser(dest); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := validate.Struct(dest); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			details := make(map[string]any, len(invalid))
			for _, fieldErr := range invalid {
				details[fieldErr.Field()] = fieldErr.Tag()
			}
			return apperrors.NewValidationError("validation failed", details)
		}
		return apperrors.NewValidationError("validation failed", nil)
	}
	return nil
}

// pagination reads limit/offset query params with sane bounds.
func pagination(c *fiber.Ctx) (limit, offset int) {
	limit = defaultPageSize
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}
