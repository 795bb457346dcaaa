package api

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/nutriapp/internal/services"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// serviceError maps the service error taxonomy onto HTTP statuses. Details
// of server-side failures are logged, not returned.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidProfile),
		errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrInvalidRange),
		errors.Is(err, services.ErrInvalidExportFormat),
		errors.Is(err, services.ErrEmptyAnalysis):
		return apiError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrProfileNotFound),
		errors.Is(err, services.ErrMealNotFound):
		return apiError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrModelResponseParse):
		log.Printf("%s %s: %v", c.Method(), c.Path(), err)
		return apiError(c, fiber.StatusBadGateway, "could not read the meal analysis, try another photo")
	case errors.Is(err, services.ErrAnalysisFailed):
		log.Printf("%s %s: %v", c.Method(), c.Path(), err)
		return apiError(c, fiber.StatusBadGateway, "meal analysis is unavailable")
	case errors.Is(err, services.ErrPartialWrite):
		log.Printf("%s %s: %v", c.Method(), c.Path(), err)
		return apiError(c, fiber.StatusInternalServerError, "meal could not be saved completely")
	default:
		log.Printf("%s %s: %v", c.Method(), c.Path(), err)
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
}

// requestLocation reads the tz query parameter, defaulting to the server zone.
func (handler *Handler) requestLocation(c *fiber.Ctx) *time.Location {
	if name := strings.TrimSpace(c.Query("tz")); name != "" {
		return services.ResolveTimezone(name)
	}
	return handler.location
}

func setExportAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
}
