package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) GetMealHistory(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	meals, err := handler.meals.History(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(meals)
}

func (handler *Handler) GetMealDetail(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	detail, err := handler.meals.Detail(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(detail)
}

func (handler *Handler) DeleteMeal(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := handler.meals.Delete(c.UserContext(), userID, c.Params("id")); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) GetDaySummary(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	summary, err := handler.reports.DaySummary(c.UserContext(), userID, c.Query("date"), handler.requestLocation(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(summary)
}
