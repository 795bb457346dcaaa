package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api", handler.AuthRequired)

	users := api.Group("/users")
	users.Post("", handler.CreateUser)
	users.Put("/edit_profile", handler.EditProfile)
	users.Get("/me", handler.GetCurrentUser)

	api.Post("/analyse_meal", handler.AnalyseMeal)
	api.Post("/save_analysis", handler.SaveAnalysis)

	api.Get("/history_meals", handler.GetMealHistory)
	api.Get("/history_meals/:id", handler.GetMealDetail)
	api.Delete("/delete_meal/:id", handler.DeleteMeal)

	meals := api.Group("/meals")
	meals.Get("/day", handler.GetDaySummary)
	meals.Get("/export_history", handler.ExportHistory)

	app.Use(handler.NotFound)
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (handler *Handler) NotFound(c *fiber.Ctx) error {
	return apiError(c, fiber.StatusNotFound, "not found")
}
