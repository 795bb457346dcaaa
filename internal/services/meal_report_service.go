package services

import (
	"context"
	"errors"
	"time"

	"github.com/terraincognita07/nutriapp/internal/models"
	"gorm.io/gorm"
)

type MealRangeReader interface {
	ListByUserRange(ctx context.Context, userID string, start *time.Time, end *time.Time) ([]models.Meal, error)
	ListItemsForMeals(ctx context.Context, mealIDs []string) ([]models.MealItem, error)
}

type ProfileReader interface {
	FindByID(ctx context.Context, userID string) (models.User, error)
}

type ReportService struct {
	meals MealRangeReader
	users ProfileReader
	now   func() time.Time
}

type DaySummary struct {
	Date       string                   `json:"date"`
	Timezone   string                   `json:"timezone"`
	StartUTC   time.Time                `json:"start_utc"`
	EndUTC     time.Time                `json:"end_utc"`
	Meals      []models.Meal            `json:"meals"`
	MealsCount int                      `json:"meals_count"`
	Totals     MealTotals               `json:"totals"`
	Targets    *models.NutritionTargets `json:"targets"`
}

func NewReportService(meals MealRangeReader, users ProfileReader) *ReportService {
	return &ReportService{
		meals: meals,
		users: users,
		now:   time.Now,
	}
}

// DaySummary sums the meals logged on one user-local day. Targets stay nil
// when the user has not stored a profile yet.
func (service *ReportService) DaySummary(ctx context.Context, userID string, rawDate string, location *time.Location) (DaySummary, error) {
	if location == nil {
		location = time.UTC
	}
	window, err := DayRangeUTC(rawDate, location, service.now())
	if err != nil {
		return DaySummary{}, err
	}

	meals, err := service.meals.ListByUserRange(ctx, userID, &window.Start, &window.End)
	if err != nil {
		return DaySummary{}, storageUnavailable("list meals for day", err)
	}

	targets, err := service.currentTargets(ctx, userID)
	if err != nil {
		return DaySummary{}, err
	}

	return DaySummary{
		Date:       window.LocalDate,
		Timezone:   location.String(),
		StartUTC:   window.Start,
		EndUTC:     window.End,
		Meals:      meals,
		MealsCount: len(meals),
		Totals:     SumMeals(meals),
		Targets:    targets,
	}, nil
}

// TodayTotals is what the user already ate today, used to ground
// recommendations.
func (service *ReportService) TodayTotals(ctx context.Context, userID string, location *time.Location) (MealTotals, error) {
	summary, err := service.DaySummary(ctx, userID, "", location)
	if err != nil {
		return MealTotals{}, err
	}
	return summary.Totals, nil
}

func (service *ReportService) currentTargets(ctx context.Context, userID string) (*models.NutritionTargets, error) {
	user, err := service.users.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageUnavailable("load profile", err)
	}
	targets := user.NutritionTargets
	return &targets, nil
}
