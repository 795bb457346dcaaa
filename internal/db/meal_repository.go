package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/nutriapp/internal/models"
	"gorm.io/gorm"
)

// ErrMealNotFound matches gorm.ErrRecordNotFound under errors.Is.
var ErrMealNotFound = fmt.Errorf("meal: %w", gorm.ErrRecordNotFound)

const mealItemsBatchSize = 100

type MealRepository struct {
	database *gorm.DB
}

func NewMealRepository(database *gorm.DB) *MealRepository {
	return &MealRepository{database: database}
}

func (repo *MealRepository) Create(ctx context.Context, meal *models.Meal) error {
	return repo.database.WithContext(ctx).Create(meal).Error
}

func (repo *MealRepository) CreateItems(ctx context.Context, items []models.MealItem) error {
	if len(items) == 0 {
		return nil
	}
	return repo.database.WithContext(ctx).CreateInBatches(items, mealItemsBatchSize).Error
}

func (repo *MealRepository) ListByUser(ctx context.Context, userID string) ([]models.Meal, error) {
	meals := make([]models.Meal, 0)
	if err := repo.database.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&meals).Error; err != nil {
		return nil, err
	}
	return meals, nil
}

// ListByUserRange returns meals with start <= created_at < end in ascending
// order. A nil bound leaves that side open.
func (repo *MealRepository) ListByUserRange(ctx context.Context, userID string, start *time.Time, end *time.Time) ([]models.Meal, error) {
	query := repo.database.WithContext(ctx).Model(&models.Meal{}).Where("user_id = ?", userID)
	if start != nil {
		query = query.Where("created_at >= ?", start.UTC())
	}
	if end != nil {
		query = query.Where("created_at < ?", end.UTC())
	}

	meals := make([]models.Meal, 0)
	if err := query.Order("created_at ASC, id ASC").Find(&meals).Error; err != nil {
		return nil, err
	}
	return meals, nil
}

func (repo *MealRepository) FindByIDForUser(ctx context.Context, userID string, mealID string) (models.Meal, error) {
	var meal models.Meal
	err := repo.database.WithContext(ctx).Where("id = ? AND user_id = ?", mealID, userID).First(&meal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Meal{}, ErrMealNotFound
	}
	if err != nil {
		return models.Meal{}, err
	}
	return meal, nil
}

func (repo *MealRepository) ListItems(ctx context.Context, mealID string) ([]models.MealItem, error) {
	items := make([]models.MealItem, 0)
	if err := repo.database.WithContext(ctx).Where("meal_id = ?", mealID).Order("name ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (repo *MealRepository) ListItemsForMeals(ctx context.Context, mealIDs []string) ([]models.MealItem, error) {
	items := make([]models.MealItem, 0)
	if len(mealIDs) == 0 {
		return items, nil
	}
	if err := repo.database.WithContext(ctx).Where("meal_id IN ?", mealIDs).Order("meal_id ASC, name ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteByID removes a meal and its items. Items are deleted explicitly as
// well so the cascade holds even where foreign keys are not enforced.
func (repo *MealRepository) DeleteByID(ctx context.Context, mealID string) error {
	return repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meal_id = ?", mealID).Delete(&models.MealItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", mealID).Delete(&models.Meal{}).Error
	})
}

func (repo *MealRepository) DeleteForUser(ctx context.Context, userID string, mealID string) (models.Meal, error) {
	var deleted models.Meal
	err := repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", mealID, userID).Limit(1).Find(&deleted)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrMealNotFound
		}
		if err := tx.Where("meal_id = ?", mealID).Delete(&models.MealItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND user_id = ?", mealID, userID).Delete(&models.Meal{}).Error
	})
	if err != nil {
		return models.Meal{}, err
	}
	return deleted, nil
}
