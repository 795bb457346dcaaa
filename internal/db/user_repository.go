package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/terraincognita07/nutriapp/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrUserNotFound matches gorm.ErrRecordNotFound under errors.Is.
var ErrUserNotFound = fmt.Errorf("user: %w", gorm.ErrRecordNotFound)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) FindByID(ctx context.Context, userID string) (models.User, error) {
	var user models.User
	err := repo.database.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Upsert writes the full row, replacing profile and target columns of an
// existing user while keeping its original created_at. user is reloaded
// from the stored row.
func (repo *UserRepository) Upsert(ctx context.Context, user *models.User) error {
	return repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertUser(tx, user); err != nil {
			return err
		}
		return tx.Where("id = ?", user.ID).First(user).Error
	})
}

func upsertUser(tx *gorm.DB, user *models.User) error {
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name",
			"age",
			"height_cm",
			"weight_kg",
			"gender",
			"activity_level",
			"objective",
			"required_calories",
			"required_protein_g",
			"required_fat_g",
			"required_carbs_g",
			"updated_at",
		}),
	}).Create(user).Error
}

func (repo *UserRepository) ListAll(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	if err := repo.database.WithContext(ctx).Order("created_at ASC, id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (repo *UserRepository) UpdateTargets(ctx context.Context, userID string, targets models.NutritionTargets) error {
	result := repo.database.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
		"required_calories":  targets.RequiredCalories,
		"required_protein_g": targets.RequiredProteinG,
		"required_fat_g":     targets.RequiredFatG,
		"required_carbs_g":   targets.RequiredCarbsG,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
