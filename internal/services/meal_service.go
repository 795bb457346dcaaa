package services

import (
	"context"
	"errors"
	"log"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/terraincognita07/nutriapp/internal/models"
	"github.com/terraincognita07/nutriapp/internal/storage"
	"gorm.io/gorm"
)

const MaxRecommendationRunes = 300

type MealRepository interface {
	Create(ctx context.Context, meal *models.Meal) error
	CreateItems(ctx context.Context, items []models.MealItem) error
	ListByUser(ctx context.Context, userID string) ([]models.Meal, error)
	FindByIDForUser(ctx context.Context, userID string, mealID string) (models.Meal, error)
	ListItems(ctx context.Context, mealID string) ([]models.MealItem, error)
	DeleteByID(ctx context.Context, mealID string) error
	DeleteForUser(ctx context.Context, userID string, mealID string) (models.Meal, error)
}

type SaveMealInput struct {
	Image          []byte
	ContentType    string
	Analysis       models.MealAnalysis
	Recommendation string
}

type SavedMeal struct {
	MealID    string `json:"meal_id"`
	PublicURL string `json:"public_url"`
}

type MealDetail struct {
	Meal  models.Meal       `json:"meal"`
	Items []models.MealItem `json:"items"`
}

type MealService struct {
	meals  MealRepository
	images storage.ObjectStore
	now    func() time.Time
	newID  func() string
}

func NewMealService(meals MealRepository, images storage.ObjectStore) *MealService {
	return &MealService{
		meals:  meals,
		images: images,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// SaveAnalysis stores the photo, then the meal, then its items. The steps
// are not atomic: when items fail the meal row and the photo are removed
// again and a *PartialWriteError is returned.
func (service *MealService) SaveAnalysis(ctx context.Context, userID string, input SaveMealInput) (SavedMeal, error) {
	if len(input.Analysis.Foods) == 0 {
		return SavedMeal{}, ErrEmptyAnalysis
	}

	key := storage.MealImageKey(userID, input.Image, input.ContentType)
	reference, err := service.images.Put(ctx, key, input.Image, input.ContentType)
	if err != nil {
		return SavedMeal{}, storageUnavailable("store meal image", err)
	}

	totals := SumAnalysis(input.Analysis)
	meal := models.Meal{
		ID:             service.newID(),
		UserID:         userID,
		CreatedAt:      service.now().UTC(),
		ImageURL:       reference,
		ImageKey:       key,
		Recommendation: NormalizeRecommendation(input.Recommendation),
		TotalCalories:  totals.Calories,
		TotalProteinG:  totals.ProteinG,
		TotalCarbsG:    totals.CarbsG,
		TotalFatG:      totals.FatG,
	}

	if err := service.meals.Create(ctx, &meal); err != nil {
		service.discardImage(key)
		return SavedMeal{}, storageUnavailable("create meal", err)
	}

	items := service.buildItems(meal.ID, input.Analysis)
	if err := service.meals.CreateItems(ctx, items); err != nil {
		partial := &PartialWriteError{MealID: meal.ID, Cause: storageUnavailable("create meal items", err)}
		// The request context may already be cancelled; compensation must still run.
		if deleteErr := service.meals.DeleteByID(context.WithoutCancel(ctx), meal.ID); deleteErr != nil {
			partial.CompensationErr = deleteErr
			log.Printf("meal %s left without items: compensating delete failed: %v", meal.ID, deleteErr)
		}
		service.discardImage(key)
		return SavedMeal{}, partial
	}

	return SavedMeal{MealID: meal.ID, PublicURL: reference}, nil
}

func (service *MealService) History(ctx context.Context, userID string) ([]models.Meal, error) {
	meals, err := service.meals.ListByUser(ctx, userID)
	if err != nil {
		return nil, storageUnavailable("list meals", err)
	}
	return meals, nil
}

func (service *MealService) Detail(ctx context.Context, userID string, mealID string) (MealDetail, error) {
	meal, err := service.meals.FindByIDForUser(ctx, userID, mealID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return MealDetail{}, ErrMealNotFound
	}
	if err != nil {
		return MealDetail{}, storageUnavailable("load meal", err)
	}

	items, err := service.meals.ListItems(ctx, meal.ID)
	if err != nil {
		return MealDetail{}, storageUnavailable("list meal items", err)
	}
	return MealDetail{Meal: meal, Items: items}, nil
}

// Delete removes the meal and its items. The photo is removed best-effort.
func (service *MealService) Delete(ctx context.Context, userID string, mealID string) error {
	meal, err := service.meals.DeleteForUser(ctx, userID, mealID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrMealNotFound
	}
	if err != nil {
		return storageUnavailable("delete meal", err)
	}
	if meal.ImageKey != "" {
		service.discardImage(meal.ImageKey)
	}
	return nil
}

func (service *MealService) buildItems(mealID string, analysis models.MealAnalysis) []models.MealItem {
	items := make([]models.MealItem, 0, len(analysis.Foods))
	for _, food := range analysis.Foods {
		items = append(items, models.MealItem{
			ID:           service.newID(),
			MealID:       mealID,
			Name:         strings.ToLower(strings.TrimSpace(food.Name)),
			WeightGrams:  int(math.Round(food.WeightGrams.Float())),
			CaloriesKcal: food.Calories.Float(),
			ProteinG:     food.ProteinG.Float(),
			CarbsG:       food.CarbohydrateG.Float(),
			FatG:         food.FatG.Float(),
		})
	}
	return items
}

func (service *MealService) discardImage(key string) {
	if err := service.images.Delete(context.Background(), key); err != nil {
		log.Printf("meal image %s not removed: %v", key, err)
	}
}

// NormalizeRecommendation collapses whitespace to single spaces and caps the
// text at MaxRecommendationRunes.
func NormalizeRecommendation(text string) string {
	normalized := strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(normalized) <= MaxRecommendationRunes {
		return normalized
	}
	runes := []rune(normalized)
	return strings.TrimSpace(string(runes[:MaxRecommendationRunes]))
}
