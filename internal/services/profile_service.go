package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/terraincognita07/nutriapp/internal/models"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByID(ctx context.Context, userID string) (models.User, error)
	Upsert(ctx context.Context, user *models.User) error
	ListAll(ctx context.Context) ([]models.User, error)
	UpdateTargets(ctx context.Context, userID string, targets models.NutritionTargets) error
}

type ProfileInput struct {
	Name          string  `json:"name"`
	Age           int     `json:"age"`
	HeightCM      int     `json:"height_cm"`
	WeightKG      float64 `json:"weight_kg"`
	Gender        string  `json:"gender"`
	ActivityLevel int     `json:"activity_level_id"`
	Objective     int     `json:"objective_id"`
}

// ProfilePatch carries only the fields the client sent.
type ProfilePatch struct {
	Name          *string  `json:"name"`
	Age           *int     `json:"age"`
	HeightCM      *int     `json:"height_cm"`
	WeightKG      *float64 `json:"weight_kg"`
	Gender        *string  `json:"gender"`
	ActivityLevel *int     `json:"activity_level_id"`
	Objective     *int     `json:"objective_id"`
}

type RecomputeReport struct {
	Updated int
	Invalid []string
}

type ProfileService struct {
	users UserRepository
}

func NewProfileService(users UserRepository) *ProfileService {
	return &ProfileService{users: users}
}

// SaveProfile creates or replaces the caller's profile and stores freshly
// computed targets with it.
func (service *ProfileService) SaveProfile(ctx context.Context, userID string, input ProfileInput) (models.User, error) {
	gender, ok := models.ParseGender(input.Gender)
	if !ok {
		return models.User{}, fmt.Errorf("%w: unsupported gender %q", ErrInvalidProfile, input.Gender)
	}

	user := models.User{ID: userID, Name: strings.TrimSpace(input.Name)}
	user.ApplyProfile(models.UserProfile{
		Age:           input.Age,
		HeightCM:      input.HeightCM,
		WeightKG:      input.WeightKG,
		Gender:        gender,
		ActivityLevel: input.ActivityLevel,
		Objective:     models.Objective(input.Objective),
	})
	return service.persist(ctx, user)
}

// UpdateProfile merges patch over the stored profile, re-validates the
// result and recomputes targets.
func (service *ProfileService) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (models.User, error) {
	user, err := service.GetProfile(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	profile := user.Profile()
	if patch.Name != nil {
		user.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Age != nil {
		profile.Age = *patch.Age
	}
	if patch.HeightCM != nil {
		profile.HeightCM = *patch.HeightCM
	}
	if patch.WeightKG != nil {
		profile.WeightKG = *patch.WeightKG
	}
	if patch.Gender != nil {
		gender, ok := models.ParseGender(*patch.Gender)
		if !ok {
			return models.User{}, fmt.Errorf("%w: unsupported gender %q", ErrInvalidProfile, *patch.Gender)
		}
		profile.Gender = gender
	}
	if patch.ActivityLevel != nil {
		profile.ActivityLevel = *patch.ActivityLevel
	}
	if patch.Objective != nil {
		profile.Objective = models.Objective(*patch.Objective)
	}
	user.ApplyProfile(profile)

	return service.persist(ctx, user)
}

func (service *ProfileService) GetProfile(ctx context.Context, userID string) (models.User, error) {
	user, err := service.users.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrProfileNotFound
	}
	if err != nil {
		return models.User{}, storageUnavailable("load profile", err)
	}
	return user, nil
}

// RecomputeAllTargets rewrites targets for every stored profile. Profiles
// that no longer validate are reported and skipped.
func (service *ProfileService) RecomputeAllTargets(ctx context.Context) (RecomputeReport, error) {
	users, err := service.users.ListAll(ctx)
	if err != nil {
		return RecomputeReport{}, storageUnavailable("list profiles", err)
	}

	report := RecomputeReport{Invalid: make([]string, 0)}
	for _, user := range users {
		targets, err := ComputeTargets(user.Profile())
		if err != nil {
			report.Invalid = append(report.Invalid, user.ID)
			continue
		}
		if err := service.users.UpdateTargets(ctx, user.ID, targets); err != nil {
			return report, storageUnavailable("update targets", err)
		}
		report.Updated++
	}
	return report, nil
}

func (service *ProfileService) persist(ctx context.Context, user models.User) (models.User, error) {
	targets, err := ComputeTargets(user.Profile())
	if err != nil {
		return models.User{}, err
	}
	user.NutritionTargets = targets

	if err := service.users.Upsert(ctx, &user); err != nil {
		return models.User{}, storageUnavailable("save profile", err)
	}
	return user, nil
}
