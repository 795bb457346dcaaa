package services

import (
	"fmt"
	"math"

	"github.com/terraincognita07/nutriapp/internal/models"
)

const (
	kcalPerGramProtein = 4
	kcalPerGramFat     = 9
	kcalPerGramCarbs   = 4
)

var activityMultipliers = map[int]float64{
	1: 1.20,
	2: 1.375,
	3: 1.55,
	4: 1.725,
	5: 1.90,
}

type objectivePlan struct {
	calorieFactor float64
	proteinPerKG  float64
	fatPerKG      float64
}

var objectivePlans = map[models.Objective]objectivePlan{
	models.ObjectiveGainMuscle: {calorieFactor: 1.15, proteinPerKG: 1.8, fatPerKG: 0.9},
	models.ObjectiveLoseFat:    {calorieFactor: 0.80, proteinPerKG: 2.0, fatPerKG: 0.8},
	models.ObjectiveMaintain:   {calorieFactor: 1.00, proteinPerKG: 1.6, fatPerKG: 0.9},
}

// ComputeTargets derives daily calories and macros from a profile:
// Mifflin-St Jeor BMR, activity multiplier, objective adjustment, then
// protein and fat by bodyweight with carbohydrates filling the remainder.
func ComputeTargets(profile models.UserProfile) (models.NutritionTargets, error) {
	if err := ValidateProfile(profile); err != nil {
		return models.NutritionTargets{}, err
	}

	multiplier := activityMultipliers[profile.ActivityLevel]
	plan := objectivePlans[profile.Objective]

	totalCalories := BasalMetabolicRate(profile) * multiplier * plan.calorieFactor

	proteinG := profile.WeightKG * plan.proteinPerKG
	fatG := profile.WeightKG * plan.fatPerKG
	proteinKcal := proteinG * kcalPerGramProtein
	fatKcal := fatG * kcalPerGramFat

	// Protein and fat alone may exceed the budget; shrink both by the same
	// factor so their ratio holds and carbohydrates never go negative.
	if macroKcal := proteinKcal + fatKcal; macroKcal > totalCalories {
		scale := totalCalories / macroKcal
		proteinG *= scale
		fatG *= scale
		proteinKcal = proteinG * kcalPerGramProtein
		fatKcal = fatG * kcalPerGramFat
	}

	carbsKcal := math.Max(totalCalories-proteinKcal-fatKcal, 0)

	return models.NutritionTargets{
		RequiredCalories: int(math.Round(totalCalories)),
		RequiredProteinG: roundGrams(proteinG),
		RequiredFatG:     roundGrams(fatG),
		RequiredCarbsG:   roundGrams(carbsKcal / kcalPerGramCarbs),
	}, nil
}

func BasalMetabolicRate(profile models.UserProfile) float64 {
	bmr := 10*profile.WeightKG + 6.25*float64(profile.HeightCM) - 5*float64(profile.Age)
	switch profile.Gender {
	case models.GenderMale:
		bmr += 5
	case models.GenderFemale:
		bmr -= 161
	}
	return bmr
}

func ValidateProfile(profile models.UserProfile) error {
	if profile.Age <= 0 {
		return fmt.Errorf("%w: age must be positive, got %d", ErrInvalidProfile, profile.Age)
	}
	if profile.HeightCM <= 0 {
		return fmt.Errorf("%w: height_cm must be positive, got %d", ErrInvalidProfile, profile.HeightCM)
	}
	if profile.WeightKG <= 0 || math.IsNaN(profile.WeightKG) || math.IsInf(profile.WeightKG, 0) {
		return fmt.Errorf("%w: weight_kg must be positive, got %v", ErrInvalidProfile, profile.WeightKG)
	}
	switch profile.Gender {
	case models.GenderMale, models.GenderFemale, models.GenderUnknown:
	default:
		return fmt.Errorf("%w: unsupported gender %q", ErrInvalidProfile, profile.Gender)
	}
	if _, ok := activityMultipliers[profile.ActivityLevel]; !ok {
		return fmt.Errorf("%w: activity_level_id must be 1..5, got %d", ErrInvalidProfile, profile.ActivityLevel)
	}
	if _, ok := objectivePlans[profile.Objective]; !ok {
		return fmt.Errorf("%w: objective_id must be 1..3, got %d", ErrInvalidProfile, profile.Objective)
	}
	return nil
}

func roundGrams(value float64) float64 {
	return math.Round(value*100) / 100
}
