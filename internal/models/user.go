package models

import (
	"strings"
	"time"
)

type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

type Objective int

const (
	ObjectiveGainMuscle Objective = 1
	ObjectiveLoseFat    Objective = 2
	ObjectiveMaintain   Objective = 3
)

// UserProfile is the input of the nutrition target calculator.
type UserProfile struct {
	Age           int
	HeightCM      int
	WeightKG      float64
	Gender        Gender
	ActivityLevel int
	Objective     Objective
}

type NutritionTargets struct {
	RequiredCalories int     `gorm:"column:required_calories;not null;default:0" json:"required_calories"`
	RequiredProteinG float64 `gorm:"column:required_protein_g;not null;default:0" json:"required_protein_g"`
	RequiredFatG     float64 `gorm:"column:required_fat_g;not null;default:0" json:"required_fat_g"`
	RequiredCarbsG   float64 `gorm:"column:required_carbs_g;not null;default:0" json:"required_carbs_g"`
}

// User is keyed by the identity provider's subject. Targets are derived
// from the profile columns and rewritten on every profile change.
type User struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"not null;default:''" json:"name"`
	Age           int       `gorm:"not null" json:"age"`
	HeightCM      int       `gorm:"column:height_cm;not null" json:"height_cm"`
	WeightKG      float64   `gorm:"column:weight_kg;not null" json:"weight_kg"`
	Gender        Gender    `gorm:"not null;default:unknown" json:"gender"`
	ActivityLevel int       `gorm:"column:activity_level;not null" json:"activity_level_id"`
	Objective     Objective `gorm:"column:objective;not null" json:"objective_id"`

	NutritionTargets `gorm:"embedded"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (user User) Profile() UserProfile {
	return UserProfile{
		Age:           user.Age,
		HeightCM:      user.HeightCM,
		WeightKG:      user.WeightKG,
		Gender:        user.Gender,
		ActivityLevel: user.ActivityLevel,
		Objective:     user.Objective,
	}
}

func (user *User) ApplyProfile(profile UserProfile) {
	user.Age = profile.Age
	user.HeightCM = profile.HeightCM
	user.WeightKG = profile.WeightKG
	user.Gender = profile.Gender
	user.ActivityLevel = profile.ActivityLevel
	user.Objective = profile.Objective
}

// ParseGender accepts the stored values plus single-letter aliases. Empty
// input means unknown; anything else is rejected.
func ParseGender(raw string) (Gender, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "male", "m":
		return GenderMale, true
	case "female", "f":
		return GenderFemale, true
	case "unknown", "":
		return GenderUnknown, true
	default:
		return GenderUnknown, false
	}
}
