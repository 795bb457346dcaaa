package models

import "time"

type Meal struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	UserID         string    `gorm:"not null;index:idx_meals_user_created,priority:1" json:"user_id"`
	CreatedAt      time.Time `gorm:"not null;index:idx_meals_user_created,priority:2" json:"created_at"`
	ImageURL       string    `gorm:"column:image_url;not null;default:''" json:"image_url"`
	ImageKey       string    `gorm:"column:image_key;not null;default:''" json:"-"`
	Recommendation string    `gorm:"not null;default:''" json:"recommendation"`
	TotalCalories  float64   `gorm:"not null;default:0" json:"total_calories"`
	TotalProteinG  float64   `gorm:"column:total_protein_g;not null;default:0" json:"total_protein_g"`
	TotalCarbsG    float64   `gorm:"column:total_carbs_g;not null;default:0" json:"total_carbs_g"`
	TotalFatG      float64   `gorm:"column:total_fat_g;not null;default:0" json:"total_fat_g"`
}

type MealItem struct {
	ID           string  `gorm:"primaryKey" json:"id"`
	MealID       string  `gorm:"not null;index" json:"meal_id"`
	Name         string  `gorm:"not null" json:"name"`
	WeightGrams  int     `gorm:"column:weight_grams;not null;default:0" json:"weight_grams"`
	CaloriesKcal float64 `gorm:"column:calories_kcal;not null;default:0" json:"calories_kcal"`
	ProteinG     float64 `gorm:"column:protein_g;not null;default:0" json:"protein_g"`
	CarbsG       float64 `gorm:"column:carbs_g;not null;default:0" json:"carbs_g"`
	FatG         float64 `gorm:"column:fat_g;not null;default:0" json:"fat_g"`
}
