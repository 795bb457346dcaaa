package services

import (
	"math"

	"github.com/terraincognita07/nutriapp/internal/models"
)

type MealTotals struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

func (totals *MealTotals) add(calories, protein, carbs, fat float64) {
	totals.Calories += safeFloat(calories)
	totals.ProteinG += safeFloat(protein)
	totals.CarbsG += safeFloat(carbs)
	totals.FatG += safeFloat(fat)
}

func (totals MealTotals) Rounded() MealTotals {
	return MealTotals{
		Calories: roundGrams(totals.Calories),
		ProteinG: roundGrams(totals.ProteinG),
		CarbsG:   roundGrams(totals.CarbsG),
		FatG:     roundGrams(totals.FatG),
	}
}

// SumMeals adds the stored totals of each meal. Non-finite values count as 0.
func SumMeals(meals []models.Meal) MealTotals {
	totals := MealTotals{}
	for _, meal := range meals {
		totals.add(meal.TotalCalories, meal.TotalProteinG, meal.TotalCarbsG, meal.TotalFatG)
	}
	return totals.Rounded()
}

func SumAnalysis(analysis models.MealAnalysis) MealTotals {
	totals := MealTotals{}
	for _, food := range analysis.Foods {
		totals.add(food.Calories.Float(), food.ProteinG.Float(), food.CarbohydrateG.Float(), food.FatG.Float())
	}
	return totals.Rounded()
}

func safeFloat(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}
