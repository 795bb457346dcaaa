package vision

import (
	"context"
	"fmt"
	"strings"

	"github.com/terraincognita07/nutriapp/internal/models"
	"github.com/terraincognita07/nutriapp/internal/services"
	"github.com/tmc/langchaingo/llms"
)

var recommendationInputs = []string{"Profile", "Targets", "EatenToday", "Meal", "MealTotals", "MaxChars"}

const recommendationTemplate = `You are a friendly nutritionist. Give one short recommendation about the meal below.
{{if .Profile}}
User: {{.Profile}}.
Daily targets: {{.Targets}}.
{{else}}
The user has not shared a profile; give general advice.
{{end}}
Already eaten today: {{.EatenToday}}.
This meal: {{.Meal}}.
Meal totals: {{.MealTotals}}.

Reply in plain text, at most {{.MaxChars}} characters, in a single line, no lists or markdown.`

func (analyzer *Analyzer) Recommend(ctx context.Context, request services.RecommendationRequest) (string, error) {
	prompt, err := analyzer.recommend.Format(recommendationValues(request))
	if err != nil {
		return "", fmt.Errorf("render recommendation prompt: %w", err)
	}

	reply, err := llms.GenerateFromSinglePrompt(ctx, analyzer.text, prompt,
		llms.WithMaxTokens(recommendationMaxTokens),
		llms.WithTemperature(0.4),
	)
	if err != nil {
		return "", fmt.Errorf("text model: %w", err)
	}
	return services.NormalizeRecommendation(reply), nil
}

func recommendationValues(request services.RecommendationRequest) map[string]any {
	values := map[string]any{
		"Profile":    "",
		"Targets":    "",
		"EatenToday": describeTotals(request.EatenToday),
		"Meal":       describeFoods(request.Meal),
		"MealTotals": describeTotals(request.MealTotals),
		"MaxChars":   services.MaxRecommendationRunes,
	}
	if request.Profile != nil {
		values["Profile"] = describeProfile(*request.Profile)
	}
	if request.Targets != nil {
		values["Targets"] = describeTargets(*request.Targets)
	}
	return values
}

func describeProfile(profile models.UserProfile) string {
	objective := map[models.Objective]string{
		models.ObjectiveGainMuscle: "gain muscle",
		models.ObjectiveLoseFat:    "lose fat",
		models.ObjectiveMaintain:   "maintain weight",
	}[profile.Objective]
	return fmt.Sprintf("%d years, %d cm, %.1f kg, %s, activity level %d of 5, goal: %s",
		profile.Age, profile.HeightCM, profile.WeightKG, profile.Gender, profile.ActivityLevel, objective)
}

func describeTargets(targets models.NutritionTargets) string {
	return fmt.Sprintf("%d kcal, %.0f g protein, %.0f g carbs, %.0f g fat",
		targets.RequiredCalories, targets.RequiredProteinG, targets.RequiredCarbsG, targets.RequiredFatG)
}

func describeTotals(totals services.MealTotals) string {
	return fmt.Sprintf("%.0f kcal, %.0f g protein, %.0f g carbs, %.0f g fat",
		totals.Calories, totals.ProteinG, totals.CarbsG, totals.FatG)
}

func describeFoods(analysis models.MealAnalysis) string {
	parts := make([]string, 0, len(analysis.Foods))
	for _, food := range analysis.Foods {
		parts = append(parts, fmt.Sprintf("%s (%.0f g)", food.Name, food.WeightGrams.Float()))
	}
	if len(parts) == 0 {
		return "nothing recognised"
	}
	return strings.Join(parts, ", ")
}
