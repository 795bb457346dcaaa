package vision

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/terraincognita07/nutriapp/internal/models"
	"github.com/terraincognita07/nutriapp/internal/services"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

type fakeModel struct {
	reply string
	err   error

	messages [][]llms.MessageContent
}

func (model *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	model.messages = append(model.messages, messages)
	if model.err != nil {
		return nil, model.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: model.reply}}}, nil
}

func (model *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, model, prompt, options...)
}

func TestParseAnalysisUnwrapsFencedJSON(t *testing.T) {
	content := "Here you go:\n```json\n{\"alimentos\":[{\"nombre\":\"arroz blanco\",\"cantidad_estimada_gramos\":150,\"calorias\":195,\"proteinas_g\":4,\"carbohidratos_g\":42,\"grasas_g\":0}]}\n```"

	analysis, err := ParseAnalysis(content)
	if err != nil {
		t.Fatalf("ParseAnalysis() unexpected error: %v", err)
	}
	if len(analysis.Foods) != 1 || analysis.Foods[0].Name != "arroz blanco" || analysis.Foods[0].Calories.Float() != 195 {
		t.Fatalf("unexpected analysis %+v", analysis)
	}
}

func TestParseAnalysisAcceptsBareJSON(t *testing.T) {
	analysis, err := ParseAnalysis(`  {"alimentos": []} `)
	if err != nil {
		t.Fatalf("ParseAnalysis() unexpected error: %v", err)
	}
	if analysis.Foods == nil || len(analysis.Foods) != 0 {
		t.Fatalf("expected empty non-nil foods, got %+v", analysis.Foods)
	}
}

func TestParseAnalysisRejectsNonJSON(t *testing.T) {
	for _, content := range []string{"", "   ", "I cannot see any food", "```json\n```"} {
		if _, err := ParseAnalysis(content); !errors.Is(err, services.ErrModelResponseParse) {
			t.Fatalf("ParseAnalysis(%q) expected ErrModelResponseParse, got %v", content, err)
		}
	}
}

func TestAnalyzeImageSendsPromptAndDataURL(t *testing.T) {
	model := &fakeModel{reply: `{"alimentos":[{"nombre":"huevo","cantidad_estimada_gramos":50,"calorias":70,"proteinas_g":6,"carbohidratos_g":0,"grasas_g":5}]}`}
	analyzer := New(model, nil)

	analysis, err := analyzer.AnalyzeImage(context.Background(), []byte{0xff, 0xd8}, "image/jpeg")
	if err != nil {
		t.Fatalf("AnalyzeImage() unexpected error: %v", err)
	}
	if len(analysis.Foods) != 1 || analysis.Foods[0].Name != "huevo" {
		t.Fatalf("unexpected analysis %+v", analysis)
	}

	if len(model.messages) != 1 || len(model.messages[0]) != 2 {
		t.Fatalf("expected system and user messages, got %+v", model.messages)
	}
	system := model.messages[0][0]
	if system.Role != schema.ChatMessageTypeSystem {
		t.Fatalf("expected system role first, got %s", system.Role)
	}
	image, ok := model.messages[0][1].Parts[0].(llms.ImageURLContent)
	if !ok {
		t.Fatalf("expected image part, got %T", model.messages[0][1].Parts[0])
	}
	if image.URL != "data:image/jpeg;base64,/9g=" {
		t.Fatalf("unexpected data url %q", image.URL)
	}
}

func TestAnalyzeImagePropagatesModelErrors(t *testing.T) {
	cause := errors.New("429 too many requests")
	analyzer := New(&fakeModel{err: cause}, nil)
	if _, err := analyzer.AnalyzeImage(context.Background(), nil, "image/png"); !errors.Is(err, cause) {
		t.Fatalf("expected model error, got %v", err)
	}
}

func TestRecommendRendersContextAndNormalizes(t *testing.T) {
	text := &fakeModel{reply: "Buen aporte de proteina.\n\nAgrega verduras."}
	analyzer := New(&fakeModel{}, text)

	profile := models.UserProfile{Age: 25, HeightCM: 175, WeightKG: 70, Gender: models.GenderMale, ActivityLevel: 2, Objective: models.ObjectiveGainMuscle}
	targets := models.NutritionTargets{RequiredCalories: 2777, RequiredProteinG: 126, RequiredFatG: 63, RequiredCarbsG: 426.52}
	reply, err := analyzer.Recommend(context.Background(), services.RecommendationRequest{
		Profile:    &profile,
		Targets:    &targets,
		EatenToday: services.MealTotals{Calories: 900},
		Meal:       models.MealAnalysis{Foods: []models.AnalyzedFood{{Name: "pollo", WeightGrams: 120}}},
		MealTotals: services.MealTotals{Calories: 198},
	})
	if err != nil {
		t.Fatalf("Recommend() unexpected error: %v", err)
	}
	if reply != "Buen aporte de proteina. Agrega verduras." {
		t.Fatalf("unexpected reply %q", reply)
	}

	prompt := text.messages[0][0].Parts[0].(llms.TextContent).Text
	for _, want := range []string{"2777 kcal", "gain muscle", "900 kcal", "pollo (120 g)", "300 characters"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("expected prompt to mention %q:\n%s", want, prompt)
		}
	}
}

func TestRecommendWithoutProfile(t *testing.T) {
	text := &fakeModel{reply: "ok"}
	analyzer := New(text, nil)

	if _, err := analyzer.Recommend(context.Background(), services.RecommendationRequest{}); err != nil {
		t.Fatalf("Recommend() unexpected error: %v", err)
	}
	prompt := text.messages[0][0].Parts[0].(llms.TextContent).Text
	if !strings.Contains(prompt, "has not shared a profile") || !strings.Contains(prompt, "nothing recognised") {
		t.Fatalf("expected generic prompt, got:\n%s", prompt)
	}
}
