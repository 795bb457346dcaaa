// Package vision talks to chat models: a vision model estimates the foods on
// a meal photo and a text model writes a short recommendation.
package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/terraincognita07/nutriapp/internal/models"
	"github.com/terraincognita07/nutriapp/internal/services"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/prompts"
	"github.com/tmc/langchaingo/schema"
)

const (
	DefaultVisionModel = "gpt-4o"
	DefaultTextModel   = "gpt-4o-mini"

	analysisMaxTokens       = 800
	recommendationMaxTokens = 200
)

const analysisSystemPrompt = `You are a nutritionist who estimates meals from photos.
Identify every food that is clearly visible on the plate, estimate its weight in grams and its nutritional content.

Answer with JSON only, in exactly this shape:
{
  "alimentos": [
    {
      "nombre": "lowercase food name",
      "cantidad_estimada_gramos": 150,
      "calorias": 200,
      "proteinas_g": 10,
      "carbohidratos_g": 20,
      "grasas_g": 5
    }
  ]
}

Rules:
- Do not guess foods that are not clearly visible.
- Leave out drinks and condiments unless they are obvious.
- Use short lowercase names such as "grilled chicken" or "white rice".
- Use whole numbers.
- No comments or text outside the JSON.`

var fencedJSONPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

type Config struct {
	APIKey      string
	BaseURL     string
	VisionModel string
	TextModel   string
}

// Analyzer implements services.MealAnalyzer on top of langchaingo models.
type Analyzer struct {
	vision    llms.Model
	text      llms.Model
	recommend prompts.PromptTemplate
}

func New(vision llms.Model, text llms.Model) *Analyzer {
	if text == nil {
		text = vision
	}
	return &Analyzer{
		vision:    vision,
		text:      text,
		recommend: prompts.NewPromptTemplate(recommendationTemplate, recommendationInputs),
	}
}

func NewOpenAI(cfg Config) (*Analyzer, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("OPENAI_API_KEY is required")
	}

	visionModel, err := openai.New(openAIOptions(cfg, firstNonEmpty(cfg.VisionModel, DefaultVisionModel))...)
	if err != nil {
		return nil, fmt.Errorf("create vision model: %w", err)
	}
	textModel, err := openai.New(openAIOptions(cfg, firstNonEmpty(cfg.TextModel, DefaultTextModel))...)
	if err != nil {
		return nil, fmt.Errorf("create text model: %w", err)
	}
	return New(visionModel, textModel), nil
}

func openAIOptions(cfg Config, model string) []openai.Option {
	options := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(model),
	}
	if cfg.BaseURL != "" {
		options = append(options, openai.WithBaseURL(cfg.BaseURL))
	}
	return options
}

func (analyzer *Analyzer) AnalyzeImage(ctx context.Context, image []byte, contentType string) (models.MealAnalysis, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(image))
	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(analysisSystemPrompt)},
		},
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.ImageURLPart(dataURL)},
		},
	}

	response, err := analyzer.vision.GenerateContent(ctx, messages, llms.WithMaxTokens(analysisMaxTokens))
	if err != nil {
		return models.MealAnalysis{}, fmt.Errorf("vision model: %w", err)
	}
	if response == nil || len(response.Choices) == 0 {
		return models.MealAnalysis{}, fmt.Errorf("%w: no choices returned", services.ErrModelResponseParse)
	}
	return ParseAnalysis(response.Choices[0].Content)
}

// ParseAnalysis decodes a model reply, unwrapping a fenced ```json block
// when the model added one.
func ParseAnalysis(content string) (models.MealAnalysis, error) {
	payload := strings.TrimSpace(content)
	if matches := fencedJSONPattern.FindStringSubmatch(payload); matches != nil {
		payload = strings.TrimSpace(matches[1])
	}
	if payload == "" {
		return models.MealAnalysis{}, fmt.Errorf("%w: empty response", services.ErrModelResponseParse)
	}

	var analysis models.MealAnalysis
	if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
		return models.MealAnalysis{}, fmt.Errorf("%w: %v", services.ErrModelResponseParse, err)
	}
	if analysis.Foods == nil {
		analysis.Foods = make([]models.AnalyzedFood, 0)
	}
	return analysis, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
