package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/terraincognita07/nutriapp/internal/models"
	"gorm.io/gorm"
)

// MealAnalyzer is the boundary to the vision and text models.
type MealAnalyzer interface {
	AnalyzeImage(ctx context.Context, image []byte, contentType string) (models.MealAnalysis, error)
	Recommend(ctx context.Context, request RecommendationRequest) (string, error)
}

// RecommendationRequest is everything the text model sees about the user.
// Profile and Targets are nil until the user stores a profile.
type RecommendationRequest struct {
	Profile    *models.UserProfile
	Targets    *models.NutritionTargets
	EatenToday MealTotals
	Meal       models.MealAnalysis
	MealTotals MealTotals
}

type AnalysisResult struct {
	Analysis       models.MealAnalysis `json:"analysis"`
	Recommendation string              `json:"recommendation"`
}

type AnalysisService struct {
	analyzer MealAnalyzer
	users    ProfileReader
	reports  *ReportService
}

func NewAnalysisService(analyzer MealAnalyzer, users ProfileReader, reports *ReportService) *AnalysisService {
	return &AnalysisService{analyzer: analyzer, users: users, reports: reports}
}

// Analyze estimates the foods on the photo and, when possible, a short
// recommendation. A failed recommendation does not fail the analysis.
func (service *AnalysisService) Analyze(ctx context.Context, userID string, image []byte, contentType string, location *time.Location) (AnalysisResult, error) {
	analysis, err := service.analyzer.AnalyzeImage(ctx, image, contentType)
	if err != nil {
		if errors.Is(err, ErrModelResponseParse) {
			return AnalysisResult{}, err
		}
		return AnalysisResult{}, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}
	if analysis.Foods == nil {
		analysis.Foods = make([]models.AnalyzedFood, 0)
	}

	result := AnalysisResult{Analysis: analysis}
	if len(analysis.Foods) == 0 {
		return result, nil
	}

	request, err := service.recommendationRequest(ctx, userID, analysis, location)
	if err != nil {
		log.Printf("recommendation context for %s unavailable: %v", userID, err)
		return result, nil
	}
	recommendation, err := service.analyzer.Recommend(ctx, request)
	if err != nil {
		log.Printf("recommendation for %s failed: %v", userID, err)
		return result, nil
	}
	result.Recommendation = NormalizeRecommendation(recommendation)
	return result, nil
}

func (service *AnalysisService) recommendationRequest(ctx context.Context, userID string, analysis models.MealAnalysis, location *time.Location) (RecommendationRequest, error) {
	request := RecommendationRequest{Meal: analysis, MealTotals: SumAnalysis(analysis)}

	user, err := service.users.FindByID(ctx, userID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
	case err != nil:
		return RecommendationRequest{}, storageUnavailable("load profile", err)
	default:
		profile := user.Profile()
		targets := user.NutritionTargets
		request.Profile = &profile
		request.Targets = &targets
	}

	eaten, err := service.reports.TodayTotals(ctx, userID, location)
	if err != nil {
		return RecommendationRequest{}, err
	}
	request.EatenToday = eaten
	return request, nil
}
