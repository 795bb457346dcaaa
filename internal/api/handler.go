package api

import (
	"errors"
	"time"

	"github.com/terraincognita07/nutriapp/internal/services"
)

const (
	contextUserIDKey = "current_user_id"

	defaultMaxImageBytes = 8 << 20

	analysisLimit  = 30
	analysisWindow = time.Hour
)

type TokenVerifier interface {
	Verify(authorization string) (string, error)
}

// Dependencies are the collaborators the HTTP surface needs. All of them
// are required.
type Dependencies struct {
	Tokens   TokenVerifier
	Profiles *services.ProfileService
	Meals    *services.MealService
	Reports  *services.ReportService
	Analysis *services.AnalysisService
	Location *time.Location
}

type Handler struct {
	tokens        TokenVerifier
	profiles      *services.ProfileService
	meals         *services.MealService
	reports       *services.ReportService
	analysis      *services.AnalysisService
	location      *time.Location
	maxImageBytes int
	analysisQuota *analysisQuota
}

func NewHandler(deps Dependencies) (*Handler, error) {
	switch {
	case deps.Tokens == nil:
		return nil, errors.New("token verifier is required")
	case deps.Profiles == nil:
		return nil, errors.New("profile service is required")
	case deps.Meals == nil:
		return nil, errors.New("meal service is required")
	case deps.Reports == nil:
		return nil, errors.New("report service is required")
	case deps.Analysis == nil:
		return nil, errors.New("analysis service is required")
	}

	location := deps.Location
	if location == nil {
		location = time.UTC
	}

	return &Handler{
		tokens:        deps.Tokens,
		profiles:      deps.Profiles,
		meals:         deps.Meals,
		reports:       deps.Reports,
		analysis:      deps.Analysis,
		location:      location,
		maxImageBytes: defaultMaxImageBytes,
		analysisQuota: newAnalysisQuota(analysisLimit, analysisWindow),
	}, nil
}
