package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/nutriapp/internal/db"
	"github.com/terraincognita07/nutriapp/internal/models"
	"github.com/terraincognita07/nutriapp/internal/security"
	"github.com/terraincognita07/nutriapp/internal/services"
	"github.com/terraincognita07/nutriapp/internal/storage"
	"gorm.io/gorm"
)

var testJWTSecret = []byte("api-test-secret-key-0123456789")

type fakeMealAnalyzer struct {
	analysis       models.MealAnalysis
	err            error
	recommendation string
	calls          int
}

func (fake *fakeMealAnalyzer) AnalyzeImage(context.Context, []byte, string) (models.MealAnalysis, error) {
	fake.calls++
	if fake.err != nil {
		return models.MealAnalysis{}, fake.err
	}
	return fake.analysis, nil
}

func (fake *fakeMealAnalyzer) Recommend(context.Context, services.RecommendationRequest) (string, error) {
	return fake.recommendation, nil
}

type testApp struct {
	app      *fiber.App
	database *gorm.DB
	repos    *db.Repositories
	analyzer *fakeMealAnalyzer
	handler  *Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "nutriapp-api-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	store, err := storage.NewLocalStore(filepath.Join(t.TempDir(), "media"), "http://localhost/media")
	if err != nil {
		t.Fatalf("init local store: %v", err)
	}
	verifier, err := security.NewTokenVerifier(testJWTSecret, "")
	if err != nil {
		t.Fatalf("init verifier: %v", err)
	}

	repos := db.NewRepositories(database)
	analyzer := &fakeMealAnalyzer{
		analysis: models.MealAnalysis{Foods: []models.AnalyzedFood{
			{Name: "Arroz", WeightGrams: 150, Calories: 195, ProteinG: 4, CarbohydrateG: 42, FatG: 0.4},
		}},
		recommendation: "Agrega una porcion de verduras.",
	}
	reports := services.NewReportService(repos.Meals, repos.Users)
	handler, err := NewHandler(Dependencies{
		Tokens:   verifier,
		Profiles: services.NewProfileService(repos.Users),
		Meals:    services.NewMealService(repos.Meals, store),
		Reports:  reports,
		Analysis: services.NewAnalysisService(analyzer, repos.Users, reports),
		Location: time.UTC,
	})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app, handler)
	return &testApp{app: app, database: database, repos: repos, analyzer: analyzer, handler: handler}
}

func bearerFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := security.IssueToken(testJWTSecret, userID, "", time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return "Bearer " + token
}

func (env *testApp) do(t *testing.T, request *http.Request, userID string) (*http.Response, []byte) {
	t.Helper()
	if userID != "" {
		request.Header.Set(fiber.HeaderAuthorization, bearerFor(t, userID))
	}

	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", request.Method, request.URL.Path, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return response, body
}

func (env *testApp) doJSON(t *testing.T, method string, path string, payload any, userID string) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}
	request := httptest.NewRequest(method, path, body)
	if payload != nil {
		request.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return env.do(t, request, userID)
}

type multipartFile struct {
	contentType string
	data        []byte
}

func newMultipartRequest(t *testing.T, path string, file *multipartFile, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if file != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="image"; filename="meal.jpg"`)
		header.Set("Content-Type", file.contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := part.Write(file.data); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("write field %s: %v", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	request := httptest.NewRequest(http.MethodPost, path, &body)
	request.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	return request
}

func decodeJSON(t *testing.T, body []byte, target any) {
	t.Helper()
	if err := json.Unmarshal(body, target); err != nil {
		t.Fatalf("decode json %q: %v", body, err)
	}
}

func errorMessage(t *testing.T, body []byte) string {
	t.Helper()
	payload := map[string]string{}
	decodeJSON(t, body, &payload)
	return payload["error"]
}

func seedMeal(t *testing.T, env *testApp, meal models.Meal, items ...models.MealItem) {
	t.Helper()
	ctx := context.Background()
	if err := env.repos.Meals.Create(ctx, &meal); err != nil {
		t.Fatalf("seed meal: %v", err)
	}
	for index := range items {
		items[index].MealID = meal.ID
	}
	if err := env.repos.Meals.CreateItems(ctx, items); err != nil {
		t.Fatalf("seed meal items: %v", err)
	}
}
