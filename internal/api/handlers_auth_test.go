package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthIsPublic(t *testing.T) {
	env := newTestApp(t)
	response, body := env.do(t, httptest.NewRequest(http.MethodGet, "/healthz", nil), "")
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", response.StatusCode, body)
	}
}

func TestAPIRoutesRequireBearerToken(t *testing.T) {
	env := newTestApp(t)

	paths := []struct {
		method string
		path   string
	}{
		{method: http.MethodGet, path: "/api/history_meals"},
		{method: http.MethodGet, path: "/api/users/me"},
		{method: http.MethodGet, path: "/api/meals/day"},
		{method: http.MethodGet, path: "/api/meals/export_history"},
		{method: http.MethodDelete, path: "/api/delete_meal/abc"},
		{method: http.MethodPost, path: "/api/analyse_meal"},
	}

	for _, route := range paths {
		response, body := env.do(t, httptest.NewRequest(route.method, route.path, nil), "")
		if response.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s %s expected 401, got %d", route.method, route.path, response.StatusCode)
		}
		if message := errorMessage(t, body); message != "unauthorized" {
			t.Fatalf("unexpected error message %q", message)
		}
	}

	request := httptest.NewRequest(http.MethodGet, "/api/history_meals", nil)
	request.Header.Set("Authorization", "Bearer forged.token.value")
	if response, _ := env.do(t, request, ""); response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for forged token, got %d", response.StatusCode)
	}
}

func TestUnknownAPIRouteIsJSON404(t *testing.T) {
	env := newTestApp(t)
	response, body := env.do(t, httptest.NewRequest(http.MethodGet, "/api/nope", nil), "u1")
	if response.StatusCode != http.StatusNotFound || errorMessage(t, body) != "not found" {
		t.Fatalf("expected JSON 404, got %d: %s", response.StatusCode, body)
	}
}
