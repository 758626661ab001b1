package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/GOMDJ/shorts-art/config"
	"github.com/GOMDJ/shorts-art/processor"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(processor.New(config.Config{}), nil)
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "healthy") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestRenderRejectsBadJSON(t *testing.T) {
	router := testRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/render", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestRenderRejectsMissingImageURL(t *testing.T) {
	router := testRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/render",
		strings.NewReader(`{"title":"Starry Night"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "image") {
		t.Errorf("error should name the missing field: %s", w.Body.String())
	}
}

func TestRenderAcceptsAndAssignsRunID(t *testing.T) {
	router := testRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/render",
		strings.NewReader(`{"title":"Starry Night","image_url":"https://127.0.0.1:1/unreachable.jpg"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body["run_id"] == "" {
		t.Error("no run ID assigned")
	}
}

func TestRunsEndpointsWithoutStore(t *testing.T) {
	router := testRouter()

	for _, path := range []string{"/api/runs", "/api/runs/some-id"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("GET %s = %d, want 503 without Redis", path, w.Code)
		}
	}
}
