package handlers

import (
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nasagas/website/internal/application/services"
	"github.com/nasagas/website/internal/infrastructure/observability/logging"
	"github.com/nasagas/website/internal/infrastructure/observability/performance"
)

func setupGalleryRouter(t *testing.T, dir string) (*gin.Engine, *performance.Tracker) {
	t.Helper()
	logger := logging.NewDiscardLogger()
	tracker := performance.NewTracker(nil)
	svc := services.NewGalleryService(services.GalleryConfig{
		Dir:            dir,
		PublicPath:     "/assets/images/",
		ThumbPath:      "/api/gallery/thumbs/",
		MaxImages:      40,
		RotateInterval: 5 * time.Second,
		ThumbWidth:     32,
		ThumbQuality:   80,
	}, logger)
	h := NewGalleryHandlers(svc, logger, tracker)

	r := gin.New()
	r.GET("/api/gallery", h.GetManifest)
	r.GET("/api/gallery/thumbs/:name", h.GetThumbnail)
	return r, tracker
}

func writeImage(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 64, 64))); err != nil {
		t.Fatal(err)
	}
}

func TestGetManifest(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "boiler.png"))
	r, tracker := setupGalleryRouter(t, dir)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/gallery", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}

	var manifest services.Manifest
	if err := json.Unmarshal(w.Body.Bytes(), &manifest); err != nil {
		t.Fatal(err)
	}
	if len(manifest.Images) != 1 || manifest.Images[0].Src != "/assets/images/boiler.png" {
		t.Errorf("unexpected manifest: %+v", manifest)
	}
	if manifest.RotateIntervalMs != 5000 {
		t.Errorf("unexpected interval %d", manifest.RotateIntervalMs)
	}
	if len(tracker.GetMetrics("gallery_manifest")) != 1 {
		t.Error("expected a manifest marker")
	}
}

func TestGetManifest_EmptyGallery(t *testing.T) {
	r, _ := setupGalleryRouter(t, filepath.Join(t.TempDir(), "none"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/gallery", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if images, ok := body["images"].([]any); !ok || len(images) != 0 {
		t.Errorf("expected empty images array, got %v", body["images"])
	}
}

func TestGetThumbnail(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "boiler.png"))
	r, _ := setupGalleryRouter(t, dir)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/gallery/thumbs/boiler.png", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/webp" {
		t.Errorf("unexpected content type %q", ct)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/gallery/thumbs/other.png", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown image, got %d", w.Code)
	}
}

func TestGetHealth(t *testing.T) {
	tracker := performance.NewTracker(nil)
	tracker.StartOperation("contact_request", "logging").Complete()
	h := NewHealthHandlers("logging", "memory", time.Now().Add(-time.Minute), logging.NewDiscardLogger(), tracker)

	r := gin.New()
	r.GET("/api/health", h.GetHealth)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	var body struct {
		Status         string                         `json:"status"`
		Provider       string                         `json:"provider"`
		RateLimitStore string                         `json:"rateLimitStore"`
		Uptime         string                         `json:"uptime"`
		Operations     []performance.OperationSummary `json:"operations"`
		LogLevels      map[string]string              `json:"logLevels"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" || body.Provider != "logging" || body.RateLimitStore != "memory" {
		t.Errorf("unexpected health: %+v", body)
	}
	if body.Uptime == "" {
		t.Error("expected uptime")
	}
	if len(body.Operations) != 1 || body.Operations[0].Operation != "contact_request" || body.Operations[0].Count != 1 {
		t.Errorf("unexpected operations: %+v", body.Operations)
	}
	if _, ok := body.LogLevels["contact"]; !ok || len(body.LogLevels) != 8 {
		t.Errorf("expected a level for every channel, got %v", body.LogLevels)
	}
}
