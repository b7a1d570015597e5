package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"movie-recommender/internal/catalog"
	"movie-recommender/internal/recommend"
)

type stubLoader struct {
	cat *catalog.Catalog
	err error
}

func (s stubLoader) Load(ctx context.Context) (*catalog.Catalog, error) {
	return s.cat, s.err
}

type firstSource struct{}

func (firstSource) Intn(n int) int { return 0 }

func testCatalog() *catalog.Catalog {
	movies := []catalog.Movie{
		{ID: 1, Title: "A", Genres: []string{"Drama"}},
		{ID: 2, Title: "B", Genres: []string{"Drama"}},
		{ID: 3, Title: "C", Genres: []string{"Drama", "Romance"}},
		{ID: 4, Title: "D", Genres: []string{"Drama"}},
		{ID: 5, Title: "E", Genres: []string{"Noir"}},
	}
	ratings := []catalog.Rating{
		{UserID: 1, MovieID: 2, Score: 3},
		{UserID: 2, MovieID: 2, Score: 4},
	}
	return catalog.New(movies, ratings, "Adult")
}

func newTestServer(loader CatalogLoader) *Server {
	return New(loader, recommend.NewSelector(firstSource{}), Options{DefaultK: 2})
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleGenres(t *testing.T) {
	s := newTestServer(stubLoader{cat: testCatalog()})

	rec := get(t, s, "/api/genres")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp genresResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	want := []string{"Drama", "Noir", "Romance"}
	if strings.Join(resp.Genres, ",") != strings.Join(want, ",") {
		t.Errorf("genres = %v, want %v", resp.Genres, want)
	}
}

func TestHandleGenresCatalogUnavailable(t *testing.T) {
	s := newTestServer(stubLoader{err: errors.New("network down")})

	rec := get(t, s, "/api/genres")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestHandleRecommendations(t *testing.T) {
	s := newTestServer(stubLoader{cat: testCatalog()})

	rec := get(t, s, "/api/recommendations?genre=Drama")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var resp recommendationsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	// Anchor is A; B and D share its vector, so they come first in subset order.
	want := []recommendationItem{
		{Title: "B", Rating: "3.50"},
		{Title: "D", Rating: recommend.NoRating},
	}
	if len(resp.Recommendations) != len(want) {
		t.Fatalf("got %d recommendations, want %d", len(resp.Recommendations), len(want))
	}
	for i, w := range want {
		if resp.Recommendations[i] != w {
			t.Errorf("recommendations[%d] = %+v, want %+v", i, resp.Recommendations[i], w)
		}
	}
	if resp.Genre != "Drama" {
		t.Errorf("genre = %q, want Drama", resp.Genre)
	}
	if resp.RequestID == "" {
		t.Error("request_id is empty")
	}
	if resp.Message != "" {
		t.Errorf("message = %q, want empty", resp.Message)
	}
}

func TestHandleRecommendationsEmpty(t *testing.T) {
	s := newTestServer(stubLoader{cat: testCatalog()})

	rec := get(t, s, "/api/recommendations?genre=Noir&k=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp recommendationsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(resp.Recommendations) != 0 {
		t.Errorf("got %d recommendations, want 0", len(resp.Recommendations))
	}
	if resp.Message != noRecommendationsMessage {
		t.Errorf("message = %q, want %q", resp.Message, noRecommendationsMessage)
	}
}

func TestHandleRecommendationsBadRequest(t *testing.T) {
	s := newTestServer(stubLoader{cat: testCatalog()})

	tests := []struct {
		name   string
		target string
	}{
		{"missing genre", "/api/recommendations"},
		{"unknown genre", "/api/recommendations?genre=Western"},
		{"excluded genre", "/api/recommendations?genre=Adult"},
		{"non-numeric k", "/api/recommendations?genre=Drama&k=five"},
		{"zero k", "/api/recommendations?genre=Drama&k=0"},
		{"negative k", "/api/recommendations?genre=Drama&k=-3"},
		{"k too large", fmt.Sprintf("/api/recommendations?genre=Drama&k=%d", MaxK+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, tt.target)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}

			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if resp.Error == "" {
				t.Error("error message is empty")
			}
		})
	}
}

func TestHandleRecommendationsMaxK(t *testing.T) {
	s := newTestServer(stubLoader{cat: testCatalog()})

	// Drama has only four movies, so the largest k is accepted but empty.
	rec := get(t, s, fmt.Sprintf("/api/recommendations?genre=Drama&k=%d", MaxK))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = get(t, s, fmt.Sprintf("/api/recommendations?genre=Drama&k=%d", MaxK+1))
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	want := fmt.Sprintf("k must be between 1 and %d", MaxK)
	if resp.Error != want {
		t.Errorf("error = %q, want %q", resp.Error, want)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(stubLoader{cat: testCatalog()})

	if rec := get(t, s, "/healthz"); rec.Code != http.StatusOK {
		t.Errorf("/healthz status = %d, want %d", rec.Code, http.StatusOK)
	}

	get(t, s, "/api/genres")

	rec := get(t, s, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `http_requests_total{route="/api/genres",status="200"}`) {
		t.Error("/metrics does not report /api/genres requests")
	}
}

func TestRateLimit(t *testing.T) {
	s := New(stubLoader{cat: testCatalog()}, recommend.NewSelector(firstSource{}), Options{RateLimit: 1})

	if rec := get(t, s, "/api/genres"); rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec := get(t, s, "/api/genres"); rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
}
