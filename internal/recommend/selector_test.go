package recommend

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"movie-recommender/internal/catalog"
)

// fixedSource always picks the same index.
type fixedSource int

func (f fixedSource) Intn(n int) int {
	if int(f) >= n {
		return n - 1
	}
	return int(f)
}

func dramaCatalog() *catalog.Catalog {
	movies := []catalog.Movie{
		{ID: 1, Title: "A", Genres: []string{"Drama"}},
		{ID: 2, Title: "B", Genres: []string{"Drama"}},
		{ID: 3, Title: "C", Genres: []string{"Drama", "Romance"}},
		{ID: 4, Title: "D", Genres: []string{"Drama"}},
		{ID: 5, Title: "E", Genres: []string{"Drama", "Crime"}},
		{ID: 6, Title: "F", Genres: []string{"Drama"}},
		{ID: 7, Title: "G", Genres: []string{"Noir"}},
		{ID: 8, Title: "H", Genres: []string{"Noir", "Crime"}},
		{ID: 9, Title: "I", Genres: []string{"Noir"}},
		{ID: 10, Title: "J", Genres: []string{"Adult", "Drama"}},
	}
	ratings := []catalog.Rating{
		{UserID: 1, MovieID: 1, Score: 4},
		{UserID: 2, MovieID: 1, Score: 4},
		{UserID: 1, MovieID: 2, Score: 3},
		{UserID: 2, MovieID: 2, Score: 5},
		{UserID: 3, MovieID: 2, Score: 4.5},
		{UserID: 1, MovieID: 3, Score: 2},
		{UserID: 1, MovieID: 4, Score: 1},
		{UserID: 2, MovieID: 4, Score: 2},
		{UserID: 1, MovieID: 5, Score: 5},
	}
	return catalog.New(movies, ratings, "Adult")
}

func TestRecommendScenarioDrama(t *testing.T) {
	cat := dramaCatalog()
	s := NewSelector(fixedSource(0))

	res, err := s.Recommend(context.Background(), cat, "Drama", 5)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if res.Anchor == nil || res.Anchor.ID != 1 {
		t.Fatalf("Anchor = %+v, want movie 1", res.Anchor)
	}
	if len(res.Recommendations) != 5 {
		t.Fatalf("Recommend() returned %d entries, want 5", len(res.Recommendations))
	}

	// B, D and F share A's exact vector; C and E follow at equal distance,
	// all in catalog order.
	wantTitles := []string{"B", "D", "F", "C", "E"}
	wantDisplay := map[string]string{
		"B": "4.17",
		"C": "2.00",
		"D": "1.50",
		"E": "5.00",
		"F": NoRating,
	}
	for i, rec := range res.Recommendations {
		if rec.Title != wantTitles[i] {
			t.Errorf("recommendation %d = %s, want %s", i, rec.Title, wantTitles[i])
		}
		if got := rec.Display(); got != wantDisplay[rec.Title] {
			t.Errorf("%s rating display = %q, want %q", rec.Title, got, wantDisplay[rec.Title])
		}
	}
}

func TestRecommendNeverIncludesAnchor(t *testing.T) {
	cat := dramaCatalog()
	s := NewSelector(rand.New(rand.NewSource(7)))

	for i := 0; i < 50; i++ {
		res, err := s.Recommend(context.Background(), cat, "Drama", 5)
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		seen := make(map[int]bool)
		for _, rec := range res.Recommendations {
			if rec.MovieID == res.Anchor.ID {
				t.Fatalf("anchor %d returned as its own recommendation", res.Anchor.ID)
			}
			if seen[rec.MovieID] {
				t.Fatalf("movie %d returned twice", rec.MovieID)
			}
			seen[rec.MovieID] = true
		}
		if len(seen) != 5 {
			t.Fatalf("got %d distinct movies, want 5", len(seen))
		}
	}
}

func TestRecommendTooFewMovies(t *testing.T) {
	cat := dramaCatalog()
	s := NewSelector(fixedSource(0))

	tests := []struct {
		name  string
		genre string
		k     int
	}{
		{name: "Noir has three movies", genre: "Noir", k: 5},
		{name: "Subset equal to k", genre: "Noir", k: 3},
		{name: "Unknown genre", genre: "Western", k: 1},
		{name: "Excluded genre", genre: "Adult", k: 1},
		{name: "Drama needs k+1", genre: "Drama", k: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.Recommend(context.Background(), cat, tt.genre, tt.k)
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if !res.Empty() {
				t.Errorf("Recommend() = %+v, want empty", res.Recommendations)
			}
		})
	}
}

func TestRecommendReturnsExactlyK(t *testing.T) {
	cat := dramaCatalog()
	s := NewSelector(rand.New(rand.NewSource(1)))

	// Drama has six movies after excluding Adult.
	for k := 1; k <= 7; k++ {
		t.Run(fmt.Sprintf("k=%d", k), func(t *testing.T) {
			res, err := s.Recommend(context.Background(), cat, "Drama", k)
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			want := k
			if k+1 > 6 {
				want = 0
			}
			if len(res.Recommendations) != want {
				t.Errorf("Recommend(k=%d) returned %d, want %d", k, len(res.Recommendations), want)
			}
		})
	}
}

func TestRecommendSortedByDistance(t *testing.T) {
	cat := dramaCatalog()
	s := NewSelector(fixedSource(2)) // anchor C: Drama|Romance

	res, err := s.Recommend(context.Background(), cat, "Drama", 5)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	for i := 1; i < len(res.Recommendations); i++ {
		if res.Recommendations[i-1].Distance > res.Recommendations[i].Distance {
			t.Errorf("results not sorted at %d: %v > %v", i, res.Recommendations[i-1].Distance, res.Recommendations[i].Distance)
		}
	}
}

func TestRecommendInvalidK(t *testing.T) {
	s := NewSelector(nil)
	if _, err := s.Recommend(context.Background(), dramaCatalog(), "Drama", 0); !errors.Is(err, ErrInvalidK) {
		t.Errorf("Recommend(k=0) error = %v, want ErrInvalidK", err)
	}
}

func TestRecommendCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSelector(fixedSource(0))
	if _, err := s.Recommend(ctx, dramaCatalog(), "Drama", 2); !errors.Is(err, context.Canceled) {
		t.Errorf("Recommend() error = %v, want context.Canceled", err)
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		name     string
		rec      Recommendation
		expected string
	}{
		{name: "Rounded", rec: Recommendation{Rating: 7.666666, Rated: true}, expected: "7.67"},
		{name: "Whole number", rec: Recommendation{Rating: 8, Rated: true}, expected: "8.00"},
		{name: "Zero is a rating", rec: Recommendation{Rating: 0, Rated: true}, expected: "0.00"},
		{name: "Unrated", rec: Recommendation{}, expected: NoRating},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Display(); got != tt.expected {
				t.Errorf("Display() = %q, want %q", got, tt.expected)
			}
		})
	}
}
