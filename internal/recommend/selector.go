// Package recommend picks a random anchor movie within a genre and returns
// its nearest neighbors by genre-vector cosine distance, each joined with
// its mean crowd rating.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"movie-recommender/internal/catalog"
	"movie-recommender/internal/logging"
	"movie-recommender/internal/metrics"
	"movie-recommender/internal/vector"
)

// DefaultK is the number of recommendations returned when none is configured.
const DefaultK = 5

// NoRating is shown in place of a mean for movies without ratings.
const NoRating = "No rating"

// ErrInvalidK is returned for a non-positive neighbor count.
var ErrInvalidK = errors.New("k must be at least 1")

// RandomSource picks the anchor. *rand.Rand satisfies it; tests substitute
// a fixed source.
type RandomSource interface {
	Intn(n int) int
}

// globalSource uses the package-level math/rand functions, which are safe
// for concurrent use.
type globalSource struct{}

func (globalSource) Intn(n int) int { return rand.Intn(n) }

// Recommendation is one neighbor of the anchor.
type Recommendation struct {
	MovieID  int
	Title    string
	Rating   float64
	Rated    bool
	Distance float64
}

// Display renders the rating rounded to two decimals, or NoRating.
func (r Recommendation) Display() string {
	if !r.Rated {
		return NoRating
	}
	return fmt.Sprintf("%.2f", r.Rating)
}

// Result is the outcome of one request. An empty Recommendations slice means
// the genre has too few movies.
type Result struct {
	RequestID       string
	Genre           string
	Anchor          *catalog.Movie
	Recommendations []Recommendation
}

// Empty reports whether no recommendations are available.
func (r *Result) Empty() bool { return len(r.Recommendations) == 0 }

// Selector holds no per-request state and may be shared across goroutines as
// long as its RandomSource is.
type Selector struct {
	rng RandomSource
}

// NewSelector creates a selector. A nil rng uses math/rand's global source.
func NewSelector(rng RandomSource) *Selector {
	if rng == nil {
		rng = globalSource{}
	}
	return &Selector{rng: rng}
}

// Recommend returns k movies similar to a random anchor tagged with genre,
// nearest first. A genre with fewer than k+1 movies yields an empty result,
// not an error.
func (s *Selector) Recommend(ctx context.Context, cat *catalog.Catalog, genre string, k int) (*Result, error) {
	if k < 1 {
		return nil, ErrInvalidK
	}

	start := time.Now()
	result := &Result{RequestID: uuid.NewString(), Genre: genre}
	log := logging.With().Str("request_id", result.RequestID).Str("genre", genre).Int("k", k).Logger()

	subset := cat.MoviesWithGenre(genre)
	if len(subset) < k+1 {
		metrics.Recommendations.WithLabelValues("empty").Inc()
		log.Info().Int("subset", len(subset)).Msg("not enough movies for genre")
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tagSets := make([][]string, len(subset))
	for i, m := range subset {
		tagSets[i] = m.Genres
	}
	matrix := vector.Encode(tagSets, cat.Vocabulary())

	anchor := s.rng.Intn(len(subset))
	result.Anchor = &subset[anchor]

	neighbors, err := query(matrix, anchor, k)
	if err != nil {
		var insufficient *vector.InsufficientDataError
		if errors.As(err, &insufficient) {
			metrics.Recommendations.WithLabelValues("empty").Inc()
			log.Info().Err(err).Msg("index cannot serve request")
			return result, nil
		}
		metrics.Recommendations.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to query neighbors: %w", err)
	}

	result.Recommendations = make([]Recommendation, len(neighbors))
	for i, n := range neighbors {
		m := subset[n.Row]
		mean, rated := cat.MeanRating(m.ID)
		result.Recommendations[i] = Recommendation{
			MovieID:  m.ID,
			Title:    m.Title,
			Rating:   mean,
			Rated:    rated,
			Distance: n.Distance,
		}
	}

	metrics.Recommendations.WithLabelValues("ok").Inc()
	metrics.RecommendationDuration.Observe(time.Since(start).Seconds())
	log.Info().
		Int("subset", len(subset)).
		Int("anchor_id", result.Anchor.ID).
		Int("results", len(result.Recommendations)).
		Dur("elapsed", time.Since(start)).
		Msg("recommendations ready")

	return result, nil
}

func query(matrix *vector.FeatureMatrix, anchor, k int) ([]vector.Neighbor, error) {
	idx, err := vector.Build(matrix)
	if err != nil {
		return nil, err
	}
	return idx.Query(anchor, k)
}
