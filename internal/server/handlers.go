package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"movie-recommender/internal/logging"
	"movie-recommender/internal/recommend"
)

const noRecommendationsMessage = "No recommendations found for the selected genre."

type genresResponse struct {
	Genres []string `json:"genres"`
}

type recommendationItem struct {
	Title  string `json:"title"`
	Rating string `json:"rating"`
}

type recommendationsResponse struct {
	RequestID       string               `json:"request_id"`
	Genre           string               `json:"genre"`
	Recommendations []recommendationItem `json:"recommendations"`
	Message         string               `json:"message,omitempty"`
}

type recommendationsQuery struct {
	Genre string `validate:"required"`
	K     int    `validate:"k"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGenres(w http.ResponseWriter, r *http.Request) {
	cat, err := s.loader.Load(r.Context())
	if err != nil {
		logging.Error().Err(err).Str("request_id", chimiddleware.GetReqID(r.Context())).Msg("catalog unavailable")
		respondError(w, http.StatusServiceUnavailable, "movie catalog is unavailable")
		return
	}

	respondJSON(w, http.StatusOK, genresResponse{Genres: cat.Genres()})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseRecommendationsQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	cat, err := s.loader.Load(r.Context())
	if err != nil {
		logging.Error().Err(err).Str("request_id", chimiddleware.GetReqID(r.Context())).Msg("catalog unavailable")
		respondError(w, http.StatusServiceUnavailable, "movie catalog is unavailable")
		return
	}

	if !cat.HasGenre(q.Genre) {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown genre %q", q.Genre))
		return
	}

	result, err := s.selector.Recommend(r.Context(), cat, q.Genre, q.K)
	switch {
	case errors.Is(err, recommend.ErrInvalidK):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusServiceUnavailable, "request cancelled")
		return
	case err != nil:
		logging.Error().Err(err).Str("genre", q.Genre).Msg("recommendation failed")
		respondError(w, http.StatusInternalServerError, "failed to compute recommendations")
		return
	}

	resp := recommendationsResponse{
		RequestID:       result.RequestID,
		Genre:           result.Genre,
		Recommendations: make([]recommendationItem, len(result.Recommendations)),
	}
	for i, rec := range result.Recommendations {
		resp.Recommendations[i] = recommendationItem{Title: rec.Title, Rating: rec.Display()}
	}
	if result.Empty() {
		resp.Message = noRecommendationsMessage
	}

	respondJSON(w, http.StatusOK, resp)
}

// newValidator registers the "k" tag so the neighbor-count bound lives only
// in MaxK.
func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("k", func(fl validator.FieldLevel) bool {
		k := fl.Field().Int()
		return k >= 1 && k <= MaxK
	}); err != nil {
		panic(err)
	}
	return v
}

func (s *Server) parseRecommendationsQuery(r *http.Request) (recommendationsQuery, error) {
	q := recommendationsQuery{
		Genre: strings.TrimSpace(r.URL.Query().Get("genre")),
		K:     s.opts.DefaultK,
	}

	if raw := r.URL.Query().Get("k"); raw != "" {
		k, err := strconv.Atoi(raw)
		if err != nil {
			return q, fmt.Errorf("k must be an integer, got %q", raw)
		}
		q.K = k
	}

	if err := s.validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			switch verrs[0].Field() {
			case "Genre":
				return q, errors.New("genre is required")
			case "K":
				return q, fmt.Errorf("k must be between 1 and %d", MaxK)
			}
		}
		return q, err
	}

	return q, nil
}
