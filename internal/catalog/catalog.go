package catalog

import (
	"movie-recommender/internal/vector"
)

// Catalog is the immutable result of a load. It is safe for concurrent reads.
type Catalog struct {
	movies  []Movie
	ratings []Rating
	vocab   vector.Vocabulary
	scores  map[int]scoreSum
}

type scoreSum struct {
	total float64
	count int
}

// New builds a catalog. Movies carrying excludedGenre are dropped before the
// vocabulary is derived, so the excluded tag never becomes a feature column.
func New(movies []Movie, ratings []Rating, excludedGenre string) *Catalog {
	kept := make([]Movie, 0, len(movies))
	var tags []string
	for _, m := range movies {
		if excludedGenre != "" && m.HasGenre(excludedGenre) {
			continue
		}
		kept = append(kept, m)
		tags = append(tags, m.Genres...)
	}

	scores := make(map[int]scoreSum)
	for _, r := range ratings {
		s := scores[r.MovieID]
		s.total += r.Score
		s.count++
		scores[r.MovieID] = s
	}

	return &Catalog{
		movies:  kept,
		ratings: ratings,
		vocab:   vector.NewVocabulary(tags),
		scores:  scores,
	}
}

// Movies returns the catalog movies in source order. Callers must not modify
// the returned slice.
func (c *Catalog) Movies() []Movie { return c.movies }

// Ratings returns every rating row in source order. Callers must not modify
// the returned slice.
func (c *Catalog) Ratings() []Rating { return c.ratings }

// Vocabulary returns the genre vocabulary.
func (c *Catalog) Vocabulary() vector.Vocabulary { return c.vocab }

// Genres returns the ordered genre names.
func (c *Catalog) Genres() []string { return c.vocab.Tags() }

// HasGenre reports whether genre is part of the vocabulary.
func (c *Catalog) HasGenre(genre string) bool { return c.vocab.Contains(genre) }

// MoviesWithGenre returns the movies tagged with genre, preserving order.
func (c *Catalog) MoviesWithGenre(genre string) []Movie {
	var subset []Movie
	for _, m := range c.movies {
		if m.HasGenre(genre) {
			subset = append(subset, m)
		}
	}
	return subset
}

// MeanRating returns the arithmetic mean score of a movie. ok is false when
// the movie has no ratings.
func (c *Catalog) MeanRating(movieID int) (mean float64, ok bool) {
	s, ok := c.scores[movieID]
	if !ok || s.count == 0 {
		return 0, false
	}
	return s.total / float64(s.count), true
}
