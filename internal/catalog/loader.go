package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"movie-recommender/internal/logging"
	"movie-recommender/internal/metrics"
)

// Source names the two datasets a catalog is built from.
type Source struct {
	Ratings       string
	Movies        string
	ExcludedGenre string
}

// Loader builds the catalog once and hands every later caller the same
// immutable handle. Concurrent first calls share one load; a failed load is
// not cached.
type Loader struct {
	fetcher *Fetcher
	parser  *Parser
	source  Source

	group singleflight.Group
	mu    sync.RWMutex
	cat   *Catalog
}

// NewLoader creates a loader.
func NewLoader(fetcher *Fetcher, parser *Parser, source Source) *Loader {
	return &Loader{
		fetcher: fetcher,
		parser:  parser,
		source:  source,
	}
}

// Load returns the cached catalog, loading it on first use.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	if cat := l.current(); cat != nil {
		return cat, nil
	}
	return l.do(ctx, "load", false)
}

// Refresh re-fetches both sources, bypassing snapshot caches, and replaces
// the cached catalog on success.
func (l *Loader) Refresh(ctx context.Context) (*Catalog, error) {
	return l.do(ctx, "refresh", true)
}

func (l *Loader) current() *Catalog {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cat
}

// do shares one build between concurrent callers. The build runs detached
// from any single caller's cancellation; the fetcher's timeout bounds it. A
// caller whose ctx ends stops waiting without failing the others.
func (l *Loader) do(ctx context.Context, key string, refresh bool) (*Catalog, error) {
	buildCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(key, func() (interface{}, error) {
		if !refresh {
			// Another caller may have finished while we waited on the group.
			if cat := l.current(); cat != nil {
				return cat, nil
			}
		}

		cat, err := l.build(buildCtx, refresh)
		if err != nil {
			return nil, err
		}

		l.mu.Lock()
		l.cat = cat
		l.mu.Unlock()
		return cat, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Catalog), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *Loader) build(ctx context.Context, refresh bool) (*Catalog, error) {
	start := time.Now()

	cat, err := l.fetchAndParse(ctx, refresh)
	if err != nil {
		metrics.CatalogLoads.WithLabelValues("error").Inc()
		logging.Error().Err(err).Msg("catalog load failed")
		return nil, err
	}

	elapsed := time.Since(start)
	metrics.CatalogLoads.WithLabelValues("success").Inc()
	metrics.CatalogLoadDuration.Observe(elapsed.Seconds())
	metrics.CatalogMovies.Set(float64(len(cat.Movies())))
	metrics.CatalogGenres.Set(float64(cat.Vocabulary().Len()))

	logging.Info().
		Int("movies", len(cat.Movies())).
		Int("ratings", len(cat.Ratings())).
		Int("genres", cat.Vocabulary().Len()).
		Dur("elapsed", elapsed).
		Msg("catalog loaded")

	return cat, nil
}

func (l *Loader) fetchAndParse(ctx context.Context, refresh bool) (*Catalog, error) {
	moviesData, err := l.fetcher.Fetch(ctx, l.source.Movies, refresh)
	if err != nil {
		return nil, fmt.Errorf("failed to load movies: %w", err)
	}
	movies, err := l.parser.ParseMovies(l.source.Movies, moviesData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse movies: %w", err)
	}

	ratingsData, err := l.fetcher.Fetch(ctx, l.source.Ratings, refresh)
	if err != nil {
		return nil, fmt.Errorf("failed to load ratings: %w", err)
	}
	ratings, err := l.parser.ParseRatings(l.source.Ratings, ratingsData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ratings: %w", err)
	}

	return New(movies, ratings, l.source.ExcludedGenre), nil
}
