package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"movie-recommender/internal/logging"
	"movie-recommender/internal/metrics"
	"movie-recommender/internal/store"
)

// Fetcher reads dataset sources. http(s) sources are cached in a snapshot
// store; anything else is read from the local filesystem.
type Fetcher struct {
	httpClient *http.Client
	cache      store.SnapshotStore
	ttl        time.Duration
	now        func() time.Time
}

// NewFetcher creates a fetcher. cache may be nil, and a non-positive ttl
// disables the snapshot cache.
func NewFetcher(cache store.SnapshotStore, ttl, timeout time.Duration) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache: cache,
		ttl:   ttl,
		now:   time.Now,
	}
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Fetch returns the raw bytes of source. With refresh set, cached snapshots
// are ignored and replaced.
func (f *Fetcher) Fetch(ctx context.Context, source string, refresh bool) ([]byte, error) {
	if !isRemote(source) {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", source, err)
		}
		logging.Debug().Str("source", source).Int("bytes", len(data)).Msg("read local dataset")
		return data, nil
	}

	useCache := f.cache != nil && f.ttl > 0
	if useCache && !refresh {
		if data, ok := f.cached(ctx, source); ok {
			return data, nil
		}
	}

	data, err := f.download(ctx, source)
	if err != nil {
		return nil, err
	}

	if useCache {
		snap := &store.Snapshot{Source: source, Data: data, FetchedAt: f.now()}
		if err := f.cache.PutSnapshot(ctx, snap); err != nil {
			logging.Warn().Err(err).Str("source", source).Msg("failed to persist dataset snapshot")
		}
	}

	return data, nil
}

func (f *Fetcher) cached(ctx context.Context, source string) ([]byte, bool) {
	snap, err := f.cache.GetSnapshot(ctx, source)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logging.Warn().Err(err).Str("source", source).Msg("snapshot lookup failed")
		}
		metrics.SnapshotCache.WithLabelValues("miss").Inc()
		return nil, false
	}

	if !snap.Fresh(f.ttl, f.now()) {
		metrics.SnapshotCache.WithLabelValues("stale").Inc()
		logging.Debug().Str("source", source).Time("fetched_at", snap.FetchedAt).Msg("snapshot expired")
		return nil, false
	}

	metrics.SnapshotCache.WithLabelValues("hit").Inc()
	logging.Debug().Str("source", source).Int("bytes", len(snap.Data)).Msg("using cached dataset snapshot")
	return snap.Data, true
}

func (f *Fetcher) download(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %s", source, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", source, err)
	}

	logging.Info().
		Str("source", source).
		Int("bytes", len(data)).
		Dur("elapsed", time.Since(start)).
		Msg("downloaded dataset")

	return data, nil
}
