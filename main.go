package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"movie-recommender/internal/catalog"
	"movie-recommender/internal/config"
	"movie-recommender/internal/logging"
	"movie-recommender/internal/recommend"
	"movie-recommender/internal/server"
	"movie-recommender/internal/store"
	"movie-recommender/internal/ui"
)

type appState int

const (
	stateLanding appState = iota
	stateGenreSelect
	stateResults
)

type model struct {
	state    appState
	loader   *catalog.Loader
	selector *recommend.Selector
	k        int

	cat *catalog.Catalog

	// UI models
	landingModel     ui.LandingModel
	genreSelectModel ui.GenreSelectModel
	resultsModel     ui.ResultsModel

	// Screen size
	width  int
	height int
}

// catalogLoaded carries the outcome of the background catalog load.
type catalogLoaded struct {
	cat *catalog.Catalog
	err error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	command := ""
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	// The TUI owns the terminal, so it logs to a file
	if err := logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   command == "",
	}); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Close()

	if err := os.MkdirAll(cfg.Storage.Path, 0755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	snapshots, err := store.NewBadgerStore(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("Failed to initialize snapshot store: %v", err)
	}
	defer snapshots.Close()

	loader := catalog.NewLoader(
		catalog.NewFetcher(snapshots, cfg.Catalog.CacheTTL, cfg.Catalog.FetchTimeout),
		catalog.NewParser(cfg.Catalog.Separator, cfg.Catalog.GenreSeparator),
		catalog.Source{
			Ratings:       cfg.Catalog.RatingsSource,
			Movies:        cfg.Catalog.MoviesSource,
			ExcludedGenre: cfg.Catalog.ExcludedGenre,
		},
	)
	selector := recommend.NewSelector(nil)

	switch command {
	case "":
		runUI(loader, selector, cfg.Recommend.K)
	case "serve":
		runServer(cfg, loader, selector)
	case "refresh":
		runRefresh(loader, snapshots)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\nusage: movie-recommender [serve|refresh]\n", command)
		os.Exit(2)
	}
}

func runUI(loader *catalog.Loader, selector *recommend.Selector, k int) {
	initialModel := model{
		state:        stateLanding,
		loader:       loader,
		selector:     selector,
		k:            k,
		landingModel: ui.NewLandingModel(true, 80, 24),
		width:        80,
		height:       24,
	}

	p := tea.NewProgram(initialModel, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}

func runServer(cfg *config.Config, loader *catalog.Loader, selector *recommend.Selector) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Warm the catalog so the first request does not pay for the download
	go func() {
		if _, err := loader.Load(ctx); err != nil {
			logging.Warn().Err(err).Msg("catalog warmup failed, will retry on first request")
		}
	}()

	srv := server.New(loader, selector, server.Options{
		Addr:      cfg.Server.Addr,
		DefaultK:  cfg.Recommend.K,
		RateLimit: cfg.Server.RateLimit,
	})
	if err := srv.Run(ctx); err != nil {
		logging.Error().Err(err).Msg("http server failed")
		os.Exit(1)
	}
}

func runRefresh(loader *catalog.Loader, snapshots store.SnapshotStore) {
	ctx := context.Background()

	cat, err := loader.Refresh(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("catalog refresh failed")
		os.Exit(1)
	}
	fmt.Printf("Catalog refreshed: %d movies, %d ratings, %d genres\n",
		len(cat.Movies()), len(cat.Ratings()), len(cat.Genres()))

	snaps, err := snapshots.ListSnapshots(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("failed to list snapshots")
		os.Exit(1)
	}
	for _, s := range snaps {
		fmt.Printf("  %s  %d bytes  %s\n", s.FetchedAt.Format("2006-01-02 15:04:05"), s.Size, s.Source)
	}
}

func (m model) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		cat, err := m.loader.Load(context.Background())
		return catalogLoaded{cat: cat, err: err}
	}
}

func (m model) recommend(genre string) tea.Cmd {
	cat, selector, k := m.cat, m.selector, m.k
	return func() tea.Msg {
		result, err := selector.Recommend(context.Background(), cat, genre, k)
		if err != nil {
			return ui.RecommendationsFailed{Err: err}
		}
		return ui.RecommendationsReady{Result: result}
	}
}

func (m model) genreOptions() []ui.GenreOption {
	genres := m.cat.Genres()
	options := make([]ui.GenreOption, len(genres))
	for i, g := range genres {
		options[i] = ui.GenreOption{Name: g, Movies: len(m.cat.MoviesWithGenre(g))}
	}
	return options
}

func (m model) catalogSummary() ui.CatalogReady {
	return ui.CatalogReady{Movies: len(m.cat.Movies()), Genres: len(m.cat.Genres())}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.landingModel.Init(), m.loadCatalog())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case catalogLoaded:
		if msg.err != nil {
			return m.updateLanding(ui.CatalogFailed{Err: msg.err})
		}
		m.cat = msg.cat
		return m.updateLanding(m.catalogSummary())

	case ui.EnterApp:
		m.state = stateGenreSelect
		m.genreSelectModel = ui.NewGenreSelectModel(m.genreOptions(), m.width, m.height)
		return m, m.genreSelectModel.Init()

	case ui.GenreSelected:
		m.state = stateResults
		m.resultsModel = ui.NewResultsModel(msg.Genre, m.width, m.height)
		return m, tea.Batch(m.resultsModel.Init(), m.recommend(msg.Genre))

	case ui.RecommendAgain:
		return m, m.recommend(msg.Genre)

	case ui.BackToGenres:
		m.state = stateGenreSelect
		m.genreSelectModel = ui.NewGenreSelectModel(m.genreOptions(), m.width, m.height)
		return m, m.genreSelectModel.Init()

	case ui.Logout:
		m.state = stateLanding
		m.landingModel = ui.NewLandingModel(false, m.width, m.height)
		return m.updateLanding(m.catalogSummary())
	}

	// Delegate to current screen
	switch m.state {
	case stateLanding:
		return m.updateLanding(msg)

	case stateGenreSelect:
		newModel, cmd := m.genreSelectModel.Update(msg)
		m.genreSelectModel = newModel.(ui.GenreSelectModel)
		return m, cmd

	case stateResults:
		newModel, cmd := m.resultsModel.Update(msg)
		m.resultsModel = newModel.(ui.ResultsModel)
		return m, cmd
	}

	return m, nil
}

func (m model) updateLanding(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.landingModel.Update(msg)
	m.landingModel = newModel.(ui.LandingModel)
	return m, cmd
}

func (m model) View() string {
	switch m.state {
	case stateLanding:
		return m.landingModel.View()
	case stateGenreSelect:
		return m.genreSelectModel.View()
	case stateResults:
		return m.resultsModel.View()
	}

	return "Loading..."
}
