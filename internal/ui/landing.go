package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"movie-recommender/internal/logging"
)

const welcomeMarkdown = `# Welcome to the Movie Recommender!

Select a genre and get movie recommendations instantly.

Recommendations are **random**: a movie is drawn from the genre and its
nearest neighbors by genre similarity (*KNN + cosine distance*) are shown
with their average crowd rating.
`

// LandingModel is the entry screen shown before genre selection.
type LandingModel struct {
	spinner  spinner.Model
	rendered string
	loading  bool
	summary  string
	err      error
	width    int
	height   int
}

// EnterApp is sent when the user leaves the landing screen.
type EnterApp struct{}

// CatalogReady tells the landing screen the catalog finished loading.
type CatalogReady struct {
	Movies int
	Genres int
}

// CatalogFailed tells the landing screen the catalog could not be loaded.
type CatalogFailed struct {
	Err error
}

func NewLandingModel(loading bool, width, height int) LandingModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	return LandingModel{
		spinner:  sp,
		rendered: renderMarkdown(welcomeMarkdown, width),
		loading:  loading,
		width:    width,
		height:   height,
	}
}

// renderMarkdown renders with glamour, falling back to plain text
func renderMarkdown(content string, width int) string {
	wrap := width - 10
	if wrap < 20 {
		wrap = 20
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		logging.Error().Err(err).Msg("failed to create markdown renderer, using plain text")
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		logging.Error().Err(err).Msg("markdown rendering failed, using plain text")
		return content
	}

	return strings.TrimRight(rendered, "\n")
}

func (m LandingModel) Init() tea.Cmd {
	if m.loading {
		return m.spinner.Tick
	}
	return nil
}

func (m LandingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rendered = renderMarkdown(welcomeMarkdown, msg.Width)
		return m, nil

	case CatalogReady:
		m.loading = false
		m.summary = fmt.Sprintf("%d movies • %d genres", msg.Movies, msg.Genres)
		return m, nil

	case CatalogFailed:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+x", "q":
			return m, tea.Quit

		case "enter", " ":
			if m.loading || m.err != nil {
				return m, nil
			}
			return m, func() tea.Msg {
				return EnterApp{}
			}
		}
	}

	return m, nil
}

func (m LandingModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Failed to load the movie catalog:\n\n%v\n\nPress Ctrl+X to exit", m.err))
	}

	var status string
	if m.loading {
		status = m.spinner.View() + " Loading movie catalog..."
	} else {
		status = RenderButton("🎬 Enter the App", true)
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		m.rendered,
		"",
		status,
		MetadataStyle.Render(m.summary),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.Place(m.width, m.height-3, lipgloss.Center, lipgloss.Center, body),
		helpStyle.Render("Enter: Start • Ctrl+X: Quit"),
	)
}
