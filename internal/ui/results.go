package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"movie-recommender/internal/recommend"
)

const noRecommendationsNotice = "No recommendations found for the selected genre."

// ResultsModel shows the recommendations for one genre.
type ResultsModel struct {
	genre   string
	table   table.Model
	spinner spinner.Model
	loading bool
	result  *recommend.Result
	err     error
	width   int
	height  int
}

// RecommendationsReady carries a finished request back to the UI.
type RecommendationsReady struct {
	Result *recommend.Result
}

// RecommendationsFailed reports an unexpected recommendation error.
type RecommendationsFailed struct {
	Err error
}

// RecommendAgain asks for a new random anchor in the same genre.
type RecommendAgain struct {
	Genre string
}

// BackToGenres returns to the genre picker.
type BackToGenres struct{}

func NewResultsModel(genre string, width, height int) ResultsModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	t := table.New(
		table.WithColumns(resultColumns(width)),
		table.WithFocused(true),
		table.WithHeight(8),
	)
	t.SetStyles(TableStyles())

	return ResultsModel{
		genre:   genre,
		table:   t,
		spinner: sp,
		loading: true,
		width:   width,
		height:  height,
	}
}

func resultColumns(width int) []table.Column {
	titleWidth := width - 30
	if titleWidth < 20 {
		titleWidth = 20
	}
	return []table.Column{
		{Title: "Movie Title", Width: titleWidth},
		{Title: "Rating ⭐", Width: 12},
	}
}

// resultRows converts recommendations into table rows.
func resultRows(recs []recommend.Recommendation) []table.Row {
	rows := make([]table.Row, len(recs))
	for i, r := range recs {
		rows[i] = table.Row{r.Title, r.Display()}
	}
	return rows
}

func (m ResultsModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetColumns(resultColumns(msg.Width))
		return m, nil

	case RecommendationsReady:
		// A late reply for a genre the user already left
		if msg.Result == nil || msg.Result.Genre != m.genre {
			return m, nil
		}
		m.loading = false
		m.err = nil
		m.result = msg.Result
		m.table.SetRows(resultRows(msg.Result.Recommendations))
		// header row plus its bottom border
		m.table.SetHeight(len(msg.Result.Recommendations) + 3)
		return m, nil

	case RecommendationsFailed:
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
		case "ctrl+x":
			return m, tea.Quit

		case "esc":
			return m, func() tea.Msg {
				return BackToGenres{}
			}

		case "ctrl+l":
			return m, func() tea.Msg {
				return Logout{}
			}

		case "r", "enter":
			if m.loading {
				return m, nil
			}
			m.loading = true
			genre := m.genre
			return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
				return RecommendAgain{Genre: genre}
			})
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ResultsModel) showNotice() bool {
	return !m.loading && m.err == nil && m.result != nil && m.result.Empty()
}

func (m ResultsModel) View() string {
	title := TitleStyle.Render(fmt.Sprintf("Top Recommendations for %s", m.genre))

	var body string
	switch {
	case m.err != nil:
		body = RenderError(m.err.Error())
	case m.loading:
		body = m.spinner.View() + " Finding similar movies..."
	case m.result.Empty():
		body = MetadataStyle.Render("Nothing to show")
	default:
		body = TableBorderStyle.Render(m.table.View())
		if m.result.Anchor != nil {
			body = lipgloss.JoinVertical(lipgloss.Left,
				body,
				MetadataStyle.Render(fmt.Sprintf("Because you might like: %s", m.result.Anchor.Title)),
				statusBarStyle.Render("request "+m.result.RequestID),
			)
		}
	}

	helpText := "R/Enter: Recommend Again • Esc: Genres • Ctrl+L: Logout • Ctrl+X: Exit"
	view := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		body,
		helpStyle.Render(helpText),
	)

	if m.showNotice() {
		return renderNotice(view, m.width, m.height)
	}
	return view
}

// renderNotice places the empty-result notice over the background view
func renderNotice(background string, width, height int) string {
	noticeWidth := width * 2 / 3
	if noticeWidth < 60 {
		noticeWidth = 60
	}

	// The overlay clips to the background, so fill the whole screen first
	background = lipgloss.Place(
		max(width, lipgloss.Width(background), noticeWidth+2),
		max(height, lipgloss.Height(background), 16),
		lipgloss.Left, lipgloss.Top, background,
	)

	var content strings.Builder
	content.WriteString(NoticeTitleStyle.Render("No Recommendations"))
	content.WriteString("\n\n")
	content.WriteString(NoticeMessageStyle.Width(noticeWidth - 8).Render(noRecommendationsNotice))
	content.WriteString("\n\n")
	content.WriteString(HelpTextSimpleStyle.Render("Try another genre • Esc: Back"))

	notice := staticViewModel{content: NoticeBorderStyle.Width(noticeWidth - 4).Render(content.String())}

	overlayModel := overlay.New(
		notice,
		staticViewModel{content: background},
		overlay.Center,
		overlay.Center,
		0,
		0,
	)

	return overlayModel.View()
}

// staticViewModel is a simple model that renders static content
type staticViewModel struct {
	content string
}

func (m staticViewModel) Init() tea.Cmd {
	return nil
}

func (m staticViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

func (m staticViewModel) View() string {
	return m.content
}
