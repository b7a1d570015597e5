package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// GenreOption is one entry of the genre picker.
type GenreOption struct {
	Name   string
	Movies int
}

type GenreSelectModel struct {
	list   list.Model
	width  int
	height int
}

type genreItem struct {
	option GenreOption
}

func (i genreItem) Title() string       { return i.option.Name }
func (i genreItem) Description() string { return fmt.Sprintf("%d movies", i.option.Movies) }
func (i genreItem) FilterValue() string { return i.option.Name }

// GenreSelected is sent when the user asks for recommendations.
type GenreSelected struct {
	Genre string
}

// Logout returns to the landing screen.
type Logout struct{}

func NewGenreSelectModel(genres []GenreOption, width, height int) GenreSelectModel {
	items := make([]list.Item, len(genres))
	for i, g := range genres {
		items[i] = genreItem{option: g}
	}

	l := list.New(items, CreateThemedDelegate(), width, height-4)
	l.Title = "🎬 Choose a genre"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	ConfigureListStyles(&l)

	// Disable built-in key bindings except arrows and filter
	l.KeyMap.CursorUp = key.NewBinding(key.WithKeys("up"))
	l.KeyMap.CursorDown = key.NewBinding(key.WithKeys("down"))
	l.KeyMap.NextPage = key.NewBinding(key.WithKeys("pgdown"))
	l.KeyMap.PrevPage = key.NewBinding(key.WithKeys("pgup"))
	l.KeyMap.GoToStart = key.NewBinding()
	l.KeyMap.GoToEnd = key.NewBinding()
	l.KeyMap.Filter = key.NewBinding(key.WithKeys("/"))
	l.KeyMap.ClearFilter = key.NewBinding(key.WithKeys("esc"))
	l.KeyMap.CancelWhileFiltering = key.NewBinding(key.WithKeys("esc"))
	l.KeyMap.AcceptWhileFiltering = key.NewBinding(key.WithKeys("enter"))
	l.KeyMap.ShowFullHelp = key.NewBinding()
	l.KeyMap.CloseFullHelp = key.NewBinding()
	l.KeyMap.Quit = key.NewBinding()
	l.KeyMap.ForceQuit = key.NewBinding()

	return GenreSelectModel{
		list:   l,
		width:  width,
		height: height,
	}
}

func (m GenreSelectModel) Init() tea.Cmd {
	return nil
}

func (m GenreSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "ctrl+x":
			return m, tea.Quit

		case "enter":
			selectedItem := m.list.SelectedItem()
			if selectedItem == nil {
				return m, nil
			}
			genre := selectedItem.(genreItem).option.Name
			return m, func() tea.Msg {
				return GenreSelected{Genre: genre}
			}

		case "ctrl+l":
			return m, func() tea.Msg {
				return Logout{}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m GenreSelectModel) View() string {
	helpText := "↑/↓: Navigate • Enter: Recommend Movies • /: Filter • Ctrl+L: Logout • Ctrl+X: Exit"

	return lipgloss.JoinVertical(lipgloss.Left,
		m.list.View(),
		helpStyle.Render(helpText),
	)
}
