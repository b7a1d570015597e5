package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	tint "github.com/lrstanley/bubbletint"
)

// Common style elements used across all views
var (
	TitleStyle          lipgloss.Style
	errorStyle          lipgloss.Style
	ErrorMessageStyle   lipgloss.Style
	statusBarStyle      lipgloss.Style
	helpStyle           lipgloss.Style
	HelpTextSimpleStyle lipgloss.Style
	ActiveButtonStyle   lipgloss.Style
	InactiveButtonStyle lipgloss.Style
	MetadataStyle       lipgloss.Style
	SpinnerStyle        lipgloss.Style
	TableBorderStyle    lipgloss.Style

	// Notice overlay styles
	NoticeBorderStyle  lipgloss.Style
	NoticeTitleStyle   lipgloss.Style
	NoticeMessageStyle lipgloss.Style
)

func init() {
	tint.NewDefaultRegistry()
	tint.SetTint(tint.TintChalk)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(tint.Purple())

	errorStyle = lipgloss.NewStyle().
		Foreground(tint.Red()).
		Bold(true).
		Padding(1)

	ErrorMessageStyle = lipgloss.NewStyle().
		Foreground(tint.Red())

	statusBarStyle = lipgloss.NewStyle().
		Foreground(tint.BrightBlack()).
		Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
		Foreground(tint.BrightBlack()).
		Padding(1, 0, 0, 1)

	HelpTextSimpleStyle = lipgloss.NewStyle().
		Foreground(tint.BrightBlack())

	ActiveButtonStyle = lipgloss.NewStyle().
		Foreground(tint.Bg()).
		Background(tint.Red()).
		Bold(true).
		Padding(0, 2)

	InactiveButtonStyle = lipgloss.NewStyle().
		Foreground(tint.Red())

	MetadataStyle = lipgloss.NewStyle().
		Foreground(tint.BrightBlack())

	SpinnerStyle = lipgloss.NewStyle().
		Foreground(tint.Purple())

	TableBorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tint.White()).
		Padding(0, 1)

	NoticeBorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tint.Yellow()).
		Padding(1, 2)

	NoticeTitleStyle = lipgloss.NewStyle().
		Foreground(tint.Yellow()).
		Bold(true)

	NoticeMessageStyle = lipgloss.NewStyle().
		Foreground(tint.Fg()).
		Align(lipgloss.Center)
}

// ConfigureListStyles applies the theme to a list's title, filter and status bar
func ConfigureListStyles(l *list.Model) {
	muted := lipgloss.NewStyle().Foreground(tint.BrightBlack())

	l.Styles.Title = TitleStyle
	l.Styles.TitleBar = lipgloss.NewStyle().PaddingBottom(1)
	l.Styles.PaginationStyle = muted
	l.Styles.HelpStyle = helpStyle
	l.Styles.FilterPrompt = lipgloss.NewStyle().Foreground(tint.Red())
	l.Styles.FilterCursor = lipgloss.NewStyle().Foreground(tint.Purple())
	l.Styles.StatusBar = muted.PaddingBottom(1)
}

// indented renders list rows that are not selected
func indented(fg lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(fg).PaddingLeft(2)
}

// marked renders the selected row behind a thick left bar
func marked(fg lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(fg).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(tint.Red()).
		PaddingLeft(1)
}

// CreateThemedDelegate returns the delegate used for genre rows: genre name as
// title, movie count as description
func CreateThemedDelegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()

	d.Styles.SelectedTitle = marked(tint.Purple()).Bold(true)
	d.Styles.SelectedDesc = marked(tint.Yellow())
	d.Styles.NormalTitle = indented(tint.Fg())
	d.Styles.NormalDesc = indented(tint.BrightBlack())
	d.Styles.DimmedTitle = indented(tint.BrightBlack())
	d.Styles.DimmedDesc = indented(tint.BrightBlack()).Faint(true)

	return d
}

// TableStyles returns table styles with a highlighted header row
func TableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		Foreground(tint.Bg()).
		Background(tint.Red()).
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true)
	s.Selected = s.Selected.
		Foreground(tint.Purple()).
		Bold(true)
	return s
}

// RenderButton renders a button with the appropriate style
func RenderButton(label string, isActive bool) string {
	if isActive {
		return ActiveButtonStyle.Render(label)
	}
	return InactiveButtonStyle.Render("[ " + label + " ]")
}

// RenderError renders an error message
func RenderError(msg string) string {
	return ErrorMessageStyle.Render("  ✗ " + msg)
}
