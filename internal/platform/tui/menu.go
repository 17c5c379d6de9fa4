package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-dodge/internal/games/dodge"
)

// MenuChoice is an entry of the main menu.
type MenuChoice int

const (
	ChoiceNone MenuChoice = iota
	ChoiceStart
	ChoiceAppearance
	ChoiceScores
	ChoiceQuit
)

// MenuItem represents a selectable menu entry.
type MenuItem struct {
	Choice MenuChoice
	Title  string
}

var menuItems = []MenuItem{
	{ChoiceStart, "Start Game"},
	{ChoiceAppearance, "Appearance"},
	{ChoiceScores, "High Scores"},
	{ChoiceQuit, "Quit"},
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

// MenuModel is the Bubble Tea model for the main menu.
type MenuModel struct {
	cursor   int
	width    int
	height   int
	label    *scoreLabel
	look     *dodge.Appearance
	keys     MenuKeyMap
	help     help.Model
	notice   string
	selected MenuChoice
}

// NewMenuModel creates a new menu model. label is the menu's high score
// display and look the shared player appearance.
func NewMenuModel(label *scoreLabel, look *dodge.Appearance, width, height int) MenuModel {
	h := help.New()
	h.Width = width
	return MenuModel{
		width:  width,
		height: height,
		label:  label,
		look:   look,
		keys:   DefaultMenuKeyMap(),
		help:   h,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.selected = ChoiceQuit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(menuItems)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Select):
		m.selected = menuItems[m.cursor].Choice
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText("  D O D G E  ", m.width)))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("High Score: %d", m.label.high), m.width))
	b.WriteString("\n")

	glyph := glyphFor(m.look.Shape())
	preview := fmt.Sprintf("You: %s %s %s", styleFor(m.look.Color()).Render(string(glyph)), m.look.Color(), m.look.Shape())
	b.WriteString(centerText(preview, m.width))
	b.WriteString("\n\n")

	for i, item := range menuItems {
		line := "  " + item.Title
		if i == m.cursor {
			line = selectedStyle.Render("> " + item.Title)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(centerText(m.notice, m.width)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpBarStyle.Render(centerText(m.help.View(m.keys), m.width)))
	b.WriteString("\n")

	return b.String()
}

// WithNotice returns the menu with a one-line message under the entries.
func (m MenuModel) WithNotice(text string) MenuModel {
	m.notice = text
	return m
}

// Selected returns the chosen entry, or ChoiceNone.
func (m MenuModel) Selected() MenuChoice {
	return m.selected
}

// glyphFor returns the glyph a shape is drawn with.
func glyphFor(s dodge.Shape) rune {
	switch s {
	case dodge.ShapeSquare:
		return dodge.SquareGlyph
	case dodge.ShapeTriangle:
		return dodge.TriangleGlyph
	default:
		return dodge.CircleGlyph
	}
}
