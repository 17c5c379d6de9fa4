package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-dodge/internal/core"
	"github.com/vovakirdan/tui-dodge/internal/games/dodge"
)

// Picker rows.
const (
	pickShape = iota
	pickColor
	pickRows
)

// PickerModel lets the player choose the shape and color. Every change is
// applied to the shared Appearance right away.
type PickerModel struct {
	look   *dodge.Appearance
	shapes []dodge.Shape
	colors []core.Color
	row    int
	width  int
	keys   MenuKeyMap
	help   help.Model
	done   bool
}

// NewPickerModel creates a picker editing look.
func NewPickerModel(look *dodge.Appearance, width int) PickerModel {
	h := help.New()
	h.Width = width
	return PickerModel{
		look:   look,
		shapes: dodge.Shapes(),
		colors: core.PlayerColors(),
		width:  width,
		keys:   DefaultMenuKeyMap(),
		help:   h,
	}
}

// Init initializes the picker.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the picker.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Select):
			m.done = true
		case key.Matches(msg, m.keys.Up):
			m.row = (m.row + pickRows - 1) % pickRows
		case key.Matches(msg, m.keys.Down):
			m.row = (m.row + 1) % pickRows
		case key.Matches(msg, m.keys.Left):
			m.step(-1)
		case key.Matches(msg, m.keys.Right):
			m.step(1)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	}

	return m, nil
}

// step cycles the value of the current row.
func (m PickerModel) step(delta int) {
	switch m.row {
	case pickShape:
		i := indexOf(m.shapes, m.look.Shape())
		m.look.SetShape(m.shapes[wrap(i+delta, len(m.shapes))])
	case pickColor:
		i := indexOf(m.colors, m.look.Color())
		m.look.SetColor(m.colors[wrap(i+delta, len(m.colors))])
	}
}

// View renders the picker.
func (m PickerModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText("APPEARANCE", m.width)))
	b.WriteString("\n\n")

	rows := []struct {
		label string
		value string
	}{
		{"Shape", m.look.Shape().String()},
		{"Color", m.look.Color().String()},
	}
	for i, r := range rows {
		line := fmt.Sprintf("  %s:  < %-8s >", r.label, r.value)
		if i == m.row {
			line = selectedStyle.Render(fmt.Sprintf("> %s:  < %-8s >", r.label, r.value))
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	preview := strings.Repeat(string(glyphFor(m.look.Shape())), 3)
	b.WriteString(centerText(styleFor(m.look.Color()).Render(preview), m.width))
	b.WriteString("\n\n")

	b.WriteString(helpBarStyle.Render(centerText(m.help.View(m.keys), m.width)))
	b.WriteString("\n")

	return b.String()
}

// Done reports whether the player left the picker.
func (m PickerModel) Done() bool {
	return m.done
}

func indexOf[T comparable](items []T, v T) int {
	for i, item := range items {
		if item == v {
			return i
		}
	}
	return 0
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}
