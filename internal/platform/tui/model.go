package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-dodge/internal/core"
	"github.com/vovakirdan/tui-dodge/internal/games/dodge"
)

// Rows taken by the HUD above the canvas and the help bar below it.
const (
	hudHeight  = 1
	helpHeight = 1
)

var (
	hudStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	helpBarStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	screenshotKey = key.NewBinding(key.WithKeys("ctrl+s"))
)

// scoreLabel is a score display that keeps the last published values.
// The HUD and the menu each own one.
type scoreLabel struct {
	score int
	high  int
}

func (l *scoreLabel) ShowScore(score int)     { l.score = score }
func (l *scoreLabel) ShowHighScore(score int) { l.high = score }

// GameModel is the Bubble Tea model for the game screen. It feeds key and
// mouse input into the session and ticks it until the game is over.
type GameModel struct {
	session  *dodge.Session
	controls *dodge.Controls
	screen   *core.Screen
	hud      *scoreLabel
	keys     GameKeyMap
	help     help.Model
	logger   *log.Logger
	tickRate int
	seed     int64 // Seed of the next game; 0 = time based
	gen      int   // Tick generation of the current game
	running  bool  // A tick is scheduled for the current game

	quitting   bool
	backToMenu bool
}

// NewGameModel creates the game screen for a session whose HUD display is hud.
func NewGameModel(session *dodge.Session, hud *scoreLabel, cfg core.RuntimeConfig, logger *log.Logger) GameModel {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	m := GameModel{
		session:  session,
		controls: dodge.NewControls(session.Config().Input),
		screen:   core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-hudHeight-helpHeight, 0)),
		hud:      hud,
		keys:     DefaultGameKeyMap(),
		help:     help.New(),
		logger:   logger,
		tickRate: cfg.TickRate,
		seed:     cfg.Seed,
	}
	m.help.Width = cfg.ScreenW
	return m
}

// Start begins a new game and schedules its first tick.
// Only the first game uses the configured seed.
func (m GameModel) Start() (GameModel, tea.Cmd) {
	m.session.Restart(m.seed)
	m.seed = 0
	m.controls = dodge.NewControls(m.session.Config().Input)
	m.resizeWorld()

	m.gen++
	m.running = true
	m.quitting = false
	m.backToMenu = false
	return m, tickCmd(m.tickRate, m.gen)
}

// Init does nothing; Start begins a game.
func (m GameModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, max(msg.Height-hudHeight-helpHeight, 0))
		m.help.Width = msg.Width
		m.resizeWorld()
		return m, nil

	case TickMsg:
		return m.handleTick(msg)
	}

	return m, nil
}

// resizeWorld sizes the world to the screen area in world pixels.
func (m GameModel) resizeWorld() {
	cc := m.session.Config().Canvas
	m.session.Resize(float64(m.screen.Width())*cc.CellWidth, float64(m.screen.Height())*cc.CellHeight)
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, screenshotKey):
		m.saveScreenshot()
		return m, nil
	}

	if m.session.Ended() {
		switch {
		case key.Matches(msg, m.keys.Restart):
			return m.Start()
		case key.Matches(msg, m.keys.Menu):
			m.backToMenu = true
		}
		return m, nil
	}

	if m.session.World().GameState().Paused && key.Matches(msg, m.keys.Menu) {
		m.running = false
		m.backToMenu = true
		return m, nil
	}

	if key.Matches(msg, m.keys.Stop) {
		m.controls.ReleaseAll()
		return m, nil
	}
	if a := m.keys.Action(msg); a != core.ActionNone {
		m.controls.Press(a)
	}
	return m, nil
}

// handleMouse turns a left-button drag into the virtual joystick.
func (m GameModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.session.Ended() {
		return m, nil
	}

	x, y := m.layout().ToWorld(msg.X, msg.Y-hudHeight)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.controls.StickStart(x, y)
		}
	case tea.MouseActionMotion:
		m.controls.StickMove(x, y)
	case tea.MouseActionRelease:
		m.controls.StickEnd()
	}
	return m, nil
}

// handleTick runs one simulation step. No further tick is scheduled once
// the game is over.
func (m GameModel) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if !m.running || msg.Gen != m.gen {
		return m, nil
	}

	res := m.session.Tick(m.controls.Frame())
	if res.State.GameOver {
		m.running = false
		return m, nil
	}

	return m, tickCmd(m.tickRate, m.gen)
}

func (m GameModel) layout() dodge.Layout {
	cw, ch := m.session.World().Canvas()
	return dodge.NewLayout(m.screen.Width(), m.screen.Height(), cw, ch, m.session.Config().Canvas)
}

// saveScreenshot saves the current screen to a file.
func (m GameModel) saveScreenshot() {
	m.session.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("screenshot skipped", "error", err)
		return
	}
	dir := filepath.Join(home, ".dodge", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("screenshot skipped", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("dodge_%s.txt", timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot failed", "path", path, "error", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	l := m.session.Render(m.screen)
	switch {
	case m.session.Ended():
		m.drawGameOver(l)
	case m.session.World().GameState().Paused:
		m.screen.DrawTextCentered(l.Canvas.Y+l.Canvas.H/2, "PAUSED")
	}

	hud := fmt.Sprintf("Score: %d    High Score: %d", m.hud.score, m.hud.high)
	return hudStyle.Render(centerText(hud, m.screen.Width())) + "\n" +
		RenderScreen(m.screen) + "\n" +
		helpBarStyle.Render(m.help.View(m.keys))
}

// drawGameOver writes the final score over the canvas.
func (m GameModel) drawGameOver(l dodge.Layout) {
	res := m.session.Result()
	lines := []string{
		"GAME OVER",
		"",
		fmt.Sprintf("Your score: %d", res.Score),
		fmt.Sprintf("High score: %d", res.HighScore),
	}
	if res.NewHighScore {
		lines[3] = "New high score!"
	}
	lines = append(lines, "", "enter: menu   r: play again")

	top := l.Canvas.Y + (l.Canvas.H-len(lines))/2
	for i, line := range lines {
		m.screen.DrawTextCentered(top+i, line)
	}
}

// Running reports whether the current game still ticks.
func (m GameModel) Running() bool {
	return m.running
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}
