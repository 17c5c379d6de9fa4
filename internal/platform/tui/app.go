package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-dodge/internal/config"
	"github.com/vovakirdan/tui-dodge/internal/core"
	"github.com/vovakirdan/tui-dodge/internal/games/dodge"
	"github.com/vovakirdan/tui-dodge/internal/storage"
)

// screenID identifies the active screen of the app.
type screenID int

const (
	screenMenu screenID = iota
	screenPicker
	screenGame
	screenScoreboard
)

// ConfigChangedMsg delivers a reloaded config. It applies from the next game on.
type ConfigChangedMsg struct {
	Config config.DodgeConfig
}

// ConfigErrorMsg reports a config file that failed to reload.
type ConfigErrorMsg struct {
	Err error
}

// Options configures an AppModel.
type Options struct {
	Store       *storage.Store // nil disables persistence
	Config      config.DodgeConfig
	Runtime     core.RuntimeConfig
	Logger      *log.Logger
	StartInGame bool // Skip the menu for the first game
}

// AppModel is the top-level model: menu -> game -> menu, plus the
// appearance picker and the scoreboard. One AppModel owns one Session,
// so the high score survives between games.
type AppModel struct {
	opts      Options
	session   *dodge.Session
	menuLabel *scoreLabel
	active    screenID
	menu      MenuModel
	picker    PickerModel
	game      GameModel
	board     ScoreboardModel
	width     int
	height    int
	quitting  bool
}

// NewAppModel creates the app and reads the high score once.
func NewAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	rc := opts.Runtime
	cc := opts.Config.Canvas

	hud, menuLabel := &scoreLabel{}, &scoreLabel{}
	sessionOpts := []dodge.SessionOption{
		dodge.WithDisplays(hud, menuLabel),
		dodge.WithLogger(opts.Logger),
	}
	if opts.Store != nil {
		sessionOpts = append(sessionOpts, dodge.WithStore(opts.Store))
	}

	look := dodge.NewAppearance(opts.Config.Appearance)
	session := dodge.NewSession(opts.Config, look,
		float64(rc.ScreenW)*cc.CellWidth,
		float64(max(rc.ScreenH-hudHeight-helpHeight, 0))*cc.CellHeight,
		rc.Seed, sessionOpts...)

	return AppModel{
		opts:      opts,
		session:   session,
		menuLabel: menuLabel,
		active:    screenMenu,
		menu:      NewMenuModel(menuLabel, look, rc.ScreenW, rc.ScreenH),
		game:      NewGameModel(session, hud, rc, opts.Logger),
		width:     rc.ScreenW,
		height:    rc.ScreenH,
	}
}

// Init shows the menu, or starts the first game right away.
func (m AppModel) Init() tea.Cmd {
	if m.opts.StartInGame {
		return func() tea.Msg { return startGameMsg{} }
	}
	return nil
}

// startGameMsg switches to the game screen.
type startGameMsg struct{}

// Update routes messages to the active screen and handles transitions.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.menu = update(m.menu, msg)
		m.picker = update(m.picker, msg)
		m.game = update(m.game, msg)
		m.board = update(m.board, msg)
		return m, nil

	case startGameMsg:
		return m.startGame()

	case ConfigChangedMsg:
		m.session.SetConfig(msg.Config)
		m.opts.Logger.Info("config reloaded")
		m.menu = m.menu.WithNotice("Config reloaded; applies to the next game")
		return m, nil

	case ConfigErrorMsg:
		m.opts.Logger.Warn("config reload failed", "error", msg.Err)
		m.menu = m.menu.WithNotice("Config reload failed; keeping the previous config")
		return m, nil
	}

	switch m.active {
	case screenPicker:
		return m.updatePicker(msg)
	case screenGame:
		return m.updateGame(msg)
	case screenScoreboard:
		return m.updateScoreboard(msg)
	default:
		return m.updateMenu(msg)
	}
}

// update runs a sub-model and keeps its concrete type.
func update[T tea.Model](model T, msg tea.Msg) T {
	next, _ := model.Update(msg)
	if typed, ok := next.(T); ok {
		return typed
	}
	return model
}

func (m AppModel) startGame() (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.active = screenGame
	m.game, cmd = m.game.Start()
	return m, cmd
}

func (m AppModel) showMenu() (tea.Model, tea.Cmd) {
	m.active = screenMenu
	m.menu = NewMenuModel(m.menuLabel, m.session.Appearance(), m.width, m.height)
	return m, nil
}

// updateMenu handles updates when in menu mode.
func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.menu = update(m.menu, msg)

	switch m.menu.Selected() {
	case ChoiceStart:
		return m.startGame()
	case ChoiceAppearance:
		m.active = screenPicker
		m.picker = NewPickerModel(m.session.Appearance(), m.width)
	case ChoiceScores:
		m.active = screenScoreboard
		m.board = NewScoreboardModel(m.opts.Store, m.width, m.height, m.opts.Runtime.TickRate)
	case ChoiceQuit:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// updatePicker handles updates when picking the appearance.
func (m AppModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.picker = update(m.picker, msg)
	if m.picker.Done() {
		return m.showMenu()
	}
	return m, nil
}

// updateGame handles updates when in game mode.
func (m AppModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if game, ok := next.(GameModel); ok {
		m.game = game
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.BackToMenu() {
		return m.showMenu()
	}

	return m, cmd
}

// updateScoreboard handles updates when showing the scoreboard.
func (m AppModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.board.Update(msg)
	if board, ok := next.(ScoreboardModel); ok {
		m.board = board
	}

	if m.board.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.board.IsGoingBack() {
		return m.showMenu()
	}

	return m, cmd
}

// View renders the active screen.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.active {
	case screenPicker:
		return m.picker.View()
	case screenGame:
		return m.game.View()
	case screenScoreboard:
		return m.board.View()
	default:
		return m.menu.View()
	}
}

// Session returns the session shared by all games of this app.
func (m AppModel) Session() *dodge.Session {
	return m.session
}

// Run starts the app in the local terminal. A non-nil watcher feeds config
// reloads into the running program.
func Run(opts Options, watcher *config.Watcher) error {
	p := tea.NewProgram(
		NewAppModel(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if watcher != nil {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go watcher.Run(ctx,
			func(cfg config.DodgeConfig) { p.Send(ConfigChangedMsg{Config: cfg}) },
			func(err error) { p.Send(ConfigErrorMsg{Err: err}) },
		)
	}

	_, err := p.Run()
	return err
}
