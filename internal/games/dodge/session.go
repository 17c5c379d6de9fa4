package dodge

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-dodge/internal/config"
	"github.com/vovakirdan/tui-dodge/internal/core"
)

// Run is the record of one finished game.
type Run struct {
	ID     string
	Score  int
	Frames int
	Shape  string
	Color  string
}

// HighScoreStore persists the high score and the run history.
type HighScoreStore interface {
	// HighScore returns the stored high score, or 0 if none was stored.
	HighScore() (int, error)
	// SetHighScore offers score as the new high score and returns the
	// high score stored afterwards, which is higher when another session
	// sharing the store already beat it.
	SetHighScore(score int) (int, error)
	RecordRun(run Run) error
}

// ScoreDisplay is a UI element showing the current and high score.
type ScoreDisplay interface {
	ShowScore(score int)
	ShowHighScore(score int)
}

// Soundtrack is background music that plays during a run.
type Soundtrack interface {
	Stop()
}

// Result describes how a finished run ended.
type Result struct {
	RunID        string
	Score        int
	HighScore    int
	NewHighScore bool
}

// Session runs consecutive games on one canvas and keeps the high score.
type Session struct {
	cfg        config.DodgeConfig
	pending    *config.DodgeConfig
	look       *Appearance
	world      *World
	store      HighScoreStore
	displays   []ScoreDisplay
	soundtrack Soundtrack
	logger     *log.Logger

	viewportW float64
	viewportH float64
	highScore int
	runID     string
	ended     bool
	result    Result
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithStore persists the high score and run history in store.
func WithStore(store HighScoreStore) SessionOption {
	return func(s *Session) {
		s.store = store
	}
}

// WithDisplays publishes score changes to the given displays.
func WithDisplays(displays ...ScoreDisplay) SessionOption {
	return func(s *Session) {
		s.displays = append(s.displays, displays...)
	}
}

// WithSoundtrack stops the soundtrack when a game ends.
func WithSoundtrack(st Soundtrack) SessionOption {
	return func(s *Session) {
		s.soundtrack = st
	}
}

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) SessionOption {
	return func(s *Session) {
		s.logger = l
	}
}

// NewSession reads the high score once and starts the first game.
// A failing store is logged and treated as having no high score.
func NewSession(cfg config.DodgeConfig, look *Appearance, viewportW, viewportH float64, seed int64, opts ...SessionOption) *Session {
	s := &Session{
		cfg:       cfg,
		look:      look,
		viewportW: viewportW,
		viewportH: viewportH,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.store != nil {
		hs, err := s.store.HighScore()
		if err != nil {
			s.logger.Warn("could not read high score", "error", err)
		} else {
			s.highScore = hs
		}
	}

	s.Restart(seed)
	return s
}

// Restart discards the current game and starts a fresh one.
// The high score survives; the current score starts over.
func (s *Session) Restart(seed int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if s.pending != nil {
		s.cfg = *s.pending
		s.pending = nil
	}
	s.world = NewWorld(s.cfg, s.viewportW, s.viewportH, rand.New(rand.NewSource(seed)))
	s.runID = uuid.NewString()
	s.ended = false
	s.result = Result{}

	for _, d := range s.displays {
		d.ShowScore(0)
		d.ShowHighScore(s.highScore)
	}
	s.logger.Debug("game started", "run", s.runID, "seed", seed)
}

// SetConfig replaces the config from the next Restart on.
// The game in progress keeps the config it started with.
func (s *Session) SetConfig(cfg config.DodgeConfig) {
	s.pending = &cfg
}

// Config returns the config of the current game.
func (s *Session) Config() config.DodgeConfig {
	return s.cfg
}

// Tick advances the current game by one frame and reacts to its events.
func (s *Session) Tick(in core.InputFrame) StepResult {
	res := s.world.Step(in)

	for _, ev := range res.Events {
		switch e := ev.(type) {
		case ScoredEvent:
			for _, d := range s.displays {
				d.ShowScore(e.Score)
			}
		case GameOverEvent:
			s.endGame(e)
		}
	}

	res.State.HighScore = s.highScore
	return res
}

// endGame settles the high score once per run.
func (s *Session) endGame(ev GameOverEvent) {
	if s.ended {
		return
	}
	s.ended = true

	if s.soundtrack != nil {
		s.soundtrack.Stop()
	}

	s.result = Result{RunID: s.runID, Score: ev.Score}
	if ev.Score > s.highScore {
		best := ev.Score
		if s.store != nil {
			stored, err := s.store.SetHighScore(ev.Score)
			if err != nil {
				s.logger.Warn("could not save high score", "run", s.runID, "error", err)
			} else {
				best = max(stored, ev.Score)
			}
		}
		s.highScore = best
		s.result.NewHighScore = best == ev.Score
		for _, d := range s.displays {
			d.ShowHighScore(best)
		}
	}
	s.result.HighScore = s.highScore

	if s.store != nil && ev.Score > 0 {
		run := Run{
			ID:     s.runID,
			Score:  ev.Score,
			Frames: ev.Frames,
			Shape:  s.look.Shape().String(),
			Color:  s.look.Color().String(),
		}
		if err := s.store.RecordRun(run); err != nil {
			s.logger.Warn("could not record run", "run", s.runID, "error", err)
		}
	}

	s.logger.Info("game over",
		"run", s.runID,
		"score", ev.Score,
		"high_score", s.highScore,
		"frames", ev.Frames,
	)
}

// Resize adapts the canvas to a new viewport size in world pixels.
func (s *Session) Resize(viewportW, viewportH float64) {
	s.viewportW = viewportW
	s.viewportH = viewportH
	s.world.Resize(viewportW, viewportH)
}

// World returns the current game.
func (s *Session) World() *World {
	return s.world
}

// Appearance returns the player look shared with the UI.
func (s *Session) Appearance() *Appearance {
	return s.look
}

// HighScore returns the best score known to the session.
func (s *Session) HighScore() int {
	return s.highScore
}

// Ended reports whether the current game is over.
func (s *Session) Ended() bool {
	return s.ended
}

// Result returns the outcome of the current game once it has ended.
func (s *Session) Result() Result {
	return s.result
}

// RunID identifies the current game.
func (s *Session) RunID() string {
	return s.runID
}

// Render draws the current game into dst.
func (s *Session) Render(dst *core.Screen) Layout {
	return Render(dst, s.world, s.look, s.cfg.Canvas)
}
