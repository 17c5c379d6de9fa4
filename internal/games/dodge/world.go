// Package dodge implements the obstacle-dodging game: a player shape moves in
// four directions while squares fall from the top of the canvas. Touching one
// ends the game; surviving earns a point every few frames.
//
// World is the pure simulation and Session adds high-score bookkeeping.
// Render draws a World into a core.Screen. None of them know about the terminal.
package dodge

import (
	"github.com/vovakirdan/tui-dodge/internal/config"
	"github.com/vovakirdan/tui-dodge/internal/core"
)

// State is the world's lifecycle state.
type State int

const (
	StateRunning State = iota
	StateOver
)

func (s State) String() string {
	if s == StateOver {
		return "over"
	}
	return "running"
}

// Event is something the simulation reports to its host.
type Event interface {
	worldEvent()
}

// ScoredEvent is emitted when the current score increases.
type ScoredEvent struct {
	Score int
}

func (ScoredEvent) worldEvent() {}

// GameOverEvent is emitted once, on the tick the player is hit.
type GameOverEvent struct {
	Score    int
	Frames   int
	Obstacle Obstacle // The obstacle that ended the game
}

func (GameOverEvent) worldEvent() {}

// StepResult is returned by World.Step after each simulation tick.
type StepResult struct {
	State  core.GameState
	Events []Event
}

// Player is the controllable box.
type Player struct {
	X, Y          float64
	Width, Height float64
	Speed         float64
}

// Rect returns the player's bounding box.
func (p Player) Rect() core.RectF {
	return core.RectF{X: p.X, Y: p.Y, W: p.Width, H: p.Height}
}

// World owns the player, the obstacles and the score.
type World struct {
	cfg       config.DodgeConfig
	canvasW   float64
	canvasH   float64
	player    Player
	obstacles *ObstacleField
	score     int
	frames    int // Frames simulated while running and not paused
	state     State
	paused    bool
}

// NewWorld creates a running world sized for a viewport of the given
// dimensions in world pixels, with the player centered.
func NewWorld(cfg config.DodgeConfig, viewportW, viewportH float64, rng Source) *World {
	w := &World{
		cfg: cfg,
		player: Player{
			Width:  cfg.Player.Width,
			Height: cfg.Player.Height,
			Speed:  cfg.Player.Speed,
		},
		obstacles: NewObstacleField(cfg.Obstacles, rng),
		state:     StateRunning,
	}
	w.Resize(viewportW, viewportH)
	return w
}

// Resize recomputes the canvas from the viewport and re-centers the player.
// Obstacles keep their positions even if they end up outside the new canvas.
func (w *World) Resize(viewportW, viewportH float64) {
	w.canvasW = viewportW * w.cfg.Canvas.ViewportFraction
	w.canvasH = viewportH * w.cfg.Canvas.ViewportFraction
	w.player.X = w.canvasW/2 - w.player.Width/2
	w.player.Y = w.canvasH/2 - w.player.Height/2
}

// Step advances the simulation by one tick.
func (w *World) Step(in core.InputFrame) StepResult {
	if w.state == StateOver {
		return StepResult{State: w.GameState()}
	}

	if in.Has(core.ActionPause) {
		w.paused = !w.paused
	}
	if w.paused {
		return StepResult{State: w.GameState()}
	}

	w.movePlayer(in)

	w.obstacles.Advance(w.canvasH)
	if hit, ok := w.obstacles.FirstHit(w.player.Rect()); ok {
		w.state = StateOver
		return StepResult{
			State:  w.GameState(),
			Events: []Event{GameOverEvent{Score: w.score, Frames: w.frames, Obstacle: hit}},
		}
	}

	w.obstacles.MaybeSpawn(w.canvasW)

	var events []Event
	w.frames++
	if w.frames%w.cfg.Scoring.FramesPerPoint == 0 {
		w.score++
		events = append(events, ScoredEvent{Score: w.score})
	}

	return StepResult{State: w.GameState(), Events: events}
}

// movePlayer applies every held direction, then clamps to the canvas.
// Directions add up, so diagonals are faster than straight moves.
func (w *World) movePlayer(in core.InputFrame) {
	p := &w.player
	if in.Has(core.ActionLeft) {
		p.X -= p.Speed
	}
	if in.Has(core.ActionRight) {
		p.X += p.Speed
	}
	if in.Has(core.ActionUp) {
		p.Y -= p.Speed
	}
	if in.Has(core.ActionDown) {
		p.Y += p.Speed
	}

	p.X = core.ClampF(p.X, 0, w.canvasW-p.Width)
	p.Y = core.ClampF(p.Y, 0, w.canvasH-p.Height)
}

// GameState returns the platform view of the world.
func (w *World) GameState() core.GameState {
	return core.GameState{
		Score:    w.score,
		GameOver: w.state == StateOver,
		Paused:   w.paused,
	}
}

// Player returns a copy of the player.
func (w *World) Player() Player {
	return w.player
}

// Obstacles returns the live obstacles.
func (w *World) Obstacles() []Obstacle {
	return w.obstacles.Obstacles()
}

// Canvas returns the canvas size in world pixels.
func (w *World) Canvas() (float64, float64) {
	return w.canvasW, w.canvasH
}

// Score returns the current score.
func (w *World) Score() int {
	return w.score
}

// Frames returns how many frames have been simulated.
func (w *World) Frames() int {
	return w.frames
}

// State returns the lifecycle state.
func (w *World) State() State {
	return w.state
}
