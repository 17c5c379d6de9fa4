package dodge

import (
	"github.com/vovakirdan/tui-dodge/internal/config"
	"github.com/vovakirdan/tui-dodge/internal/core"
)

// Source supplies uniform random numbers in [0, 1).
// *rand.Rand satisfies it; tests script it.
type Source interface {
	Float64() float64
}

// Obstacle is a falling square. It has no identity beyond its fields.
type Obstacle struct {
	X, Y  float64 // Top-left corner in world pixels
	Size  float64 // Width and height
	Speed float64 // Pixels fallen per tick
}

// Rect returns the obstacle's bounding box.
func (o Obstacle) Rect() core.RectF {
	return core.RectF{X: o.X, Y: o.Y, W: o.Size, H: o.Size}
}

// ObstacleField handles spawning, movement, and removal of obstacles.
type ObstacleField struct {
	items []Obstacle
	rng   Source
	cfg   config.ObstacleConfig
}

// NewObstacleField creates an empty field drawing randomness from rng.
func NewObstacleField(cfg config.ObstacleConfig, rng Source) *ObstacleField {
	return &ObstacleField{
		items: make([]Obstacle, 0, 16),
		rng:   rng,
		cfg:   cfg,
	}
}

// Advance moves every obstacle down by its own speed, then drops the ones
// whose top edge is below canvasH. Returns how many were dropped.
func (f *ObstacleField) Advance(canvasH float64) int {
	for i := range f.items {
		f.items[i].Y += f.items[i].Speed
	}

	live := f.items[:0]
	for _, o := range f.items {
		if o.Y <= canvasH {
			live = append(live, o)
		}
	}
	dropped := len(f.items) - len(live)
	f.items = live
	return dropped
}

// FirstHit returns the first obstacle overlapping r.
func (f *ObstacleField) FirstHit(r core.RectF) (Obstacle, bool) {
	for _, o := range f.items {
		if Collides(r, o.Rect()) {
			return o, true
		}
	}
	return Obstacle{}, false
}

// MaybeSpawn rolls the per-tick spawn chance and spawns on success.
func (f *ObstacleField) MaybeSpawn(canvasW float64) bool {
	if f.rng.Float64() >= f.cfg.SpawnChance {
		return false
	}
	f.Spawn(canvasW)
	return true
}

// Spawn appends a new obstacle just above the visible area at a random x.
// Draw order: size, x, speed.
func (f *ObstacleField) Spawn(canvasW float64) Obstacle {
	size := f.uniform(f.cfg.MinSize, f.cfg.MaxSize)
	o := Obstacle{
		X:    f.rng.Float64() * (canvasW - size),
		Y:    -size,
		Size: size,
	}
	o.Speed = f.uniform(f.cfg.MinSpeed, f.cfg.MaxSpeed)
	f.items = append(f.items, o)
	return o
}

func (f *ObstacleField) uniform(lo, hi float64) float64 {
	return lo + f.rng.Float64()*(hi-lo)
}

// Obstacles returns the live obstacles. The slice must not be modified.
func (f *ObstacleField) Obstacles() []Obstacle {
	return f.items
}

// Len returns the number of live obstacles.
func (f *ObstacleField) Len() int {
	return len(f.items)
}

// Collides is the strict AABB test between the player and an obstacle.
// Touching edges or corners do not collide.
func Collides(player, obstacle core.RectF) bool {
	return player.Overlaps(obstacle)
}
