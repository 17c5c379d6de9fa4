// Package config provides YAML/TOML-based configuration loading for the
// dodge game.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-dodge/internal/core"
)

// DodgeConfig contains all tunables of the dodge game.
type DodgeConfig struct {
	Canvas     CanvasConfig     `yaml:"canvas" toml:"canvas"`
	Player     PlayerConfig     `yaml:"player" toml:"player"`
	Obstacles  ObstacleConfig   `yaml:"obstacles" toml:"obstacles"`
	Scoring    ScoringConfig    `yaml:"scoring" toml:"scoring"`
	Input      InputConfig      `yaml:"input" toml:"input"`
	Appearance AppearanceConfig `yaml:"appearance" toml:"appearance"`
}

// CanvasConfig maps the terminal viewport onto world pixels.
type CanvasConfig struct {
	ViewportFraction float64 `yaml:"viewport_fraction" toml:"viewport_fraction"` // canvas = fraction * viewport
	CellWidth        float64 `yaml:"cell_width" toml:"cell_width"`               // world pixels per terminal column
	CellHeight       float64 `yaml:"cell_height" toml:"cell_height"`             // world pixels per terminal row
}

// PlayerConfig defines the player's box and movement.
type PlayerConfig struct {
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
	Speed  float64 `yaml:"speed" toml:"speed"` // pixels per tick per held direction
}

// ObstacleConfig defines how obstacles are spawned.
type ObstacleConfig struct {
	SpawnChance float64 `yaml:"spawn_chance" toml:"spawn_chance"` // per-tick probability
	MinSize     float64 `yaml:"min_size" toml:"min_size"`
	MaxSize     float64 `yaml:"max_size" toml:"max_size"` // exclusive
	MinSpeed    float64 `yaml:"min_speed" toml:"min_speed"`
	MaxSpeed    float64 `yaml:"max_speed" toml:"max_speed"` // exclusive
}

// ScoringConfig defines how fast the score grows.
type ScoringConfig struct {
	FramesPerPoint int `yaml:"frames_per_point" toml:"frames_per_point"`
}

// InputConfig tunes the keyboard and the virtual joystick.
type InputConfig struct {
	JoystickThreshold float64 `yaml:"joystick_threshold" toml:"joystick_threshold"` // pixels
	KeyHoldTicks      int     `yaml:"key_hold_ticks" toml:"key_hold_ticks"`
}

// AppearanceConfig holds the initial player look.
type AppearanceConfig struct {
	Color string `yaml:"color" toml:"color"`
	Shape string `yaml:"shape" toml:"shape"`
}

var validShapes = map[string]bool{"circle": true, "square": true, "triangle": true}

func validShape(name string) bool {
	return validShapes[strings.ToLower(strings.TrimSpace(name))]
}

// Validate reports every out-of-range value in the config.
func (c DodgeConfig) Validate() error {
	var errs []error

	if c.Canvas.ViewportFraction <= 0 || c.Canvas.ViewportFraction > 1 {
		errs = append(errs, fmt.Errorf("canvas.viewport_fraction must be in (0, 1], got %v", c.Canvas.ViewportFraction))
	}
	if c.Canvas.CellWidth <= 0 || c.Canvas.CellHeight <= 0 {
		errs = append(errs, fmt.Errorf("canvas cell size must be positive, got %vx%v", c.Canvas.CellWidth, c.Canvas.CellHeight))
	}
	if c.Player.Width <= 0 || c.Player.Height <= 0 {
		errs = append(errs, fmt.Errorf("player size must be positive, got %vx%v", c.Player.Width, c.Player.Height))
	}
	if c.Player.Speed < 0 {
		errs = append(errs, fmt.Errorf("player.speed must not be negative, got %v", c.Player.Speed))
	}
	if c.Obstacles.SpawnChance < 0 || c.Obstacles.SpawnChance > 1 {
		errs = append(errs, fmt.Errorf("obstacles.spawn_chance must be in [0, 1], got %v", c.Obstacles.SpawnChance))
	}
	if c.Obstacles.MinSize <= 0 || c.Obstacles.MaxSize < c.Obstacles.MinSize {
		errs = append(errs, fmt.Errorf("obstacles size range [%v, %v) is invalid", c.Obstacles.MinSize, c.Obstacles.MaxSize))
	}
	if c.Obstacles.MinSpeed <= 0 || c.Obstacles.MaxSpeed < c.Obstacles.MinSpeed {
		errs = append(errs, fmt.Errorf("obstacles speed range [%v, %v) is invalid", c.Obstacles.MinSpeed, c.Obstacles.MaxSpeed))
	}
	if c.Scoring.FramesPerPoint <= 0 {
		errs = append(errs, fmt.Errorf("scoring.frames_per_point must be positive, got %d", c.Scoring.FramesPerPoint))
	}
	if c.Input.JoystickThreshold < 0 {
		errs = append(errs, fmt.Errorf("input.joystick_threshold must not be negative, got %v", c.Input.JoystickThreshold))
	}
	if c.Input.KeyHoldTicks <= 0 {
		errs = append(errs, fmt.Errorf("input.key_hold_ticks must be positive, got %d", c.Input.KeyHoldTicks))
	}
	if _, ok := core.ParsePlayerColor(c.Appearance.Color); !ok {
		errs = append(errs, fmt.Errorf("appearance.color %q is not a player color", c.Appearance.Color))
	}
	if !validShape(c.Appearance.Shape) {
		errs = append(errs, fmt.Errorf("appearance.shape %q is unknown", c.Appearance.Shape))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
	}
	return nil
}
