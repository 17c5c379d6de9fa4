package config

import (
	_ "embed"
)

//go:embed defaults/dodge.yaml
var defaultDodgeYAML []byte

// DefaultDodgeConfig returns the built-in dodge configuration.
func DefaultDodgeConfig() DodgeConfig {
	return DodgeConfig{
		Canvas: CanvasConfig{
			ViewportFraction: 0.9,
			CellWidth:        10,
			CellHeight:       20,
		},
		Player: PlayerConfig{
			Width:  30,
			Height: 30,
			Speed:  10,
		},
		Obstacles: ObstacleConfig{
			SpawnChance: 0.02,
			MinSize:     10,
			MaxSize:     90,
			MinSpeed:    0.05,
			MaxSpeed:    20.05,
		},
		Scoring: ScoringConfig{
			FramesPerPoint: 30,
		},
		Input: InputConfig{
			JoystickThreshold: 20,
			KeyHoldTicks:      30, // outlasts the usual key auto-repeat delay
		},
		Appearance: AppearanceConfig{
			Color: "red",
			Shape: "circle",
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultDodgeYAML
}
