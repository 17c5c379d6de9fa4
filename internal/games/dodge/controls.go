package dodge

import (
	"github.com/vovakirdan/tui-dodge/internal/config"
	"github.com/vovakirdan/tui-dodge/internal/core"
)

// directions in flag-index order.
var directions = [4]core.Action{core.ActionLeft, core.ActionRight, core.ActionUp, core.ActionDown}

// opposite maps a direction index to the index of its opposite.
var opposite = [4]int{1, 0, 3, 2}

func dirIndex(a core.Action) (int, bool) {
	for i, d := range directions {
		if d == a {
			return i, true
		}
	}
	return 0, false
}

// Joystick turns a drag gesture into direction flags. Each axis is tested
// independently against the threshold, measured from where the drag began.
type Joystick struct {
	Threshold float64
	active    bool
	baseX     float64
	baseY     float64
}

// Start records the base point of a drag.
func (j *Joystick) Start(x, y float64) {
	j.active = true
	j.baseX = x
	j.baseY = y
}

// Move returns the direction flags for the current drag position.
// ok is false when no drag is in progress.
func (j *Joystick) Move(x, y float64) (flags [4]bool, ok bool) {
	if !j.active {
		return flags, false
	}
	dx := x - j.baseX
	dy := y - j.baseY
	flags[0] = dx < -j.Threshold
	flags[1] = dx > j.Threshold
	flags[2] = dy < -j.Threshold
	flags[3] = dy > j.Threshold
	return flags, true
}

// End finishes the drag.
func (j *Joystick) End() {
	j.active = false
}

// Active reports whether a drag is in progress.
func (j *Joystick) Active() bool {
	return j.active
}

// Controls holds the four direction flags fed to the world every tick.
//
// Keyboard and joystick write the same flags and overwrite each other.
// Terminals report key presses but not releases, so a key press holds its
// direction for a fixed number of ticks; auto-repeat keeps re-arming it
// while the key stays down.
type Controls struct {
	flags     [4]bool
	ttl       [4]int // Ticks left before a keyboard flag lapses; 0 = held until overwritten
	holdTicks int
	stick     Joystick
	pause     bool
}

// NewControls creates controls tuned by cfg.
func NewControls(cfg config.InputConfig) *Controls {
	return &Controls{
		holdTicks: max(cfg.KeyHoldTicks, 1),
		stick:     Joystick{Threshold: cfg.JoystickThreshold},
	}
}

// Press handles a key press mapped to an action.
// A direction press also cancels its opposite.
func (c *Controls) Press(a core.Action) {
	if a == core.ActionPause {
		c.pause = true
		return
	}
	i, ok := dirIndex(a)
	if !ok {
		return
	}
	c.flags[i] = true
	c.ttl[i] = c.holdTicks
	o := opposite[i]
	c.flags[o] = false
	c.ttl[o] = 0
}

// ReleaseAll clears every direction.
func (c *Controls) ReleaseAll() {
	c.flags = [4]bool{}
	c.ttl = [4]int{}
}

// StickStart begins a joystick drag at the given world position.
func (c *Controls) StickStart(x, y float64) {
	c.stick.Start(x, y)
}

// StickMove updates all four flags from the drag position.
func (c *Controls) StickMove(x, y float64) {
	flags, ok := c.stick.Move(x, y)
	if !ok {
		return
	}
	c.flags = flags
	c.ttl = [4]int{}
}

// StickEnd finishes a drag and clears every direction.
func (c *Controls) StickEnd() {
	c.stick.End()
	c.ReleaseAll()
}

// Held reports whether the direction is currently active.
func (c *Controls) Held(a core.Action) bool {
	i, ok := dirIndex(a)
	return ok && c.flags[i]
}

// Frame returns the input for this tick and then ages the keyboard holds.
func (c *Controls) Frame() core.InputFrame {
	frame := core.NewInputFrame()
	for i, d := range directions {
		if c.flags[i] {
			frame.Set(d)
		}
	}
	if c.pause {
		frame.Set(core.ActionPause)
		c.pause = false
	}

	for i := range c.ttl {
		if c.ttl[i] > 0 {
			c.ttl[i]--
			if c.ttl[i] == 0 {
				c.flags[i] = false
			}
		}
	}
	return frame
}
