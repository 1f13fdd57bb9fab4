package core

import "time"

// RuntimeConfig contains configuration passed to the viewer at startup.
// Frontends use this to size the grid viewport and pace the simulation.
type RuntimeConfig struct {
	ScreenW int           // Screen width in characters
	ScreenH int           // Screen height in characters
	Sleep   time.Duration // Wait between ticks
	Nerd    bool          // Subtract render and update time from Sleep
	HUD     bool          // Reserve the top row for statistics
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
		Sleep:   200 * time.Millisecond,
		HUD:     true,
	}
}

// SimState represents the current state of a running simulation
// as reported to the viewer's statistics line.
type SimState struct {
	Tick      uint64        // Ticks completed
	TPS       int           // Ticks in the last full second
	Cells     int           // Occupied slots after the last tick
	Paused    bool          // Whether ticking is suspended
	Render    time.Duration // Last frame render time reported by the frontend
	Update    time.Duration // Last tick duration
	Sleep     time.Duration // Wait actually used after the last tick
	UserSleep time.Duration // Configured wait
	NerdSleep time.Duration // UserSleep minus Render and Update, floored at zero
}
