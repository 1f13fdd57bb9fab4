package config

import (
	"fmt"
	"strings"
	"time"
)

// SpeedPreset represents a named tick pacing.
type SpeedPreset string

const (
	SpeedSlow   SpeedPreset = "slow"
	SpeedNormal SpeedPreset = "normal"
	SpeedFast   SpeedPreset = "fast"
	SpeedMax    SpeedPreset = "max"
)

// Sleep bounds used by the viewer's faster/slower controls.
const (
	MinTickMS  = 0
	MaxTickMS  = 2000
	TickMSStep = 25
)

// TickMSForPreset returns the tick_ms for a speed preset.
// Unknown presets keep the normal pace.
func TickMSForPreset(preset SpeedPreset) int {
	switch preset {
	case SpeedSlow:
		return 500
	case SpeedFast:
		return 50
	case SpeedMax:
		return 0
	default:
		return 200
	}
}

// ParseSpeedPreset accepts a preset name in any case.
func ParseSpeedPreset(s string) (SpeedPreset, error) {
	p := SpeedPreset(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case SpeedSlow, SpeedNormal, SpeedFast, SpeedMax:
		return p, nil
	}
	return "", fmt.Errorf("config: unknown speed %q (slow, normal, fast, max)", s)
}

// ApplySpeedPreset modifies the config based on a speed preset.
func ApplySpeedPreset(cfg *ViewerConfig, preset SpeedPreset) {
	cfg.TickMS = TickMSForPreset(preset)
}

// Faster shortens a sleep by one step, never going below MinTickMS.
// Below 100ms the step halves so fine control remains.
func Faster(ms int) int {
	step := TickMSStep
	if ms <= 100 {
		step = TickMSStep / 2
	}
	return clamp(ms-step, MinTickMS, MaxTickMS)
}

// Slower lengthens a sleep by one step, never going above MaxTickMS.
func Slower(ms int) int {
	step := TickMSStep
	if ms < 100 {
		step = TickMSStep / 2
	}
	return clamp(ms+step, MinTickMS, MaxTickMS)
}

// Sleep converts milliseconds to a duration.
func Sleep(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
