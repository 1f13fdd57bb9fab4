// Package core provides fundamental types and utilities shared by the viewer
// frontends. It contains no external dependencies (especially no Bubble Tea)
// so rendering stays pure and testable.
package core

import "cmp"

// Rect is an area of the screen in columns and rows.
type Rect struct {
	X, Y int // Top-left corner
	W, H int
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Contains reports whether the screen position (x, y) lies inside r.
// The right and bottom edges are exclusive.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Clamp restricts v to [lo, hi]. When lo > hi, lo wins.
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	return max(lo, min(v, hi))
}
