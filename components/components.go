// Package components defines ECS components for the bubble entities.
package components

// Position is a bubble's generated center in domain coordinates.
// The displayed position is derived from it each frame; this value
// never changes after generation.
type Position struct {
	X, Y float32
}

// Velocity is a bubble's constant drift per frame, in domain units.
type Velocity struct {
	X, Y float32
}

// Body holds physical properties of a bubble.
type Body struct {
	Radius float32
}

// Tint is a bubble's RGBA color, components in [0, 1].
type Tint struct {
	R, G, B, A float32
}
