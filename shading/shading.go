// Package shading holds the host-side forms of the shader-stage math: the
// toroidal wrap evaluated per vertex instance, the analytic disk coverage
// and radial shading evaluated per fragment, and the color packing used by
// the image-store target. The GPU backend runs the GLSL versions of these
// functions; the software backend and the tests run these directly.
package shading

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mod is GLSL mod: x - y*floor(x/y). Unlike math.Mod the result takes the
// sign of the divisor, which the wrap fold relies on for negative centers.
func Mod(x, y float32) float32 {
	return x - y*float32(math.Floor(float64(x/y)))
}

// Lerp interpolates between a and b by t.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// WrapCenter returns the displayed center of a bubble at time t. The motion
// is folded into [radius, window-radius] per axis: the travel range is
// span = window - 2*radius, the raw center is wrapped into [0, 2*span) and
// reflected back, so a bubble reaching an edge re-enters without a
// directional jump. Pure function of its inputs; no state is advanced.
func WrapCenter(pos, vel mgl32.Vec2, radius, t float32, window mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{
		wrapAxis(pos.X()+vel.X()*t, radius, window.X()),
		wrapAxis(pos.Y()+vel.Y()*t, radius, window.Y()),
	}
}

func wrapAxis(c, radius, window float32) float32 {
	span := window - 2*radius
	return span - mgl32.Abs(span-Mod(c-radius, span*2)) + radius
}

// CornerOffset maps a triangle-strip vertex index 0..3 to a quad corner
// in {-1,+1} x {-1,+1}, matching the gl_VertexID decode in the vertex stage.
func CornerOffset(i int) mgl32.Vec2 {
	offset := mgl32.Vec2{-1, -1}
	if i&1 != 0 {
		offset[0] = 1
	}
	if i&2 != 0 {
		offset[1] = 1
	}
	return offset
}

// VertexNDC maps a quad corner of the wrapped bubble into normalized device
// coordinates for the given window size.
func VertexNDC(center, offset mgl32.Vec2, radius float32, window mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{
		(center.X()+offset.X()*radius)*2/window.X() - 1,
		(center.Y()+offset.Y()*radius)*2/window.Y() - 1,
	}
}

// CoverageWidth approximates fwidth(f) for the implicit circle function
// f = x^2 + y^2 - 1 when the quad-local coordinate steps by 1/radius per
// pixel, i.e. |df/dx| + |df/dy| in screen space.
func CoverageWidth(coord mgl32.Vec2, radius float32) float32 {
	return (mgl32.Abs(2*coord.X()) + mgl32.Abs(2*coord.Y())) / radius
}

// Coverage is the anti-aliased disk coverage at a quad-local coordinate:
// clamp(0.5 - f/fwidth(f), 0, 1). The derivative-based softening keeps the
// edge roughly one pixel wide regardless of the on-screen disk size.
func Coverage(coord mgl32.Vec2, fwidth float32) float32 {
	f := coord.Dot(coord) - 1
	return mgl32.Clamp(0.5-f/fwidth, 0, 1)
}

// Shade returns the premultiplied sample written for a fragment: the tint's
// alpha is modulated by a radial falloff mix(0.25, 1.0, dot(coord,coord))
// (dimmer center, brighter rim) times the coverage.
func Shade(tint mgl32.Vec4, coord mgl32.Vec2, coverage float32) mgl32.Vec4 {
	a := tint.W() * Lerp(0.25, 1.0, coord.Dot(coord)) * coverage
	return mgl32.Vec4{tint.X(), tint.Y(), tint.Z(), 1}.Mul(a)
}

// PackUnorm4x8 packs a normalized RGBA sample into a single 32-bit value,
// component x in the low byte, matching GLSL packUnorm4x8.
func PackUnorm4x8(v mgl32.Vec4) uint32 {
	var packed uint32
	for i := 0; i < 4; i++ {
		c := uint32(math.Round(float64(mgl32.Clamp(v[i], 0, 1) * 255)))
		packed |= c << (8 * uint(i))
	}
	return packed
}

// UnpackUnorm4x8 is the inverse of PackUnorm4x8.
func UnpackUnorm4x8(packed uint32) mgl32.Vec4 {
	var v mgl32.Vec4
	for i := 0; i < 4; i++ {
		v[i] = float32(packed>>(8*uint(i))&0xff) / 255
	}
	return v
}
