package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/bubbles/shading"
)

// Software executes the rendering pipeline on the CPU: the same wrap,
// coverage and packing functions the GLSL stages use, run per instance per
// covered pixel against a packed []uint32 image. It reports a fixed output
// size and never requests shutdown, so headless runs are bounded by the
// driver's frame limit. Stores overwrite the image exactly like the GPU
// path does; instances are composited in upload order.
type Software struct {
	width, height int
	clear         uint32

	instances []Instance
	pix       []uint32
	allocated bool
}

// NewSoftware creates a software backend reporting the given output size.
func NewSoftware(width, height int, clear mgl32.Vec4) *Software {
	return &Software{
		width:  width,
		height: height,
		clear:  shading.PackUnorm4x8(clear),
	}
}

// Upload replaces the bubble set.
func (s *Software) Upload(instances []Instance) {
	s.instances = append(s.instances[:0], instances...)
}

// FramebufferSize reports the output dimensions.
func (s *Software) FramebufferSize() (int, int) {
	return s.width, s.height
}

// Resize reallocates the image for new dimensions and fills it with the
// clear color. A repeated call with the current dimensions keeps the
// existing image untouched.
func (s *Software) Resize(width, height int) {
	if s.allocated && width == s.width && height == s.height {
		return
	}
	s.width, s.height = width, height
	s.pix = make([]uint32, width*height)
	for i := range s.pix {
		s.pix[i] = s.clear
	}
	s.allocated = true
}

// Draw rasterizes every instance's quad at time t. Each covered pixel is
// written unconditionally, including zero-coverage corners, matching the
// fragment stage's unconditional image store.
func (s *Software) Draw(t float32) {
	window := mgl32.Vec2{float32(s.width), float32(s.height)}
	for i := range s.instances {
		in := &s.instances[i]
		center := shading.WrapCenter(
			mgl32.Vec2{in.X, in.Y},
			mgl32.Vec2{in.DX, in.DY},
			in.Radius, t, window,
		)
		s.rasterize(in, center)
	}
}

func (s *Software) rasterize(in *Instance, center mgl32.Vec2) {
	r := in.Radius
	if r <= 0 {
		return
	}
	tint := mgl32.Vec4{in.R, in.G, in.B, in.A}
	x0 := int(math.Floor(float64(center.X() - r)))
	x1 := int(math.Ceil(float64(center.X() + r)))
	y0 := int(math.Floor(float64(center.Y() - r)))
	y1 := int(math.Ceil(float64(center.Y() + r)))

	for py := y0; py < y1; py++ {
		if py < 0 || py >= s.height {
			continue
		}
		for px := x0; px < x1; px++ {
			if px < 0 || px >= s.width {
				continue
			}
			coord := mgl32.Vec2{
				(float32(px) + 0.5 - center.X()) / r,
				(float32(py) + 0.5 - center.Y()) / r,
			}
			coverage := shading.Coverage(coord, shading.CoverageWidth(coord, r))
			sample := shading.Shade(tint, coord, coverage)
			s.pix[py*s.width+px] = shading.PackUnorm4x8(sample)
		}
	}
}

// Present is a no-op; the software image has no visible surface.
func (s *Software) Present() {}

// ShouldClose always reports false.
func (s *Software) ShouldClose() bool { return false }

// At returns the packed sample at pixel (x, y).
func (s *Software) At(x, y int) uint32 {
	return s.pix[y*s.width+x]
}

// Close releases nothing; present for Backend symmetry.
func (s *Software) Close() {}
