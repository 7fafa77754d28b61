package shading

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestModTakesDivisorSign(t *testing.T) {
	cases := []struct{ x, y, want float32 }{
		{7, 5, 2},
		{-3, 5, 2},
		{-0.5, 2, 1.5},
		{4.5, 2, 0.5},
	}
	for _, tc := range cases {
		if got := Mod(tc.x, tc.y); math.Abs(float64(got-tc.want)) > 1e-5 {
			t.Errorf("Mod(%v, %v) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestWrapCenterPeriodic(t *testing.T) {
	pos := mgl32.Vec2{300, 400}
	vel := mgl32.Vec2{3, 2}
	window := mgl32.Vec2{1000, 800}
	radius := float32(50)

	// The fold repeats every 2*span/|v| frames per axis.
	spanX := window.X() - 2*radius
	periodX := 2 * spanX / vel.X()

	for _, start := range []float32{0, 17, 1234} {
		a := WrapCenter(pos, vel, radius, start, window)
		b := WrapCenter(pos, vel, radius, start+periodX, window)
		if math.Abs(float64(a.X()-b.X())) > 0.01 {
			t.Errorf("x not periodic at T=%v: %v vs %v", start, a.X(), b.X())
		}
	}

	spanY := window.Y() - 2*radius
	periodY := 2 * spanY / vel.Y()
	a := WrapCenter(pos, vel, radius, 5, window)
	b := WrapCenter(pos, vel, radius, 5+periodY, window)
	if math.Abs(float64(a.Y()-b.Y())) > 0.01 {
		t.Errorf("y not periodic: %v vs %v", a.Y(), b.Y())
	}
}

func TestWrapCenterStaysInset(t *testing.T) {
	pos := mgl32.Vec2{10, 1900}
	vel := mgl32.Vec2{-7.3, 11.1}
	window := mgl32.Vec2{1000, 800}
	radius := float32(40)

	for frame := 0; frame < 5000; frame++ {
		c := WrapCenter(pos, vel, radius, float32(frame), window)
		if c.X() < radius-0.01 || c.X() > window.X()-radius+0.01 {
			t.Fatalf("frame %d: x=%v outside [r, w-r]", frame, c.X())
		}
		if c.Y() < radius-0.01 || c.Y() > window.Y()-radius+0.01 {
			t.Fatalf("frame %d: y=%v outside [r, h-r]", frame, c.Y())
		}
	}
}

func TestWrapCenterStepContinuity(t *testing.T) {
	// Between folds the center moves by exactly the velocity each frame;
	// at a fold the step shrinks but never exceeds it.
	pos := mgl32.Vec2{500, 0}
	vel := mgl32.Vec2{3, 0}
	window := mgl32.Vec2{1000, 1000}
	radius := float32(50)
	span := window.X() - 2*radius

	frames := 2000
	deviations := 0
	prev := WrapCenter(pos, vel, radius, 0, window)
	for frame := 1; frame < frames; frame++ {
		cur := WrapCenter(pos, vel, radius, float32(frame), window)
		step := float64(cur.X() - prev.X())
		if math.Abs(math.Abs(step)-float64(vel.X())) > 0.01 {
			deviations++
			if math.Abs(step) > float64(vel.X())+0.01 {
				t.Fatalf("frame %d: step %v exceeds velocity", frame, step)
			}
		}
		prev = cur
	}

	// One reflection per traversal of the span.
	maxFolds := int(float64(frames)*float64(vel.X())/float64(span)) + 2
	if deviations > maxFolds {
		t.Errorf("%d deviating steps, expected at most %d folds", deviations, maxFolds)
	}
}

func TestCornerOffsets(t *testing.T) {
	want := []mgl32.Vec2{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}}
	for i, w := range want {
		if got := CornerOffset(i); got != w {
			t.Errorf("CornerOffset(%d) = %v, want %v", i, got, w)
		}
	}
}

func TestVertexNDCCoversDisk(t *testing.T) {
	center := mgl32.Vec2{500, 500}
	window := mgl32.Vec2{1000, 1000}
	radius := float32(100)

	lo := VertexNDC(center, CornerOffset(0), radius, window)
	hi := VertexNDC(center, CornerOffset(3), radius, window)
	if math.Abs(float64(lo.X()+0.2)) > 1e-5 || math.Abs(float64(lo.Y()+0.2)) > 1e-5 {
		t.Errorf("lower corner = %v, want (-0.2, -0.2)", lo)
	}
	if math.Abs(float64(hi.X()-0.2)) > 1e-5 || math.Abs(float64(hi.Y()-0.2)) > 1e-5 {
		t.Errorf("upper corner = %v, want (0.2, 0.2)", hi)
	}
}

func TestCoverage(t *testing.T) {
	radius := float32(50)

	center := mgl32.Vec2{0, 0}
	if got := Coverage(center, CoverageWidth(center, radius)); got < 0.999 {
		t.Errorf("coverage at center = %v, want ~1", got)
	}

	outside := mgl32.Vec2{1.2, 0}
	if got := Coverage(outside, CoverageWidth(outside, radius)); got > 0.001 {
		t.Errorf("coverage outside = %v, want ~0", got)
	}

	edge := mgl32.Vec2{1, 0}
	if got := Coverage(edge, CoverageWidth(edge, radius)); math.Abs(float64(got-0.5)) > 0.01 {
		t.Errorf("coverage on edge = %v, want ~0.5", got)
	}
}

func TestShade(t *testing.T) {
	tint := mgl32.Vec4{1, 0.5, 0.25, 0.8}

	// Full coverage at the rim: alpha = tint alpha, premultiplied.
	rim := Shade(tint, mgl32.Vec2{1, 0}, 1)
	if math.Abs(float64(rim.W()-0.8)) > 1e-5 {
		t.Errorf("rim alpha = %v, want 0.8", rim.W())
	}
	if math.Abs(float64(rim.X()-0.8)) > 1e-5 || math.Abs(float64(rim.Y()-0.4)) > 1e-5 {
		t.Errorf("rim sample not premultiplied: %v", rim)
	}

	// Center is dimmed to a quarter of the rim.
	center := Shade(tint, mgl32.Vec2{0, 0}, 1)
	if math.Abs(float64(center.W()-0.2)) > 1e-5 {
		t.Errorf("center alpha = %v, want 0.2", center.W())
	}

	// Zero coverage produces a fully transparent sample.
	if got := Shade(tint, mgl32.Vec2{1, 1}, 0); got != (mgl32.Vec4{}) {
		t.Errorf("zero coverage sample = %v, want zero", got)
	}
}

func TestPackUnorm4x8(t *testing.T) {
	if got := PackUnorm4x8(mgl32.Vec4{1, 0, 0, 0}); got != 0xff {
		t.Errorf("red in low byte: got %#x", got)
	}
	if got := PackUnorm4x8(mgl32.Vec4{0, 0, 0, 1}); got != 0xff000000 {
		t.Errorf("alpha in high byte: got %#x", got)
	}
	// Out-of-range components clamp rather than wrap.
	if got := PackUnorm4x8(mgl32.Vec4{2, -1, 0, 0}); got != 0xff {
		t.Errorf("clamping: got %#x", got)
	}

	v := mgl32.Vec4{0.1, 0.5, 0.9, 0.75}
	back := UnpackUnorm4x8(PackUnorm4x8(v))
	for i := 0; i < 4; i++ {
		if math.Abs(float64(back[i]-v[i])) > 1.0/255 {
			t.Errorf("round trip channel %d: %v -> %v", i, v[i], back[i])
		}
	}
}
