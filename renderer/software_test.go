package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/bubbles/shading"
)

var testClear = mgl32.Vec4{0.1, 0.1, 0.1, 0.1}

func newTestBackend(width, height int) (*Software, uint32) {
	s := NewSoftware(width, height, testClear)
	s.Resize(width, height)
	return s, shading.PackUnorm4x8(testClear)
}

func TestSoftwareResizeAllocatesAndClears(t *testing.T) {
	s, clear := newTestBackend(640, 480)

	if w, h := s.FramebufferSize(); w != 640 || h != 480 {
		t.Fatalf("size = %dx%d, want 640x480", w, h)
	}
	if got := s.At(0, 0); got != clear {
		t.Errorf("pixel (0,0) = %#x, want clear %#x", got, clear)
	}
	if got := s.At(639, 479); got != clear {
		t.Errorf("pixel (639,479) = %#x, want clear %#x", got, clear)
	}
}

func TestSoftwareResizeIdempotent(t *testing.T) {
	s, clear := newTestBackend(200, 200)
	s.Upload([]Instance{{X: 100, Y: 100, Radius: 50, R: 1, G: 1, B: 1, A: 1}})
	s.Draw(0)

	drawn := s.At(100, 100)
	if drawn == clear {
		t.Fatal("draw left the center pixel at the clear color")
	}

	// Same dimensions: the image must survive untouched.
	s.Resize(200, 200)
	if got := s.At(100, 100); got != drawn {
		t.Errorf("resize to same size altered pixel: %#x -> %#x", drawn, got)
	}

	// New dimensions: fresh image at the clear color.
	s.Resize(100, 300)
	if w, h := s.FramebufferSize(); w != 100 || h != 300 {
		t.Fatalf("size after resize = %dx%d, want 100x300", w, h)
	}
	if got := s.At(50, 150); got != clear {
		t.Errorf("pixel after resize = %#x, want clear %#x", got, clear)
	}
}

func TestSoftwareDrawStationaryBubble(t *testing.T) {
	s, clear := newTestBackend(1000, 1000)
	s.Upload([]Instance{{X: 500, Y: 500, Radius: 100, R: 1, G: 0.5, B: 0.5, A: 1}})
	s.Draw(0)

	if got := s.At(500, 500); got == clear {
		t.Error("center pixel still at clear color")
	}
	if got := s.At(0, 0); got != clear {
		t.Errorf("far corner = %#x, want clear %#x", got, clear)
	}
}

func TestSoftwareDrawOverwritesQuadCorners(t *testing.T) {
	// Pixels inside the quad but outside the disk are still stored: the
	// zero-coverage sample packs to zero, replacing the clear color.
	s, clear := newTestBackend(1000, 1000)
	s.Upload([]Instance{{X: 500, Y: 500, Radius: 100, R: 1, G: 1, B: 1, A: 1}})
	s.Draw(0)

	got := s.At(405, 405)
	if got != 0 {
		t.Errorf("quad corner pixel = %#x, want packed zero", got)
	}
	if got == clear {
		t.Error("quad corner pixel kept the clear color")
	}
}

func TestSoftwareDrawEmptySet(t *testing.T) {
	s, clear := newTestBackend(64, 64)
	s.Upload(nil)
	s.Draw(0)

	for _, p := range [][2]int{{0, 0}, {32, 32}, {63, 63}} {
		if got := s.At(p[0], p[1]); got != clear {
			t.Errorf("pixel %v = %#x, want clear %#x", p, got, clear)
		}
	}
}

func TestSoftwareDrawMovesWithTime(t *testing.T) {
	s, clear := newTestBackend(1000, 1000)
	s.Upload([]Instance{{X: 500, Y: 500, Radius: 50, DX: 10, R: 1, G: 1, B: 1, A: 1}})

	s.Draw(0)
	if got := s.At(500, 500); got == clear {
		t.Fatal("bubble not drawn at T=0")
	}

	// After 20 frames the center has moved 200px to the right; the old
	// location is untouched by the new draw (no per-frame clear) but the
	// new location must now be covered.
	s.Draw(20)
	if got := s.At(700, 500); got == clear {
		t.Error("bubble not drawn at displaced position")
	}
}
