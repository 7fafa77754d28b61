// Package renderer drives the per-frame instanced rendering pipeline.
//
// The frame loop is agnostic to the device behind it: it only needs an
// instanced draw over the uploaded bubble set, a write-only image-store
// target sized to the output, and a blit of that image to the presentable
// surface. The GL backend runs the pipeline on an OpenGL 4.3 context; the
// software backend executes the same shading functions on the CPU and is
// used by tests and headless runs.
package renderer

// Instance is one bubble's per-instance attribute block, laid out exactly
// as the vertex stage consumes it: vec3 bubble (x, y, r), vec2 speed,
// vec4 color.
type Instance struct {
	X, Y, Radius float32
	DX, DY       float32
	R, G, B, A   float32
}

const floatsPerInstance = 9

// Backend is the rendering device the frame loop drives. Upload is called
// once per bubble set; the remaining methods are each called exactly once
// per loop iteration.
type Backend interface {
	// Upload replaces the GPU-resident bubble set. The slice is not
	// retained; instance data is immutable once uploaded.
	Upload(instances []Instance)
	// FramebufferSize reports the current output dimensions in pixels.
	FramebufferSize() (int, int)
	// Resize reallocates the frame target for new output dimensions.
	// Calling it again with the same dimensions is a no-op.
	Resize(width, height int)
	// Draw issues one instanced draw of the whole set at time parameter t.
	Draw(t float32)
	// Present copies the rendered image to the visible surface.
	Present()
	// ShouldClose reports whether a shutdown was requested.
	ShouldClose() bool
	// Close releases the device.
	Close()
}

func flattenInstances(instances []Instance) []float32 {
	data := make([]float32, 0, len(instances)*floatsPerInstance)
	for i := range instances {
		in := &instances[i]
		data = append(data,
			in.X, in.Y, in.Radius,
			in.DX, in.DY,
			in.R, in.G, in.B, in.A,
		)
	}
	return data
}
