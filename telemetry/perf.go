// Package telemetry collects frame timing and reports periodic fps
// observations.
package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// FrameCollector tracks frame durations over a rolling window and an
// elapsed-time accumulator for periodic reporting. Purely single-threaded;
// the frame loop calls RecordFrame once per iteration.
type FrameCollector struct {
	window     []float64 // frame durations in seconds
	writeIndex int
	count      int

	interval  time.Duration
	frames    int
	spanStart time.Time
	lastFrame time.Time
}

// NewFrameCollector creates a collector keeping windowSize samples and
// reporting every interval.
func NewFrameCollector(windowSize int, interval time.Duration) *FrameCollector {
	if windowSize < 1 {
		windowSize = 240
	}
	return &FrameCollector{
		window:   make([]float64, windowSize),
		interval: interval,
	}
}

// Observe adds one frame duration sample to the rolling window.
func (c *FrameCollector) Observe(d time.Duration) {
	c.window[c.writeIndex] = d.Seconds()
	c.writeIndex = (c.writeIndex + 1) % len(c.window)
	if c.count < len(c.window) {
		c.count++
	}
}

// RecordFrame marks the end of a frame. When a report interval has elapsed
// it returns the aggregated window statistics and resets the accumulator.
func (c *FrameCollector) RecordFrame() (WindowStats, bool) {
	now := time.Now()
	if c.lastFrame.IsZero() {
		c.lastFrame = now
		c.spanStart = now
		return WindowStats{}, false
	}
	c.Observe(now.Sub(c.lastFrame))
	c.lastFrame = now
	c.frames++

	elapsed := now.Sub(c.spanStart)
	if elapsed < c.interval {
		return WindowStats{}, false
	}
	stats := c.Stats(float64(c.frames) / elapsed.Seconds())
	c.frames = 0
	c.spanStart = now
	return stats, true
}

// WindowStats holds aggregated frame statistics for one report interval.
type WindowStats struct {
	FPS        float64 `csv:"fps"`
	Frames     int     `csv:"frames"`
	AvgFrameUS int64   `csv:"avg_frame_us"`
	StdFrameUS int64   `csv:"std_frame_us"`
	P99FrameUS int64   `csv:"p99_frame_us"`
}

// Stats aggregates the current window. fps is the report-interval average
// supplied by the caller (frames over wall-clock elapsed).
func (c *FrameCollector) Stats(fps float64) WindowStats {
	s := WindowStats{FPS: fps, Frames: c.frames}
	if c.count == 0 {
		return s
	}
	samples := make([]float64, c.count)
	copy(samples, c.window[:c.count])

	s.AvgFrameUS = secondsToMicros(stat.Mean(samples, nil))
	if c.count > 1 {
		s.StdFrameUS = secondsToMicros(stat.StdDev(samples, nil))
	}
	sort.Float64s(samples)
	s.P99FrameUS = secondsToMicros(stat.Quantile(0.99, stat.Empirical, samples, nil))
	return s
}

func secondsToMicros(s float64) int64 {
	return time.Duration(s * float64(time.Second)).Microseconds()
}

// LogStats emits the stats as a structured log line.
func (s WindowStats) LogStats() {
	slog.Info("fps",
		"fps", s.FPS,
		"frames", s.Frames,
		"avg_frame_us", s.AvgFrameUS,
		"std_frame_us", s.StdFrameUS,
		"p99_frame_us", s.P99FrameUS,
	)
}
