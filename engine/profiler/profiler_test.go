package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickRespectsInterval(t *testing.T) {
	p := NewProfiler()
	p.SetInterval(time.Hour)

	_, emitted := p.Tick(FrameSample{DeltaSeconds: 0.016})
	assert.False(t, emitted)
	_, emitted = p.Tick(FrameSample{DeltaSeconds: 0.016})
	assert.False(t, emitted)
}

func TestTickEmitsReport(t *testing.T) {
	p := NewProfiler()
	p.SetInterval(0)

	sample := FrameSample{
		DeltaSeconds:  0.02,
		DrawCalls:     12,
		Triangles:     48000,
		Geometries:    5,
		GeometryBytes: 1 << 20,
		Textures:      3,
		TextureBytes:  6 << 20,
		Culled:        4,
	}
	report, emitted := p.Tick(sample)
	require.True(t, emitted)

	assert.Equal(t, 12, report.DrawCalls)
	assert.Equal(t, 48000, report.Triangles)
	assert.Equal(t, 5, report.Geometries)
	assert.Equal(t, 1<<20, report.GeometryBytes)
	assert.Equal(t, 3, report.Textures)
	assert.Equal(t, uint64(6<<20), report.TextureBytes)
	assert.Equal(t, 4, report.Culled)
	assert.Positive(t, report.FPS)
	assert.Positive(t, report.FrameTimeMs)
	assert.InDelta(t, 50.0, report.SmoothedFPS, 1e-6)
}

func TestSmoothedFPSConverges(t *testing.T) {
	p := NewProfiler()

	// The first positive sample seeds the average directly.
	p.Tick(FrameSample{DeltaSeconds: 0.02})
	assert.InDelta(t, 50.0, p.SmoothedFPS(), 1e-6)

	// A faster frame pulls the average up by the smoothing weight only.
	p.Tick(FrameSample{DeltaSeconds: 0.01})
	assert.InDelta(t, 55.0, p.SmoothedFPS(), 1e-6)

	for range 200 {
		p.Tick(FrameSample{DeltaSeconds: 0.01})
	}
	assert.InDelta(t, 100.0, p.SmoothedFPS(), 0.5)
}

func TestNonPositiveDeltaSkipsSmoothing(t *testing.T) {
	p := NewProfiler()

	p.Tick(FrameSample{DeltaSeconds: 0.02})
	before := p.SmoothedFPS()

	p.Tick(FrameSample{DeltaSeconds: 0})
	p.Tick(FrameSample{DeltaSeconds: -1})
	assert.Equal(t, before, p.SmoothedFPS())
}

func TestIntervalResetsFrameCount(t *testing.T) {
	p := NewProfiler()
	p.SetInterval(time.Nanosecond)

	_, emitted := p.Tick(FrameSample{DeltaSeconds: 0.02})
	require.True(t, emitted)

	// The counter restarts after each report, so the next report still sees
	// a sane FPS.
	report, emitted := p.Tick(FrameSample{DeltaSeconds: 0.02})
	require.True(t, emitted)
	assert.Positive(t, report.FPS)
}
