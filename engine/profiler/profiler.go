package profiler

import (
	"log"
	"runtime"
	"time"
)

// fpsSmoothing is the weight of the newest frame in the exponential moving
// FPS average.
const fpsSmoothing = 0.1

// FrameSample carries the per-frame counters the profiler folds into its
// interval report. The render loop fills it from the renderer and cache
// statistics after each frame.
type FrameSample struct {
	// DeltaSeconds is the frame time. Non-positive samples are counted but
	// excluded from FPS smoothing.
	DeltaSeconds float64

	// DrawCalls is the number of draw submissions in the frame.
	DrawCalls int

	// Triangles is the number of triangles submitted in the frame.
	Triangles int

	// Geometries is the number of distinct meshes resident in caches.
	Geometries int

	// GeometryBytes is the CPU-side size of the resident meshes.
	GeometryBytes int

	// Textures is the number of decoded textures resident in caches.
	Textures int

	// TextureBytes is the estimated GPU size of the resident textures.
	TextureBytes uint64

	// Culled is the number of drawables rejected by frustum culling.
	Culled int
}

// Report is the interval snapshot emitted by Tick. Counter fields mirror the
// most recent FrameSample; FPS fields aggregate the whole interval.
type Report struct {
	// FPS is the frame count over the elapsed interval.
	FPS float64

	// SmoothedFPS is the exponentially smoothed instantaneous frame rate.
	SmoothedFPS float64

	// FrameTimeMs is the mean frame time over the interval in milliseconds.
	FrameTimeMs float64

	DrawCalls     int
	Triangles     int
	Geometries    int
	GeometryBytes int
	Textures      int
	TextureBytes  uint64
	Culled        int
}

// Profiler tracks frame rate, renderer counters, and memory statistics for
// performance monitoring. Outputs stats to the log at a configurable
// interval and returns the same snapshot so callers can forward it to stats
// callbacks.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	smoothedFPS float64
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		frameCount:     0,
		lastTime:       time.Now(),
		updateInterval: time.Second,
		memStats:       runtime.MemStats{},
	}
}

// SetInterval sets the minimum time between emitted reports. A zero interval
// reports on every tick.
//
// Parameters:
//   - interval: the reporting interval
func (p *Profiler) SetInterval(interval time.Duration) {
	p.updateInterval = interval
}

// SmoothedFPS retrieves the exponentially smoothed frame rate. Zero until
// the first positive frame time is observed.
//
// Returns:
//   - float64: the smoothed frames per second
func (p *Profiler) SmoothedFPS() float64 {
	return p.smoothedFPS
}

// Tick should be called once per frame with that frame's sample.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, draw/triangle/geometry/texture counters, heap
// usage, allocation rate, GC count/pause times, total memory.
//
// Parameters:
//   - sample: the counters observed for the frame just finished
//
// Returns:
//   - Report: the aggregated snapshot (zero value unless stats were emitted)
//   - bool: true if stats were emitted this tick, false otherwise
func (p *Profiler) Tick(sample FrameSample) (Report, bool) {
	p.frameCount++
	if sample.DeltaSeconds > 0 {
		inst := 1.0 / sample.DeltaSeconds
		if p.smoothedFPS == 0 {
			p.smoothedFPS = inst
		} else {
			p.smoothedFPS += (inst - p.smoothedFPS) * fpsSmoothing
		}
	}

	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return Report{}, false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()
	frameTimeMs := 0.0
	if p.frameCount > 0 {
		frameTimeMs = elapsed.Seconds() * 1000 / float64(p.frameCount)
	}

	runtime.ReadMemStats(&p.memStats)
	// Alloc: Bytes of allocated heap objects (live memory)
	// TotalAlloc: Cumulative bytes allocated for heap objects (increases forever, tracks churn)
	// Sys: Total bytes of memory obtained from the OS (actual process footprint)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	// Calculate allocation rate (MB/sec)
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	// Calculate GC pause stats (last pause and max recent pause)
	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of last 256 GC pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		// Find max pause since last tick
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	log.Printf("[Profiler] FPS: %.2f (smoothed: %.2f) | Draws: %d | Tris: %d | Geo: %d (%d B) | Tex: %d (%d B) | Culled: %d | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		fps, p.smoothedFPS, sample.DrawCalls, sample.Triangles,
		sample.Geometries, sample.GeometryBytes, sample.Textures, sample.TextureBytes,
		sample.Culled, allocMB, allocRateMB, gcCount, lastPauseUs, maxPauseUs, sysMB)

	report := Report{
		FPS:           fps,
		SmoothedFPS:   p.smoothedFPS,
		FrameTimeMs:   frameTimeMs,
		DrawCalls:     sample.DrawCalls,
		Triangles:     sample.Triangles,
		Geometries:    sample.Geometries,
		GeometryBytes: sample.GeometryBytes,
		Textures:      sample.Textures,
		TextureBytes:  sample.TextureBytes,
		Culled:        sample.Culled,
	}

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return report, true
}
