package monitoring

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// GenerationMonitor tracks mesh generation throughput and cache behavior
type GenerationMonitor struct {
	// Generation counters
	treesGenerated   atomic.Uint64
	patchesGenerated atomic.Uint64
	verticesEmitted  atomic.Uint64

	// Cache counters
	cacheHits   atomic.Uint64
	cacheMisses atomic.Uint64

	// Timing
	totalGenTime atomic.Uint64 // nanoseconds
	lastGenTime  atomic.Uint64

	// Statistics
	mutex           sync.RWMutex
	peakMemoryUsage uint64
	startTime       time.Time
}

// NewGenerationMonitor creates a new generation monitor
func NewGenerationMonitor() *GenerationMonitor {
	return &GenerationMonitor{
		startTime: time.Now(),
	}
}

// GenerationTimer measures a single generation pass
type GenerationTimer struct {
	monitor   *GenerationMonitor
	startTime time.Time
}

// StartGeneration begins timing one generation pass
func (gm *GenerationMonitor) StartGeneration() *GenerationTimer {
	return &GenerationTimer{
		monitor:   gm,
		startTime: time.Now(),
	}
}

// EndTree completes timing for a tree generation pass
func (gt *GenerationTimer) EndTree(vertices int) {
	elapsed := uint64(time.Since(gt.startTime).Nanoseconds())
	gt.monitor.lastGenTime.Store(elapsed)
	gt.monitor.totalGenTime.Add(elapsed)
	gt.monitor.treesGenerated.Add(1)
	gt.monitor.verticesEmitted.Add(uint64(vertices))
	gt.monitor.sampleMemory()
}

// EndPatch completes timing for a grass patch generation pass
func (gt *GenerationTimer) EndPatch(vertices int) {
	elapsed := uint64(time.Since(gt.startTime).Nanoseconds())
	gt.monitor.lastGenTime.Store(elapsed)
	gt.monitor.totalGenTime.Add(elapsed)
	gt.monitor.patchesGenerated.Add(1)
	gt.monitor.verticesEmitted.Add(uint64(vertices))
	gt.monitor.sampleMemory()
}

// RecordCacheHit notes a cache lookup that reused an existing mesh
func (gm *GenerationMonitor) RecordCacheHit() {
	gm.cacheHits.Add(1)
}

// RecordCacheMiss notes a cache lookup that triggered generation
func (gm *GenerationMonitor) RecordCacheMiss() {
	gm.cacheMisses.Add(1)
}

func (gm *GenerationMonitor) sampleMemory() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	gm.mutex.Lock()
	if memStats.Alloc > gm.peakMemoryUsage {
		gm.peakMemoryUsage = memStats.Alloc
	}
	gm.mutex.Unlock()
}

// Stats is a snapshot of generation metrics
type Stats struct {
	TreesGenerated   uint64
	PatchesGenerated uint64
	VerticesEmitted  uint64
	CacheHits        uint64
	CacheMisses      uint64
	AvgGenTime       time.Duration
	LastGenTime      time.Duration
	PeakMemoryMB     uint64
	Uptime           time.Duration
}

// Snapshot returns current generation metrics
func (gm *GenerationMonitor) Snapshot() Stats {
	gm.mutex.RLock()
	peak := gm.peakMemoryUsage
	start := gm.startTime
	gm.mutex.RUnlock()

	trees := gm.treesGenerated.Load()
	patches := gm.patchesGenerated.Load()

	var avg time.Duration
	if total := trees + patches; total > 0 {
		avg = time.Duration(gm.totalGenTime.Load() / total)
	}

	return Stats{
		TreesGenerated:   trees,
		PatchesGenerated: patches,
		VerticesEmitted:  gm.verticesEmitted.Load(),
		CacheHits:        gm.cacheHits.Load(),
		CacheMisses:      gm.cacheMisses.Load(),
		AvgGenTime:       avg,
		LastGenTime:      time.Duration(gm.lastGenTime.Load()),
		PeakMemoryMB:     peak / 1024 / 1024,
		Uptime:           time.Since(start),
	}
}

// HitRate returns the cache hit ratio in [0, 1], or 0 before any lookups
func (s Stats) HitRate() float64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total)
}

// GetDetailedStats returns detailed statistics for logging and debugging
func (gm *GenerationMonitor) GetDetailedStats() map[string]interface{} {
	s := gm.Snapshot()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return map[string]interface{}{
		"uptime_seconds":    s.Uptime.Seconds(),
		"trees_generated":   s.TreesGenerated,
		"patches_generated": s.PatchesGenerated,
		"vertices_emitted":  s.VerticesEmitted,
		"cache_hits":        s.CacheHits,
		"cache_misses":      s.CacheMisses,
		"cache_hit_rate":    s.HitRate(),
		"avg_gen_time_ms":   float64(s.AvgGenTime.Nanoseconds()) / 1e6,
		"last_gen_time_ms":  float64(s.LastGenTime.Nanoseconds()) / 1e6,
		"peak_memory_mb":    s.PeakMemoryMB,
		"memory_alloc_mb":   memStats.Alloc / 1024 / 1024,
		"gc_cycles":         memStats.NumGC,
		"cpu_cores":         runtime.NumCPU(),
		"goroutines":        runtime.NumGoroutine(),
	}
}

// Reset resets all counters
func (gm *GenerationMonitor) Reset() {
	gm.treesGenerated.Store(0)
	gm.patchesGenerated.Store(0)
	gm.verticesEmitted.Store(0)
	gm.cacheHits.Store(0)
	gm.cacheMisses.Store(0)
	gm.totalGenTime.Store(0)
	gm.lastGenTime.Store(0)

	gm.mutex.Lock()
	gm.peakMemoryUsage = 0
	gm.startTime = time.Now()
	gm.mutex.Unlock()
}
