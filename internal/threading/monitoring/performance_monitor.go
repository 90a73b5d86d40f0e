package monitoring

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Stage names accepted by ProfiledFunction.
const (
	StageRaycast = "raycast"
	StageFloor   = "floor"
	StageSprites = "sprite_render"
	StageEnemies = "enemy_update"
	StageCombat  = "combat"
)

// smoothing factor for the rolling averages shown in the overlay
const emaAlpha = 0.1

// PerformanceMonitor tracks frame and per-stage timings for the debug overlay
type PerformanceMonitor struct {
	// Frame metrics
	frameCount atomic.Uint64
	frameTime  atomic.Uint64 // nanoseconds

	// Stage metrics, last sample in nanoseconds
	raycastTime atomic.Uint64
	floorTime   atomic.Uint64
	spriteTime  atomic.Uint64
	enemyTime   atomic.Uint64
	combatTime  atomic.Uint64

	// World metrics
	enemiesAlive   atomic.Int32
	spritesDrawn   atomic.Int32
	columnsCast    atomic.Uint64
	pathSearches   atomic.Uint64
	workerJobsDone atomic.Int64

	mutex          sync.RWMutex
	avgFrameTime   float64
	avgRaycastTime float64
	startTime      time.Time

	enableDetailed bool
}

// NewPerformanceMonitor creates a new performance monitor
func NewPerformanceMonitor() *PerformanceMonitor {
	return &PerformanceMonitor{
		startTime:      time.Now(),
		enableDetailed: true,
	}
}

// FrameTimer helps measure frame timing
type FrameTimer struct {
	monitor   *PerformanceMonitor
	startTime time.Time
}

// StartFrame begins frame timing
func (pm *PerformanceMonitor) StartFrame() *FrameTimer {
	return &FrameTimer{
		monitor:   pm,
		startTime: time.Now(),
	}
}

// EndFrame completes frame timing
func (ft *FrameTimer) EndFrame() {
	ft.monitor.recordFrame(time.Since(ft.startTime))
}

func (pm *PerformanceMonitor) recordFrame(d time.Duration) {
	ns := uint64(d.Nanoseconds())
	pm.frameTime.Store(ns)
	n := pm.frameCount.Add(1)

	pm.mutex.Lock()
	if pm.enableDetailed {
		if n == 1 {
			pm.avgFrameTime = float64(ns)
		} else {
			pm.avgFrameTime += emaAlpha * (float64(ns) - pm.avgFrameTime)
		}
	}
	pm.mutex.Unlock()
}

// RaycastTimer helps measure raycasting performance
type RaycastTimer struct {
	monitor   *PerformanceMonitor
	startTime time.Time
	columns   int
}

// StartRaycast begins raycast timing for a pass over the given number of columns
func (pm *PerformanceMonitor) StartRaycast(columns int) *RaycastTimer {
	return &RaycastTimer{
		monitor:   pm,
		startTime: time.Now(),
		columns:   columns,
	}
}

// EndRaycast completes raycast timing
func (rt *RaycastTimer) EndRaycast() {
	ns := uint64(time.Since(rt.startTime).Nanoseconds())
	rt.monitor.raycastTime.Store(ns)
	rt.monitor.columnsCast.Add(uint64(rt.columns))

	rt.monitor.mutex.Lock()
	if rt.monitor.enableDetailed {
		if rt.monitor.avgRaycastTime == 0 {
			rt.monitor.avgRaycastTime = float64(ns)
		} else {
			rt.monitor.avgRaycastTime += emaAlpha * (float64(ns) - rt.monitor.avgRaycastTime)
		}
	}
	rt.monitor.mutex.Unlock()
}

// UpdateWorldMetrics records per-frame world counts
func (pm *PerformanceMonitor) UpdateWorldMetrics(enemiesAlive, spritesDrawn int) {
	pm.enemiesAlive.Store(int32(enemiesAlive))
	pm.spritesDrawn.Store(int32(spritesDrawn))
}

// AddPathSearches accumulates A* searches run by enemies
func (pm *PerformanceMonitor) AddPathSearches(n int) {
	if n > 0 {
		pm.pathSearches.Add(uint64(n))
	}
}

// SetWorkerJobs records the worker pool's completed job counter
func (pm *PerformanceMonitor) SetWorkerJobs(completed int64) {
	pm.workerJobsDone.Store(completed)
}

// FrameMetrics is the compact view drawn by the F3 overlay
type FrameMetrics struct {
	FramesPerSecond float64
	FrameTime       time.Duration
	RaycastTime     time.Duration
	FloorTime       time.Duration
	SpriteTime      time.Duration
	EnemyTime       time.Duration
	EnemiesAlive    int
	SpritesDrawn    int
	PathSearches    uint64
	WorkerJobs      int64
	MemoryUsageMB   uint64
}

// GetCurrentMetrics returns current performance metrics
func (pm *PerformanceMonitor) GetCurrentMetrics() FrameMetrics {
	pm.mutex.RLock()
	avg := pm.avgFrameTime
	pm.mutex.RUnlock()

	fps := 0.0
	if avg > 0 {
		fps = float64(time.Second) / avg
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return FrameMetrics{
		FramesPerSecond: fps,
		FrameTime:       time.Duration(pm.frameTime.Load()),
		RaycastTime:     time.Duration(pm.raycastTime.Load()),
		FloorTime:       time.Duration(pm.floorTime.Load()),
		SpriteTime:      time.Duration(pm.spriteTime.Load()),
		EnemyTime:       time.Duration(pm.enemyTime.Load()),
		EnemiesAlive:    int(pm.enemiesAlive.Load()),
		SpritesDrawn:    int(pm.spritesDrawn.Load()),
		PathSearches:    pm.pathSearches.Load(),
		WorkerJobs:      pm.workerJobsDone.Load(),
		MemoryUsageMB:   memStats.Alloc / 1024 / 1024,
	}
}

// Lines formats the metrics for the overlay, one stat per line
func (m FrameMetrics) Lines() []string {
	ms := func(d time.Duration) float64 { return float64(d.Microseconds()) / 1000 }
	return []string{
		fmt.Sprintf("FPS %.1f (%.2fms)", m.FramesPerSecond, ms(m.FrameTime)),
		fmt.Sprintf("walls %.2fms floor %.2fms", ms(m.RaycastTime), ms(m.FloorTime)),
		fmt.Sprintf("sprites %.2fms (%d)", ms(m.SpriteTime), m.SpritesDrawn),
		fmt.Sprintf("enemies %.2fms (%d alive)", ms(m.EnemyTime), m.EnemiesAlive),
		fmt.Sprintf("paths %d jobs %d", m.PathSearches, m.WorkerJobs),
		fmt.Sprintf("heap %dMB", m.MemoryUsageMB),
	}
}

// GetDetailedStats returns detailed performance statistics
func (pm *PerformanceMonitor) GetDetailedStats() map[string]interface{} {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return map[string]interface{}{
		"uptime_seconds":      time.Since(pm.startTime).Seconds(),
		"frame_count":         pm.frameCount.Load(),
		"avg_frame_time_ms":   pm.avgFrameTime / 1e6,
		"avg_raycast_time_ms": pm.avgRaycastTime / 1e6,
		"columns_cast":        pm.columnsCast.Load(),
		"path_searches":       pm.pathSearches.Load(),
		"worker_jobs":         pm.workerJobsDone.Load(),
		"enemies_alive":       pm.enemiesAlive.Load(),
		"memory_alloc_mb":     memStats.Alloc / 1024 / 1024,
		"gc_cycles":           memStats.NumGC,
		"goroutines":          runtime.NumGoroutine(),
	}
}

// SortedStatKeys returns the detailed stat keys in stable order for logging
func SortedStatKeys(stats map[string]interface{}) []string {
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PerformanceAlert represents a performance warning
type PerformanceAlert struct {
	Type      string
	Message   string
	Value     float64
	Threshold float64
	Timestamp time.Time
}

// CheckPerformanceAlerts checks for performance issues and returns alerts
func (pm *PerformanceMonitor) CheckPerformanceAlerts() []PerformanceAlert {
	alerts := make([]PerformanceAlert, 0)
	now := time.Now()

	if ft := pm.frameTime.Load(); ft > 0 {
		fps := float64(time.Second) / float64(ft)
		if fps < 30 {
			alerts = append(alerts, PerformanceAlert{
				Type:      "low_fps",
				Message:   "Frame rate is below 30 FPS",
				Value:     fps,
				Threshold: 30,
				Timestamp: now,
			})
		}
	}

	if rt := time.Duration(pm.raycastTime.Load()); rt > 10*time.Millisecond {
		alerts = append(alerts, PerformanceAlert{
			Type:      "slow_raycast",
			Message:   "Wall pass is taking more than 10ms",
			Value:     float64(rt.Microseconds()) / 1000,
			Threshold: 10,
			Timestamp: now,
		})
	}

	return alerts
}

// EnableDetailedLogging enables/disables rolling averages
func (pm *PerformanceMonitor) EnableDetailedLogging(enabled bool) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()
	pm.enableDetailed = enabled
}

// Reset resets all performance counters
func (pm *PerformanceMonitor) Reset() {
	pm.frameCount.Store(0)
	pm.frameTime.Store(0)
	pm.raycastTime.Store(0)
	pm.floorTime.Store(0)
	pm.spriteTime.Store(0)
	pm.enemyTime.Store(0)
	pm.combatTime.Store(0)
	pm.enemiesAlive.Store(0)
	pm.spritesDrawn.Store(0)
	pm.columnsCast.Store(0)
	pm.pathSearches.Store(0)
	pm.workerJobsDone.Store(0)

	pm.mutex.Lock()
	pm.avgFrameTime = 0
	pm.avgRaycastTime = 0
	pm.startTime = time.Now()
	pm.mutex.Unlock()
}

// ProfiledFunction wraps a function with performance timing
func (pm *PerformanceMonitor) ProfiledFunction(name string, fn func()) time.Duration {
	start := time.Now()
	fn()
	duration := time.Since(start)
	ns := uint64(duration.Nanoseconds())

	switch name {
	case StageRaycast:
		pm.raycastTime.Store(ns)
	case StageFloor:
		pm.floorTime.Store(ns)
	case StageSprites:
		pm.spriteTime.Store(ns)
	case StageEnemies:
		pm.enemyTime.Store(ns)
	case StageCombat:
		pm.combatTime.Store(ns)
	}

	return duration
}
