package threading

import (
	"raydungeon/internal/threading/monitoring"
	"raydungeon/internal/threading/rendering"
)

// ThreadingComponents holds the renderer pool and frame monitor shared by a session
type ThreadingComponents struct {
	ParallelRenderer   *rendering.ParallelRenderer
	PerformanceMonitor *monitoring.PerformanceMonitor
}

// NewThreadingComponents creates and initializes all threading components
func NewThreadingComponents(workers int) *ThreadingComponents {
	return &ThreadingComponents{
		ParallelRenderer:   rendering.NewParallelRenderer(workers),
		PerformanceMonitor: monitoring.NewPerformanceMonitor(),
	}
}

// Shutdown gracefully shuts down all threading components
func (tc *ThreadingComponents) Shutdown() {
	if tc.ParallelRenderer != nil {
		tc.ParallelRenderer.Stop()
	}
}
