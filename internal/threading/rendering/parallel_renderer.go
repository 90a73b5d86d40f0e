package rendering

import (
	"raydungeon/internal/threading/core"
)

// ParallelRenderer fans per-column work out to a worker pool
type ParallelRenderer struct {
	workerPool *core.WorkerPool
}

// NewParallelRenderer creates a renderer backed by a pool of the given size (<=0 uses NumCPU)
func NewParallelRenderer(workers int) *ParallelRenderer {
	pool := core.NewWorkerPool(workers)
	pool.Start()
	return &ParallelRenderer{workerPool: pool}
}

// BatchSize returns how many columns one job covers for the given width.
func (pr *ParallelRenderer) BatchSize(numColumns int) int {
	batchSize := numColumns / pr.workerPool.GetNumWorkers()
	if batchSize < 4 {
		batchSize = 4 // Minimum batch size for efficiency
	}
	if batchSize > 32 {
		batchSize = 32
	}
	return batchSize
}

// RenderColumns calls columnFunc once for every column in [0, numColumns)
// and returns after all of them have finished. columnFunc must only write
// state owned by its column.
func (pr *ParallelRenderer) RenderColumns(numColumns int, columnFunc func(col int)) {
	// Very small workloads: process inline to avoid synchronization overhead
	if numColumns <= 8 {
		for col := 0; col < numColumns; col++ {
			columnFunc(col)
		}
		return
	}

	pr.workerPool.ParallelFor(0, numColumns, pr.BatchSize(numColumns), columnFunc)
}

// RenderRows is RenderColumns over screen rows, used by the floor pass
func (pr *ParallelRenderer) RenderRows(numRows int, rowFunc func(row int)) {
	pr.RenderColumns(numRows, rowFunc)
}

// CompletedJobs reports the underlying pool's job counter
func (pr *ParallelRenderer) CompletedJobs() int64 {
	return pr.workerPool.CompletedJobs()
}

// Stop shuts down the renderer's pool
func (pr *ParallelRenderer) Stop() {
	pr.workerPool.Stop()
}
