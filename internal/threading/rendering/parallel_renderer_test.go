package rendering

import (
	"sync/atomic"
	"testing"
)

func TestRenderColumnsCoversEveryColumn(t *testing.T) {
	pr := NewParallelRenderer(4)
	defer pr.Stop()

	for _, width := range []int{1, 8, 9, 320, 1001} {
		seen := make([]int32, width)
		pr.RenderColumns(width, func(col int) {
			atomic.AddInt32(&seen[col], 1)
		})
		for col, n := range seen {
			if n != 1 {
				t.Fatalf("width %d: column %d rendered %d times", width, col, n)
			}
		}
	}
}

func TestBatchSizeBounds(t *testing.T) {
	pr := NewParallelRenderer(4)
	defer pr.Stop()

	tests := []struct {
		columns int
		want    int
	}{
		{10, 4},
		{64, 16},
		{1024, 32},
	}
	for _, tt := range tests {
		if got := pr.BatchSize(tt.columns); got != tt.want {
			t.Errorf("BatchSize(%d) = %d, want %d", tt.columns, got, tt.want)
		}
	}
}

func TestRenderColumnsCountsPoolJobs(t *testing.T) {
	pr := NewParallelRenderer(4)
	defer pr.Stop()

	// 64 columns in batches of 16 is four jobs; small widths stay inline.
	pr.RenderColumns(64, func(int) {})
	pr.RenderColumns(8, func(int) {})
	if got := pr.CompletedJobs(); got != 4 {
		t.Errorf("completed jobs = %d, want 4", got)
	}
}
