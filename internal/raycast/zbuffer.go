package raycast

// ZBuffer holds the perpendicular wall distance per screen column for one
// frame. Sprites are only drawn in columns where they are nearer.
type ZBuffer struct {
	depth []float64
	frame uint64
	valid bool
}

// Reset sizes the buffer for width columns and stamps it with frame.
// Every entry starts at MaxDistance.
func (z *ZBuffer) Reset(width int, frame uint64) {
	if cap(z.depth) < width {
		z.depth = make([]float64, width)
	}
	z.depth = z.depth[:width]
	for i := range z.depth {
		z.depth[i] = MaxDistance
	}
	z.frame = frame
	z.valid = true
}

// Set records the wall distance for col.
func (z *ZBuffer) Set(col int, d float64) {
	if col >= 0 && col < len(z.depth) {
		z.depth[col] = d
	}
}

// At returns the wall distance for col; out-of-range columns report 0 so
// nothing draws there.
func (z *ZBuffer) At(col int) float64 {
	if col < 0 || col >= len(z.depth) {
		return 0
	}
	return z.depth[col]
}

// Width is the number of columns.
func (z *ZBuffer) Width() int { return len(z.depth) }

// Frame is the frame number the buffer was built for.
func (z *ZBuffer) Frame() uint64 { return z.frame }

// Valid reports whether the buffer was built for frame.
func (z *ZBuffer) Valid(frame uint64) bool {
	return z.valid && z.frame == frame
}
