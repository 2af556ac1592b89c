package stream

// Point is one (time, value) sample in a window.
type Point struct {
	Time  float64
	Value float64
}

// compactMin is the smallest dead prefix worth reclaiming.
const compactMin = 64

// Window is a time-ordered FIFO of samples bounded to a trailing duration
// measured from the newest sample. Appends must have non-decreasing times.
// Evicted samples are skipped by advancing head and reclaimed in bulk, so
// each sample is moved at most a constant number of times.
type Window struct {
	buf  []Point
	head int
	span float64
}

// NewWindow creates an empty window keeping span seconds of history.
func NewWindow(span float64) *Window {
	return &Window{span: span}
}

// Span returns the trailing duration in seconds.
func (w *Window) Span() float64 {
	return w.span
}

// Append adds a sample at the back.
func (w *Window) Append(t, v float64) {
	w.buf = append(w.buf, Point{Time: t, Value: v})
}

// Evict drops samples older than newest-span from the front and returns how
// many were removed.
func (w *Window) Evict(span float64) int {
	if w.Len() == 0 {
		return 0
	}
	cutoff := w.buf[len(w.buf)-1].Time - span
	n := 0
	for w.head < len(w.buf) && w.buf[w.head].Time < cutoff {
		w.head++
		n++
	}
	w.compact()
	return n
}

// Push appends a sample and evicts against the window's own span.
func (w *Window) Push(t, v float64) int {
	w.Append(t, v)
	return w.Evict(w.span)
}

func (w *Window) compact() {
	if w.head < compactMin || w.head*2 < len(w.buf) {
		return
	}
	n := copy(w.buf, w.buf[w.head:])
	clear(w.buf[n:])
	w.buf = w.buf[:n]
	w.head = 0
}

// Len returns the number of live samples.
func (w *Window) Len() int {
	return len(w.buf) - w.head
}

// Points returns a copy of the live samples, oldest first.
func (w *Window) Points() []Point {
	if w.Len() == 0 {
		return nil
	}
	out := make([]Point, w.Len())
	copy(out, w.buf[w.head:])
	return out
}

// XY returns the live samples as parallel time and value slices.
func (w *Window) XY() (x, y []float64) {
	live := w.buf[w.head:]
	x = make([]float64, len(live))
	y = make([]float64, len(live))
	for i, p := range live {
		x[i] = p.Time
		y[i] = p.Value
	}
	return x, y
}

// Last returns the newest sample.
func (w *Window) Last() (Point, bool) {
	if w.Len() == 0 {
		return Point{}, false
	}
	return w.buf[len(w.buf)-1], true
}

// Range returns the oldest and newest live timestamps.
func (w *Window) Range() (minTime, maxTime float64, ok bool) {
	if w.Len() == 0 {
		return 0, 0, false
	}
	return w.buf[w.head].Time, w.buf[len(w.buf)-1].Time, true
}

// AxisRange returns the display axis for the window: [0, span] until the
// newest sample passes span, then a trailing [newest-span, newest].
func (w *Window) AxisRange() (lo, hi float64) {
	last, ok := w.Last()
	if !ok || last.Time <= w.span {
		return 0, w.span
	}
	return last.Time - w.span, last.Time
}

// Reset discards every sample.
func (w *Window) Reset() {
	clear(w.buf)
	w.buf = w.buf[:0]
	w.head = 0
}
