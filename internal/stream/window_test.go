package stream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWindowKeepsTrailingTenSeconds(t *testing.T) {
	w := NewWindow(10)
	for i := 0; i <= 240; i++ {
		w.Push(float64(i)*0.05, float64(i))
	}

	pts := w.Points()
	require.NotEmpty(t, pts)
	for _, p := range pts {
		require.GreaterOrEqual(t, p.Time, 2.0-1e-9)
	}
	require.InDelta(t, 2.0, pts[0].Time, 0.05+1e-9)
	require.InDelta(t, 12.0, pts[len(pts)-1].Time, 1e-9)
	require.InDelta(t, 201, len(pts), 1)

	for i := 1; i < len(pts); i++ {
		require.Greater(t, pts[i].Time, pts[i-1].Time)
	}
}

func TestWindowEvictCounts(t *testing.T) {
	w := NewWindow(1)
	require.Equal(t, 0, w.Evict(1))

	w.Append(0, 1)
	w.Append(0.5, 2)
	w.Append(1.0, 3)
	require.Equal(t, 0, w.Evict(1))
	require.Equal(t, 3, w.Len())

	w.Append(1.75, 4)
	require.Equal(t, 2, w.Evict(1))
	lo, hi, ok := w.Range()
	require.True(t, ok)
	require.Equal(t, 1.0, lo)
	require.Equal(t, 1.75, hi)

	// A wider span passed explicitly keeps more.
	w.Append(2.0, 5)
	require.Equal(t, 0, w.Evict(5))
	require.Equal(t, 3, w.Len())
}

func TestWindowCompactionPreservesOrder(t *testing.T) {
	w := NewWindow(0.5)
	total := 0
	for i := 0; i < 10000; i++ {
		total += w.Push(float64(i)*0.01, float64(i))
	}
	require.Equal(t, 10000, total+w.Len())
	require.LessOrEqual(t, len(w.buf), 2*w.Len()+compactMin)

	x, y := w.XY()
	require.Len(t, x, w.Len())
	for i := range x {
		require.Equal(t, x[i], y[i]*0.01)
	}
}

func TestWindowAxisRange(t *testing.T) {
	w := NewWindow(10)
	lo, hi := w.AxisRange()
	require.Equal(t, 0.0, lo)
	require.Equal(t, 10.0, hi)

	w.Push(4, 0)
	lo, hi = w.AxisRange()
	require.Equal(t, 0.0, lo)
	require.Equal(t, 10.0, hi)

	w.Push(12.5, 0)
	lo, hi = w.AxisRange()
	require.Equal(t, 2.5, lo)
	require.Equal(t, 12.5, hi)
}

func TestWindowReset(t *testing.T) {
	w := NewWindow(10)
	for i := 0; i < 100; i++ {
		w.Push(float64(i), 1)
	}
	w.Reset()
	require.Equal(t, 0, w.Len())
	require.Nil(t, w.Points())
	_, ok := w.Last()
	require.False(t, ok)
	_, _, ok = w.Range()
	require.False(t, ok)

	w.Push(0.05, 7)
	last, ok := w.Last()
	require.True(t, ok)
	require.Equal(t, Point{Time: 0.05, Value: 7}, last)
}
