package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Bin is one point of a one-sided magnitude spectrum.
type Bin struct {
	Frequency float64 // Hz
	Magnitude float64
}

// Spectrum is a one-sided magnitude spectrum ordered by strictly increasing
// frequency, starting at DC and never exceeding SampleRate/2.
type Spectrum struct {
	SampleRate float64
	N          int // Transform length after padding
	Bins       []Bin
}

// ComputeSpectrum returns the one-sided magnitude spectrum of values sampled
// at fs. Odd-length input is zero-padded by one sample. Magnitudes are
// |X[k]|·2/N with no window applied, so leakage from non-integer periods is
// expected.
func ComputeSpectrum(values []float64, fs float64) (Spectrum, error) {
	if len(values) < 2 {
		return Spectrum{}, fmt.Errorf("%d samples: %w", len(values), ErrDegenerateSpectrum)
	}
	if !(fs > 0) || math.IsInf(fs, 0) {
		return Spectrum{}, fmt.Errorf("sample rate %g Hz: %w", fs, ErrDegenerateSpectrum)
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Spectrum{}, fmt.Errorf("sample %d is %g: %w", i, v, ErrNonFiniteSignal)
		}
	}

	seq := values
	if len(seq)%2 != 0 {
		seq = make([]float64, len(values)+1)
		copy(seq, values)
	}
	n := len(seq)

	fft := fourier.NewFFT(n)
	coeff := fft.Coefficients(nil, seq)

	half := n / 2
	nyquist := fs / 2
	bins := make([]Bin, 0, half)
	for k := 0; k < half; k++ {
		f := float64(k) * fs / float64(n)
		if f > nyquist {
			break
		}
		bins = append(bins, Bin{
			Frequency: f,
			Magnitude: cmplx.Abs(coeff[k]) * 2 / float64(n),
		})
	}
	return Spectrum{SampleRate: fs, N: n, Bins: bins}, nil
}

// Nyquist returns half the sample rate.
func (s Spectrum) Nyquist() float64 {
	return s.SampleRate / 2
}

// Resolution returns the bin spacing in Hz.
func (s Spectrum) Resolution() float64 {
	if s.N == 0 {
		return 0
	}
	return s.SampleRate / float64(s.N)
}

// Peak returns the strongest bin above DC.
func (s Spectrum) Peak() (Bin, bool) {
	if len(s.Bins) < 2 {
		return Bin{}, false
	}
	best := s.Bins[1]
	for _, b := range s.Bins[2:] {
		if b.Magnitude > best.Magnitude {
			best = b
		}
	}
	return best, true
}

// XY splits the bins into parallel frequency and magnitude slices, the form
// plotting sinks consume.
func (s Spectrum) XY() (freq, mag []float64) {
	freq = make([]float64, len(s.Bins))
	mag = make([]float64, len(s.Bins))
	for i, b := range s.Bins {
		freq[i] = b.Frequency
		mag[i] = b.Magnitude
	}
	return freq, mag
}
