package analysis

import "errors"

var (
	// ErrInvalidSampleCount means a batch plan produced no samples, usually
	// because the sensor's native rate is not positive.
	ErrInvalidSampleCount = errors.New("invalid sample count")

	// ErrNonFiniteSignal means a generated batch contains NaN or Inf,
	// which points at malformed process parameters.
	ErrNonFiniteSignal = errors.New("non-finite signal")

	// ErrDegenerateSpectrum means the signal is too short to transform.
	ErrDegenerateSpectrum = errors.New("degenerate spectrum")

	// ErrInvalidSamplingInterval means a discretization was requested with
	// a non-positive or non-finite sampling interval.
	ErrInvalidSamplingInterval = errors.New("invalid sampling interval")
)
