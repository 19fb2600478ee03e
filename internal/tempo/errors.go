package tempo

import "errors"

var (
	// ErrEmptySignal indicates a waveform with zero samples or a zero
	// sample rate. Fatal to the run; surfaced as a client-input error.
	ErrEmptySignal = errors.New("tempo: empty signal")

	// ErrNoBeatsDetected indicates the onset envelope carries no usable
	// periodicity (silence, pure noise, or too short for the search window).
	// Analyze maps it to a zero-confidence result rather than failing.
	ErrNoBeatsDetected = errors.New("tempo: no beats detected")

	// ErrInvalidRate indicates an invalid target sample rate.
	ErrInvalidRate = errors.New("tempo: invalid sample rate")
)
