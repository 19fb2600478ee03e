package tempo

import (
	"errors"
	"math"
)

// Analyzer runs the full tempo-estimation pipeline. One Analyzer may be
// shared across goroutines: every run is a pure, synchronous computation
// over its own immutable input, so independent analyses need no
// coordination.
type Analyzer struct {
	cfg Config
}

// NewAnalyzer returns an analyzer for the given configuration. An invalid
// configuration is rejected up front so every later run can assume it.
func NewAnalyzer(cfg Config) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Analyzer{cfg: cfg}, nil
}

// Config returns the analyzer's configuration.
func (a *Analyzer) Config() Config {
	return a.cfg
}

// Analyze estimates the tempo of a waveform and scores the estimate:
// resample to the canonical analysis rate, extract the onset strength
// envelope, seed a target interval from the tempogram, track beats by
// dynamic programming, and reduce the inter-beat intervals to one BPM
// value with a confidence score.
//
// A waveform with no detectable beats (silence, noise, too short) produces
// a zero-BPM, zero-confidence result rather than an error; only an empty
// input signal fails the run. The reported sample rate is that of the
// original waveform, before resampling.
func (a *Analyzer) Analyze(w Waveform) (Result, error) {
	resampled, err := Resample(w, a.cfg.AnalysisRate)
	if err != nil {
		return Result{}, err
	}

	env := ExtractOnsetEnvelope(resampled, a.cfg)

	seed, ok := ComputeTempogram(env, a.cfg).GlobalBPM()
	if !ok {
		return a.silentResult(w), nil
	}

	beats, err := TrackBeats(env, 60.0/seed, a.cfg)
	if err != nil {
		if errors.Is(err, ErrNoBeatsDetected) {
			return a.silentResult(w), nil
		}
		return Result{}, err
	}

	bpm, degraded, err := AggregateTempo(beats, a.cfg)
	if err != nil {
		if errors.Is(err, ErrNoBeatsDetected) {
			return a.silentResult(w), nil
		}
		return Result{}, err
	}

	confidence := ConfidenceScore(beats.Intervals(), a.cfg)
	if degraded {
		confidence *= 0.5
	}

	return assembleResult(bpm, confidence, w), nil
}

// silentResult is the soft failure policy for inputs with no usable
// periodicity: a valid result with zero BPM and zero confidence.
func (a *Analyzer) silentResult(w Waveform) Result {
	return assembleResult(0, 0, w)
}

// assembleResult packages the final numbers. BPM is rounded to one
// decimal; confidence is reported as computed.
func assembleResult(bpm, confidence float64, original Waveform) Result {
	return Result{
		BPM:             math.Round(bpm*10) / 10,
		Confidence:      confidence,
		SampleRate:      original.SampleRate,
		DurationSeconds: original.Duration(),
	}
}
