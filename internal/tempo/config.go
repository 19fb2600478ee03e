package tempo

import "fmt"

// Tunables
const (
	DefaultAnalysisRate = 22050
	DefaultWindowSize   = 2048
	DefaultHopSize      = 512
	DefaultMinBPM       = 30.0
	DefaultMaxBPM       = 300.0
	DefaultTightness    = 100.0
	DefaultCVSlope      = 3.0
)

// Config carries every constant the pipeline needs for one analysis run.
// It is passed explicitly into each invocation; there is no package-level
// mutable state.
type Config struct {
	AnalysisRate int     // canonical sample rate everything is resampled to
	WindowSize   int     // STFT window length in samples
	HopSize      int     // samples between consecutive analysis frames
	MinBPM       float64 // lower bound of the tempo search range
	MaxBPM       float64 // upper bound of the tempo search range
	Tightness    float64 // smoothness penalty weight for the beat tracker
	CVSlope      float64 // slope k in confidence = 1/(1+k*CV)
}

// DefaultConfig returns the standard analysis configuration.
func DefaultConfig() Config {
	return Config{
		AnalysisRate: DefaultAnalysisRate,
		WindowSize:   DefaultWindowSize,
		HopSize:      DefaultHopSize,
		MinBPM:       DefaultMinBPM,
		MaxBPM:       DefaultMaxBPM,
		Tightness:    DefaultTightness,
		CVSlope:      DefaultCVSlope,
	}
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	if c.AnalysisRate <= 0 {
		return fmt.Errorf("tempo: analysis rate must be positive, got %d", c.AnalysisRate)
	}
	if c.WindowSize <= 0 || c.HopSize <= 0 {
		return fmt.Errorf("tempo: window size and hop size must be positive, got %d/%d", c.WindowSize, c.HopSize)
	}
	if c.HopSize > c.WindowSize {
		return fmt.Errorf("tempo: hop size %d exceeds window size %d", c.HopSize, c.WindowSize)
	}
	if c.MinBPM <= 0 || c.MaxBPM <= c.MinBPM {
		return fmt.Errorf("tempo: invalid BPM range [%.1f, %.1f]", c.MinBPM, c.MaxBPM)
	}
	if c.Tightness < 0 {
		return fmt.Errorf("tempo: tightness must be non-negative, got %f", c.Tightness)
	}
	if c.CVSlope <= 0 {
		return fmt.Errorf("tempo: CV slope must be positive, got %f", c.CVSlope)
	}
	return nil
}
