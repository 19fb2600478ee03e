package tempo

import (
	"errors"
	"math"
	"testing"
)

func TestAggregateTempoClickTrack(t *testing.T) {
	cfg := DefaultConfig()
	env := ExtractOnsetEnvelope(clickTrack(120, cfg.AnalysisRate, 10.0), cfg)
	beats, err := TrackBeats(env, 0.5, cfg)
	if err != nil {
		t.Fatalf("TrackBeats failed: %v", err)
	}

	bpm, degraded, err := AggregateTempo(beats, cfg)
	if err != nil {
		t.Fatalf("AggregateTempo failed: %v", err)
	}
	if degraded {
		t.Error("Unexpected degraded flag for an in-range tempo")
	}
	if math.Abs(bpm-120) > 0.5 {
		t.Errorf("Expected 120 BPM, got %f", bpm)
	}
}

func TestAggregateTempoTooFewBeats(t *testing.T) {
	cfg := DefaultConfig()
	seq := BeatSequence{Beats: []Beat{{Time: 1.0, Frame: 43, Strength: 1.0}}}

	if _, _, err := AggregateTempo(seq, cfg); !errors.Is(err, ErrNoBeatsDetected) {
		t.Errorf("Expected ErrNoBeatsDetected for a single beat, got %v", err)
	}
}

func TestAggregateTempoClampsOutOfRange(t *testing.T) {
	cfg := DefaultConfig()

	// A 600 BPM beat sequence: intervals of 0.1s put the raw estimate far
	// above the search range.
	beats := BeatSequence{}
	for i := 0; i < 20; i++ {
		beats.Beats = append(beats.Beats, Beat{Time: float64(i) * 0.1})
	}

	bpm, degraded, err := AggregateTempo(beats, cfg)
	if err != nil {
		t.Fatalf("AggregateTempo failed: %v", err)
	}
	if !degraded {
		t.Error("Expected degraded flag for a clamped tempo")
	}
	if bpm != cfg.MaxBPM {
		t.Errorf("Expected clamp to %f, got %f", cfg.MaxBPM, bpm)
	}
}

func TestRefinePeriodSkipsOutliers(t *testing.T) {
	// A missed beat leaves one doubled interval; the refined period must
	// come from the clean stretches on either side of it.
	var beats []Beat
	for k := 0; k < 6; k++ {
		beats = append(beats, Beat{Time: 0.5 * float64(k)})
	}
	for k := 0; k < 6; k++ {
		beats = append(beats, Beat{Time: 3.5 + 0.5*float64(k)})
	}

	seq := BeatSequence{Beats: beats}
	intervals := seq.Intervals()
	got := refinePeriod(seq.Beats, intervals, median(intervals))
	if math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Expected refined period 0.5, got %f", got)
	}
}

func TestRefinePeriodRecoversSubFramePrecision(t *testing.T) {
	// Beats quantized to a 1/43s frame grid alternate 21- and 22-frame
	// intervals around a true period of 21.5 frames. The median alone
	// lands on one of the two quantized values; averaging over the run
	// must recover the true period.
	const frame = 1.0 / 43.0
	var beats []Beat
	for k := 0; k < 21; k++ {
		beats = append(beats, Beat{Time: math.Round(21.5*float64(k)) * frame})
	}

	seq := BeatSequence{Beats: beats}
	intervals := seq.Intervals()
	got := refinePeriod(seq.Beats, intervals, median(intervals))
	if math.Abs(got-21.5*frame) > 0.1*frame {
		t.Errorf("Expected refined period near %f, got %f", 21.5*frame, got)
	}
}

func TestConfidenceScore(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name      string
		intervals []float64
		min, max  float64
	}{
		{"perfectly regular", []float64{0.5, 0.5, 0.5, 0.5, 0.5}, 0.999, 1.0},
		{"slightly irregular", []float64{0.49, 0.51, 0.50, 0.49, 0.51}, 0.8, 1.0},
		{"wildly irregular", []float64{0.2, 0.9, 0.4, 1.2, 0.3}, 0.0, 0.5},
		{"single interval", []float64{0.5}, 0.0, 0.0},
		{"no intervals", nil, 0.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConfidenceScore(tt.intervals, cfg)
			if got < tt.min || got > tt.max {
				t.Errorf("Confidence %f outside [%f, %f]", got, tt.min, tt.max)
			}
		})
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		want float64
	}{
		{"odd count", []float64{3, 1, 2}, 2},
		{"even count", []float64{4, 1, 3, 2}, 2.5},
		{"outlier resistant", []float64{0.5, 0.5, 0.5, 0.5, 9.0}, 0.5},
		{"single", []float64{7}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := median(tt.x); got != tt.want {
				t.Errorf("median(%v) = %f, want %f", tt.x, got, tt.want)
			}
		})
	}
}
