package tempo

import (
	"errors"
	"math"
	"testing"
)

func TestTrackBeatsSilence(t *testing.T) {
	cfg := DefaultConfig()
	env := ExtractOnsetEnvelope(silence(cfg.AnalysisRate, 5.0), cfg)

	_, err := TrackBeats(env, 0.5, cfg)
	if !errors.Is(err, ErrNoBeatsDetected) {
		t.Errorf("Expected ErrNoBeatsDetected for silence, got %v", err)
	}
}

func TestTrackBeatsEmptyEnvelope(t *testing.T) {
	cfg := DefaultConfig()
	env := OnsetEnvelope{HopLength: cfg.HopSize, FrameRate: 43.0}

	_, err := TrackBeats(env, 0.5, cfg)
	if !errors.Is(err, ErrNoBeatsDetected) {
		t.Errorf("Expected ErrNoBeatsDetected for empty envelope, got %v", err)
	}
}

func TestTrackBeatsClickTrack(t *testing.T) {
	cfg := DefaultConfig()
	w := clickTrack(120, cfg.AnalysisRate, 10.0)
	env := ExtractOnsetEnvelope(w, cfg)

	beats, err := TrackBeats(env, 0.5, cfg)
	if err != nil {
		t.Fatalf("TrackBeats failed: %v", err)
	}

	// Roughly one beat every 0.5s over 10s.
	if len(beats.Beats) < 15 || len(beats.Beats) > 25 {
		t.Errorf("Expected around 20 beats, got %d", len(beats.Beats))
	}

	for i := 1; i < len(beats.Beats); i++ {
		if beats.Beats[i].Time <= beats.Beats[i-1].Time {
			t.Fatalf("Beat timestamps not strictly increasing at %d", i)
		}
	}

	intervals := beats.Intervals()
	var mean float64
	for _, v := range intervals {
		mean += v
	}
	mean /= float64(len(intervals))
	if math.Abs(mean-0.5) > 0.05 {
		t.Errorf("Expected mean interval near 0.5s, got %f", mean)
	}
}

func TestTrackBeatsStrengthFromEnvelope(t *testing.T) {
	cfg := DefaultConfig()
	env := ExtractOnsetEnvelope(clickTrack(120, cfg.AnalysisRate, 10.0), cfg)

	beats, err := TrackBeats(env, 0.5, cfg)
	if err != nil {
		t.Fatalf("TrackBeats failed: %v", err)
	}

	for i, b := range beats.Beats {
		if b.Frame < 0 || b.Frame >= len(env.Values) {
			t.Fatalf("Beat %d has out-of-range frame %d", i, b.Frame)
		}
		if b.Strength != env.Values[b.Frame] {
			t.Errorf("Beat %d strength %f does not match envelope %f", i, b.Strength, env.Values[b.Frame])
		}
	}
}

func TestTrackBeatsOffTargetSeed(t *testing.T) {
	cfg := DefaultConfig()
	env := ExtractOnsetEnvelope(clickTrack(240, cfg.AnalysisRate, 10.0), cfg)

	// The seed interval can be several BPM off at fast tempos, where one
	// envelope frame spans a large tempo range. The tracker must still
	// lock onto the real onsets instead of bending beats toward the seed.
	beats, err := TrackBeats(env, 60.0/261.0, cfg)
	if err != nil {
		t.Fatalf("TrackBeats failed: %v", err)
	}

	intervals := beats.Intervals()
	if len(intervals) == 0 {
		t.Fatal("Expected beats from a 240 BPM click track")
	}
	var mean float64
	for _, v := range intervals {
		mean += v
	}
	mean /= float64(len(intervals))
	if math.Abs(mean-0.25) > 0.01 {
		t.Errorf("Expected mean interval near 0.25s, got %f", mean)
	}
}

func TestTrackBeatsInvalidTarget(t *testing.T) {
	cfg := DefaultConfig()
	env := ExtractOnsetEnvelope(clickTrack(120, cfg.AnalysisRate, 5.0), cfg)

	if _, err := TrackBeats(env, 0, cfg); !errors.Is(err, ErrNoBeatsDetected) {
		t.Errorf("Expected ErrNoBeatsDetected for zero target interval, got %v", err)
	}
}
