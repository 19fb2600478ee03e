package tempo

import (
	"errors"
	"math"
	"testing"
)

func mustAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer(DefaultConfig())
	if err != nil {
		t.Fatalf("NewAnalyzer failed: %v", err)
	}
	return a
}

func TestNewAnalyzerRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HopSize = 0
	if _, err := NewAnalyzer(cfg); err == nil {
		t.Error("Expected an error for an invalid configuration")
	}
}

func TestAnalyzeEmptySignal(t *testing.T) {
	a := mustAnalyzer(t)
	_, err := a.Analyze(Waveform{SampleRate: 44100})
	if !errors.Is(err, ErrEmptySignal) {
		t.Errorf("Expected ErrEmptySignal, got %v", err)
	}
}

func TestAnalyzeClickTrack120(t *testing.T) {
	a := mustAnalyzer(t)
	w := clickTrack(120, 22050, 10.0)

	result, err := a.Analyze(w)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if math.Abs(result.BPM-120.0) > 0.5 {
		t.Errorf("Expected BPM within 0.5 of 120.0, got %f", result.BPM)
	}
	if result.Confidence <= 0.9 {
		t.Errorf("Expected confidence > 0.9 for a perfect click track, got %f", result.Confidence)
	}
	if result.SampleRate != 22050 {
		t.Errorf("Expected original sample rate 22050, got %d", result.SampleRate)
	}
	if math.Abs(result.DurationSeconds-10.0) > 0.01 {
		t.Errorf("Expected duration 10s, got %f", result.DurationSeconds)
	}
}

func TestAnalyzeSilence(t *testing.T) {
	a := mustAnalyzer(t)

	for _, dur := range []float64{1.0, 5.0, 30.0} {
		result, err := a.Analyze(silence(22050, dur))
		if err != nil {
			t.Fatalf("Analyze failed on %gs of silence: %v", dur, err)
		}
		if result.Confidence != 0 {
			t.Errorf("Expected confidence 0 for %gs of silence, got %f", dur, result.Confidence)
		}
		if result.BPM != 0 {
			t.Errorf("Expected BPM 0 for %gs of silence, got %f", dur, result.BPM)
		}
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	a := mustAnalyzer(t)
	w := clickTrack(97, 22050, 10.0)

	first, err := a.Analyze(w)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	second, err := a.Analyze(w)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if first != second {
		t.Errorf("Two runs on the same waveform differ: %+v vs %+v", first, second)
	}
}

func TestAnalyzeAmplitudeInvariance(t *testing.T) {
	a := mustAnalyzer(t)
	w := clickTrack(120, 22050, 10.0)

	base, err := a.Analyze(w)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	loud, err := a.Analyze(scaled(w, 0.031))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if base.BPM != loud.BPM {
		t.Errorf("BPM changed under amplitude scaling: %f vs %f", base.BPM, loud.BPM)
	}
	if math.Abs(base.Confidence-loud.Confidence) > 1e-9 {
		t.Errorf("Confidence changed under amplitude scaling: %f vs %f", base.Confidence, loud.Confidence)
	}
}

func TestAnalyzeResampleConsistency(t *testing.T) {
	a := mustAnalyzer(t)

	at22050, err := a.Analyze(clickTrack(120, 22050, 10.0))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	at44100, err := a.Analyze(clickTrack(120, 44100, 10.0))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if math.Abs(at22050.BPM-at44100.BPM) > 1.0 {
		t.Errorf("Source-rate dependent BPM: %f at 22050 Hz vs %f at 44100 Hz",
			at22050.BPM, at44100.BPM)
	}
	if at44100.SampleRate != 44100 {
		t.Errorf("Result should report the original rate, got %d", at44100.SampleRate)
	}
}

// A 240 BPM click train sits at the octave boundary where half-tempo
// errors are classic. The pipeline is deterministic, so there is no error
// "fraction" to measure: either it locks to 240 or it does not, and this
// test pins the correct behavior.
func TestAnalyzeOctave240(t *testing.T) {
	a := mustAnalyzer(t)

	result, err := a.Analyze(clickTrack(240, 22050, 10.0))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if math.Abs(result.BPM-120.0) < 5 {
		t.Fatalf("240 BPM input misreported as half tempo: %f", result.BPM)
	}
	if math.Abs(result.BPM-240.0) > 2.0 {
		t.Errorf("Expected BPM near 240, got %f", result.BPM)
	}
}

func TestAnalyzeRangeInvariants(t *testing.T) {
	a := mustAnalyzer(t)

	for _, bpm := range []float64{60, 85, 100, 132, 174} {
		result, err := a.Analyze(clickTrack(bpm, 22050, 12.0))
		if err != nil {
			t.Fatalf("Analyze failed at %f BPM: %v", bpm, err)
		}
		if result.BPM < DefaultMinBPM || result.BPM > DefaultMaxBPM {
			t.Errorf("BPM %f outside search range for %f BPM input", result.BPM, bpm)
		}
		if result.Confidence < 0 || result.Confidence > 1 {
			t.Errorf("Confidence %f outside [0,1] for %f BPM input", result.Confidence, bpm)
		}
	}
}

func TestAnalyzeRoundsBPM(t *testing.T) {
	a := mustAnalyzer(t)

	result, err := a.Analyze(clickTrack(120, 22050, 10.0))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if math.Abs(result.BPM*10-math.Round(result.BPM*10)) > 1e-9 {
		t.Errorf("BPM not rounded to one decimal: %v", result.BPM)
	}
}
