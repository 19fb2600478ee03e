package tempo

// Waveform is an immutable mono PCM signal. Each pipeline stage that
// transforms a Waveform returns a new value and never mutates its input.
type Waveform struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the signal length in seconds.
func (w Waveform) Duration() float64 {
	if w.SampleRate <= 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// OnsetEnvelope is a per-frame onset strength series. Values are
// non-negative and peak-normalized; frame index maps monotonically to time.
type OnsetEnvelope struct {
	Values    []float64
	HopLength int     // samples between frames at the analysis rate
	FrameRate float64 // frames per second
}

// Time returns the timestamp of a frame index in seconds.
func (e OnsetEnvelope) Time(frame int) float64 {
	if e.FrameRate <= 0 {
		return 0
	}
	return float64(frame) / e.FrameRate
}

// IsSilent reports whether the envelope carries no onset energy at all.
func (e OnsetEnvelope) IsSilent() bool {
	for _, v := range e.Values {
		if v > 0 {
			return false
		}
	}
	return true
}

// Beat is a single detected beat: its timestamp, the envelope frame it was
// chosen from, and the local onset strength at that frame.
type Beat struct {
	Time     float64
	Frame    int
	Strength float64
}

// BeatSequence is an ordered run of beats with strictly increasing
// timestamps.
type BeatSequence struct {
	Beats []Beat
}

// Intervals returns the inter-beat intervals in seconds, one per
// consecutive beat pair.
func (s BeatSequence) Intervals() []float64 {
	if len(s.Beats) < 2 {
		return nil
	}
	out := make([]float64, len(s.Beats)-1)
	for i := 1; i < len(s.Beats); i++ {
		out[i-1] = s.Beats[i].Time - s.Beats[i-1].Time
	}
	return out
}

// Result is the final output of one analysis run. It is assembled once and
// never modified afterwards.
type Result struct {
	BPM             float64 `json:"bpm"`
	Confidence      float64 `json:"confidence"`
	SampleRate      int     `json:"sample_rate"`
	DurationSeconds float64 `json:"duration_seconds"`
}
