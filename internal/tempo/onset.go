package tempo

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// ExtractOnsetEnvelope converts a waveform (already at the analysis rate)
// into an onset strength envelope via positive spectral flux: the signal is
// cut into overlapping Hann-windowed frames, each frame's magnitude
// spectrum is compared to its predecessor, and every bin's magnitude
// increase is accumulated. Decreases contribute nothing, and higher bins
// are weighted up to emphasize percussive onsets. The result is
// peak-normalized, so the envelope is invariant to amplitude scaling of
// the input.
//
// Output length is ceil(len(samples)/hop); all values are >= 0; the first
// frame has no predecessor and gets flux zero.
func ExtractOnsetEnvelope(w Waveform, cfg Config) OnsetEnvelope {
	numFrames := (len(w.Samples) + cfg.HopSize - 1) / cfg.HopSize
	env := OnsetEnvelope{
		Values:    make([]float64, numFrames),
		HopLength: cfg.HopSize,
		FrameRate: float64(w.SampleRate) / float64(cfg.HopSize),
	}
	if numFrames == 0 {
		return env
	}

	win := window.Hann(cfg.WindowSize)
	numBins := cfg.WindowSize/2 + 1
	frame := make([]float64, cfg.WindowSize)
	prev := make([]float64, numBins)
	cur := make([]float64, numBins)

	for f := 0; f < numFrames; f++ {
		start := f * cfg.HopSize
		for i := range frame {
			if start+i < len(w.Samples) {
				frame[i] = w.Samples[start+i] * win[i]
			} else {
				frame[i] = 0
			}
		}

		spectrum := fft.FFTReal(frame)
		for b := 0; b < numBins; b++ {
			cur[b] = cmplx.Abs(spectrum[b])
		}

		if f > 0 {
			var flux float64
			for b := 0; b < numBins; b++ {
				if d := cur[b] - prev[b]; d > 0 {
					// Linear ramp from 1.0 to 2.0 across the spectrum.
					flux += d * (1 + float64(b)/float64(numBins-1))
				}
			}
			env.Values[f] = flux
		}
		prev, cur = cur, prev
	}

	normalizePeak(env.Values)
	return env
}

// normalizePeak scales the series so its maximum is 1.0. An all-zero
// series is left untouched.
func normalizePeak(x []float64) {
	var peak float64
	for _, v := range x {
		if v > peak {
			peak = v
		}
	}
	if peak <= 0 || math.IsNaN(peak) {
		return
	}
	for i := range x {
		x[i] /= peak
	}
}
