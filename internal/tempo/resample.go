package tempo

import "math"

const antiAliasTaps = 63

// Resample converts a waveform to the target sample rate. Downsampling
// applies a windowed-sinc anti-aliasing low-pass before band-limited
// interpolation; upsampling interpolates the already band-limited input
// directly. The input waveform is never modified.
func Resample(w Waveform, targetRate int) (Waveform, error) {
	if len(w.Samples) == 0 || w.SampleRate <= 0 {
		return Waveform{}, ErrEmptySignal
	}
	if targetRate <= 0 {
		return Waveform{}, ErrInvalidRate
	}
	if targetRate == w.SampleRate {
		out := make([]float64, len(w.Samples))
		copy(out, w.Samples)
		return Waveform{Samples: out, SampleRate: targetRate}, nil
	}

	src := w.Samples
	if targetRate < w.SampleRate {
		// Cut slightly below the new Nyquist to leave transition room.
		cutoff := 0.45 * float64(targetRate) / float64(w.SampleRate)
		src = lowPass(src, cutoff, antiAliasTaps)
	}

	ratio := float64(targetRate) / float64(w.SampleRate)
	outLen := int(math.Ceil(float64(len(src)) * ratio))
	out := make([]float64, outLen)
	for i := range out {
		pos := float64(i) / ratio
		idx := int(pos)
		if idx >= len(src)-1 {
			out[i] = src[len(src)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = src[idx]*(1-frac) + src[idx+1]*frac
	}
	return Waveform{Samples: out, SampleRate: targetRate}, nil
}

// lowPass runs a linear-phase FIR low-pass over the signal. The cutoff is
// normalized to the input sample rate (0.5 = Nyquist). Output has the same
// length as the input; the filter delay is compensated.
func lowPass(x []float64, cutoff float64, taps int) []float64 {
	if taps%2 == 0 {
		taps++
	}
	h := make([]float64, taps)
	center := (taps - 1) / 2
	var sum float64
	for n := range h {
		t := float64(n - center)
		// Hamming-windowed sinc.
		win := 0.54 - 0.46*math.Cos(2*math.Pi*float64(n)/float64(taps-1))
		h[n] = 2 * cutoff * sinc(2*cutoff*t) * win
		sum += h[n]
	}
	for n := range h {
		h[n] /= sum
	}

	out := make([]float64, len(x))
	for i := range out {
		var acc float64
		for n := range h {
			j := i + n - center
			if j < 0 || j >= len(x) {
				continue
			}
			acc += h[n] * x[j]
		}
		out[i] = acc
	}
	return out
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	return math.Sin(math.Pi*x) / (math.Pi * x)
}
