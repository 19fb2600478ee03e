package tempo

import "math"

// clickTrack builds an impulse train at the given tempo: one unit impulse
// per beat, placed at the nearest sample to the exact beat time.
func clickTrack(bpm float64, sampleRate int, durationSec float64) Waveform {
	n := int(durationSec * float64(sampleRate))
	samples := make([]float64, n)
	period := float64(sampleRate) * 60.0 / bpm
	for k := 0; ; k++ {
		pos := int(math.Round(float64(k) * period))
		if pos >= n {
			break
		}
		samples[pos] = 1.0
	}
	return Waveform{Samples: samples, SampleRate: sampleRate}
}

// silence builds an all-zero waveform.
func silence(sampleRate int, durationSec float64) Waveform {
	n := int(durationSec * float64(sampleRate))
	return Waveform{Samples: make([]float64, n), SampleRate: sampleRate}
}

// sineWave builds a pure tone.
func sineWave(freq float64, sampleRate int, durationSec float64) Waveform {
	n := int(durationSec * float64(sampleRate))
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate))
	}
	return Waveform{Samples: samples, SampleRate: sampleRate}
}

// scaled returns a copy of the waveform with every sample multiplied by c.
func scaled(w Waveform, c float64) Waveform {
	out := make([]float64, len(w.Samples))
	for i, v := range w.Samples {
		out[i] = v * c
	}
	return Waveform{Samples: out, SampleRate: w.SampleRate}
}
