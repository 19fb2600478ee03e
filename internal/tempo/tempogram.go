package tempo

import "math"

// Analysis window for local periodicity, in seconds. Long enough to span
// several beats at the slowest candidate tempo.
const (
	tempogramWindowSec = 6.0
	tempogramHopDiv    = 4

	// Subharmonics of the true tempo autocorrelate at least as strongly
	// as the tempo itself, since beats also line up at two and four times
	// the beat period. Candidates are therefore not ranked by raw score
	// alone: the fastest candidate whose score reaches this fraction of
	// the maximum wins.
	octaveSupportRatio = 0.7
)

// Tempogram scores candidate tempos across time. Scores[w][b] is the
// periodicity score of candidate BPMs[b] inside time window w.
type Tempogram struct {
	BPMs      []float64
	Scores    [][]float64
	FrameRate float64
}

// ComputeTempogram measures, for every candidate BPM in the configured
// search range, how strongly the onset envelope repeats at the matching
// inter-onset lag. The envelope is analyzed in overlapping local windows
// so the scores form a (time, tempo) map; per-window autocorrelation
// values are clipped at zero. The envelope is lightly smoothed first:
// onset spikes narrower than the frame grid autocorrelate poorly at
// non-integer periods, and a little spread lets neighboring lags share
// their evidence.
func ComputeTempogram(env OnsetEnvelope, cfg Config) Tempogram {
	numCandidates := int(cfg.MaxBPM-cfg.MinBPM) + 1
	tg := Tempogram{
		BPMs:      make([]float64, numCandidates),
		FrameRate: env.FrameRate,
	}
	for i := range tg.BPMs {
		tg.BPMs[i] = cfg.MinBPM + float64(i)
	}

	smoothed := smooth3(env.Values)

	winLen := int(tempogramWindowSec * env.FrameRate)
	if winLen > len(smoothed) || winLen < 2 {
		winLen = len(smoothed)
	}
	hop := winLen / tempogramHopDiv
	if hop < 1 {
		hop = 1
	}

	for start := 0; start == 0 || start+winLen <= len(smoothed); start += hop {
		segment := smoothed[start:min(start+winLen, len(smoothed))]
		row := make([]float64, numCandidates)
		for i, bpm := range tg.BPMs {
			row[i] = lagScore(segment, env.FrameRate*60.0/bpm)
		}
		tg.Scores = append(tg.Scores, row)
	}
	return tg
}

// smooth3 applies a 1-2-1 kernel, preserving total energy and peak
// positions.
func smooth3(x []float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		acc := 0.5 * x[i]
		if i > 0 {
			acc += 0.25 * x[i-1]
		}
		if i+1 < len(x) {
			acc += 0.25 * x[i+1]
		}
		out[i] = acc
	}
	return out
}

// lagScore is the zero-clipped, mean-removed autocorrelation of the
// segment at a possibly fractional lag, normalized by the number of
// terms. Values between frames are linearly interpolated; integer lags
// would quantize fast tempos too coarsely to rank candidates fairly.
func lagScore(x []float64, lag float64) float64 {
	base := int(math.Floor(lag))
	frac := lag - float64(base)
	if base < 1 || base+1 >= len(x) {
		return 0
	}
	var mean float64
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))

	var sum float64
	count := 0
	for i := 0; i+base+1 < len(x); i++ {
		y := (x[i+base]-mean)*(1-frac) + (x[i+base+1]-mean)*frac
		sum += (x[i] - mean) * y
		count++
	}
	if count == 0 || sum < 0 {
		return 0
	}
	return sum / float64(count)
}

// GlobalBPM aggregates scores across all time windows. The raw argmax is
// unreliable here: a subharmonic scores as high as the tempo itself, so
// the winner is instead the fastest candidate whose total reaches
// octaveSupportRatio of the best. Harmonics above the true tempo find no
// alignment and fall well under the threshold. The boolean is false when
// no candidate scored above zero anywhere, which happens for silence and
// unstructured noise.
func (tg Tempogram) GlobalBPM() (float64, bool) {
	if len(tg.Scores) == 0 {
		return 0, false
	}
	totals := make([]float64, len(tg.BPMs))
	for _, row := range tg.Scores {
		for i, v := range row {
			totals[i] += v
		}
	}
	var top float64
	for _, v := range totals {
		if v > top {
			top = v
		}
	}
	if top <= 0 {
		return 0, false
	}
	best := -1
	for i, v := range totals {
		if v >= octaveSupportRatio*top {
			best = i
		}
	}
	return tg.BPMs[best], true
}
