package tempo

import "math"

// TrackBeats runs a dynamic-programming search over the onset envelope for
// the beat sequence maximizing
//
//	sum(onset strength at beats) - tightness * sum(log^2(interval/target))
//
// given a target inter-beat interval in seconds. Frames are scored left to
// right with two parallel arrays (best cumulative score and backpointer);
// indexing into those arrays replaces any per-beat allocation. The optimal
// sequence is recovered by backtracking from the best-scoring frame.
//
// An envelope with no onset energy yields ErrNoBeatsDetected.
func TrackBeats(env OnsetEnvelope, targetInterval float64, cfg Config) (BeatSequence, error) {
	if len(env.Values) == 0 || env.IsSilent() {
		return BeatSequence{}, ErrNoBeatsDetected
	}
	if targetInterval <= 0 || env.FrameRate <= 0 {
		return BeatSequence{}, ErrNoBeatsDetected
	}

	period := targetInterval * env.FrameRate
	if period < 1 {
		period = 1
	}

	// Score against a standardized envelope so the tightness penalty is
	// commensurate with onset strength however sparse the envelope is;
	// otherwise a slightly-off target interval can pull beats off real
	// onsets entirely. Reported strengths still come from the raw values.
	values := standardized(env.Values)

	n := len(values)
	score := make([]float64, n)
	backlink := make([]int, n)

	// Predecessors are considered inside [t-2*period, t-period/2].
	lo := int(math.Round(period / 2))
	hi := int(math.Round(period * 2))
	if lo < 1 {
		lo = 1
	}

	for t := 0; t < n; t++ {
		backlink[t] = -1
		best := math.Inf(-1)
		bestDev := math.Inf(1)
		for gap := lo; gap <= hi; gap++ {
			p := t - gap
			if p < 0 {
				break
			}
			dev := math.Log(float64(gap) / period)
			cand := score[p] - cfg.Tightness*dev*dev
			gapDev := math.Abs(float64(gap) - period)
			// Ties go to the gap closest to the target interval.
			if cand > best || (cand == best && gapDev < bestDev) {
				best = cand
				bestDev = gapDev
				backlink[t] = p
			}
		}
		score[t] = values[t]
		if best > 0 {
			score[t] += best
		} else {
			backlink[t] = -1
		}
	}

	// The chain ending at the globally best cumulative score is the answer.
	end := 0
	for t := 1; t < n; t++ {
		if score[t] > score[end] {
			end = t
		}
	}
	if score[end] <= 0 {
		return BeatSequence{}, ErrNoBeatsDetected
	}

	var frames []int
	for t := end; t >= 0; t = backlink[t] {
		frames = append(frames, t)
		if backlink[t] < 0 {
			break
		}
	}

	beats := make([]Beat, len(frames))
	for i, f := range frames {
		// frames is in reverse chronological order.
		j := len(frames) - 1 - i
		beats[j] = Beat{
			Time:     env.Time(f),
			Frame:    f,
			Strength: env.Values[f],
		}
	}
	return BeatSequence{Beats: beats}, nil
}

// standardized scales the series by its standard deviation. A series
// with no spread is returned as is.
func standardized(x []float64) []float64 {
	var mean float64
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))

	var variance float64
	for _, v := range x {
		d := v - mean
		variance += d * d
	}
	std := math.Sqrt(variance / float64(len(x)))
	if std <= 0 {
		return x
	}

	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v / std
	}
	return out
}
