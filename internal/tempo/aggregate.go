package tempo

import (
	"math"
	"sort"
)

// AggregateTempo reduces a beat sequence to one global BPM value. The
// median inter-beat interval, robust to the odd missed or doubled beat,
// locates the period's neighborhood; the final period then comes from
// averaging beat spacing over stretches of intervals near that median.
// Single intervals are quantized to whole envelope frames, but across a
// stretch the quantization telescopes down to its two endpoints, so the
// average recovers sub-frame precision. A result outside the search
// range is clamped and reported as degraded.
func AggregateTempo(beats BeatSequence, cfg Config) (bpm float64, degraded bool, err error) {
	intervals := beats.Intervals()
	if len(intervals) == 0 {
		return 0, false, ErrNoBeatsDetected
	}

	med := median(intervals)
	if med <= 0 {
		return 0, false, ErrNoBeatsDetected
	}
	bpm = 60.0 / refinePeriod(beats.Beats, intervals, med)

	if bpm < cfg.MinBPM {
		return cfg.MinBPM, true, nil
	}
	if bpm > cfg.MaxBPM {
		return cfg.MaxBPM, true, nil
	}
	return bpm, false, nil
}

// ConfidenceScore maps the spread of the inter-beat intervals to [0,1]
// via confidence = 1/(1 + k*CV) where CV is the coefficient of variation.
// Fewer than three beats is insufficient evidence and scores zero.
func ConfidenceScore(intervals []float64, cfg Config) float64 {
	if len(intervals) < 2 {
		return 0
	}
	var mean float64
	for _, v := range intervals {
		mean += v
	}
	mean /= float64(len(intervals))
	if mean <= 0 {
		return 0
	}

	var variance float64
	for _, v := range intervals {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(intervals))
	cv := math.Sqrt(variance) / mean

	conf := 1.0 / (1.0 + cfg.CVSlope*cv)
	return clamp01(conf)
}

// refinePeriod averages beat spacing over maximal runs of intervals
// within 25% of the median. Interval i connects beats i and i+1, so a
// run of intervals [a, b) spans beats[a] to beats[b] and contributes
// that time span over b-a periods. Outlier intervals break the run and
// are excluded. Falls back to the median when no run survives.
func refinePeriod(beats []Beat, intervals []float64, med float64) float64 {
	var spanTime float64
	var spanCount int
	runStart := -1
	for i, iv := range intervals {
		if math.Abs(iv-med) <= 0.25*med {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		if runStart >= 0 {
			spanTime += beats[i].Time - beats[runStart].Time
			spanCount += i - runStart
			runStart = -1
		}
	}
	if runStart >= 0 {
		spanTime += beats[len(intervals)].Time - beats[runStart].Time
		spanCount += len(intervals) - runStart
	}
	if spanCount == 0 || spanTime <= 0 {
		return med
	}
	return spanTime / float64(spanCount)
}

func median(x []float64) float64 {
	s := make([]float64, len(x))
	copy(s, x)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 0 {
		return (s[mid-1] + s[mid]) / 2
	}
	return s[mid]
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
