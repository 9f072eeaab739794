package surf

import (
	"sort"
	"time"
)

// NormalizeTimeline merges marine observations and the raw tide curve into a
// single ForecastTimeline. Observations are deduplicated by timestamp with
// last-write-wins, then sorted ascending. The tide curve is reduced to its
// high/low turning points; intermediate samples carry no decision value for
// surf timing and are discarded.
//
// An empty observation set is not an error: emptiness is propagated so the
// caller can decide fallback policy.
func NormalizeTimeline(observations []HourlyObservation, tideCurve []TideSample) ForecastTimeline {
	dedup := make(map[time.Time]HourlyObservation, len(observations))
	for _, o := range observations {
		dedup[o.Time] = o
	}

	obs := make([]HourlyObservation, 0, len(dedup))
	for _, o := range dedup {
		obs = append(obs, o)
	}
	sort.Slice(obs, func(i, j int) bool { return obs[i].Time.Before(obs[j].Time) })

	return ForecastTimeline{
		Observations: obs,
		TideEvents:   ExtractTideEvents(tideCurve),
	}
}

// ExtractTideEvents finds the extrema of a tide height curve. An interior
// sample is an extremum when strictly greater (high) or strictly less (low)
// than both neighbors; a flat run at a peak counts once, located at the
// run's midpoint. An endpoint is compared against its single neighbor so
// that extracting from an already-sparse high/low series yields the series
// back unchanged.
func ExtractTideEvents(curve []TideSample) []TideEvent {
	events := []TideEvent{}
	if len(curve) < 2 {
		return events
	}

	sorted := make([]TideSample, len(curve))
	copy(sorted, curve)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	// Compress consecutive equal heights into runs so a flat peak is a
	// single candidate.
	type run struct {
		height     float64
		start, end time.Time
	}
	runs := []run{{height: sorted[0].HeightFt, start: sorted[0].Time, end: sorted[0].Time}}
	for _, s := range sorted[1:] {
		last := &runs[len(runs)-1]
		if s.HeightFt == last.height {
			last.end = s.Time
			continue
		}
		runs = append(runs, run{height: s.HeightFt, start: s.Time, end: s.Time})
	}

	for i, r := range runs {
		higherThanPrev := i == 0 || r.height > runs[i-1].height
		higherThanNext := i == len(runs)-1 || r.height > runs[i+1].height
		lowerThanPrev := i == 0 || r.height < runs[i-1].height
		lowerThanNext := i == len(runs)-1 || r.height < runs[i+1].height

		mid := r.start.Add(r.end.Sub(r.start) / 2)
		switch {
		case higherThanPrev && higherThanNext:
			events = append(events, TideEvent{Time: mid, HeightFt: r.height, Kind: TideHigh})
		case lowerThanPrev && lowerThanNext:
			events = append(events, TideEvent{Time: mid, HeightFt: r.height, Kind: TideLow})
		}
	}

	return events
}

// TimelineStats summarizes a timeline for narrative prompts and fallbacks.
type TimelineStats struct {
	Hours        int
	MinWaveFt    float64
	MaxWaveFt    float64
	AvgWindMph   float64
	AvgPeriodSec float64
	FirstTide    *TideEvent
}

// SummarizeTimeline computes summary statistics over a timeline.
func SummarizeTimeline(tl ForecastTimeline) TimelineStats {
	stats := TimelineStats{Hours: len(tl.Observations)}
	if len(tl.TideEvents) > 0 {
		first := tl.TideEvents[0]
		stats.FirstTide = &first
	}
	if len(tl.Observations) == 0 {
		return stats
	}

	stats.MinWaveFt = tl.Observations[0].WaveHeightFt
	stats.MaxWaveFt = tl.Observations[0].WaveHeightFt
	var sumWind, sumPeriod float64
	for _, o := range tl.Observations {
		if o.WaveHeightFt < stats.MinWaveFt {
			stats.MinWaveFt = o.WaveHeightFt
		}
		if o.WaveHeightFt > stats.MaxWaveFt {
			stats.MaxWaveFt = o.WaveHeightFt
		}
		sumWind += o.WindSpeedMph
		sumPeriod += o.WavePeriodSec
	}
	n := float64(len(tl.Observations))
	stats.AvgWindMph = sumWind / n
	stats.AvgPeriodSec = sumPeriod / n
	return stats
}
