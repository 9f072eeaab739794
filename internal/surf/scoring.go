package surf

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Scoring constants. The weights are defaults chosen here, not recovered
// from any provider contract: wave height and wind dominate, period is a
// minor modifier. Each hour starts at the neutral baseline and the final
// score is clamped to [0, 100].
const (
	baselineScore = 50

	genericWaveMinFt = 2
	genericWaveMaxFt = 6
	waveTermMax      = 25.0
	waveSlopePerFt   = 8.0 // penalty per ft outside the ideal band

	calmBonus       = 15.0 // full bonus at or below calmWindMph
	calmWindMph     = 5.0
	moderateWindMph = 15.0 // default tolerance when the profile sets no wind ceiling
	windPenaltyRate = 1.5  // per mph above tolerance
	windPenaltyMax  = 20.0
	offshoreBonus   = 10.0
	onshorePenalty  = 10.0 // plus speed/2, capped at windPenaltyMax

	periodFloorSec = 8.0
	periodCeilSec  = 14.0 // no further bonus beyond this
	periodTermMax  = 10.0

	// DefaultTopWindows is how many best-time windows a report carries
	// unless configured otherwise.
	DefaultTopWindows = 3
)

var compassBands = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// CompassBand converts degrees to one of the 8 compass bands using standard
// 45-degree sectors centered on each point; N spans [337.5, 22.5) wrapping
// through 0.
func CompassBand(deg float64) string {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	idx := int(math.Mod(d+22.5, 360) / 45)
	return compassBands[idx]
}

// oppositeBand returns the reciprocal compass band (N -> S, NE -> SW, ...).
func oppositeBand(band string) string {
	for i, b := range compassBands {
		if b == band {
			return compassBands[(i+4)%8]
		}
	}
	return band
}

// ScoreTimeline scores every hour against the break profile, keeps the topN
// best windows (ties broken by earlier timestamp), and returns them sorted
// ascending by time for presentation; rank is carried in the rating, not in
// position. An empty timeline yields an empty slice.
func ScoreTimeline(tl ForecastTimeline, profile *BreakProfile, topN int) []SurfWindow {
	if topN <= 0 {
		topN = DefaultTopWindows
	}

	windows := make([]SurfWindow, 0, len(tl.Observations))
	for _, o := range tl.Observations {
		rating, reason := scoreHour(o, profile)
		windows = append(windows, SurfWindow{
			Time:            o.Time,
			Rating:          rating,
			WaveHeightRange: waveHeightBand(o.WaveHeightFt),
			PeriodSec:       int(math.Round(o.WavePeriodSec)),
			WindSpeedRange:  windSpeedBand(o.WindSpeedMph),
			Reason:          reason,
		})
	}

	sort.SliceStable(windows, func(i, j int) bool {
		if windows[i].Rating != windows[j].Rating {
			return windows[i].Rating > windows[j].Rating
		}
		return windows[i].Time.Before(windows[j].Time)
	})
	if len(windows) > topN {
		windows = windows[:topN]
	}
	sort.Slice(windows, func(i, j int) bool { return windows[i].Time.Before(windows[j].Time) })
	return windows
}

// scoreHour computes the 0-100 quality score for one observation plus the
// templated rationale derived from the dominant terms.
func scoreHour(o HourlyObservation, profile *BreakProfile) (int, string) {
	wave, wavePhrase := waveTerm(o.WaveHeightFt, profile)
	wind, windPhrase := windTerm(o.WindSpeedMph, o.WindDirDeg, profile)
	period, periodPhrase := periodTerm(o.WavePeriodSec)

	score := baselineScore + wave + wind + period
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	phrases := []string{windPhrase, wavePhrase}
	if periodPhrase != "" {
		phrases = append(phrases, periodPhrase)
	}
	reason := strings.Join(phrases, ", ")
	reason = strings.ToUpper(reason[:1]) + reason[1:] + "."

	return int(math.Round(score)), reason
}

func waveTerm(heightFt float64, profile *BreakProfile) (float64, string) {
	lo, hi := float64(genericWaveMinFt), float64(genericWaveMaxFt)
	if profile.HasWaveRange() {
		lo, hi = profile.IdealWaveMinFt, profile.IdealWaveMaxFt
	}
	mid := (lo + hi) / 2
	half := (hi - lo) / 2

	switch {
	case heightFt < lo:
		penalty := math.Min(waveTermMax, (lo-heightFt)*waveSlopePerFt)
		return -penalty, "wave height below the ideal range"
	case heightFt > hi:
		penalty := math.Min(waveTermMax, (heightFt-hi)*waveSlopePerFt)
		return -penalty, "wave height above the ideal range"
	default:
		// From full bonus at the midpoint down to half at either edge.
		bonus := waveTermMax
		if half > 0 {
			bonus = waveTermMax - (waveTermMax/2)*(math.Abs(heightFt-mid)/half)
		}
		return bonus, "wave height in the ideal range"
	}
}

// windTerm scores wind speed against the break's tolerance ceiling (the
// generic moderateWindMph when the profile sets none) and, when the profile
// names its offshore bands, the direction.
func windTerm(speedMph, dirDeg float64, profile *BreakProfile) (float64, string) {
	tolerance := float64(moderateWindMph)
	if profile != nil && profile.IdealWindMaxMph > calmWindMph {
		tolerance = profile.IdealWindMaxMph
	}

	var speed float64
	switch {
	case speedMph <= calmWindMph:
		speed = calmBonus
	case speedMph <= tolerance:
		speed = calmBonus * (tolerance - speedMph) / (tolerance - calmWindMph)
	default:
		speed = -math.Min(windPenaltyMax, (speedMph-tolerance)*windPenaltyRate)
	}

	band := CompassBand(dirDeg)
	if profile != nil && len(profile.IdealWindBands) > 0 {
		if bandIn(profile.IdealWindBands, band) {
			phrase := "favorable offshore wind"
			if speedMph <= calmWindMph {
				phrase = "light offshore wind"
			}
			return speed + offshoreBonus, phrase
		}
		if bandIn(profile.IdealWindBands, oppositeBand(band)) {
			// Onshore wind degrades rideability more than anything else,
			// and more so the harder it blows.
			penalty := math.Min(windPenaltyMax, onshorePenalty+speedMph/2)
			phrase := "onshore wind"
			if speedMph > tolerance {
				phrase = "strong onshore wind"
			}
			return speed - penalty, phrase
		}
		return speed, "cross-shore wind"
	}

	switch {
	case speedMph <= calmWindMph:
		return speed, "light wind"
	case speedMph <= tolerance:
		return speed, "moderate wind"
	default:
		return speed, "strong wind"
	}
}

func periodTerm(periodSec float64) (float64, string) {
	if periodSec <= periodFloorSec {
		return 0, ""
	}
	capped := math.Min(periodSec, periodCeilSec)
	term := periodTermMax * (capped - periodFloorSec) / (periodCeilSec - periodFloorSec)
	if periodSec >= 12 {
		return term, "long-period swell"
	}
	return term, ""
}

func bandIn(bands []string, band string) bool {
	for _, b := range bands {
		if b == band {
			return true
		}
	}
	return false
}

// waveHeightBand labels a height as a half-foot range, e.g. "2.0-2.5ft".
func waveHeightBand(heightFt float64) string {
	lo := math.Floor(heightFt*2) / 2
	return fmt.Sprintf("%.1f-%.1fft", lo, lo+0.5)
}

// windSpeedBand labels a speed as a 2 mph range, e.g. "4-6mph".
func windSpeedBand(speedMph float64) string {
	lo := int(math.Floor(speedMph/2)) * 2
	return fmt.Sprintf("%d-%dmph", lo, lo+2)
}
