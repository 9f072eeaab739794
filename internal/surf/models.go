package surf

import (
	"strings"
	"time"
)

// Coordinate is a WGS84 point. Immutable once resolved.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// BreakProfile describes the conditions a specific break works best in.
// A zero-value range means "unknown"; the scoring engine falls back to
// generic thresholds for anything the profile leaves unset.
type BreakProfile struct {
	Beach           string   `json:"beach"`
	IdealWaveMinFt  float64  `json:"idealWaveMinFt,omitempty"`
	IdealWaveMaxFt  float64  `json:"idealWaveMaxFt,omitempty"`
	IdealWindMaxMph float64  `json:"idealWindMaxMph,omitempty"`
	IdealWindBands  []string `json:"idealWindBands,omitempty"` // 8-point compass bands, offshore/cross-shore
	Notes           string   `json:"notes,omitempty"`
}

// HasWaveRange reports whether the profile carries an ideal wave-height band.
func (p *BreakProfile) HasWaveRange() bool {
	return p != nil && p.IdealWaveMaxFt > p.IdealWaveMinFt
}

// HourlyObservation is one hour of marine conditions. Timestamp is UTC and
// hour-aligned; it is the natural key within a timeline.
type HourlyObservation struct {
	Time          time.Time `json:"time"`
	WaveHeightFt  float64   `json:"waveHeight"`
	WavePeriodSec float64   `json:"wavePeriod"`
	WindSpeedMph  float64   `json:"windSpeed"`
	WindDirDeg    float64   `json:"windDirection"`
	AirTempF      float64   `json:"airTemperature"`
	WaterTempF    float64   `json:"waterTemperature"`
}

// TideKind distinguishes tide extrema.
type TideKind string

const (
	TideHigh TideKind = "high"
	TideLow  TideKind = "low"
)

// TideEvent is a turning point of the tide curve. Derived from a denser raw
// curve by the normalizer; intermediate samples are discarded.
type TideEvent struct {
	Time     time.Time `json:"time"`
	HeightFt float64   `json:"height"`
	Kind     TideKind  `json:"kind"`
}

// TideSample is one raw point of the tide height curve as returned by the
// tide provider, before extrema extraction.
type TideSample struct {
	Time     time.Time
	HeightFt float64
}

// ForecastTimeline is the reconciled view of one day: hourly observations
// sorted strictly ascending plus the tide turning points. A missing hour is
// simply absent; nothing is fabricated to fill gaps.
type ForecastTimeline struct {
	Observations []HourlyObservation `json:"observations"`
	TideEvents   []TideEvent         `json:"tideEvents"`
}

// SurfWindow is one recommended hour with its score and the banded summary
// shown to users in place of raw numbers.
type SurfWindow struct {
	Time            time.Time `json:"time"`
	Rating          int       `json:"rating"` // 0-100
	WaveHeightRange string    `json:"waveHeightRange"`
	PeriodSec       int       `json:"period"`
	WindSpeedRange  string    `json:"windSpeedRange"`
	Reason          string    `json:"reason"`
}

// Source flags where a report's data came from.
type Source string

const (
	SourceLive  Source = "live"
	SourceCache Source = "cache"
)

// NoBreakData is the sentinel guidance string used when no break-specific
// information is available.
const NoBreakData = "No break-specific data available."

// SurfReport is the final aggregate for one (beach, date) request. It is
// assembled once and never mutated afterwards.
type SurfReport struct {
	BeachName          string              `json:"beachName"`
	Date               string              `json:"date"` // YYYY-MM-DD
	Current            *HourlyObservation  `json:"currentConditions"`
	HourlyForecast     []HourlyObservation `json:"hourlyForecast"`
	TideConditions     []TideEvent         `json:"tideConditions"`
	BestSurfTimes      []SurfWindow        `json:"bestSurfTimes"`
	OneSentenceSummary string              `json:"oneSentenceSummary"`
	BreakConditions    string              `json:"breakSpecificConditions"`
	AIAnalysis         string              `json:"aiAnalysis"`
	DataSource         Source              `json:"source"`
}

// NormalizeBeachName canonicalizes a beach name for lookups and cache keys.
func NormalizeBeachName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
