package surf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hourTS(h int) time.Time {
	return time.Date(2025, 6, 1, h, 0, 0, 0, time.UTC)
}

func TestNormalizeTimelineSortsAndDeduplicates(t *testing.T) {
	obs := []HourlyObservation{
		{Time: hourTS(8), WaveHeightFt: 3},
		{Time: hourTS(6), WaveHeightFt: 2},
		{Time: hourTS(8), WaveHeightFt: 4}, // duplicate timestamp, later wins
		{Time: hourTS(7), WaveHeightFt: 2.5},
	}

	tl := NormalizeTimeline(obs, nil)

	require.Len(t, tl.Observations, 3)
	for i := 1; i < len(tl.Observations); i++ {
		assert.True(t, tl.Observations[i-1].Time.Before(tl.Observations[i].Time),
			"observations must be strictly ascending")
	}
	assert.Equal(t, 4.0, tl.Observations[2].WaveHeightFt, "last write wins on duplicate timestamps")
}

func TestNormalizeTimelineEmptyObservations(t *testing.T) {
	tl := NormalizeTimeline(nil, []TideSample{
		{Time: hourTS(0), HeightFt: 1},
		{Time: hourTS(1), HeightFt: 2},
	})

	assert.Empty(t, tl.Observations, "emptiness is propagated, not an error")
	assert.NotNil(t, tl.Observations)
}

func TestExtractTideEvents(t *testing.T) {
	curve := []TideSample{
		{Time: hourTS(0), HeightFt: 1},
		{Time: hourTS(1), HeightFt: 2},
		{Time: hourTS(2), HeightFt: 3},
		{Time: hourTS(3), HeightFt: 2},
		{Time: hourTS(4), HeightFt: 1},
		{Time: hourTS(5), HeightFt: 2},
		{Time: hourTS(6), HeightFt: 3},
	}

	events := ExtractTideEvents(curve)

	require.Len(t, events, 4)
	assert.Equal(t, TideLow, events[0].Kind)
	assert.Equal(t, hourTS(0), events[0].Time)
	assert.Equal(t, TideHigh, events[1].Kind)
	assert.Equal(t, hourTS(2), events[1].Time)
	assert.Equal(t, 3.0, events[1].HeightFt)
	assert.Equal(t, TideLow, events[2].Kind)
	assert.Equal(t, hourTS(4), events[2].Time)
	assert.Equal(t, TideHigh, events[3].Kind)
}

func TestExtractTideEventsFlatPeak(t *testing.T) {
	curve := []TideSample{
		{Time: hourTS(0), HeightFt: 1},
		{Time: hourTS(1), HeightFt: 2},
		{Time: hourTS(2), HeightFt: 3},
		{Time: hourTS(3), HeightFt: 3},
		{Time: hourTS(4), HeightFt: 3},
		{Time: hourTS(5), HeightFt: 2},
		{Time: hourTS(6), HeightFt: 1},
	}

	events := ExtractTideEvents(curve)

	require.Len(t, events, 3)
	assert.Equal(t, TideLow, events[0].Kind)
	// The flat run at the peak counts once, at the run's midpoint.
	assert.Equal(t, TideHigh, events[1].Kind)
	assert.Equal(t, hourTS(3), events[1].Time)
	assert.Equal(t, TideLow, events[2].Kind)
}

func TestExtractTideEventsIdempotent(t *testing.T) {
	curve := []TideSample{
		{Time: hourTS(0), HeightFt: 1.2},
		{Time: hourTS(1), HeightFt: 2.8},
		{Time: hourTS(2), HeightFt: 4.1},
		{Time: hourTS(3), HeightFt: 3.0},
		{Time: hourTS(4), HeightFt: 0.9},
		{Time: hourTS(5), HeightFt: 2.2},
		{Time: hourTS(6), HeightFt: 3.7},
		{Time: hourTS(7), HeightFt: 2.5},
	}

	first := ExtractTideEvents(curve)
	require.NotEmpty(t, first)

	sparse := make([]TideSample, 0, len(first))
	for _, e := range first {
		sparse = append(sparse, TideSample{Time: e.Time, HeightFt: e.HeightFt})
	}

	second := ExtractTideEvents(sparse)
	assert.Equal(t, first, second)
}

func TestSummarizeTimeline(t *testing.T) {
	tl := ForecastTimeline{
		Observations: []HourlyObservation{
			{Time: hourTS(6), WaveHeightFt: 2, WindSpeedMph: 4, WavePeriodSec: 10},
			{Time: hourTS(7), WaveHeightFt: 4, WindSpeedMph: 8, WavePeriodSec: 14},
		},
		TideEvents: []TideEvent{{Time: hourTS(5), HeightFt: 0.5, Kind: TideLow}},
	}

	stats := SummarizeTimeline(tl)

	assert.Equal(t, 2, stats.Hours)
	assert.Equal(t, 2.0, stats.MinWaveFt)
	assert.Equal(t, 4.0, stats.MaxWaveFt)
	assert.Equal(t, 6.0, stats.AvgWindMph)
	assert.Equal(t, 12.0, stats.AvgPeriodSec)
	require.NotNil(t, stats.FirstTide)
	assert.Equal(t, TideLow, stats.FirstTide.Kind)
}
