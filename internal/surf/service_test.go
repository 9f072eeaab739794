package surf

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMarine struct {
	obs []HourlyObservation
	err error
}

func (s *stubMarine) Name() string { return "test-marine" }

func (s *stubMarine) HourlyConditions(ctx context.Context, coord Coordinate, day time.Time) ([]HourlyObservation, error) {
	return s.obs, s.err
}

type stubTide struct {
	curve []TideSample
	err   error
}

func (s *stubTide) Name() string { return "test-tide" }

func (s *stubTide) TideCurve(ctx context.Context, coord Coordinate, day time.Time) ([]TideSample, error) {
	return s.curve, s.err
}

type stubNarrator struct {
	narrative Narrative
	err       error
	delay     time.Duration
}

func (s *stubNarrator) Narrate(ctx context.Context, in NarrativeInput) (Narrative, error) {
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return Narrative{}, ctx.Err()
		case <-time.After(s.delay):
		}
	}
	return s.narrative, s.err
}

type mapStore struct {
	data map[string]SurfReport
}

func newMapStore() *mapStore {
	return &mapStore{data: make(map[string]SurfReport)}
}

func (m *mapStore) Save(key string, report SurfReport) { m.data[key] = report }

func (m *mapStore) Get(key string) (SurfReport, bool) {
	r, ok := m.data[key]
	return r, ok
}

func testDay() time.Time {
	return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
}

func goodObservations() []HourlyObservation {
	obs := make([]HourlyObservation, 0, 24)
	for h := 0; h < 24; h++ {
		obs = append(obs, HourlyObservation{
			Time:          hourTS(h),
			WaveHeightFt:  3,
			WavePeriodSec: 12,
			WindSpeedMph:  5,
			WindDirDeg:    20,
		})
	}
	return obs
}

func TestReportTideFailureDegrades(t *testing.T) {
	svc := NewService(
		NewLocationResolver(""),
		&stubMarine{obs: goodObservations()},
		&stubTide{err: ErrUpstreamUnavailable},
		nil, nil,
	)

	report, err := svc.Report(context.Background(), "malibu", testDay())

	require.NoError(t, err, "a tide failure alone must not fail the report")
	assert.Empty(t, report.TideConditions)
	assert.Len(t, report.HourlyForecast, 24)
	assert.NotEmpty(t, report.BestSurfTimes)
	assert.Equal(t, SourceLive, report.DataSource)
}

func TestReportNoTideStationDegrades(t *testing.T) {
	svc := NewService(
		NewLocationResolver(""),
		&stubMarine{obs: goodObservations()},
		&stubTide{err: ErrNoTideStation},
		nil, nil,
	)

	report, err := svc.Report(context.Background(), "malibu", testDay())

	require.NoError(t, err)
	assert.Empty(t, report.TideConditions)
}

func TestReportMarineFailureIsFatal(t *testing.T) {
	svc := NewService(
		NewLocationResolver(""),
		&stubMarine{err: ErrUpstreamUnavailable},
		&stubTide{},
		nil, nil,
	)

	_, err := svc.Report(context.Background(), "malibu", testDay())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrForecastUnavailable))
	assert.Contains(t, err.Error(), "test-marine", "the failing provider is named in the error")
}

func TestReportEmptyMarineDataIsFatal(t *testing.T) {
	svc := NewService(
		NewLocationResolver(""),
		&stubMarine{obs: nil},
		&stubTide{},
		nil, nil,
	)

	_, err := svc.Report(context.Background(), "malibu", testDay())
	assert.True(t, errors.Is(err, ErrForecastUnavailable))
}

func TestReportUnknownBeach(t *testing.T) {
	svc := NewService(NewLocationResolver(""), &stubMarine{}, &stubTide{}, nil, nil)

	_, err := svc.Report(context.Background(), "atlantis", testDay())
	assert.True(t, errors.Is(err, ErrUnknownLocation))
}

func TestReportNarratorTimeoutFallsBack(t *testing.T) {
	narrator := &stubNarrator{delay: time.Second}
	svc := NewService(
		NewLocationResolver(""),
		&stubMarine{obs: goodObservations()},
		&stubTide{},
		narrator, nil,
	)
	svc.SetNarrativeTimeout(10 * time.Millisecond)

	report, err := svc.Report(context.Background(), "malibu", testDay())

	require.NoError(t, err, "narrative failure never aborts the pipeline")
	assert.NotEmpty(t, report.OneSentenceSummary)
	assert.NotEmpty(t, report.AIAnalysis)
	assert.Contains(t, report.OneSentenceSummary, "malibu")
}

func TestReportInvalidNarrativeFallsBack(t *testing.T) {
	narrator := &stubNarrator{narrative: Narrative{Summary: "", Analysis: ""}}
	svc := NewService(
		NewLocationResolver(""),
		&stubMarine{obs: goodObservations()},
		&stubTide{},
		narrator, nil,
	)

	report, err := svc.Report(context.Background(), "malibu", testDay())

	require.NoError(t, err)
	assert.NotEmpty(t, report.OneSentenceSummary)
	assert.NotEmpty(t, report.AIAnalysis)
}

func TestReportUsesNarratorOutput(t *testing.T) {
	narrator := &stubNarrator{narrative: Narrative{
		Summary:  "Good surf conditions on 2025-06-01 at malibu because of light offshore wind",
		Analysis: "## Outlook\n\nClean all morning.",
	}}
	svc := NewService(
		NewLocationResolver(""),
		&stubMarine{obs: goodObservations()},
		&stubTide{},
		narrator, nil,
	)

	report, err := svc.Report(context.Background(), "malibu", testDay())

	require.NoError(t, err)
	assert.Equal(t, narrator.narrative.Summary, report.OneSentenceSummary)
	assert.Equal(t, narrator.narrative.Analysis, report.AIAnalysis)
	// Guidance falls back to profile notes when the narrator leaves it empty.
	assert.NotEmpty(t, report.BreakConditions)
}

func TestReportCacheRoundTrip(t *testing.T) {
	cache := newMapStore()
	marine := &stubMarine{obs: goodObservations()}
	svc := NewService(NewLocationResolver(""), marine, &stubTide{curve: []TideSample{
		{Time: hourTS(0), HeightFt: 1},
		{Time: hourTS(3), HeightFt: 4},
		{Time: hourTS(6), HeightFt: 0.5},
		{Time: hourTS(9), HeightFt: 3.5},
	}}, nil, cache)

	first, err := svc.Report(context.Background(), "Malibu", testDay())
	require.NoError(t, err)
	assert.Equal(t, SourceLive, first.DataSource)

	// Make the marine client fail: the second call must be served from the
	// cache without touching upstream.
	marine.obs, marine.err = nil, ErrUpstreamUnavailable

	second, err := svc.Report(context.Background(), "malibu", testDay())
	require.NoError(t, err)
	assert.Equal(t, SourceCache, second.DataSource)

	// Field-for-field equal apart from the provenance flag.
	second.DataSource = first.DataSource
	assert.Equal(t, first, second)
}

func TestNearestObservation(t *testing.T) {
	obs := goodObservations()

	at := time.Date(2025, 6, 1, 10, 40, 0, 0, time.UTC)
	nearest := nearestObservation(obs, at)
	require.NotNil(t, nearest)
	assert.Equal(t, hourTS(11), nearest.Time)

	assert.Nil(t, nearestObservation(nil, at))
}
