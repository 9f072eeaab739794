package surf

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// MarineClient fetches hourly marine conditions for a coordinate and day.
// Name identifies the provider in logs and error messages.
type MarineClient interface {
	Name() string
	HourlyConditions(ctx context.Context, coord Coordinate, day time.Time) ([]HourlyObservation, error)
}

// TideClient fetches the raw tide height curve for a coordinate and day.
type TideClient interface {
	Name() string
	TideCurve(ctx context.Context, coord Coordinate, day time.Time) ([]TideSample, error)
}

// ReportStore is the cache collaborator consulted before calling upstream
// providers and populated after assembly. Two concurrent requests for the
// same key may both do upstream work; that is safe, just not optimal.
type ReportStore interface {
	Save(key string, report SurfReport)
	Get(key string) (SurfReport, bool)
}

// Service orchestrates one report request: resolve, fetch marine and tide
// concurrently, normalize, score, narrate, assemble. The service holds no
// request state; each invocation owns its timeline and report exclusively.
type Service struct {
	resolver *LocationResolver
	marine   MarineClient
	tide     TideClient
	narrator Narrator
	store    ReportStore

	topWindows       int
	narrativeTimeout time.Duration
	now              func() time.Time
}

// NewService creates a Service. narrator and store may be nil: without a
// narrator every report carries the deterministic fallback narrative, and
// without a store nothing is cached.
func NewService(resolver *LocationResolver, marine MarineClient, tide TideClient, narrator Narrator, store ReportStore) *Service {
	return &Service{
		resolver:         resolver,
		marine:           marine,
		tide:             tide,
		narrator:         narrator,
		store:            store,
		topWindows:       DefaultTopWindows,
		narrativeTimeout: 20 * time.Second,
		now:              time.Now,
	}
}

// SetTopWindows overrides how many best-time windows a report carries.
func (s *Service) SetTopWindows(n int) {
	if n > 0 {
		s.topWindows = n
	}
}

// SetNarrativeTimeout bounds the single narrative-generation attempt.
func (s *Service) SetNarrativeTimeout(d time.Duration) {
	if d > 0 {
		s.narrativeTimeout = d
	}
}

// KnownBeaches exposes the resolver's beach list for the API layer.
func (s *Service) KnownBeaches() []string {
	return s.resolver.KnownBeaches()
}

// Report produces the SurfReport for a beach and calendar day. It fails only
// with ErrUnknownLocation or ErrForecastUnavailable; a tide failure degrades
// the report and a narrative failure is always recovered with a fallback.
func (s *Service) Report(ctx context.Context, beachName string, day time.Time) (SurfReport, error) {
	coord, profile, err := s.resolver.Resolve(beachName)
	if err != nil {
		return SurfReport{}, err
	}

	dateStr := day.Format("2006-01-02")
	key := cacheKey(beachName, dateStr)

	if s.store != nil {
		if cached, ok := s.store.Get(key); ok {
			cached.DataSource = SourceCache
			return cached, nil
		}
	}

	// Marine and tide fetches are independent; run them concurrently.
	type marineResult struct {
		obs []HourlyObservation
		err error
	}
	type tideResult struct {
		curve []TideSample
		err   error
	}
	marineCh := make(chan marineResult, 1)
	tideCh := make(chan tideResult, 1)

	go func() {
		obs, err := s.marine.HourlyConditions(ctx, coord, day)
		marineCh <- marineResult{obs, err}
	}()
	go func() {
		curve, err := s.tide.TideCurve(ctx, coord, day)
		tideCh <- tideResult{curve, err}
	}()

	mr := <-marineCh
	tr := <-tideCh

	// Marine data is the report's primary content; without it there is no
	// usable report.
	if mr.err != nil {
		return SurfReport{}, fmt.Errorf("%w for %s: %s: %v", ErrForecastUnavailable, beachName, s.marine.Name(), mr.err)
	}
	if len(mr.obs) == 0 {
		return SurfReport{}, fmt.Errorf("%w for %s: %s returned no hourly data", ErrForecastUnavailable, beachName, s.marine.Name())
	}

	if tr.err != nil {
		if errors.Is(tr.err, ErrNoTideStation) {
			log.Printf("surf: no tide station for %s; continuing without tide data", beachName)
		} else {
			log.Printf("surf: tide fetch via %s failed for %s: %v", s.tide.Name(), beachName, tr.err)
		}
		tr.curve = nil
	}

	timeline := NormalizeTimeline(mr.obs, tr.curve)
	windows := ScoreTimeline(timeline, profile, s.topWindows)
	current := nearestObservation(timeline.Observations, s.now())

	narrative := s.narrate(ctx, NarrativeInput{
		BeachName: beachName,
		Date:      dateStr,
		Current:   current,
		Windows:   windows,
		Profile:   profile,
		Stats:     SummarizeTimeline(timeline),
	})

	report := SurfReport{
		BeachName:          beachName,
		Date:               dateStr,
		Current:            current,
		HourlyForecast:     timeline.Observations,
		TideConditions:     timeline.TideEvents,
		BestSurfTimes:      windows,
		OneSentenceSummary: narrative.Summary,
		BreakConditions:    narrative.BreakGuidance,
		AIAnalysis:         narrative.Analysis,
		DataSource:         SourceLive,
	}

	if s.store != nil {
		s.store.Save(key, report)
	}
	return report, nil
}

// narrate makes a single bounded attempt against the narrative provider and
// falls back to the deterministic narrative on any failure. Narrative
// quality is a soft feature; it never aborts the pipeline.
func (s *Service) narrate(ctx context.Context, in NarrativeInput) Narrative {
	if s.narrator == nil {
		return FallbackNarrative(in)
	}

	nctx, cancel := context.WithTimeout(ctx, s.narrativeTimeout)
	defer cancel()

	n, err := s.narrator.Narrate(nctx, in)
	if err != nil {
		log.Printf("surf: narrative generation failed for %s: %v", in.BeachName, err)
		return FallbackNarrative(in)
	}
	if err := ValidateNarrative(n); err != nil {
		log.Printf("surf: narrative rejected for %s: %v", in.BeachName, err)
		return FallbackNarrative(in)
	}
	if n.BreakGuidance == "" {
		n.BreakGuidance = FallbackNarrative(in).BreakGuidance
	}
	return n
}

// nearestObservation picks the observation closest to the request time.
func nearestObservation(obs []HourlyObservation, at time.Time) *HourlyObservation {
	if len(obs) == 0 {
		return nil
	}
	best := obs[0]
	bestDelta := absDuration(at.Sub(best.Time))
	for _, o := range obs[1:] {
		if d := absDuration(at.Sub(o.Time)); d < bestDelta {
			best, bestDelta = o, d
		}
	}
	return &best
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

func cacheKey(beachName, date string) string {
	return NormalizeBeachName(beachName) + "|" + date
}
