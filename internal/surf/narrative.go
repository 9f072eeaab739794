package surf

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// NarrativeInput is the structured context handed to the narrative provider.
type NarrativeInput struct {
	BeachName string
	Date      string // YYYY-MM-DD
	Current   *HourlyObservation
	Windows   []SurfWindow
	Profile   *BreakProfile
	Stats     TimelineStats
}

// Narrative is the generated text bundle for a report.
type Narrative struct {
	Summary       string // one sentence
	Analysis      string // markdown prose
	BreakGuidance string // optional break-specific guidance
}

// Narrator produces a narrative from forecast context. Implementations call
// an external generative-text provider and are treated as untrusted and
// non-deterministic: output must pass ValidateNarrative before use, and any
// failure is recovered with FallbackNarrative rather than surfaced.
type Narrator interface {
	Narrate(ctx context.Context, in NarrativeInput) (Narrative, error)
}

const (
	maxSummaryLen  = 400
	maxAnalysisLen = 8000
)

// ValidateNarrative rejects empty or implausibly long provider output.
func ValidateNarrative(n Narrative) error {
	summary := strings.TrimSpace(n.Summary)
	analysis := strings.TrimSpace(n.Analysis)
	if summary == "" || analysis == "" {
		return errors.New("narrative text is empty")
	}
	if len(summary) > maxSummaryLen || len(analysis) > maxAnalysisLen {
		return errors.New("narrative text exceeds sane length")
	}
	return nil
}

// FallbackNarrative builds a deterministic narrative from the scored data.
// Used whenever the provider fails, times out, or returns invalid text.
func FallbackNarrative(in NarrativeInput) Narrative {
	guidance := NoBreakData
	if in.Profile != nil && in.Profile.Notes != "" {
		guidance = in.Profile.Notes
	}

	if len(in.Windows) == 0 {
		return Narrative{
			Summary:       fmt.Sprintf("Poor surf conditions on %s at %s because of missing forecast data", in.Date, in.BeachName),
			Analysis:      fmt.Sprintf("## Surf outlook for %s\n\nNo hourly forecast data is available for %s.", in.BeachName, in.Date),
			BreakGuidance: guidance,
		}
	}

	best := in.Windows[0]
	for _, w := range in.Windows[1:] {
		if w.Rating > best.Rating {
			best = w
		}
	}

	quality := "Poor"
	switch {
	case best.Rating >= 75:
		quality = "Good"
	case best.Rating >= 55:
		quality = "Fair"
	}

	factor := strings.ToLower(strings.TrimSuffix(best.Reason, "."))
	summary := fmt.Sprintf("%s surf conditions on %s at %s because of %s", quality, in.Date, in.BeachName, factor)

	var b strings.Builder
	fmt.Fprintf(&b, "## Surf outlook for %s (%s)\n\n", in.BeachName, in.Date)
	fmt.Fprintf(&b, "Waves %.1f-%.1f ft through the day with wind averaging %.0f mph.\n\n",
		in.Stats.MinWaveFt, in.Stats.MaxWaveFt, in.Stats.AvgWindMph)
	fmt.Fprintf(&b, "**Best time to surf:** %s (rated %d/100). %s\n",
		best.Time.Format("3:04 PM"), best.Rating, best.Reason)
	if in.Stats.FirstTide != nil {
		fmt.Fprintf(&b, "\nFirst tide turn: %s tide of %.1f ft at %s.\n",
			in.Stats.FirstTide.Kind, in.Stats.FirstTide.HeightFt, in.Stats.FirstTide.Time.Format("3:04 PM"))
	}

	return Narrative{
		Summary:       summary,
		Analysis:      b.String(),
		BreakGuidance: guidance,
	}
}
