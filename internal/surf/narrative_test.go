package surf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func narrativeInput() NarrativeInput {
	return NarrativeInput{
		BeachName: "malibu",
		Date:      "2025-06-01",
		Windows: []SurfWindow{
			{Time: hourTS(8), Rating: 82, Reason: "Light offshore wind, wave height in the ideal range."},
			{Time: hourTS(9), Rating: 76, Reason: "Favorable offshore wind, wave height in the ideal range."},
		},
		Profile: &BreakProfile{Beach: "malibu", Notes: "Classic right point."},
		Stats:   TimelineStats{Hours: 24, MinWaveFt: 2, MaxWaveFt: 4, AvgWindMph: 6},
	}
}

func TestFallbackNarrativeDeterministic(t *testing.T) {
	in := narrativeInput()

	a := FallbackNarrative(in)
	b := FallbackNarrative(in)
	assert.Equal(t, a, b)

	require.NoError(t, ValidateNarrative(a))
	assert.True(t, strings.HasPrefix(a.Summary, "Good surf conditions on 2025-06-01 at malibu because of"))
	assert.Contains(t, a.Analysis, "Best time to surf")
	assert.Equal(t, "Classic right point.", a.BreakGuidance)
}

func TestFallbackNarrativeNoWindows(t *testing.T) {
	in := narrativeInput()
	in.Windows = nil
	in.Profile = nil

	n := FallbackNarrative(in)

	require.NoError(t, ValidateNarrative(n))
	assert.Contains(t, n.Summary, "Poor surf conditions")
	assert.Equal(t, NoBreakData, n.BreakGuidance)
}

func TestValidateNarrative(t *testing.T) {
	assert.Error(t, ValidateNarrative(Narrative{}))
	assert.Error(t, ValidateNarrative(Narrative{Summary: "ok", Analysis: "   "}))
	assert.Error(t, ValidateNarrative(Narrative{
		Summary:  strings.Repeat("x", maxSummaryLen+1),
		Analysis: "fine",
	}))
	assert.NoError(t, ValidateNarrative(Narrative{Summary: "short", Analysis: "longer analysis"}))
}
