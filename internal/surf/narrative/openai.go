// Package narrative generates the AI text for a surf report via an
// OpenAI-compatible chat-completions endpoint. Output is untrusted; the
// orchestrator validates it and substitutes a fallback on any failure.
package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wavewatch/surfcast/internal/surf"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Message mirrors the chat message structure.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionRequest is the payload sent to the provider.
type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature,omitempty"`
}

// chatCompletionResponse captures the non-streaming response.
type chatCompletionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Client is a surf.Narrator backed by a chat-completion provider. It makes
// exactly one attempt per text; retrying a soft feature is not worth the
// latency.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient constructs a narrative client.
func NewClient(apiKey, baseURL, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("narrative api key cannot be empty")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if strings.TrimSpace(model) == "" {
		model = "gpt-4o-mini"
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// Narrate produces the one-sentence summary and the longer analysis for the
// given forecast context. Break guidance comes from the profile notes; web
// research per break is out of scope.
func (c *Client) Narrate(ctx context.Context, in surf.NarrativeInput) (surf.Narrative, error) {
	conditions := formatConditions(in)

	analysis, err := c.complete(ctx, analysisPrompt(in, conditions))
	if err != nil {
		return surf.Narrative{}, err
	}

	summary, err := c.complete(ctx, summaryPrompt(in, conditions))
	if err != nil {
		return surf.Narrative{}, err
	}

	guidance := ""
	if in.Profile != nil {
		guidance = in.Profile.Notes
	}

	return surf.Narrative{
		Summary:       strings.TrimSpace(summary),
		Analysis:      strings.TrimSpace(analysis),
		BreakGuidance: guidance,
	}, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatCompletionRequest{
		Model:       c.model,
		Temperature: 0.4,
		Messages: []Message{
			{Role: "system", Content: "You are an expert surf forecaster. Be concise and actionable."},
			{Role: "user", Content: prompt},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encode chat completion request: %w", err)
	}

	endpoint := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build chat completion request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request chat completion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", fmt.Errorf("chat completion failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat completion: %w", err)
	}

	var out chatCompletionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode chat completion: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}

func analysisPrompt(in surf.NarrativeInput, conditions string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the surf forecast for %s on %s.\n\n", in.BeachName, in.Date)
	if in.Profile != nil && in.Profile.Notes != "" {
		fmt.Fprintf(&b, "Break-specific requirements:\n%s\n\n", in.Profile.Notes)
	}
	fmt.Fprintf(&b, "Forecast data:\n%s\n", conditions)
	b.WriteString("\nProvide in markdown:\n")
	b.WriteString("1. An overall surf rating for the day with brief reasoning.\n")
	b.WriteString("2. The single best time window and why, citing wind, swell, and tide.\n")
	b.WriteString("3. Recommendations for surfers (board choice, skill level).\n")
	b.WriteString("4. Notable changes in conditions through the day.\n")
	b.WriteString("Keep it concise; skip basic metrics that are already displayed.")
	return b.String()
}

func summaryPrompt(in surf.NarrativeInput, conditions string) string {
	return fmt.Sprintf(
		"Based on these surf conditions, respond with exactly one sentence in the form "+
			"\"[Quality] surf conditions on %s at %s because of [main factor]\".\n\n%s",
		in.Date, in.BeachName, conditions)
}

// formatConditions renders the structured context as prompt text.
func formatConditions(in surf.NarrativeInput) string {
	var b strings.Builder

	if cur := in.Current; cur != nil {
		fmt.Fprintf(&b, "Current: %.1f ft waves @ %.0f s, wind %.1f mph from %s, water %.0f F, air %.0f F\n",
			cur.WaveHeightFt, cur.WavePeriodSec, cur.WindSpeedMph,
			surf.CompassBand(cur.WindDirDeg), cur.WaterTempF, cur.AirTempF)
	}

	fmt.Fprintf(&b, "Day range: waves %.1f-%.1f ft, avg wind %.1f mph, avg period %.1f s over %d hours\n",
		in.Stats.MinWaveFt, in.Stats.MaxWaveFt, in.Stats.AvgWindMph, in.Stats.AvgPeriodSec, in.Stats.Hours)

	if in.Stats.FirstTide != nil {
		fmt.Fprintf(&b, "First tide turn: %s of %.1f ft at %s\n",
			in.Stats.FirstTide.Kind, in.Stats.FirstTide.HeightFt, in.Stats.FirstTide.Time.Format("15:04"))
	}

	for _, w := range in.Windows {
		fmt.Fprintf(&b, "Scored window %s: %d/100, waves %s, wind %s, period %ds (%s)\n",
			w.Time.Format("15:04"), w.Rating, w.WaveHeightRange, w.WindSpeedRange, w.PeriodSec, w.Reason)
	}

	return b.String()
}
