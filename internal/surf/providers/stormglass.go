package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/wavewatch/surfcast/internal/surf"
)

const (
	metersToFeet      = 3.28084
	metersPerSecToMph = 2.23694
)

// StormglassClient implements surf.MarineClient against the Stormglass
// weather point API. Requests are idempotent and retried per common.go.
type StormglassClient struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewStormglassClient creates a marine client. The API key is explicit
// configuration; there is no ambient credential lookup here.
func NewStormglassClient(client *http.Client, apiKey string) *StormglassClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "stormglass",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &StormglassClient{
		name:    "stormglass",
		apiKey:  apiKey,
		baseURL: "https://api.stormglass.io/v2/weather/point",
		httpCfg: HTTPClientConfig{Client: client, Backoff: defaultBackoff()},
		circuit: cb,
	}
}

func (c *StormglassClient) Name() string {
	return c.name
}

// sourceValue is one parameter reading keyed by source. NOAA is the primary
// source; sg is the provider's blended value used when NOAA has a gap.
type sourceValue struct {
	NOAA *float64 `json:"noaa"`
	SG   *float64 `json:"sg"`
}

func (v sourceValue) value() (float64, bool) {
	if v.NOAA != nil {
		return *v.NOAA, true
	}
	if v.SG != nil {
		return *v.SG, true
	}
	return 0, false
}

// HourlyConditions fetches wave, wind, and temperature readings for every
// hour of the given day. Timestamps are truncated to the hour; readings the
// provider reports off-grid collapse onto their hour rather than being
// interpolated. Hours missing wave height are omitted, not zero-filled.
func (c *StormglassClient) HourlyConditions(ctx context.Context, coord surf.Coordinate, day time.Time) ([]surf.HourlyObservation, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("stormglass api key is not configured")
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24*time.Hour - time.Second)

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", fmt.Sprintf("%f", coord.Lat))
		values.Set("lng", fmt.Sprintf("%f", coord.Lon))
		values.Set("params", strings.Join([]string{
			"waveHeight", "wavePeriod", "windSpeed", "windDirection",
			"airTemperature", "waterTemperature",
		}, ","))
		values.Set("source", "noaa")
		values.Set("start", fmt.Sprintf("%d", dayStart.Unix()))
		values.Set("end", fmt.Sprintf("%d", dayEnd.Unix()))

		req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", c.baseURL, values.Encode()), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", c.apiKey)
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Hours []struct {
			Time             string      `json:"time"`
			WaveHeight       sourceValue `json:"waveHeight"`
			WavePeriod       sourceValue `json:"wavePeriod"`
			WindSpeed        sourceValue `json:"windSpeed"`
			WindDirection    sourceValue `json:"windDirection"`
			AirTemperature   sourceValue `json:"airTemperature"`
			WaterTemperature sourceValue `json:"waterTemperature"`
		} `json:"hours"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", surf.ErrUpstreamDataMalformed, err)
	}

	obs := make([]surf.HourlyObservation, 0, len(payload.Hours))
	for _, h := range payload.Hours {
		ts, err := time.Parse(time.RFC3339, h.Time)
		if err != nil {
			return nil, fmt.Errorf("%w: bad hour timestamp %q", surf.ErrUpstreamDataMalformed, h.Time)
		}

		waveM, ok := h.WaveHeight.value()
		if !ok {
			// A missing hour stays missing.
			continue
		}

		o := surf.HourlyObservation{
			Time:         ts.UTC().Truncate(time.Hour),
			WaveHeightFt: round1(waveM * metersToFeet),
		}
		if v, ok := h.WavePeriod.value(); ok {
			o.WavePeriodSec = round1(v)
		}
		if v, ok := h.WindSpeed.value(); ok {
			o.WindSpeedMph = round1(v * metersPerSecToMph)
		}
		if v, ok := h.WindDirection.value(); ok {
			o.WindDirDeg = v
		}
		if v, ok := h.AirTemperature.value(); ok {
			o.AirTempF = round1(v*9/5 + 32)
		}
		if v, ok := h.WaterTemperature.value(); ok {
			o.WaterTempF = round1(v*9/5 + 32)
		}
		obs = append(obs, o)
	}

	return obs, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
