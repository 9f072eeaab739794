package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/wavewatch/surfcast/internal/surf"
)

// TideStation is one NOAA CO-OPS station the client knows about.
type TideStation struct {
	ID   string
	Name string
	Lat  float64
	Lon  float64
}

// tideStations covers the coast segments the built-in beach table spans.
var tideStations = []TideStation{
	{ID: "9413745", Name: "Santa Cruz", Lat: 36.9573, Lon: -122.0263},
	{ID: "9414290", Name: "San Francisco", Lat: 37.8063, Lon: -122.4659},
	{ID: "9413450", Name: "Monterey", Lat: 36.6050, Lon: -121.8880},
	{ID: "9411340", Name: "Santa Barbara", Lat: 34.4083, Lon: -119.6850},
	{ID: "9410840", Name: "Santa Monica", Lat: 34.0083, Lon: -118.5000},
	{ID: "9410660", Name: "Los Angeles", Lat: 33.7199, Lon: -118.2726},
	{ID: "9410580", Name: "Newport Bay", Lat: 33.6033, Lon: -117.8830},
	{ID: "9410230", Name: "La Jolla", Lat: 32.8669, Lon: -117.2571},
	{ID: "1612340", Name: "Honolulu", Lat: 21.3067, Lon: -157.8670},
}

// maxStationMiles bounds how far a tide station may be from the requested
// coordinate before its predictions stop being meaningful for the beach.
const maxStationMiles = 100.0

// NOAATideClient implements surf.TideClient against the NOAA CO-OPS
// predictions API, returning the dense hourly tide curve; extrema
// extraction happens downstream in the normalizer.
type NOAATideClient struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewNOAATideClient creates a tide client. CO-OPS needs no API key.
func NewNOAATideClient(client *http.Client) *NOAATideClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "noaa-tides",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &NOAATideClient{
		name:    "noaa-tides",
		baseURL: "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter",
		httpCfg: HTTPClientConfig{Client: client, Backoff: defaultBackoff()},
		circuit: cb,
	}
}

func (c *NOAATideClient) Name() string {
	return c.name
}

// NearestStation resolves the coordinate to the closest known station.
// Returns surf.ErrNoTideStation when nothing is in range; that condition is
// recoverable and must not fail the overall report.
func (c *NOAATideClient) NearestStation(coord surf.Coordinate) (TideStation, error) {
	var best TideStation
	bestDist := math.MaxFloat64
	for _, s := range tideStations {
		if d := haversineMiles(coord.Lat, coord.Lon, s.Lat, s.Lon); d < bestDist {
			best, bestDist = s, d
		}
	}
	if bestDist > maxStationMiles {
		return TideStation{}, fmt.Errorf("%w: nearest is %s at %.0f miles",
			surf.ErrNoTideStation, best.Name, bestDist)
	}
	return best, nil
}

// TideCurve fetches hourly tide height predictions for the day at the
// station nearest the coordinate.
func (c *NOAATideClient) TideCurve(ctx context.Context, coord surf.Coordinate, day time.Time) ([]surf.TideSample, error) {
	station, err := c.NearestStation(coord)
	if err != nil {
		return nil, err
	}

	dateStr := day.Format("20060102")

	buildRequest := func() (*http.Request, error) {
		params := url.Values{}
		params.Set("begin_date", dateStr)
		params.Set("end_date", dateStr)
		params.Set("station", station.ID)
		params.Set("product", "predictions")
		params.Set("datum", "MLLW")
		params.Set("interval", "h")
		params.Set("units", "english")
		params.Set("time_zone", "gmt")
		params.Set("format", "json")
		params.Set("application", "surfcast")

		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", c.baseURL, params.Encode()), nil)
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Predictions []struct {
			Time   string `json:"t"`
			Height string `json:"v"` // CO-OPS returns heights as strings
		} `json:"predictions"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", surf.ErrUpstreamDataMalformed, err)
	}
	if len(payload.Predictions) == 0 {
		return nil, fmt.Errorf("%w: no predictions for station %s", surf.ErrUpstreamDataMalformed, station.ID)
	}

	curve := make([]surf.TideSample, 0, len(payload.Predictions))
	for _, p := range payload.Predictions {
		ts, err := time.Parse("2006-01-02 15:04", p.Time)
		if err != nil {
			continue // skip unparsable samples
		}
		height, err := strconv.ParseFloat(p.Height, 64)
		if err != nil {
			continue
		}
		curve = append(curve, surf.TideSample{Time: ts.UTC(), HeightFt: height})
	}

	return curve, nil
}

// haversineMiles computes the great-circle distance between two points.
func haversineMiles(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusMiles = 3958.8

	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMiles * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
