package surf

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kelvins/geocoder"
)

// beachCoordinates maps known surf breaks to their coordinates. Alias names
// ("lowers", "old man's") point at the same spot as the canonical break.
var beachCoordinates = map[string]Coordinate{
	"pleasure point":   {Lat: 36.9514, Lon: -122.0256},
	"santa cruz":       {Lat: 36.9514, Lon: -122.0256},
	"malibu":           {Lat: 34.0259, Lon: -118.7798},
	"pipeline":         {Lat: 21.6611, Lon: -158.0536},
	"trestles":         {Lat: 33.3703, Lon: -117.5681},
	"lower trestles":   {Lat: 33.3703, Lon: -117.5681},
	"upper trestles":   {Lat: 33.3703, Lon: -117.5681},
	"lowers":           {Lat: 33.3703, Lon: -117.5681},
	"uppers":           {Lat: 33.3703, Lon: -117.5681},
	"old man's":        {Lat: 33.3703, Lon: -117.5681},
	"san onofre":       {Lat: 33.3703, Lon: -117.5681},
	"san clemente":     {Lat: 33.3703, Lon: -117.5681},
	"mavericks":        {Lat: 37.4897, Lon: -122.4993},
	"huntington beach": {Lat: 33.6595, Lon: -117.9988},
	"venice beach":     {Lat: 33.9850, Lon: -118.4695},
	"manhattan beach":  {Lat: 33.8847, Lon: -118.4109},
	"hermosa beach":    {Lat: 33.8622, Lon: -118.3991},
	"redondo beach":    {Lat: 33.8492, Lon: -118.3881},
	"el segundo":       {Lat: 33.9192, Lon: -118.4165},
	"doheny":           {Lat: 33.4625, Lon: -117.7142},
	"salt creek":       {Lat: 33.4625, Lon: -117.7142},
	"laguna beach":     {Lat: 33.5427, Lon: -117.7854},
	"newport beach":    {Lat: 33.6189, Lon: -117.9298},
	"the wedge":        {Lat: 33.6189, Lon: -117.9298},
	"seal beach":       {Lat: 33.7414, Lon: -118.1048},
	"bolsa chica":      {Lat: 33.7414, Lon: -118.1048},
	"scripps":          {Lat: 32.8667, Lon: -117.2500},
	"tourmaline":       {Lat: 32.8000, Lon: -117.2667},
	"linda mar":        {Lat: 37.5986, Lon: -122.5006},
}

// breakProfiles holds break-specific knowledge for the spots we know well.
// Wind bands are the directions that blow offshore or cross-shore there.
var breakProfiles = map[string]BreakProfile{
	"pleasure point": {
		Beach:           "pleasure point",
		IdealWaveMinFt:  2, IdealWaveMaxFt: 6,
		IdealWindMaxMph: 10,
		IdealWindBands:  []string{"N", "NE"},
		Notes:           "Right point over reef; best on W/NW swell around mid tide. Gets crowded on weekends.",
	},
	"malibu": {
		Beach:           "malibu",
		IdealWaveMinFt:  2, IdealWaveMaxFt: 8,
		IdealWindMaxMph: 10,
		IdealWindBands:  []string{"N", "NE"},
		Notes:           "Classic right point; lights up on S/SW swell, low to mid tide.",
	},
	"pipeline": {
		Beach:           "pipeline",
		IdealWaveMinFt:  4, IdealWaveMaxFt: 12,
		IdealWindMaxMph: 15,
		IdealWindBands:  []string{"E", "NE"},
		Notes:           "Heavy barreling reef; experts only once overhead. Needs NW swell and trades.",
	},
	"trestles": {
		Beach:           "trestles",
		IdealWaveMinFt:  2, IdealWaveMaxFt: 8,
		IdealWindMaxMph: 12,
		IdealWindBands:  []string{"NE", "E"},
		Notes:           "High-performance cobblestone point; best on long-period SW swell.",
	},
	"mavericks": {
		Beach:           "mavericks",
		IdealWaveMinFt:  10, IdealWaveMaxFt: 25,
		IdealWindMaxMph: 15,
		IdealWindBands:  []string{"E", "SE"},
		Notes:           "Big-wave reef a half mile offshore; only breaks on large long-period NW swells.",
	},
	"huntington beach": {
		Beach:           "huntington beach",
		IdealWaveMinFt:  2, IdealWaveMaxFt: 6,
		IdealWindMaxMph: 10,
		IdealWindBands:  []string{"NE", "E"},
		Notes:           "Consistent beach break either side of the pier; handles most swell directions.",
	},
}

// profileAliases routes alias names at a canonical profile.
var profileAliases = map[string]string{
	"santa cruz":     "pleasure point",
	"lower trestles": "trestles",
	"upper trestles": "trestles",
	"lowers":         "trestles",
	"uppers":         "trestles",
	"san onofre":     "trestles",
	"san clemente":   "trestles",
}

// LocationResolver maps free-text beach names to coordinates and, when
// known, a break profile. Resolution is deterministic for a given input.
type LocationResolver struct {
	geocodeEnabled bool
}

// NewLocationResolver creates a resolver. When geocoderAPIKey is non-empty
// the resolver falls back to the Google geocoding API for beaches missing
// from the built-in table; with no key the table is authoritative.
func NewLocationResolver(geocoderAPIKey string) *LocationResolver {
	if geocoderAPIKey != "" {
		geocoder.ApiKey = geocoderAPIKey
	}
	return &LocationResolver{geocodeEnabled: geocoderAPIKey != ""}
}

// Resolve returns the coordinate and optional break profile for a beach name.
// Matching is case-insensitive: exact first, then substring either way over
// the table in sorted key order so partial matches are deterministic.
func (r *LocationResolver) Resolve(name string) (Coordinate, *BreakProfile, error) {
	key := NormalizeBeachName(name)
	if key == "" {
		return Coordinate{}, nil, fmt.Errorf("%w: empty beach name", ErrUnknownLocation)
	}

	if coord, ok := beachCoordinates[key]; ok {
		return coord, lookupProfile(key), nil
	}

	// Partial matches, e.g. "trestles beach" or "huntington".
	keys := make([]string, 0, len(beachCoordinates))
	for k := range beachCoordinates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.Contains(k, key) || strings.Contains(key, k) {
			return beachCoordinates[k], lookupProfile(k), nil
		}
	}

	if r.geocodeEnabled {
		if coord, err := geocodeBeach(key); err == nil {
			return coord, nil, nil
		}
	}

	return Coordinate{}, nil, fmt.Errorf("%w: %q", ErrUnknownLocation, name)
}

// KnownBeaches lists every beach name in the built-in table, sorted.
func (r *LocationResolver) KnownBeaches() []string {
	names := make([]string, 0, len(beachCoordinates))
	for k := range beachCoordinates {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func lookupProfile(key string) *BreakProfile {
	if canonical, ok := profileAliases[key]; ok {
		key = canonical
	}
	if p, ok := breakProfiles[key]; ok {
		return &p
	}
	return nil
}

func geocodeBeach(name string) (Coordinate, error) {
	loc, err := geocoder.Geocoding(geocoder.Address{City: name})
	if err != nil {
		return Coordinate{}, fmt.Errorf("geocoding %q: %w", name, err)
	}
	return Coordinate{Lat: loc.Latitude, Lon: loc.Longitude}, nil
}
