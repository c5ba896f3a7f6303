package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/DarkCodePE/agent-auto-nort/internal/agent/model"
	logx "github.com/DarkCodePE/agent-auto-nort/pkg/logger"
)

// Central Lima, used whenever geocoding cannot resolve the user's location.
const (
	fallbackLng = -77.0428
	fallbackLat = -12.0464
)

// sentinelDistanceKm ranks a plant last when its distance call failed,
// without aborting the whole ranking.
const sentinelDistanceKm = 999

const notAvailableText = "No disponible"

// LocationService resolves places to coordinates and ranks plants by driving
// distance.
type LocationService interface {
	Geocode(ctx context.Context, place string) (lng, lat float64)
	RouteDistances(ctx context.Context, lng, lat float64, plants []model.Plant) []model.PlantDistance
}

// MapboxClient implements LocationService over the Mapbox Geocoding and
// Directions REST APIs.
type MapboxClient struct {
	http    *http.Client
	baseURL string
	token   string
}

func NewMapboxClient(cfg model.GeoConfig) *MapboxClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MapboxClient{
		http:    &http.Client{Timeout: timeout},
		baseURL: cfg.BaseURL,
		token:   cfg.AccessToken,
	}
}

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Geocode resolves a place name to (lng, lat). The search is pinned to Lima
// and any failure degrades to central Lima coordinates; this call never
// fails a turn.
func (c *MapboxClient) Geocode(ctx context.Context, place string) (float64, float64) {
	searchLocation := fmt.Sprintf("%s, Lima, Peru", place)
	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?access_token=%s&country=pe&limit=1",
		c.baseURL, url.PathEscape(searchLocation), url.QueryEscape(c.token))

	var data geocodeResponse
	if err := c.getJSON(ctx, endpoint, &data); err != nil {
		logx.Error().Err(err).Str("place", place).Msg("geocoding request failed, using fallback coordinates")
		return fallbackLng, fallbackLat
	}
	if len(data.Features) == 0 || len(data.Features[0].Geometry.Coordinates) < 2 {
		logx.Warn().Str("place", place).Msg("could not geocode location, using fallback coordinates")
		return fallbackLng, fallbackLat
	}

	coords := data.Features[0].Geometry.Coordinates
	logx.Debug().Str("place", place).Float64("lng", coords[0]).Float64("lat", coords[1]).Msg("geocoded location")
	return coords[0], coords[1]
}

type directionsResponse struct {
	Routes []struct {
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
	} `json:"routes"`
}

// RouteDistances computes the driving distance from the origin to every
// plant, one Directions call per plant. A failed call gives that plant the
// sentinel distance so it sorts last; the result is always the full list
// sorted ascending by distance.
func (c *MapboxClient) RouteDistances(ctx context.Context, lng, lat float64, plants []model.Plant) []model.PlantDistance {
	results := make([]model.PlantDistance, 0, len(plants))

	for _, plant := range plants {
		coordinates := fmt.Sprintf("%f,%f;%f,%f", lng, lat, plant.Lng, plant.Lat)
		endpoint := fmt.Sprintf("%s/directions/v5/mapbox/driving/%s?access_token=%s&geometries=geojson&language=es&overview=false",
			c.baseURL, url.PathEscape(coordinates), url.QueryEscape(c.token))

		var data directionsResponse
		err := c.getJSON(ctx, endpoint, &data)
		if err != nil || len(data.Routes) == 0 {
			logx.Warn().Err(err).Str("plant", plant.Name).Msg("no route found for plant, using sentinel distance")
			results = append(results, unreachablePlant(plant))
			continue
		}

		route := data.Routes[0]
		distanceKm := route.Distance / 1000
		durationMin := route.Duration / 60
		results = append(results, model.PlantDistance{
			ID:           plant.ID,
			Name:         plant.Name,
			Address:      plant.Address,
			Phone:        plant.Phone,
			Hours:        plant.Hours,
			DistanceKm:   distanceKm,
			DurationMin:  durationMin,
			DistanceText: formatDistance(route.Distance),
			DurationText: formatDuration(durationMin),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceKm < results[j].DistanceKm
	})
	return results
}

func (c *MapboxClient) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mapbox status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func unreachablePlant(plant model.Plant) model.PlantDistance {
	return model.PlantDistance{
		ID:           plant.ID,
		Name:         plant.Name,
		Address:      plant.Address,
		Phone:        plant.Phone,
		Hours:        plant.Hours,
		DistanceKm:   sentinelDistanceKm,
		DurationMin:  sentinelDistanceKm,
		DistanceText: notAvailableText,
		DurationText: notAvailableText,
	}
}

func formatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%d metros", int(meters))
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

func formatDuration(minutes float64) string {
	if minutes < 60 {
		return fmt.Sprintf("%d minutos", int(minutes))
	}
	hours := int(minutes) / 60
	mins := int(minutes) % 60
	text := fmt.Sprintf("%d hora", hours)
	if hours > 1 {
		text += "s"
	}
	if mins > 0 {
		text += fmt.Sprintf(" %d minutos", mins)
	}
	return text
}

var _ LocationService = (*MapboxClient)(nil)
