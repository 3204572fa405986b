package builtins

import (
	"context"
	"fmt"
	"strings"

	"github.com/sanketp27/travel-concierge/internal/tool"
	"github.com/sanketp27/travel-concierge/internal/types"
)

// findPlacesTool searches catalog points of interest by text query.
type findPlacesTool struct{}

func (findPlacesTool) Name() string { return "find_places_tool" }

func (findPlacesTool) Description() string {
	return "Find points of interest matching a text query, optionally scoped to a city"
}

func (findPlacesTool) Tags() []string { return []string{"maps", "search"} }

func (findPlacesTool) Health(ctx context.Context) types.HealthStatus {
	return types.Healthy("catalog loaded")
}

func (findPlacesTool) Execute(ctx context.Context, params map[string]any) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query, _ := params["query"].(string)
	if query == "" {
		return tool.ErrorPayload("Missing required parameter: query", nil), nil
	}
	city, _ := params["city"].(string)

	needle := strings.ToLower(query)
	var places []any
	for _, p := range placeCatalog {
		if city != "" && !strings.EqualFold(p.City, city) {
			continue
		}
		haystack := strings.ToLower(p.Name + " " + p.Category + " " + p.City)
		if strings.Contains(haystack, needle) {
			places = append(places, p.toMap())
		}
	}

	if len(places) == 0 {
		return tool.ErrorPayload(fmt.Sprintf("No places found for %q", query), nil), nil
	}

	return map[string]any{
		"query":  query,
		"places": places,
		"count":  len(places),
	}, nil
}

// getRouteTool computes a coarse route between two catalog places.
type getRouteTool struct{}

func (getRouteTool) Name() string { return "get_route_tool" }

func (getRouteTool) Description() string {
	return "Compute a route between two places with distance and duration estimates"
}

func (getRouteTool) Tags() []string { return []string{"maps", "routing"} }

func (getRouteTool) Health(ctx context.Context) types.HealthStatus {
	return types.Healthy("catalog loaded")
}

func (getRouteTool) Execute(ctx context.Context, params map[string]any) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	from, _ := params["from_place"].(string)
	to, _ := params["to_place"].(string)
	if from == "" || to == "" {
		return tool.ErrorPayload("Missing required parameters: from_place, to_place", nil), nil
	}

	origin := lookupPlace(from)
	dest := lookupPlace(to)
	if origin == nil || dest == nil {
		return tool.ErrorPayload("One or both places not found; run find_places_tool first", nil), nil
	}

	mode, _ := params["travel_mode"].(string)
	if mode == "" {
		mode = "drive"
	}

	// Rough surface distance; good enough for itinerary sequencing.
	distanceKm := approxDistanceKm(origin.Lat, origin.Lng, dest.Lat, dest.Lng)
	speed := 35.0
	if mode == "walk" {
		speed = 4.5
	}

	return map[string]any{
		"from":             origin.toMap(),
		"to":               dest.toMap(),
		"travel_mode":      mode,
		"distance_km":      distanceKm,
		"duration_minutes": int(distanceKm / speed * 60),
	}, nil
}

func lookupPlace(nameOrID string) *placeEntry {
	for i := range placeCatalog {
		p := &placeCatalog[i]
		if p.PlaceID == nameOrID || strings.EqualFold(p.Name, nameOrID) {
			return p
		}
	}
	return nil
}

func approxDistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	const kmPerDegree = 111.0
	dLat := (lat2 - lat1) * kmPerDegree
	dLng := (lng2 - lng1) * kmPerDegree * 0.93 // cos correction near Indian latitudes
	if dLat < 0 {
		dLat = -dLat
	}
	if dLng < 0 {
		dLng = -dLng
	}
	// Manhattan-ish estimate, biased high to approximate road distance.
	return (dLat + dLng) * 0.8
}
