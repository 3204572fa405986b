package builtins

import (
	"context"
	"fmt"
	"strings"

	"github.com/sanketp27/travel-concierge/internal/tool"
	"github.com/sanketp27/travel-concierge/internal/types"
)

// searchFlightsTool finds catalog flights between two city codes.
type searchFlightsTool struct{}

func (searchFlightsTool) Name() string { return "search_flights_tool" }

func (searchFlightsTool) Description() string {
	return "Search available flights between an origin and destination city code for a departure date"
}

func (searchFlightsTool) Tags() []string { return []string{"flights", "search"} }

func (searchFlightsTool) Health(ctx context.Context) types.HealthStatus {
	return types.Healthy("catalog loaded")
}

func (searchFlightsTool) Execute(ctx context.Context, params map[string]any) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	origin, _ := params["origin"].(string)
	destination, _ := params["destination"].(string)
	departureDate, _ := params["departure_date"].(string)
	if origin == "" || destination == "" || departureDate == "" {
		return tool.ErrorPayload("Missing required parameters: origin, destination, departure_date", nil), nil
	}

	var offers []any
	for _, f := range flightCatalog {
		if strings.EqualFold(f.Origin, origin) && strings.EqualFold(f.Dest, destination) {
			offer := f.toMap()
			offer["departure_date"] = departureDate
			offers = append(offers, offer)
		}
	}

	if len(offers) == 0 {
		return tool.ErrorPayload(
			fmt.Sprintf("No flights found from %s to %s", origin, destination), nil), nil
	}

	return map[string]any{
		"origin":      strings.ToUpper(origin),
		"destination": strings.ToUpper(destination),
		"date":        departureDate,
		"offers":      offers,
		"count":       len(offers),
	}, nil
}

// getFlightOffersTool returns the detailed offer for a known offer ID.
type getFlightOffersTool struct{}

func (getFlightOffersTool) Name() string { return "get_flight_offers_tool" }

func (getFlightOffersTool) Description() string {
	return "Fetch full offer details for a previously returned flight offer ID"
}

func (getFlightOffersTool) Tags() []string { return []string{"flights", "details"} }

func (getFlightOffersTool) Health(ctx context.Context) types.HealthStatus {
	return types.Healthy("catalog loaded")
}

func (getFlightOffersTool) Execute(ctx context.Context, params map[string]any) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	offerID, _ := params["flight_offer_id"].(string)
	if offerID == "" {
		return tool.ErrorPayload("Missing required parameter: flight_offer_id", nil), nil
	}

	for _, f := range flightCatalog {
		if f.OfferID == offerID {
			offer := f.toMap()
			offer["baggage_allowance"] = "15kg check-in, 7kg cabin"
			offer["refundable"] = false
			return map[string]any{"offer": offer}, nil
		}
	}

	return tool.ErrorPayload(fmt.Sprintf("Flight offer %q not found", offerID), nil), nil
}
