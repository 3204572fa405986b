package tool

import (
	"fmt"
	"sort"
)

// Routing validation stops the planner from handing a flight tool
// hotel-shaped parameters (and vice versa) before the tool runs, so
// the oracle gets a descriptive routing error instead of a confusing
// provider failure.

var flightTools = map[string]bool{
	"search_flights_tool":         true,
	"get_flight_offers_tool":      true,
	"confirm_flight_pricing_tool": true,
}

var hotelTools = map[string]bool{
	"search_hotels_tool":     true,
	"get_hotel_details_tool": true,
}

var hotelParams = []string{"hotel_id", "check_in_date", "check_out_date", "city"}

var flightParams = []string{"flight_offer", "flight_offer_id", "origin", "destination", "departure_date"}

// validateRouting returns a domain error payload when the named tool
// received parameters shaped for the other domain, nil when routing is
// plausible.
func validateRouting(name string, params map[string]any) map[string]any {
	if flightTools[name] {
		if found := paramsPresent(params, hotelParams); len(found) > 0 {
			return ErrorPayload(
				fmt.Sprintf("Task routing error: %s received hotel parameters: %v", name, found),
				map[string]any{
					"details":         "This is a flight tool. For hotels, use search_hotels_tool or get_hotel_details_tool.",
					"provided_params": paramNames(params),
				},
			)
		}
	}

	if hotelTools[name] {
		// city and hotel_id anchor a legitimate hotel request even when
		// date fields overlap with flight naming.
		if _, hasHotelID := params["hotel_id"]; hasHotelID {
			return nil
		}
		if _, hasCity := params["city"]; hasCity {
			return nil
		}
		if found := paramsPresent(params, flightParams); len(found) > 0 {
			return ErrorPayload(
				fmt.Sprintf("Task routing error: %s received flight parameters: %v", name, found),
				map[string]any{
					"details":         "This is a hotel tool. For flights, use search_flights_tool or get_flight_offers_tool.",
					"provided_params": paramNames(params),
				},
			)
		}
	}

	return nil
}

func paramsPresent(params map[string]any, candidates []string) []string {
	var found []string
	for _, name := range candidates {
		if _, ok := params[name]; ok {
			found = append(found, name)
		}
	}
	return found
}

func paramNames(params map[string]any) []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
