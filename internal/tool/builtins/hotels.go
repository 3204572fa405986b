package builtins

import (
	"context"
	"fmt"
	"strings"

	"github.com/sanketp27/travel-concierge/internal/tool"
	"github.com/sanketp27/travel-concierge/internal/types"
)

// searchHotelsTool finds catalog hotels in a city for a stay window.
type searchHotelsTool struct{}

func (searchHotelsTool) Name() string { return "search_hotels_tool" }

func (searchHotelsTool) Description() string {
	return "Search hotels in a city for a check-in/check-out window"
}

func (searchHotelsTool) Tags() []string { return []string{"hotels", "search"} }

func (searchHotelsTool) Health(ctx context.Context) types.HealthStatus {
	return types.Healthy("catalog loaded")
}

func (searchHotelsTool) Execute(ctx context.Context, params map[string]any) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	city, _ := params["city"].(string)
	checkIn, _ := params["check_in_date"].(string)
	checkOut, _ := params["check_out_date"].(string)
	if city == "" || checkIn == "" || checkOut == "" {
		return tool.ErrorPayload("Missing required parameters: city, check_in_date, check_out_date", nil), nil
	}

	var hotels []any
	for _, h := range hotelCatalog {
		if strings.EqualFold(h.City, city) {
			hotels = append(hotels, h.toMap())
		}
	}

	if len(hotels) == 0 {
		return tool.ErrorPayload(fmt.Sprintf("No hotels found in %s", city), nil), nil
	}

	return map[string]any{
		"city":           city,
		"check_in_date":  checkIn,
		"check_out_date": checkOut,
		"hotels":         hotels,
		"count":          len(hotels),
	}, nil
}

// getHotelDetailsTool returns details for a known hotel ID.
type getHotelDetailsTool struct{}

func (getHotelDetailsTool) Name() string { return "get_hotel_details_tool" }

func (getHotelDetailsTool) Description() string {
	return "Fetch room and amenity details for a previously returned hotel ID"
}

func (getHotelDetailsTool) Tags() []string { return []string{"hotels", "details"} }

func (getHotelDetailsTool) Health(ctx context.Context) types.HealthStatus {
	return types.Healthy("catalog loaded")
}

func (getHotelDetailsTool) Execute(ctx context.Context, params map[string]any) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hotelID, _ := params["hotel_id"].(string)
	if hotelID == "" {
		return tool.ErrorPayload("Missing required parameter: hotel_id", nil), nil
	}

	for _, h := range hotelCatalog {
		if h.HotelID == hotelID {
			details := h.toMap()
			details["amenities"] = []any{"wifi", "pool", "breakfast", "airport shuttle"}
			details["room_types"] = []any{
				map[string]any{"type": "deluxe", "price_per_night": h.Price},
				map[string]any{"type": "suite", "price_per_night": h.Price * 1.6},
			}
			return map[string]any{"hotel": details}, nil
		}
	}

	return tool.ErrorPayload(fmt.Sprintf("Hotel %q not found", hotelID), nil), nil
}
