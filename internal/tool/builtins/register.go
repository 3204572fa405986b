package builtins

import "github.com/sanketp27/travel-concierge/internal/tool"

// RegisterAll registers every builtin travel tool on the registry.
func RegisterAll(registry tool.Registry) error {
	tools := []tool.Tool{
		searchFlightsTool{},
		getFlightOffersTool{},
		searchHotelsTool{},
		getHotelDetailsTool{},
		searchTrainsTool{},
		getTrainScheduleTool{},
		findPlacesTool{},
		getRouteTool{},
	}

	for _, t := range tools {
		if err := registry.Register(t); err != nil {
			return err
		}
	}
	return nil
}
