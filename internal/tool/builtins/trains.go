package builtins

import (
	"context"
	"fmt"
	"strings"

	"github.com/sanketp27/travel-concierge/internal/tool"
	"github.com/sanketp27/travel-concierge/internal/types"
)

// searchTrainsTool finds catalog trains between two station codes.
type searchTrainsTool struct{}

func (searchTrainsTool) Name() string { return "search_trains_tool" }

func (searchTrainsTool) Description() string {
	return "Search trains running between two station codes on a date"
}

func (searchTrainsTool) Tags() []string { return []string{"trains", "search"} }

func (searchTrainsTool) Health(ctx context.Context) types.HealthStatus {
	return types.Healthy("catalog loaded")
}

func (searchTrainsTool) Execute(ctx context.Context, params map[string]any) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	from, _ := params["from_station"].(string)
	to, _ := params["to_station"].(string)
	if from == "" || to == "" {
		return tool.ErrorPayload("Missing required parameters: from_station, to_station", nil), nil
	}

	var trains []any
	for _, tr := range trainCatalog {
		if strings.EqualFold(tr.From, from) && strings.EqualFold(tr.To, to) {
			trains = append(trains, tr.toMap())
		}
	}

	if len(trains) == 0 {
		return tool.ErrorPayload(
			fmt.Sprintf("No trains found between %s and %s", from, to), nil), nil
	}

	return map[string]any{
		"from_station": strings.ToUpper(from),
		"to_station":   strings.ToUpper(to),
		"trains":       trains,
		"count":        len(trains),
	}, nil
}

// getTrainScheduleTool returns the stop schedule for a train number.
type getTrainScheduleTool struct{}

func (getTrainScheduleTool) Name() string { return "get_train_schedule_tool" }

func (getTrainScheduleTool) Description() string {
	return "Fetch the running schedule for a train number"
}

func (getTrainScheduleTool) Tags() []string { return []string{"trains", "details"} }

func (getTrainScheduleTool) Health(ctx context.Context) types.HealthStatus {
	return types.Healthy("catalog loaded")
}

func (getTrainScheduleTool) Execute(ctx context.Context, params map[string]any) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	number, _ := params["train_number"].(string)
	if number == "" {
		return tool.ErrorPayload("Missing required parameter: train_number", nil), nil
	}

	for _, tr := range trainCatalog {
		if tr.Number == number {
			return map[string]any{
				"train":    tr.toMap(),
				"schedule": scheduleFor(tr),
			}, nil
		}
	}

	return tool.ErrorPayload(fmt.Sprintf("Train %q not found", number), nil), nil
}

func scheduleFor(tr trainEntry) []any {
	return []any{
		map[string]any{"station": tr.From, "arrival": "--", "departure": tr.Departs, "day": 1},
		map[string]any{"station": tr.To, "arrival": tr.Arrives, "departure": "--", "day": 1},
	}
}
