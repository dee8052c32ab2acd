package shopping

import (
	"encoding/json"
	"fmt"

	"github.com/plateful/souschef/internal/service"
)

// Tools returns the tool definitions offered to the planning model.
func Tools() []service.ToolDefinition {
	return []service.ToolDefinition{
		{
			Type: "function",
			Function: service.ToolFunction{
				Name:        "get_shopping_list",
				Description: "Get the current shopping list contents",
				Parameters: map[string]any{
					"type":       "object",
					"properties": map[string]any{},
				},
			},
		},
		{
			Type: "function",
			Function: service.ToolFunction{
				Name:        "check_items_exist",
				Description: "Check which of the given items are already on the shopping list, using fuzzy matching",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"items": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Items to look for on the shopping list",
						},
					},
					"required": []string{"items"},
				},
			},
		},
		{
			Type: "function",
			Function: service.ToolFunction{
				Name:        "add_items",
				Description: "Add items to the shopping list, skipping exact duplicates",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"items": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Items to add to the shopping list",
						},
					},
					"required": []string{"items"},
				},
			},
		},
		{
			Type: "function",
			Function: service.ToolFunction{
				Name:        "remove_items",
				Description: "Remove items from the shopping list by exact name",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"items": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Items to remove from the shopping list",
						},
					},
					"required": []string{"items"},
				},
			},
		},
		{
			Type: "function",
			Function: service.ToolFunction{
				Name:        "update_item_quantity",
				Description: "Update the quantity of an item on the shopping list, or add it with the given quantity if missing",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"item": map[string]any{
							"type":        "string",
							"description": "The item whose quantity should change",
						},
						"new_quantity": map[string]any{
							"type":        "string",
							"description": "The new quantity, e.g. '2' or '500g'",
						},
					},
					"required": []string{"item", "new_quantity"},
				},
			},
		},
	}
}

type itemsArgs struct {
	Items []string `json:"items"`
}

type quantityArgs struct {
	Item        string `json:"item"`
	NewQuantity string `json:"new_quantity"`
}

// executeTool dispatches one tool call against the list and returns the
// JSON-serializable result handed back to the model.
func (a *Agent) executeTool(name, rawArgs string) (map[string]any, error) {
	switch name {
	case "get_shopping_list":
		return map[string]any{"shopping_list": a.list.Items()}, nil

	case "check_items_exist":
		var args itemsArgs
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return nil, fmt.Errorf("invalid arguments for %s: %w", name, err)
		}
		existing, missing := a.list.CheckExists(args.Items)
		return map[string]any{"existing": existing, "missing": missing}, nil

	case "add_items":
		var args itemsArgs
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return nil, fmt.Errorf("invalid arguments for %s: %w", name, err)
		}
		added, err := a.list.Add(args.Items)
		if err != nil {
			return nil, err
		}
		return map[string]any{"added": added, "shopping_list": a.list.Items()}, nil

	case "remove_items":
		var args itemsArgs
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return nil, fmt.Errorf("invalid arguments for %s: %w", name, err)
		}
		removed, err := a.list.Remove(args.Items)
		if err != nil {
			return nil, err
		}
		return map[string]any{"removed": removed, "shopping_list": a.list.Items()}, nil

	case "update_item_quantity":
		var args quantityArgs
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return nil, fmt.Errorf("invalid arguments for %s: %w", name, err)
		}
		change, updated, err := a.list.UpdateQuantity(args.Item, args.NewQuantity)
		if err != nil {
			return nil, err
		}
		return map[string]any{"change": change, "updated": updated, "shopping_list": a.list.Items()}, nil

	default:
		return nil, fmt.Errorf("unknown tool %q", name)
	}
}
