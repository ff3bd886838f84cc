package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed data/dishes.json
var staticDishesJSON []byte

// staticClient serves the embedded fallback dataset. It is the last source in
// the provider chain and never touches the network.
type staticClient struct{}

// NewStaticClient returns the built-in dish list as a catalog source.
func NewStaticClient() Client {
	return staticClient{}
}

func (staticClient) ListDishes(ctx context.Context) ([]Dish, error) {
	var dishes []Dish
	if err := json.Unmarshal(staticDishesJSON, &dishes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal embedded dish list: %w", err)
	}
	return validDishes(dishes), nil
}
