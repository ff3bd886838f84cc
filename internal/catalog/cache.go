package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Cache keeps the last successfully fetched dish list on disk so the menu
// survives an API outage across restarts.
type Cache struct {
	path string
}

// NewCache creates a file cache inside dataDir.
func NewCache(dataDir string) (*Cache, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}
	return &Cache{path: filepath.Join(dataDir, "catalog_cache.json")}, nil
}

// Save stores the dish list, replacing any previous snapshot.
func (c *Cache) Save(dishes []Dish) error {
	data, err := json.MarshalIndent(dishes, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog cache: %w", err)
	}
	return nil
}

// Load retrieves the cached dish list, if any.
func (c *Cache) Load() ([]Dish, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog cache: %w", err)
	}
	var dishes []Dish
	if err := json.Unmarshal(data, &dishes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog cache: %w", err)
	}
	if len(dishes) == 0 {
		return nil, fmt.Errorf("catalog cache is empty")
	}
	return validDishes(dishes), nil
}
