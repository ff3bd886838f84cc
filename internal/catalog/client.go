package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"
)

// Client is an interface for anything that can produce the dish list.
type Client interface {
	ListDishes(ctx context.Context) ([]Dish, error)
}

// apiClient fetches dishes from the catalog JSON API, trying each base URL
// in order until one answers.
type apiClient struct {
	httpClient *http.Client
	baseURLs   []string
	apiKey     string
}

// NewAPIClient creates a catalog API client. mirrors are tried after baseURL,
// in the given order.
func NewAPIClient(baseURL string, mirrors []string, apiKey string) Client {
	return &apiClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURLs:   append([]string{baseURL}, mirrors...),
		apiKey:     apiKey,
	}
}

// ListDishes fetches the dish list from the first reachable base URL.
func (c *apiClient) ListDishes(ctx context.Context) ([]Dish, error) {
	var lastErr error
	for _, base := range c.baseURLs {
		dishes, err := c.fetch(ctx, base)
		if err != nil {
			log.Printf("Catalog fetch from %s failed: %v", base, err)
			lastErr = err
			continue
		}
		return dishes, nil
	}
	return nil, fmt.Errorf("all catalog endpoints failed: %w", lastErr)
}

func (c *apiClient) fetch(ctx context.Context, base string) ([]Dish, error) {
	endpoint := fmt.Sprintf("%s/dishes?api_key=%s", base, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog api error: status %d", resp.StatusCode)
	}

	var dishes []Dish
	if err := json.NewDecoder(resp.Body).Decode(&dishes); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(dishes) == 0 {
		return nil, fmt.Errorf("catalog api returned an empty dish list")
	}

	return validDishes(dishes), nil
}

// validDishes drops entries the rest of the system cannot address: a dish
// without a keyword or with an unknown category is unusable.
func validDishes(dishes []Dish) []Dish {
	out := make([]Dish, 0, len(dishes))
	for _, d := range dishes {
		if d.Keyword == "" {
			log.Printf("Dropping catalog entry %d (%s): empty keyword", d.ID, d.Name)
			continue
		}
		if _, ok := ParseCategory(string(d.Category)); !ok {
			log.Printf("Dropping catalog entry %q: unknown category %q", d.Keyword, d.Category)
			continue
		}
		if d.Price < 0 {
			log.Printf("Dropping catalog entry %q: negative price %d", d.Keyword, d.Price)
			continue
		}
		out = append(out, d)
	}
	return out
}
