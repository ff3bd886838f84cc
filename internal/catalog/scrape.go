package catalog

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// scrapeClient recovers the dish list from the public HTML menu page when the
// JSON API is down. The page renders one .dish-card element per dish with the
// same data attributes the web front end uses.
type scrapeClient struct {
	httpClient *http.Client
	pageURL    string
}

// NewScrapeClient creates a menu-page scrape fallback.
func NewScrapeClient(pageURL string) Client {
	return &scrapeClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		pageURL:    pageURL,
	}
}

// ListDishes fetches and parses the menu page.
func (c *scrapeClient) ListDishes(ctx context.Context) ([]Dish, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch menu page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch menu page: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse menu page: %w", err)
	}

	var dishes []Dish
	doc.Find(".dish-card").Each(func(i int, s *goquery.Selection) {
		dish, err := parseCard(s)
		if err != nil {
			log.Printf("Skipping menu card %d: %v", i, err)
			return
		}
		dish.ID = int64(i + 1)
		dishes = append(dishes, dish)
	})

	if len(dishes) == 0 {
		return nil, fmt.Errorf("no dish cards found on menu page")
	}
	return validDishes(dishes), nil
}

func parseCard(s *goquery.Selection) (Dish, error) {
	keyword, ok := s.Attr("data-dish")
	if !ok || keyword == "" {
		return Dish{}, fmt.Errorf("missing data-dish attribute")
	}
	rawCategory, _ := s.Attr("data-category")
	category, ok := ParseCategory(rawCategory)
	if !ok {
		return Dish{}, fmt.Errorf("unknown category %q", rawCategory)
	}
	kind, _ := s.Attr("data-kind")

	price, err := parsePrice(s.Find(".price").First().Text())
	if err != nil {
		return Dish{}, fmt.Errorf("dish %q: %w", keyword, err)
	}

	image, _ := s.Find("img.dish-image").First().Attr("src")

	return Dish{
		Keyword:  keyword,
		Name:     strings.TrimSpace(s.Find(".name").First().Text()),
		Price:    price,
		Category: category,
		Kind:     kind,
		Count:    strings.TrimSpace(s.Find(".weight").First().Text()),
		Image:    image,
	}, nil
}

// parsePrice extracts the leading integer from a price label like "195 ₽".
func parsePrice(text string) (int, error) {
	text = strings.TrimSpace(text)
	end := 0
	for end < len(text) && text[end] >= '0' && text[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, fmt.Errorf("no price in %q", text)
	}
	return strconv.Atoi(text[:end])
}
