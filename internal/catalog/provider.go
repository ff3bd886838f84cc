package catalog

import (
	"context"
	"log"
	"sync"
	"time"
)

// Provider loads the dish list once at startup, walking a chain of sources
// until one yields dishes, and then serves lookups from memory. Readiness is
// signalled by closing a channel so callers can wait without polling.
type Provider struct {
	sources []namedSource
	cache   *Cache

	ready chan struct{}

	mu       sync.RWMutex
	dishes   []Dish
	byKey    map[string]Dish
	loadedAt time.Time
	source   string
}

type namedSource struct {
	name   string
	client Client
}

// NewProvider builds the standard source chain: the JSON API (with mirrors),
// the menu-page scrape, the on-disk cache of the last good fetch, and finally
// the embedded dataset. scrapeURL may be empty to skip the scrape step.
func NewProvider(api Client, scrapeURL string, cache *Cache) *Provider {
	p := &Provider{
		cache: cache,
		ready: make(chan struct{}),
		byKey: map[string]Dish{},
	}
	p.sources = append(p.sources, namedSource{"api", api})
	if scrapeURL != "" {
		p.sources = append(p.sources, namedSource{"menu page", NewScrapeClient(scrapeURL)})
	}
	if cache != nil {
		p.sources = append(p.sources, namedSource{"disk cache", cacheSource{cache}})
	}
	p.sources = append(p.sources, namedSource{"embedded dataset", NewStaticClient()})
	return p
}

// cacheSource adapts Cache to the Client interface so it can sit in the chain.
type cacheSource struct {
	cache *Cache
}

func (s cacheSource) ListDishes(ctx context.Context) ([]Dish, error) {
	return s.cache.Load()
}

// Load walks the source chain and publishes the first non-empty dish list.
// It closes the ready channel whether or not any source succeeded, so waiters
// are never stranded; on total failure the catalog is simply empty.
func (p *Provider) Load(ctx context.Context) {
	defer close(p.ready)

	for _, src := range p.sources {
		dishes, err := src.client.ListDishes(ctx)
		if err != nil {
			log.Printf("Catalog source %s failed: %v", src.name, err)
			continue
		}
		if len(dishes) == 0 {
			continue
		}

		p.publish(dishes, src.name)
		log.Printf("Catalog loaded: %d dishes from %s", len(dishes), src.name)

		// Refresh the disk cache only from live sources, never from itself
		// or the embedded fallback.
		if p.cache != nil && (src.name == "api" || src.name == "menu page") {
			if err := p.cache.Save(dishes); err != nil {
				log.Printf("Failed to save catalog cache: %v", err)
			}
		}
		return
	}

	log.Printf("All catalog sources failed, serving an empty menu")
}

func (p *Provider) publish(dishes []Dish, source string) {
	byKey := make(map[string]Dish, len(dishes))
	for _, d := range dishes {
		byKey[d.Keyword] = d
	}

	p.mu.Lock()
	p.dishes = dishes
	p.byKey = byKey
	p.loadedAt = time.Now()
	p.source = source
	p.mu.Unlock()
}

// Ready returns a channel that is closed once the initial load finished.
func (p *Provider) Ready() <-chan struct{} {
	return p.ready
}

// WaitReady blocks until the catalog finished loading or the timeout passed.
// It reports whether the catalog became ready in time.
func (p *Provider) WaitReady(timeout time.Duration) bool {
	select {
	case <-p.ready:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Empty reports whether no dishes are available.
func (p *Provider) Empty() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.dishes) == 0
}

// Dishes returns a copy of the full dish list.
func (p *Provider) Dishes() []Dish {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Dish, len(p.dishes))
	copy(out, p.dishes)
	return out
}

// ByKeyword looks up a dish by its stable keyword.
func (p *Provider) ByKeyword(keyword string) (Dish, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	d, ok := p.byKey[keyword]
	return d, ok
}

// ByCategory returns the dishes of one category, sorted by name.
func (p *Provider) ByCategory(c Category) []Dish {
	return p.Filter(c, "")
}

// Filter returns the dishes of one category matching a kind tag, sorted by
// name. An empty kind matches everything.
func (p *Provider) Filter(c Category, kind string) []Dish {
	p.mu.RLock()
	var out []Dish
	for _, d := range p.dishes {
		if d.Category != c {
			continue
		}
		if kind != "" && d.Kind != kind {
			continue
		}
		out = append(out, d)
	}
	p.mu.RUnlock()

	SortByName(out)
	return out
}

// Source names where the current dish list came from, for diagnostics.
func (p *Provider) Source() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.source
}
