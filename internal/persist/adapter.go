// Package persist rehydrates and saves chat orders. Saving is best effort:
// a storage failure is logged and the in-memory selection stays authoritative.
package persist

import (
	"log"

	"lunchtime-bot/internal/catalog"
	"lunchtime-bot/internal/order"
)

// Adapter connects one chat's store to durable storage, translating between
// live selections and their keyword form.
type Adapter struct {
	repo     *order.Repository
	provider *catalog.Provider
	chatID   int64
}

// NewAdapter creates a persistence adapter for a chat.
func NewAdapter(repo *order.Repository, provider *catalog.Provider, chatID int64) *Adapter {
	return &Adapter{repo: repo, provider: provider, chatID: chatID}
}

// Save writes the selection's keywords. Failures are logged and swallowed so
// an outage never blocks ordering.
func (a *Adapter) Save(sel order.Selection) {
	if err := a.repo.Save(a.chatID, sel.Keywords()); err != nil {
		log.Printf("Failed to save order for chat %d: %v", a.chatID, err)
	}
}

// Load rebuilds a selection from stored keywords. Keywords that no longer
// resolve against the catalog are dropped without complaint; the menu may
// simply have changed since the order was saved.
func (a *Adapter) Load() order.Selection {
	keywords, err := a.repo.Load(a.chatID)
	if err != nil {
		log.Printf("Failed to load order for chat %d: %v", a.chatID, err)
		return order.NewSelection()
	}
	return Resolve(a.provider, keywords)
}

// Reset removes the stored order. Like Save, failures are logged only.
func (a *Adapter) Reset() {
	if err := a.repo.Delete(a.chatID); err != nil {
		log.Printf("Failed to reset order for chat %d: %v", a.chatID, err)
	}
}

// Resolve turns a keyword map into a selection, skipping stale keywords and
// entries whose stored category no longer matches the catalog.
func Resolve(provider *catalog.Provider, keywords map[catalog.Category]string) order.Selection {
	sel := order.NewSelection()
	for c, keyword := range keywords {
		dish, ok := provider.ByKeyword(keyword)
		if !ok {
			log.Printf("Dropping stored keyword %q: not in catalog", keyword)
			continue
		}
		if dish.Category != c {
			log.Printf("Dropping stored keyword %q: category moved from %s to %s", keyword, c, dish.Category)
			continue
		}
		d := dish
		sel[c] = &d
	}
	return sel
}
