package order

import "lunchtime-bot/internal/catalog"

// Selection holds at most one dish per category. The zero value of the map
// entry being absent means the slot is empty.
type Selection map[catalog.Category]*catalog.Dish

// NewSelection returns an empty selection.
func NewSelection() Selection {
	return make(Selection, len(catalog.Categories()))
}

// Get returns the dish in a slot, or nil when the slot is empty.
func (s Selection) Get(c catalog.Category) *catalog.Dish {
	return s[c]
}

// Has reports whether a slot is filled.
func (s Selection) Has(c catalog.Category) bool {
	return s[c] != nil
}

// IsEmpty reports whether no slot is filled.
func (s Selection) IsEmpty() bool {
	for _, d := range s {
		if d != nil {
			return false
		}
	}
	return true
}

// Clone returns an independent copy. Dish pointers are shared; dishes are
// treated as immutable catalog entries.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for c, d := range s {
		if d != nil {
			out[c] = d
		}
	}
	return out
}

// Keywords returns the persisted form of the selection: one keyword per
// filled slot. Everything else about a dish is re-resolved from the catalog
// on load.
func (s Selection) Keywords() map[catalog.Category]string {
	out := make(map[catalog.Category]string, len(s))
	for c, d := range s {
		if d != nil {
			out[c] = d.Keyword
		}
	}
	return out
}

// Total sums the prices of all filled slots.
func (s Selection) Total() int {
	total := 0
	for _, d := range s {
		if d != nil {
			total += d.Price
		}
	}
	return total
}
