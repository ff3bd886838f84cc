package order

import (
	"testing"

	"lunchtime-bot/internal/catalog"
)

var (
	ramen    = &catalog.Dish{ID: 1, Keyword: "ramen", Name: "Ramen", Price: 375, Category: catalog.CategorySoup}
	gazpacho = &catalog.Dish{ID: 2, Keyword: "gazpacho", Name: "Gazpacho", Price: 195, Category: catalog.CategorySoup}
	lasagna  = &catalog.Dish{ID: 3, Keyword: "lasagna", Name: "Lasagna", Price: 385, Category: catalog.CategoryMain}
	greenTea = &catalog.Dish{ID: 4, Keyword: "green-tea", Name: "Green Tea", Price: 99, Category: catalog.CategoryDrink}
	caesar   = &catalog.Dish{ID: 5, Keyword: "caesar", Name: "Caesar Salad", Price: 280, Category: catalog.CategorySalad}
	tiramisu = &catalog.Dish{ID: 6, Keyword: "tiramisu", Name: "Tiramisu", Price: 340, Category: catalog.CategoryDessert}
)

func TestStoreSelect(t *testing.T) {
	t.Run("FillsSlot", func(t *testing.T) {
		s := NewStore()
		if err := s.Select(catalog.CategorySoup, ramen); err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		if got := s.Get(catalog.CategorySoup); got != ramen {
			t.Errorf("Expected ramen in soup slot, got %v", got)
		}
	})

	t.Run("LastWriterWins", func(t *testing.T) {
		s := NewStore()
		s.Select(catalog.CategorySoup, ramen)
		s.Select(catalog.CategorySoup, gazpacho)
		if got := s.Get(catalog.CategorySoup); got != gazpacho {
			t.Errorf("Expected gazpacho to replace ramen, got %v", got)
		}
	})

	t.Run("NilDishClears", func(t *testing.T) {
		s := NewStore()
		s.Select(catalog.CategorySoup, ramen)
		count := 0
		s.Subscribe(func(Selection) { count++ })

		if err := s.Select(catalog.CategorySoup, nil); err != nil {
			t.Fatalf("Select with nil failed: %v", err)
		}
		if s.Get(catalog.CategorySoup) != nil {
			t.Error("Expected nil dish to clear the slot")
		}
		if count != 1 {
			t.Errorf("Expected clearing via Select to notify once, got %d", count)
		}
	})

	t.Run("RejectsMismatchedCategory", func(t *testing.T) {
		s := NewStore()
		s.Select(catalog.CategoryMain, lasagna)

		if err := s.Select(catalog.CategoryMain, ramen); err != ErrCategoryMismatch {
			t.Errorf("Expected ErrCategoryMismatch, got %v", err)
		}
		if got := s.Get(catalog.CategoryMain); got != lasagna {
			t.Errorf("Expected prior main to survive a rejected select, got %v", got)
		}
	})

	t.Run("RejectsUnknownCategory", func(t *testing.T) {
		s := NewStore()
		bad := &catalog.Dish{Keyword: "mystery", Category: "snack"}
		if err := s.Select("snack", bad); err != ErrCategoryMismatch {
			t.Errorf("Expected ErrCategoryMismatch, got %v", err)
		}
	})

	t.Run("IndependentSlots", func(t *testing.T) {
		s := NewStore()
		s.Select(catalog.CategorySoup, ramen)
		s.Select(catalog.CategoryMain, lasagna)
		if s.Get(catalog.CategorySoup) != ramen || s.Get(catalog.CategoryMain) != lasagna {
			t.Error("Expected soup and main slots to be independent")
		}
	})
}

func TestStoreNotifications(t *testing.T) {
	t.Run("OnePerMutation", func(t *testing.T) {
		s := NewStore()
		count := 0
		s.Subscribe(func(Selection) { count++ })

		s.Select(catalog.CategorySoup, ramen)
		s.Select(catalog.CategoryMain, lasagna)
		s.Clear(catalog.CategorySoup)
		s.ResetAll()

		if count != 4 {
			t.Errorf("Expected 4 notifications, got %d", count)
		}
	})

	t.Run("ReselectingSameDishNotifies", func(t *testing.T) {
		s := NewStore()
		count := 0
		s.Subscribe(func(Selection) { count++ })

		s.Select(catalog.CategorySoup, ramen)
		s.Select(catalog.CategorySoup, ramen)

		if count != 2 {
			t.Errorf("Expected 2 notifications for repeated select, got %d", count)
		}
	})

	t.Run("RestoreNotifiesOnce", func(t *testing.T) {
		s := NewStore()
		count := 0
		var last Selection
		s.Subscribe(func(sel Selection) {
			count++
			last = sel
		})

		sel := NewSelection()
		sel[catalog.CategoryMain] = lasagna
		sel[catalog.CategoryDrink] = greenTea
		s.Restore(sel)

		if count != 1 {
			t.Errorf("Expected 1 notification for Restore, got %d", count)
		}
		if !last.Has(catalog.CategoryMain) || !last.Has(catalog.CategoryDrink) {
			t.Error("Expected restored selection in notification")
		}
	})

	t.Run("SnapshotIsolation", func(t *testing.T) {
		s := NewStore()
		var seen Selection
		s.Subscribe(func(sel Selection) { seen = sel })

		s.Select(catalog.CategorySoup, ramen)
		seen[catalog.CategorySoup] = gazpacho

		if s.Get(catalog.CategorySoup) != ramen {
			t.Error("Mutating a notification snapshot must not affect the store")
		}
	})

	t.Run("Unsubscribe", func(t *testing.T) {
		s := NewStore()
		count := 0
		unsubscribe := s.Subscribe(func(Selection) { count++ })

		s.Select(catalog.CategorySoup, ramen)
		unsubscribe()
		s.Select(catalog.CategorySoup, gazpacho)

		if count != 1 {
			t.Errorf("Expected 1 notification after unsubscribe, got %d", count)
		}
	})
}

func TestStoreReset(t *testing.T) {
	s := NewStore()
	s.Select(catalog.CategorySoup, ramen)
	s.Select(catalog.CategoryMain, lasagna)
	s.Select(catalog.CategoryDrink, greenTea)

	s.ResetAll()

	if !s.Snapshot().IsEmpty() {
		t.Error("Expected empty selection after ResetAll")
	}
}

func TestSelectionKeywords(t *testing.T) {
	sel := NewSelection()
	sel[catalog.CategorySoup] = ramen
	sel[catalog.CategoryDrink] = greenTea

	keywords := sel.Keywords()
	if len(keywords) != 2 {
		t.Fatalf("Expected 2 keywords, got %d", len(keywords))
	}
	if keywords[catalog.CategorySoup] != "ramen" || keywords[catalog.CategoryDrink] != "green-tea" {
		t.Errorf("Unexpected keywords: %v", keywords)
	}
}

func TestSelectionTotal(t *testing.T) {
	sel := NewSelection()
	if sel.Total() != 0 {
		t.Errorf("Expected empty selection total 0, got %d", sel.Total())
	}
	sel[catalog.CategorySoup] = ramen
	sel[catalog.CategoryMain] = lasagna
	sel[catalog.CategoryDessert] = tiramisu
	if got := sel.Total(); got != 375+385+340 {
		t.Errorf("Expected total 1100, got %d", got)
	}
}
