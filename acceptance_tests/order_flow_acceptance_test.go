package acceptance_tests

import (
	"context"
	"path/filepath"
	"testing"

	"lunchtime-bot/internal/catalog"
	"lunchtime-bot/internal/checkout"
	"lunchtime-bot/internal/database"
	"lunchtime-bot/internal/order"
	"lunchtime-bot/internal/persist"
)

// --- Mock catalog source ---
type mockCatalogClient struct {
	listCalls int
}

func (m *mockCatalogClient) ListDishes(ctx context.Context) ([]catalog.Dish, error) {
	m.listCalls++
	return []catalog.Dish{
		{ID: 1, Keyword: "gazpacho", Name: "Gazpacho", Price: 195, Category: catalog.CategorySoup, Kind: "veg", Count: "350 g"},
		{ID: 2, Keyword: "caesar", Name: "Caesar Salad", Price: 280, Category: catalog.CategorySalad, Kind: "meat", Count: "220 g"},
		{ID: 3, Keyword: "lasagna", Name: "Lasagna", Price: 385, Category: catalog.CategoryMain, Kind: "meat", Count: "310 g"},
		{ID: 4, Keyword: "green-tea", Name: "Green Tea", Price: 99, Category: catalog.CategoryDrink, Kind: "hot", Count: "250 ml"},
		{ID: 5, Keyword: "tiramisu", Name: "Tiramisu", Price: 340, Category: catalog.CategoryDessert, Kind: "medium", Count: "150 g"},
	}, nil
}

// TestFullOrderLifecycle walks the whole flow: pick dishes, persist, restart,
// rehydrate, overlay a shared link, and submit.
func TestFullOrderLifecycle(t *testing.T) {
	provider := catalog.NewProvider(&mockCatalogClient{}, "", nil)
	provider.Load(context.Background())

	db, err := database.NewDB(filepath.Join(t.TempDir(), "acceptance.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	repo := order.NewRepository(db.SQL)
	const chatID = int64(1001)

	// First session: pick a soup and a main.
	{
		store := order.NewStore()
		adapter := persist.NewAdapter(repo, provider, chatID)
		store.Restore(adapter.Load())
		store.Subscribe(func(sel order.Selection) { adapter.Save(sel) })

		soup, _ := provider.ByKeyword("gazpacho")
		main, _ := provider.ByKeyword("lasagna")
		if err := store.Select(catalog.CategorySoup, &soup); err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		if err := store.Select(catalog.CategoryMain, &main); err != nil {
			t.Fatalf("Select failed: %v", err)
		}

		if order.Evaluate(store.Snapshot()).Eligible {
			t.Error("Soup and main without a drink must not be a combo")
		}
	}

	// Second session: rehydrate, overlay a shared drink, and reach a combo.
	{
		store := order.NewStore()
		adapter := persist.NewAdapter(repo, provider, chatID)
		store.Restore(adapter.Load())
		store.Subscribe(func(sel order.Selection) { adapter.Save(sel) })

		sel := store.Snapshot()
		if sel.Get(catalog.CategorySoup) == nil || sel.Get(catalog.CategorySoup).Keyword != "gazpacho" {
			t.Fatal("Expected the soup to survive the restart")
		}

		overlaid, err := persist.ApplyQuery(sel, "drink=green-tea&dessert=tiramisu", provider)
		if err != nil {
			t.Fatalf("ApplyQuery failed: %v", err)
		}
		store.Restore(overlaid)

		verdict := order.Evaluate(store.Snapshot())
		if !verdict.Eligible {
			t.Error("Soup, main and drink should form a combo")
		}
		if verdict.Total != 195+385+99+340 {
			t.Errorf("Expected total 1019, got %d", verdict.Total)
		}

		// Submit with a valid form.
		receipt, err := checkout.Submit(store.Snapshot(), checkout.Form{
			Name:         "Alex",
			Email:        "alex@example.com",
			Phone:        "1234567890",
			Address:      "1 Main St",
			DeliveryTime: "asap",
		})
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if receipt.Total != verdict.Total {
			t.Errorf("Receipt total %d does not match verdict total %d", receipt.Total, verdict.Total)
		}
	}
}

// TestSharedLinkRoundTrip covers the share path: encode, store, resolve,
// apply in a fresh chat.
func TestSharedLinkRoundTrip(t *testing.T) {
	provider := catalog.NewProvider(&mockCatalogClient{}, "", nil)
	provider.Load(context.Background())

	db, err := database.NewDB(filepath.Join(t.TempDir(), "acceptance.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	shareRepo := persist.NewShareRepository(db.SQL)

	sel := order.NewSelection()
	main, _ := provider.ByKeyword("lasagna")
	drink, _ := provider.ByKeyword("green-tea")
	sel[catalog.CategoryMain] = &main
	sel[catalog.CategoryDrink] = &drink

	id, err := shareRepo.Create(1001, persist.EncodeQuery(sel))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	payload := persist.Payload(id)
	parsedID, ok := persist.ParsePayload(payload)
	if !ok {
		t.Fatalf("Payload %q did not parse", payload)
	}

	query, err := shareRepo.Get(parsedID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	applied, err := persist.ApplyQuery(order.NewSelection(), query, provider)
	if err != nil {
		t.Fatalf("ApplyQuery failed: %v", err)
	}
	if applied.Get(catalog.CategoryMain).Keyword != "lasagna" || applied.Get(catalog.CategoryDrink).Keyword != "green-tea" {
		t.Errorf("Shared order did not survive the round trip: %v", applied.Keywords())
	}
}
