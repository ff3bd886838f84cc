package suggest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"lunchtime-bot/internal/catalog"
)

type stubCatalog struct {
	dishes []catalog.Dish
}

func (s stubCatalog) ListDishes(ctx context.Context) ([]catalog.Dish, error) {
	return s.dishes, nil
}

type mockLLM struct {
	response string
	err      error
	prompt   string
}

func (m *mockLLM) GenerateContent(ctx context.Context, prompt string) (string, error) {
	m.prompt = prompt
	return m.response, m.err
}

func (m *mockLLM) Close() error { return nil }

func testProvider(t *testing.T) *catalog.Provider {
	t.Helper()
	p := catalog.NewProvider(stubCatalog{dishes: []catalog.Dish{
		{ID: 1, Keyword: "ramen", Name: "Ramen", Price: 375, Category: catalog.CategorySoup, Kind: "meat", Count: "425 g"},
		{ID: 2, Keyword: "lasagna", Name: "Lasagna", Price: 385, Category: catalog.CategoryMain, Kind: "meat", Count: "310 g"},
		{ID: 3, Keyword: "green-tea", Name: "Green Tea", Price: 99, Category: catalog.CategoryDrink, Kind: "hot", Count: "250 ml"},
	}}, "", nil)
	p.Load(context.Background())
	return p
}

func TestSuggest(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mock := &mockLLM{response: `{"soup": "ramen", "salad": "", "main": "lasagna", "drink": "green-tea", "dessert": ""}`}
		s := NewSuggester(testProvider(t), mock)

		sel, err := s.Suggest(context.Background(), "something warm")
		if err != nil {
			t.Fatalf("Suggest failed: %v", err)
		}
		if sel.Get(catalog.CategorySoup).Keyword != "ramen" {
			t.Error("Expected ramen in the soup slot")
		}
		if sel.Get(catalog.CategoryMain).Keyword != "lasagna" {
			t.Error("Expected lasagna in the main slot")
		}
		if sel.Has(catalog.CategorySalad) || sel.Has(catalog.CategoryDessert) {
			t.Error("Expected empty slots to stay empty")
		}
	})

	t.Run("PromptCarriesMenuAndRequest", func(t *testing.T) {
		mock := &mockLLM{response: `{"soup": "", "salad": "", "main": "lasagna", "drink": "green-tea", "dessert": ""}`}
		s := NewSuggester(testProvider(t), mock)

		if _, err := s.Suggest(context.Background(), "something warm"); err != nil {
			t.Fatalf("Suggest failed: %v", err)
		}
		for _, want := range []string{"something warm", "keyword: ramen", "keyword: lasagna"} {
			if !strings.Contains(mock.prompt, want) {
				t.Errorf("Expected prompt to contain %q", want)
			}
		}
	})

	t.Run("StripsCodeFence", func(t *testing.T) {
		mock := &mockLLM{response: "```json\n{\"soup\": \"\", \"salad\": \"\", \"main\": \"lasagna\", \"drink\": \"green-tea\", \"dessert\": \"\"}\n```"}
		s := NewSuggester(testProvider(t), mock)

		if _, err := s.Suggest(context.Background(), "anything"); err != nil {
			t.Fatalf("Suggest failed: %v", err)
		}
	})

	t.Run("RejectsInventedKeyword", func(t *testing.T) {
		mock := &mockLLM{response: `{"soup": "", "salad": "", "main": "unicorn-steak", "drink": "green-tea", "dessert": ""}`}
		s := NewSuggester(testProvider(t), mock)

		if _, err := s.Suggest(context.Background(), "anything"); err == nil {
			t.Error("Expected error for a keyword not on the menu")
		}
	})

	t.Run("RejectsIncompleteCombo", func(t *testing.T) {
		mock := &mockLLM{response: `{"soup": "ramen", "salad": "", "main": "", "drink": "green-tea", "dessert": ""}`}
		s := NewSuggester(testProvider(t), mock)

		if _, err := s.Suggest(context.Background(), "anything"); err == nil {
			t.Error("Expected error when the suggestion has no main dish")
		}
	})

	t.Run("LLMError", func(t *testing.T) {
		mock := &mockLLM{err: fmt.Errorf("quota exceeded")}
		s := NewSuggester(testProvider(t), mock)

		if _, err := s.Suggest(context.Background(), "anything"); err == nil {
			t.Error("Expected LLM error to propagate")
		}
	})
}
