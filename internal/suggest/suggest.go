package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"lunchtime-bot/internal/catalog"
	"lunchtime-bot/internal/llm"
	"lunchtime-bot/internal/order"
)

// comboProposal is the JSON shape the model is asked to return: one keyword
// per category, empty string for a slot it leaves out.
type comboProposal struct {
	Soup    string `json:"soup"`
	Salad   string `json:"salad"`
	Main    string `json:"main"`
	Drink   string `json:"drink"`
	Dessert string `json:"dessert"`
}

// Suggester proposes a lunch combo from the live catalog.
type Suggester struct {
	provider *catalog.Provider
	textGen  llm.LLMClient
}

// NewSuggester creates a combo suggester.
func NewSuggester(provider *catalog.Provider, textGen llm.LLMClient) *Suggester {
	return &Suggester{provider: provider, textGen: textGen}
}

// Suggest asks the model for a combo matching the user's request and resolves
// it into a selection. Keywords the model invents are rejected, not guessed
// around.
func (s *Suggester) Suggest(ctx context.Context, userRequest string) (order.Selection, error) {
	if s.provider.Empty() {
		return nil, fmt.Errorf("the menu is empty")
	}

	var menuBuilder strings.Builder
	for _, c := range catalog.Categories() {
		fmt.Fprintf(&menuBuilder, "%s:\n", c.Title())
		for _, d := range s.provider.ByCategory(c) {
			fmt.Fprintf(&menuBuilder, "- %s (keyword: %s, %d rub, %s)\n", d.Name, d.Keyword, d.Price, d.Count)
		}
		menuBuilder.WriteString("\n")
	}

	prompt := fmt.Sprintf(`
You are a lunch assistant. Based on the user's request and the menu below, compose a business lunch.
Only use dishes from the menu, referenced by their keyword.

User Request: "%s"

Menu:
%s

Instructions:
1. Always include a main dish and a drink.
2. Add a soup, salad or dessert when they fit the request.
3. Use the empty string for any slot you leave out.
4. Return the result strictly as a JSON object with this structure:
{"soup": "keyword", "salad": "keyword", "main": "keyword", "drink": "keyword", "dessert": "keyword"}

Do not include any other text or formatting in your response.
`, userRequest, menuBuilder.String())

	response, err := s.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate suggestion: %w", err)
	}

	var proposal comboProposal
	if err := json.Unmarshal([]byte(stripCodeFence(response)), &proposal); err != nil {
		return nil, fmt.Errorf("failed to parse suggestion JSON: %w. Response: %s", err, response)
	}

	sel := order.NewSelection()
	slots := map[catalog.Category]string{
		catalog.CategorySoup:    proposal.Soup,
		catalog.CategorySalad:   proposal.Salad,
		catalog.CategoryMain:    proposal.Main,
		catalog.CategoryDrink:   proposal.Drink,
		catalog.CategoryDessert: proposal.Dessert,
	}
	for c, keyword := range slots {
		if keyword == "" {
			continue
		}
		dish, ok := s.provider.ByKeyword(keyword)
		if !ok || dish.Category != c {
			return nil, fmt.Errorf("suggestion used unknown dish %q for %s", keyword, c)
		}
		d := dish
		sel[c] = &d
	}

	if err := order.CheckSubmittable(sel); err != nil {
		return nil, fmt.Errorf("suggestion is not a valid order: %w", err)
	}
	return sel, nil
}

// stripCodeFence removes a markdown code fence the model sometimes wraps the
// JSON in despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
