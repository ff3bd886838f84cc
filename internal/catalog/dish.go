package catalog

import "sort"

// Category identifies one of the five fixed lunch-combo slots.
type Category string

const (
	CategorySoup    Category = "soup"
	CategorySalad   Category = "salad"
	CategoryMain    Category = "main"
	CategoryDrink   Category = "drink"
	CategoryDessert Category = "dessert"
)

// Categories returns all categories in presentation order.
func Categories() []Category {
	return []Category{CategorySoup, CategorySalad, CategoryMain, CategoryDrink, CategoryDessert}
}

// ParseCategory maps a raw string to a known Category.
func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategorySoup, CategorySalad, CategoryMain, CategoryDrink, CategoryDessert:
		return Category(s), true
	}
	return "", false
}

// Title returns the menu heading for a category.
func (c Category) Title() string {
	switch c {
	case CategorySoup:
		return "Soups"
	case CategorySalad:
		return "Salads & Starters"
	case CategoryMain:
		return "Main Dishes"
	case CategoryDrink:
		return "Drinks"
	case CategoryDessert:
		return "Desserts"
	}
	return string(c)
}

// Label returns the singular slot name shown next to a picked dish.
func (c Category) Label() string {
	switch c {
	case CategorySoup:
		return "Soup"
	case CategorySalad:
		return "Salad"
	case CategoryMain:
		return "Main Dish"
	case CategoryDrink:
		return "Drink"
	case CategoryDessert:
		return "Dessert"
	}
	return string(c)
}

// Dish is a single catalog entry. Keyword is the stable identifier used in
// persisted orders and share links; ID is informational only.
type Dish struct {
	ID       int64    `json:"id"`
	Keyword  string   `json:"keyword"`
	Name     string   `json:"name"`
	Price    int      `json:"price"`
	Category Category `json:"category"`
	Kind     string   `json:"kind"`
	Count    string   `json:"count"`
	Image    string   `json:"image"`
}

// Kind is a secondary filter tag with a display label.
type Kind struct {
	Code  string
	Label string
}

// KindsFor returns the filter tags offered for a category.
func KindsFor(c Category) []Kind {
	switch c {
	case CategorySoup, CategorySalad, CategoryMain:
		return []Kind{{"fish", "Fish"}, {"meat", "Meat"}, {"veg", "Vegetarian"}}
	case CategoryDrink:
		return []Kind{{"cold", "Cold"}, {"hot", "Hot"}}
	case CategoryDessert:
		return []Kind{{"small", "Small portion"}, {"medium", "Medium portion"}, {"large", "Large portion"}}
	}
	return nil
}

// SortByName orders dishes alphabetically in place. The catalog API makes no
// ordering promise, so every presentation path sorts for itself.
func SortByName(dishes []Dish) {
	sort.Slice(dishes, func(i, j int) bool {
		return dishes[i].Name < dishes[j].Name
	})
}
