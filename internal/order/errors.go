package order

import "errors"

var (
	// ErrCategoryMismatch is returned when a dish is offered to a slot of a
	// different category.
	ErrCategoryMismatch = errors.New("dish category does not match slot")

	// ErrNothingSelected is returned by the submit gate when the order is
	// completely empty.
	ErrNothingSelected = errors.New("nothing selected")

	// ErrMainRequired is returned by the submit gate when a main dish is
	// missing.
	ErrMainRequired = errors.New("select a main dish")

	// ErrDrinkRequired is returned by the submit gate when a drink is
	// missing.
	ErrDrinkRequired = errors.New("select a drink")
)
