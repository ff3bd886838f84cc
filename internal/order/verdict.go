package order

import "lunchtime-bot/internal/catalog"

// Verdict is the result of evaluating a selection against the lunch combo
// rules.
type Verdict struct {
	Total    int
	Eligible bool
}

// Eligible reports whether the selection forms one of the accepted lunch
// combos. Every accepted shape includes a drink; dessert never affects
// eligibility:
//
//	soup + main + salad + drink
//	soup + main + drink
//	soup + salad + drink
//	main + salad + drink
//	main + drink
func Eligible(sel Selection) bool {
	soup := sel.Has(catalog.CategorySoup)
	salad := sel.Has(catalog.CategorySalad)
	main := sel.Has(catalog.CategoryMain)
	drink := sel.Has(catalog.CategoryDrink)

	if !drink {
		return false
	}
	switch {
	case soup && main && salad:
		return true
	case soup && main:
		return true
	case soup && salad:
		return true
	case main && salad:
		return true
	case main:
		return true
	}
	return false
}

// Evaluate computes the running total and combo eligibility for a selection.
func Evaluate(sel Selection) Verdict {
	return Verdict{
		Total:    sel.Total(),
		Eligible: Eligible(sel),
	}
}

// CheckSubmittable applies the looser gate used at checkout. Unlike combo
// eligibility it only insists on a main dish and a drink, and it reports the
// first problem in a fixed order: an empty order, then the missing main, then
// the missing drink.
func CheckSubmittable(sel Selection) error {
	if sel.IsEmpty() {
		return ErrNothingSelected
	}
	if !sel.Has(catalog.CategoryMain) {
		return ErrMainRequired
	}
	if !sel.Has(catalog.CategoryDrink) {
		return ErrDrinkRequired
	}
	return nil
}
