package checkout

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"lunchtime-bot/internal/catalog"
	"lunchtime-bot/internal/order"
)

// Line is one dish on a submitted order.
type Line struct {
	Category catalog.Category
	Name     string
	Price    int
}

// Receipt is the result of a successful submission.
type Receipt struct {
	Reference   string
	Lines       []Line
	Total       int
	Form        Form
	SubmittedAt time.Time
}

// Submit validates the order shape and the customer form, in that order, and
// produces a receipt. The shape gate runs first so an empty order is reported
// before any form problem.
func Submit(sel order.Selection, form Form) (*Receipt, error) {
	if err := order.CheckSubmittable(sel); err != nil {
		return nil, err
	}
	if err := form.Validate(); err != nil {
		return nil, fmt.Errorf("form: %w", err)
	}

	var lines []Line
	for _, c := range catalog.Categories() {
		if d := sel.Get(c); d != nil {
			lines = append(lines, Line{Category: c, Name: d.Name, Price: d.Price})
		}
	}

	return &Receipt{
		Reference:   uuid.New().String(),
		Lines:       lines,
		Total:       sel.Total(),
		Form:        form,
		SubmittedAt: time.Now(),
	}, nil
}
