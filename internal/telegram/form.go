package telegram

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"lunchtime-bot/internal/checkout"
	"lunchtime-bot/internal/metrics"
	"lunchtime-bot/internal/order"
)

func statePrompt(state string) string {
	switch state {
	case checkout.StateName:
		return "👤 What's your name?"
	case checkout.StateEmail:
		return "📧 Your email?"
	case checkout.StatePhone:
		return "📱 Your phone number?"
	case checkout.StateAddress:
		return "🏠 Delivery address?"
	case checkout.StateDeliveryTime:
		return "🕐 Delivery time? Send a time like `13:30`, or `asap`."
	case checkout.StateComment:
		return "💬 Any comment for the courier? Send `-` to skip."
	}
	return ""
}

// startCheckout opens the form conversation. The order shape is gated first,
// so an unsubmittable order never reaches the form: the emptiness check wins
// over the missing main, which wins over the missing drink.
func (b *Bot) startCheckout(s *Session) {
	sel := s.store.Snapshot()
	if err := order.CheckSubmittable(sel); err != nil {
		b.reply(s.chatID, gateMessage(err))
		return
	}

	if err := b.formRepo.Set(s.chatID, checkout.StateName, &checkout.Form{}); err != nil {
		log.Printf("Failed to open form session for chat %d: %v", s.chatID, err)
		b.reply(s.chatID, "❌ Could not start checkout. Please try again.")
		return
	}
	b.reply(s.chatID, "🛒 *Checkout*\nA few questions and your lunch is on its way.\n\n"+statePrompt(checkout.StateName))
}

func gateMessage(err error) string {
	switch {
	case errors.Is(err, order.ErrNothingSelected):
		return "🤷 Nothing selected yet. Start with /menu."
	case errors.Is(err, order.ErrMainRequired):
		return "🍝 Select a main dish before ordering."
	case errors.Is(err, order.ErrDrinkRequired):
		return "🥤 Select a drink before ordering."
	}
	return "❌ The order cannot be placed yet."
}

// handleFormInput consumes one answer, re-asking on validation failure and
// advancing the conversation otherwise.
func (b *Bot) handleFormInput(s *Session, state string, form *checkout.Form, text string) {
	text = strings.TrimSpace(text)

	var err error
	switch state {
	case checkout.StateName:
		if err = checkout.ValidateName(text); err == nil {
			form.Name = text
		}
	case checkout.StateEmail:
		if err = checkout.ValidateEmail(text); err == nil {
			form.Email = text
		}
	case checkout.StatePhone:
		if err = checkout.ValidatePhone(text); err == nil {
			form.Phone = text
		}
	case checkout.StateAddress:
		if err = checkout.ValidateAddress(text); err == nil {
			form.Address = text
		}
	case checkout.StateDeliveryTime:
		if err = checkout.ValidateDeliveryTime(text); err == nil {
			form.DeliveryTime = text
		}
	case checkout.StateComment:
		if text != "-" {
			form.Comment = text
		}
	default:
		log.Printf("Unknown form state %q for chat %d, dropping session", state, s.chatID)
		b.formRepo.Delete(s.chatID)
		return
	}

	if err != nil {
		b.reply(s.chatID, "⚠️ "+err.Error())
		return
	}

	next := checkout.NextState(state)
	if next == "" {
		b.finishCheckout(s, form)
		return
	}

	if err := b.formRepo.Set(s.chatID, next, form); err != nil {
		log.Printf("Failed to advance form session for chat %d: %v", s.chatID, err)
		b.reply(s.chatID, "❌ Something went wrong, please /checkout again.")
		return
	}
	b.reply(s.chatID, statePrompt(next))
}

func (b *Bot) finishCheckout(s *Session, form *checkout.Form) {
	receipt, err := checkout.Submit(s.store.Snapshot(), *form)
	if err != nil {
		log.Printf("Submission failed for chat %d: %v", s.chatID, err)
		b.reply(s.chatID, "❌ Could not place the order: "+err.Error())
		return
	}

	if err := b.formRepo.Delete(s.chatID); err != nil {
		log.Printf("Failed to close form session for chat %d: %v", s.chatID, err)
	}

	b.reply(s.chatID, formatReceipt(receipt))
	b.recordEvent(s.chatID, metrics.EventOrderSubmitted, receipt.Reference)

	// The order is placed; clear the working selection for the next lunch.
	s.store.ResetAll()
	s.adapter.Reset()
}

func formatReceipt(r *checkout.Receipt) string {
	var sb strings.Builder
	sb.WriteString("✅ *Order placed!*\n\n")
	for _, line := range r.Lines {
		sb.WriteString(fmt.Sprintf("%s %s — %d rub\n", categoryEmoji(line.Category), line.Name, line.Price))
	}
	sb.WriteString(fmt.Sprintf("\n💰 *Total*: %d rub\n", r.Total))
	sb.WriteString(fmt.Sprintf("🚚 Delivery: %s, %s\n", r.Form.Address, r.Form.DeliveryTime))
	sb.WriteString(fmt.Sprintf("🧾 Reference: `%s`", r.Reference))
	return sb.String()
}
