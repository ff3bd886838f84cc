package telegram

import (
	"fmt"
	"log"
	"strings"

	"lunchtime-bot/internal/catalog"
	"lunchtime-bot/internal/order"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func categoryEmoji(c catalog.Category) string {
	switch c {
	case catalog.CategorySoup:
		return "🍜"
	case catalog.CategorySalad:
		return "🥗"
	case catalog.CategoryMain:
		return "🍝"
	case catalog.CategoryDrink:
		return "🥤"
	case catalog.CategoryDessert:
		return "🍰"
	}
	return "🍽"
}

// formatPanel renders the order panel: one line per slot, the running total
// and the combo status.
func formatPanel(sel order.Selection) string {
	var sb strings.Builder
	sb.WriteString("🧾 *Your Order*\n\n")

	for _, c := range catalog.Categories() {
		if d := sel.Get(c); d != nil {
			sb.WriteString(fmt.Sprintf("%s *%s*: %s — %d rub\n", categoryEmoji(c), c.Label(), d.Name, d.Price))
		} else {
			sb.WriteString(fmt.Sprintf("%s *%s*: not selected\n", categoryEmoji(c), c.Label()))
		}
	}

	verdict := order.Evaluate(sel)
	sb.WriteString(fmt.Sprintf("\n💰 *Total*: %d rub\n", verdict.Total))
	if verdict.Eligible {
		sb.WriteString("✅ Business lunch combo\n")
	} else if !sel.IsEmpty() {
		sb.WriteString("ℹ️ Not a combo yet. Every combo needs a drink plus a main, or a soup and a salad.\n")
	}

	if verdict.Eligible {
		sb.WriteString("\nReady to order: /checkout")
	}

	return sb.String()
}

// panelKeyboard offers the panel-level actions. The checkout button appears
// only for a full combo; /checkout itself applies the looser main-plus-drink
// gate for users who type it anyway.
func panelKeyboard(sel order.Selection) tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	if !sel.IsEmpty() {
		if order.Eligible(sel) {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData("🛒 Checkout", "checkout"))
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("🔗 Share", "share"))
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("🗑 Reset", "reset"))
	} else {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("📖 Menu", "menu"))
	}
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(row...))
}

// renderPanel edits the existing panel message in place, or sends a fresh one
// when none is on screen. The chat history keeps a single panel.
func (b *Bot) renderPanel(s *Session, sel order.Selection) {
	text := formatPanel(sel)
	keyboard := panelKeyboard(sel)

	if s.panelMessageID != 0 {
		edit := tgbotapi.NewEditMessageText(s.chatID, s.panelMessageID, text)
		edit.ParseMode = "Markdown"
		edit.ReplyMarkup = &keyboard
		if _, err := b.api.Send(edit); err != nil {
			log.Printf("Failed to edit panel for chat %d: %v", s.chatID, err)
		}
		return
	}

	msg := tgbotapi.NewMessage(s.chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboard
	sent, err := b.api.Send(msg)
	if err != nil {
		log.Printf("Failed to send panel for chat %d: %v", s.chatID, err)
		return
	}
	s.panelMessageID = sent.MessageID
}

// formatCardCaption renders a dish card caption.
func formatCardCaption(d *catalog.Dish) string {
	return fmt.Sprintf("%s *%s*\n%d rub · %s", categoryEmoji(d.Category), d.Name, d.Price, d.Count)
}

// cardKeyboard returns the card's single button, reflecting whether the dish
// is the current pick for its slot.
func cardKeyboard(d *catalog.Dish, selected bool) tgbotapi.InlineKeyboardMarkup {
	label := "Add"
	if selected {
		label = "✓ Added"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "add|"+d.Keyword),
		),
	)
}

// syncCards updates the buttons of every tracked card whose selected state
// changed slots.
func (b *Bot) syncCards(s *Session, sel order.Selection) {
	for _, card := range s.cards {
		d, ok := b.provider.ByKeyword(card.keyword)
		if !ok {
			continue
		}
		selected := sel.Get(card.category) != nil && sel.Get(card.category).Keyword == card.keyword
		keyboard := cardKeyboard(&d, selected)
		edit := tgbotapi.NewEditMessageReplyMarkup(s.chatID, card.messageID, keyboard)
		if _, err := b.api.Send(edit); err != nil {
			log.Printf("Failed to sync card %d for chat %d: %v", card.messageID, s.chatID, err)
		}
	}
}

// sendDishCard sends one dish as a photo message with an Add button.
func (b *Bot) sendDishCard(s *Session, d *catalog.Dish) {
	selected := s.store.Get(d.Category) != nil && s.store.Get(d.Category).Keyword == d.Keyword
	keyboard := cardKeyboard(d, selected)

	if d.Image != "" {
		photo := tgbotapi.NewPhoto(s.chatID, tgbotapi.FileURL(d.Image))
		photo.Caption = formatCardCaption(d)
		photo.ParseMode = "Markdown"
		photo.ReplyMarkup = keyboard
		sent, err := b.api.Send(photo)
		if err == nil {
			s.rememberCard(sent.MessageID, d)
			return
		}
		log.Printf("Failed to send photo card for %s, falling back to text: %v", d.Keyword, err)
	}

	msg := tgbotapi.NewMessage(s.chatID, formatCardCaption(d))
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboard
	sent, err := b.api.Send(msg)
	if err != nil {
		log.Printf("Failed to send card for %s: %v", d.Keyword, err)
		return
	}
	s.rememberCard(sent.MessageID, d)
}

// categoryKeyboard lists the categories as a picker.
func categoryKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, c := range catalog.Categories() {
		label := fmt.Sprintf("%s %s", categoryEmoji(c), c.Title())
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "pick|"+string(c)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// dishPickerKeyboard lists one category's dishes as a compact dropdown
// replacement, with kind filter buttons on top.
func dishPickerKeyboard(c catalog.Category, kind string, dishes []catalog.Dish) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	var filterRow []tgbotapi.InlineKeyboardButton
	filterRow = append(filterRow, tgbotapi.NewInlineKeyboardButtonData(filterLabel("All", kind == ""), fmt.Sprintf("kind|%s|", c)))
	for _, k := range catalog.KindsFor(c) {
		filterRow = append(filterRow, tgbotapi.NewInlineKeyboardButtonData(filterLabel(k.Label, kind == k.Code), fmt.Sprintf("kind|%s|%s", c, k.Code)))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(filterRow...))

	for _, d := range dishes {
		label := fmt.Sprintf("%s — %d rub", d.Name, d.Price)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "add|"+d.Keyword),
		))
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✖️ Clear this slot", "clear|"+string(c)),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func filterLabel(label string, active bool) string {
	if active {
		return "• " + label
	}
	return label
}
