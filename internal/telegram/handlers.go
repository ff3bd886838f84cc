package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"lunchtime-bot/internal/catalog"
	"lunchtime-bot/internal/metrics"
	"lunchtime-bot/internal/order"
	"lunchtime-bot/internal/persist"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const welcomeText = `👋 *Welcome to the lunchtime bot!*

Build a business lunch: pick one dish per slot (soup, salad, main dish, drink, dessert).

/menu — browse the menu
/order — show your order
/share — share your order as a link
/suggest <wish> — let the bot compose a combo
/checkout — place the order
/reset — start over`

func (b *Bot) dispatch(update *tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallback(update.CallbackQuery)
		return
	}
	if update.Message != nil {
		b.handleMessage(update.Message)
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	s := b.session(msg.Chat.ID)

	if msg.IsCommand() {
		b.handleCommand(s, msg)
		return
	}

	// A half-filled checkout form claims all plain text.
	state, form, err := b.formRepo.Get(s.chatID)
	if err != nil {
		log.Printf("Failed to load form session for chat %d: %v", s.chatID, err)
	} else if state != "" {
		b.handleFormInput(s, state, form, msg.Text)
		return
	}

	text := strings.TrimSpace(msg.Text)
	switch {
	case looksLikeShareToken(text):
		b.applyShareToken(s, text)
	case strings.Contains(text, "="):
		b.applyRawQuery(s, text)
	default:
		b.reply(s.chatID, welcomeText)
	}
}

func (b *Bot) handleCommand(s *Session, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		if payload := msg.CommandArguments(); payload != "" {
			b.applyStartPayload(s, payload)
			return
		}
		b.reply(s.chatID, welcomeText)
		b.sendCategoryPicker(s)
	case "menu":
		if arg := strings.TrimSpace(msg.CommandArguments()); arg != "" {
			b.sendCategoryCards(s, arg)
			return
		}
		b.sendCategoryPicker(s)
	case "order":
		// Force a fresh panel message at the bottom of the chat.
		s.panelMessageID = 0
		b.renderPanel(s, s.store.Snapshot())
	case "share":
		b.shareOrder(s)
	case "reset":
		b.resetOrder(s)
	case "checkout":
		b.startCheckout(s)
	case "suggest":
		b.suggestCombo(s, msg.CommandArguments())
	case "metrics":
		b.handleMetricsRequest(msg)
	default:
		b.reply(s.chatID, "Unknown command. Try /menu or /order.")
	}
}

func (b *Bot) handleCallback(query *tgbotapi.CallbackQuery) {
	if query.Message == nil {
		return
	}
	s := b.session(query.Message.Chat.ID)

	parts := strings.SplitN(query.Data, "|", 3)
	ack := ""

	switch parts[0] {
	case "add":
		if len(parts) > 1 {
			ack = b.selectDish(s, parts[1])
		}
	case "clear":
		if len(parts) > 1 {
			if c, ok := catalog.ParseCategory(parts[1]); ok {
				s.store.Clear(c)
				ack = "Cleared"
			}
		}
	case "pick":
		if len(parts) > 1 {
			if c, ok := catalog.ParseCategory(parts[1]); ok {
				b.sendDishPicker(s, c)
			}
		}
	case "kind":
		if len(parts) > 2 {
			if c, ok := catalog.ParseCategory(parts[1]); ok {
				b.updateDishPicker(s, query.Message.MessageID, c, parts[2])
			}
		}
	case "menu":
		b.sendCategoryPicker(s)
	case "share":
		b.shareOrder(s)
	case "reset":
		b.resetOrder(s)
		ack = "Order cleared"
	case "checkout":
		// The button only shows for a full combo, but a stale panel can
		// still deliver the callback.
		if !order.Eligible(s.store.Snapshot()) {
			ack = "Complete a combo first"
			break
		}
		b.startCheckout(s)
	}

	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, ack)); err != nil {
		log.Printf("Failed to answer callback: %v", err)
	}
}

// selectDish puts a dish into its slot and returns the callback toast.
func (b *Bot) selectDish(s *Session, keyword string) string {
	dish, ok := b.provider.ByKeyword(keyword)
	if !ok {
		return "This dish is gone from the menu"
	}
	d := dish
	if err := s.store.Select(d.Category, &d); err != nil {
		log.Printf("Failed to select %s for chat %d: %v", keyword, s.chatID, err)
		return "Could not add this dish"
	}
	b.recordEvent(s.chatID, metrics.EventDishSelected, keyword)
	return fmt.Sprintf("%s added", dish.Name)
}

func (b *Bot) sendCategoryPicker(s *Session) {
	if b.provider.Empty() {
		b.reply(s.chatID, "😔 The menu is empty right now. Please try again later.")
		return
	}
	msg := tgbotapi.NewMessage(s.chatID, "📖 *Menu*\nPick a section:")
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = categoryKeyboard()
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send menu for chat %d: %v", s.chatID, err)
	}
}

// sendCategoryCards sends one photo card per dish of a category.
func (b *Bot) sendCategoryCards(s *Session, rawCategory string) {
	c, ok := catalog.ParseCategory(rawCategory)
	if !ok {
		b.reply(s.chatID, "Unknown menu section. Try soup, salad, main, drink or dessert.")
		return
	}
	dishes := b.provider.ByCategory(c)
	if len(dishes) == 0 {
		b.reply(s.chatID, "😔 Nothing in this section right now.")
		return
	}
	for i := range dishes {
		b.sendDishCard(s, &dishes[i])
	}
}

func (b *Bot) sendDishPicker(s *Session, c catalog.Category) {
	dishes := b.provider.ByCategory(c)
	if len(dishes) == 0 {
		b.reply(s.chatID, "😔 Nothing in this section right now.")
		return
	}
	msg := tgbotapi.NewMessage(s.chatID, fmt.Sprintf("%s *%s*", categoryEmoji(c), c.Title()))
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = dishPickerKeyboard(c, "", dishes)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send picker for chat %d: %v", s.chatID, err)
	}
}

func (b *Bot) updateDishPicker(s *Session, messageID int, c catalog.Category, kind string) {
	dishes := b.provider.Filter(c, kind)
	keyboard := dishPickerKeyboard(c, kind, dishes)
	edit := tgbotapi.NewEditMessageReplyMarkup(s.chatID, messageID, keyboard)
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("Failed to update picker for chat %d: %v", s.chatID, err)
	}
}

// shareOrder turns the current selection into a deep link plus a signed
// token for sharing outside Telegram.
func (b *Bot) shareOrder(s *Session) {
	sel := s.store.Snapshot()
	if sel.IsEmpty() {
		b.reply(s.chatID, "Nothing to share yet. Pick some dishes first: /menu")
		return
	}

	query := persist.EncodeQuery(sel)
	id, err := b.shareRepo.Create(s.chatID, query)
	if err != nil {
		log.Printf("Failed to create share link for chat %d: %v", s.chatID, err)
		b.reply(s.chatID, "❌ Could not create a share link. Please try again.")
		return
	}

	var sb strings.Builder
	sb.WriteString("🔗 *Share your order*\n\n")
	sb.WriteString(fmt.Sprintf("https://t.me/%s?start=%s\n", b.cfg.TelegramBotUsername, persist.Payload(id)))

	if b.signer != nil {
		token, err := b.signer.Sign(query)
		if err != nil {
			log.Printf("Failed to sign share token for chat %d: %v", s.chatID, err)
		} else {
			sb.WriteString(fmt.Sprintf("\nOr paste this token into any chat with me:\n`%s`", token))
		}
	}

	b.reply(s.chatID, sb.String())
	b.recordEvent(s.chatID, metrics.EventLinkShared, id)
}

func (b *Bot) applyStartPayload(s *Session, payload string) {
	id, ok := persist.ParsePayload(payload)
	if !ok {
		b.reply(s.chatID, "That link does not look like a shared order.")
		return
	}
	query, err := b.shareRepo.Get(id)
	if err != nil {
		log.Printf("Failed to resolve share link %s: %v", id, err)
		b.reply(s.chatID, "This shared order has expired or never existed.")
		return
	}
	if err := b.applyQuery(s, query); err != nil {
		log.Printf("Failed to apply share link %s: %v", id, err)
		b.reply(s.chatID, "❌ Could not apply the shared order.")
		return
	}
	b.recordEvent(s.chatID, metrics.EventLinkOpened, id)
}

func (b *Bot) applyShareToken(s *Session, token string) {
	if b.signer == nil {
		b.reply(s.chatID, "Share tokens are not enabled.")
		return
	}
	query, err := b.signer.Verify(token)
	if err != nil {
		log.Printf("Rejected share token from chat %d: %v", s.chatID, err)
		b.reply(s.chatID, "That token is invalid or expired.")
		return
	}
	if err := b.applyQuery(s, query); err != nil {
		b.reply(s.chatID, "❌ Could not apply the shared order.")
		return
	}
	b.recordEvent(s.chatID, metrics.EventLinkOpened, "token")
}

func (b *Bot) applyRawQuery(s *Session, query string) {
	if err := b.applyQuery(s, query); err != nil {
		b.reply(s.chatID, "That does not parse as an order. Example: `soup=gazpacho&main=lasagna`")
		return
	}
	b.recordEvent(s.chatID, metrics.EventLinkOpened, "query")
}

func (b *Bot) resetOrder(s *Session) {
	s.store.ResetAll()
	s.adapter.Reset()
	if err := b.formRepo.Delete(s.chatID); err != nil {
		log.Printf("Failed to drop form session for chat %d: %v", s.chatID, err)
	}
	b.recordEvent(s.chatID, metrics.EventOrderReset, "")
}

func (b *Bot) suggestCombo(s *Session, request string) {
	if b.suggester == nil {
		b.reply(s.chatID, "Suggestions are not enabled on this bot.")
		return
	}
	request = strings.TrimSpace(request)
	if request == "" {
		request = "a balanced business lunch"
	}

	b.reply(s.chatID, "🧑‍🍳 *Thinking...*")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	sel, err := b.suggester.Suggest(ctx, request)
	if err != nil {
		log.Printf("Suggestion failed for chat %d: %v", s.chatID, err)
		b.reply(s.chatID, "❌ Could not come up with a combo. Try /menu instead.")
		return
	}
	s.store.Restore(sel)
}

func (b *Bot) handleMetricsRequest(msg *tgbotapi.Message) {
	if msg.From == nil || msg.From.ID != b.cfg.AdminTelegramID {
		b.reply(msg.Chat.ID, "⛔ *Access Denied*: Admin only.")
		return
	}

	activity, err := b.metricsStore.GetDailyActivity(7)
	if err != nil {
		b.reply(msg.Chat.ID, "❌ Error fetching metrics.")
		return
	}

	health := metrics.GetSysHealth(b.cfg.DataDir)

	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent Ordering Activity*\n")
	if len(activity) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range activity {
		sb.WriteString(fmt.Sprintf("• *%s*: %d picks, %d orders (%d events)\n", d.Date, d.Selections, d.Submissions, d.TotalEvents))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDiskSize))
	sb.WriteString(fmt.Sprintf("• Catalog source: %s\n", b.provider.Source()))

	b.reply(msg.Chat.ID, sb.String())
}

func (b *Bot) recordEvent(chatID int64, eventType, details string) {
	if b.metricsStore == nil {
		return
	}
	if err := b.metricsStore.Record(metrics.OrderEvent{ChatID: chatID, EventType: eventType, Details: details}); err != nil {
		log.Printf("Failed to record %s event: %v", eventType, err)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send message to chat %d: %v", chatID, err)
	}
}

// looksLikeShareToken spots a JWT: three dot-separated base64url sections.
func looksLikeShareToken(text string) bool {
	return strings.Count(text, ".") == 2 && !strings.Contains(text, " ") && strings.HasPrefix(text, "eyJ")
}
