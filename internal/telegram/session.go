package telegram

import (
	"log"

	"lunchtime-bot/internal/catalog"
	"lunchtime-bot/internal/order"
	"lunchtime-bot/internal/persist"
)

// cardRef remembers a sent dish card so its button label can be updated when
// the selection changes.
type cardRef struct {
	messageID int
	keyword   string
	category  catalog.Category
}

// Session is the per-chat ordering state: the store, its persistence adapter
// and the message ids of the surfaces currently on screen.
type Session struct {
	chatID  int64
	store   *order.Store
	adapter *persist.Adapter

	unsubscribe func()

	panelMessageID int
	cards          []cardRef
}

// session returns the chat's session, creating and rehydrating it on first
// contact. Rehydration loads the stored selection, restores it in one step
// and only then subscribes the postlude, so loading does not re-trigger
// saves and renders for every slot.
func (b *Bot) session(chatID int64) *Session {
	if s, ok := b.sessions[chatID]; ok {
		return s
	}

	s := &Session{
		chatID:  chatID,
		store:   order.NewStore(),
		adapter: persist.NewAdapter(b.orderRepo, b.provider, chatID),
	}
	s.store.Restore(s.adapter.Load())
	s.unsubscribe = s.store.Subscribe(func(sel order.Selection) {
		b.postlude(s, sel)
	})

	b.sessions[chatID] = s
	return s
}

// postlude runs after every selection change: persist first, then bring the
// visible surfaces in line with the new state.
func (b *Bot) postlude(s *Session, sel order.Selection) {
	s.adapter.Save(sel)
	b.syncCards(s, sel)
	b.renderPanel(s, sel)
}

// applyQuery overlays an order query onto the session's current selection.
// The overlay is partial and the query wins for the slots it names.
func (b *Bot) applyQuery(s *Session, query string) error {
	sel, err := persist.ApplyQuery(s.store.Snapshot(), query, b.provider)
	if err != nil {
		return err
	}
	s.store.Restore(sel)
	return nil
}

// Close tears a session down, detaching its subscription.
func (s *Session) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// rememberCard tracks a sent dish card, replacing a stale entry for the same
// message.
func (s *Session) rememberCard(messageID int, d *catalog.Dish) {
	for i := range s.cards {
		if s.cards[i].messageID == messageID {
			s.cards[i] = cardRef{messageID: messageID, keyword: d.Keyword, category: d.Category}
			return
		}
	}
	s.cards = append(s.cards, cardRef{messageID: messageID, keyword: d.Keyword, category: d.Category})
	if len(s.cards) > maxTrackedCards {
		s.cards = s.cards[len(s.cards)-maxTrackedCards:]
	}
}

// maxTrackedCards caps how many old dish cards keep getting their buttons
// resynced. Telegram edits are rate limited, and nobody scrolls back further.
const maxTrackedCards = 40

func (b *Bot) closeSession(chatID int64) {
	if s, ok := b.sessions[chatID]; ok {
		s.Close()
		delete(b.sessions, chatID)
		log.Printf("Closed session for chat %d", chatID)
	}
}
