package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"lunchtime-bot/internal/catalog"
	"lunchtime-bot/internal/checkout"
	"lunchtime-bot/internal/config"
	"lunchtime-bot/internal/metrics"
	"lunchtime-bot/internal/order"
	"lunchtime-bot/internal/persist"
	"lunchtime-bot/internal/suggest"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// catalogWaitTimeout bounds how long startup waits for the first catalog
// load before serving whatever is there.
const catalogWaitTimeout = 10 * time.Second

// apiSender is the slice of the Telegram API the bot uses. Tests substitute a
// recording fake.
type apiSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot wraps the Telegram API and the ordering components.
type Bot struct {
	api          apiSender
	cfg          *config.Config
	provider     *catalog.Provider
	orderRepo    *order.Repository
	shareRepo    *persist.ShareRepository
	formRepo     *checkout.FormRepository
	metricsStore *metrics.Store
	suggester    *suggest.Suggester
	signer       *persist.Signer

	// updates funnels all webhook traffic into one goroutine, so session
	// state and stores never see concurrent access.
	updates  chan *tgbotapi.Update
	sessions map[int64]*Session
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(
	cfg *config.Config,
	provider *catalog.Provider,
	orderRepo *order.Repository,
	shareRepo *persist.ShareRepository,
	formRepo *checkout.FormRepository,
	metricsStore *metrics.Store,
	suggester *suggest.Suggester,
	signer *persist.Signer,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return newBot(api, cfg, provider, orderRepo, shareRepo, formRepo, metricsStore, suggester, signer), nil
}

// newBot wires a bot around an already constructed API.
func newBot(
	api apiSender,
	cfg *config.Config,
	provider *catalog.Provider,
	orderRepo *order.Repository,
	shareRepo *persist.ShareRepository,
	formRepo *checkout.FormRepository,
	metricsStore *metrics.Store,
	suggester *suggest.Suggester,
	signer *persist.Signer,
) *Bot {
	return &Bot{
		api:          api,
		cfg:          cfg,
		provider:     provider,
		orderRepo:    orderRepo,
		shareRepo:    shareRepo,
		formRepo:     formRepo,
		metricsStore: metricsStore,
		suggester:    suggester,
		signer:       signer,
		updates:      make(chan *tgbotapi.Update, 64),
		sessions:     make(map[int64]*Session),
	}
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	from := updateSender(&update)
	if from == nil {
		return
	}
	if !b.allowed(from.ID) {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", from.ID, from.UserName)
		return
	}

	select {
	case b.updates <- &update:
	default:
		log.Printf("Update queue full, dropping update %d", update.UpdateID)
	}
}

func updateSender(update *tgbotapi.Update) *tgbotapi.User {
	if update.CallbackQuery != nil {
		return update.CallbackQuery.From
	}
	if update.Message != nil {
		return update.Message.From
	}
	return nil
}

// Run consumes updates until the context is cancelled. All dispatching
// happens on this single goroutine.
func (b *Bot) Run(ctx context.Context) {
	if !b.provider.WaitReady(catalogWaitTimeout) {
		log.Printf("Catalog still loading after %s, starting with an empty menu", catalogWaitTimeout)
	}
	for {
		select {
		case <-ctx.Done():
			for chatID := range b.sessions {
				b.closeSession(chatID)
			}
			return
		case update := <-b.updates:
			b.dispatch(update)
		}
	}
}

func (b *Bot) allowed(userID int64) bool {
	if len(b.cfg.TelegramAllowedUserIDs) == 0 {
		return true
	}
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if userID == id {
			return true
		}
	}
	return false
}
