package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds the configuration for the application.
type Config struct {
	// Catalog API
	CatalogURL     string
	CatalogAPIKey  string
	CatalogMirrors []string // tried in order after CatalogURL
	MenuPageURL    string   // optional HTML menu page used as a scrape fallback

	// Local state
	DataDir      string
	DatabasePath string

	// Share links
	LinkSigningSecret string // optional; share tokens are disabled when empty

	// Suggestions (optional; /suggest is disabled when empty)
	GeminiAPIKey string

	// Telegram Config
	TelegramBotToken       string
	TelegramBotUsername    string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	catalogURL := os.Getenv("CATALOG_API_URL")
	if catalogURL == "" {
		return nil, fmt.Errorf("CATALOG_API_URL environment variable not set")
	}

	catalogKey := os.Getenv("CATALOG_API_KEY")
	if catalogKey == "" {
		return nil, fmt.Errorf("CATALOG_API_KEY environment variable not set")
	}

	var mirrors []string
	for _, m := range strings.Split(os.Getenv("CATALOG_MIRROR_URLS"), ",") {
		if m = strings.TrimSpace(m); m != "" {
			mirrors = append(mirrors, m)
		}
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = filepath.Join(dataDir, "lunchtime.db")
	}

	// Telegram Config (optional for the CLI, required for the bot)
	allowedIDs, err := parseIDList(os.Getenv("TELEGRAM_ALLOW_USER_IDS"))
	if err != nil {
		return nil, fmt.Errorf("TELEGRAM_ALLOW_USER_IDS: %w", err)
	}

	var adminID int64
	if raw := os.Getenv("ADMIN_TELEGRAM_ID"); raw != "" {
		adminID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_TELEGRAM_ID: %w", err)
		}
	}

	return &Config{
		CatalogURL:             catalogURL,
		CatalogAPIKey:          catalogKey,
		CatalogMirrors:         mirrors,
		MenuPageURL:            os.Getenv("MENU_PAGE_URL"),
		DataDir:                dataDir,
		DatabasePath:           dbPath,
		LinkSigningSecret:      os.Getenv("LINK_SIGNING_SECRET"),
		GeminiAPIKey:           os.Getenv("GEMINI_API_KEY"),
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramBotUsername:    os.Getenv("TELEGRAM_BOT_USERNAME"),
		TelegramWebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowedIDs,
		AdminTelegramID:        adminID,
	}, nil
}

// parseIDList parses a comma-separated list of Telegram user IDs.
func parseIDList(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
