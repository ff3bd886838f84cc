package order

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"lunchtime-bot/internal/catalog"
)

// Repository persists the keyword form of each chat's selection.
type Repository struct {
	db *sql.DB
}

// NewRepository creates an order repository backed by the given database.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save upserts the selection for a chat as a single JSON blob of
// category-to-keyword pairs.
func (r *Repository) Save(chatID int64, keywords map[catalog.Category]string) error {
	data, err := json.Marshal(keywords)
	if err != nil {
		return fmt.Errorf("failed to marshal selection: %w", err)
	}

	query := `
		INSERT INTO orders (chat_id, selection, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET
			selection = excluded.selection,
			updated_at = excluded.updated_at
	`
	if _, err := r.db.Exec(query, chatID, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

// Load retrieves the stored selection keywords for a chat. A chat with no
// stored order yields an empty map, not an error.
func (r *Repository) Load(chatID int64) (map[catalog.Category]string, error) {
	var data string
	err := r.db.QueryRow("SELECT selection FROM orders WHERE chat_id = ?", chatID).Scan(&data)
	if err == sql.ErrNoRows {
		return map[catalog.Category]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	var keywords map[catalog.Category]string
	if err := json.Unmarshal([]byte(data), &keywords); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stored order: %w", err)
	}
	return keywords, nil
}

// Delete removes the stored order for a chat.
func (r *Repository) Delete(chatID int64) error {
	if _, err := r.db.Exec("DELETE FROM orders WHERE chat_id = ?", chatID); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}
