package checkout

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Form conversation states, in the order fields are collected.
const (
	StateName         = "name"
	StateEmail        = "email"
	StatePhone        = "phone"
	StateAddress      = "address"
	StateDeliveryTime = "delivery_time"
	StateComment      = "comment"
)

// NextState returns the state after the given one, or "" when the form is
// complete.
func NextState(state string) string {
	switch state {
	case StateName:
		return StateEmail
	case StateEmail:
		return StatePhone
	case StatePhone:
		return StateAddress
	case StateAddress:
		return StateDeliveryTime
	case StateDeliveryTime:
		return StateComment
	}
	return ""
}

// FormRepository persists in-progress checkout conversations so a restart
// does not lose a half-filled form.
type FormRepository struct {
	db *sql.DB
}

// NewFormRepository creates a form session repository.
func NewFormRepository(db *sql.DB) *FormRepository {
	return &FormRepository{db: db}
}

// Get returns the active form session for a chat. A chat with no session
// yields an empty state and a fresh form.
func (r *FormRepository) Get(chatID int64) (string, *Form, error) {
	var state, data string
	err := r.db.QueryRow("SELECT state, data FROM form_sessions WHERE chat_id = ?", chatID).Scan(&state, &data)
	if err == sql.ErrNoRows {
		return "", &Form{}, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to load form session: %w", err)
	}

	var form Form
	if err := json.Unmarshal([]byte(data), &form); err != nil {
		return "", nil, fmt.Errorf("failed to unmarshal form session: %w", err)
	}
	return state, &form, nil
}

// Set upserts the form session for a chat.
func (r *FormRepository) Set(chatID int64, state string, form *Form) error {
	data, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("failed to marshal form session: %w", err)
	}

	query := `
		INSERT INTO form_sessions (chat_id, state, data, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET
			state = excluded.state,
			data = excluded.data,
			updated_at = excluded.updated_at
	`
	if _, err := r.db.Exec(query, chatID, state, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save form session: %w", err)
	}
	return nil
}

// Delete ends the form session for a chat.
func (r *FormRepository) Delete(chatID int64) error {
	if _, err := r.db.Exec("DELETE FROM form_sessions WHERE chat_id = ?", chatID); err != nil {
		return fmt.Errorf("failed to delete form session: %w", err)
	}
	return nil
}
