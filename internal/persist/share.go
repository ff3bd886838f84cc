package persist

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// payloadPrefix marks a deep-link payload as a stored share link. Telegram
// start payloads are limited to 64 characters of [A-Za-z0-9_-], so the query
// itself cannot ride in the link; it lives in the database keyed by id.
const payloadPrefix = "o-"

// ShareRepository stores share links so a short deep-link payload can stand
// in for a full order query.
type ShareRepository struct {
	db *sql.DB
}

// NewShareRepository creates a share link repository.
func NewShareRepository(db *sql.DB) *ShareRepository {
	return &ShareRepository{db: db}
}

// Create stores a query string and returns the new link's id.
func (r *ShareRepository) Create(createdBy int64, query string) (string, error) {
	id := uuid.New().String()
	_, err := r.db.Exec(
		"INSERT INTO share_links (id, query, created_by, created_at) VALUES (?, ?, ?, ?)",
		id, query, createdBy, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create share link: %w", err)
	}
	return id, nil
}

// Get returns the query string stored under a link id.
func (r *ShareRepository) Get(id string) (string, error) {
	var query string
	err := r.db.QueryRow("SELECT query FROM share_links WHERE id = ?", id).Scan(&query)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("share link %s not found", id)
	}
	if err != nil {
		return "", fmt.Errorf("failed to load share link: %w", err)
	}
	return query, nil
}

// Payload renders a link id as a deep-link start payload.
func Payload(id string) string {
	return payloadPrefix + id
}

// ParsePayload extracts the link id from a start payload, reporting whether
// the payload is a share link at all.
func ParsePayload(payload string) (string, bool) {
	if !strings.HasPrefix(payload, payloadPrefix) {
		return "", false
	}
	id := strings.TrimPrefix(payload, payloadPrefix)
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}
