package metrics

import (
	"database/sql"
	"fmt"
	"time"
)

// Event types recorded against the order_events table.
const (
	EventDishSelected   = "dish_selected"
	EventOrderReset     = "order_reset"
	EventLinkShared     = "link_shared"
	EventLinkOpened     = "link_opened"
	EventOrderSubmitted = "order_submitted"
)

// OrderEvent records one ordering action for usage reporting.
type OrderEvent struct {
	ChatID    int64
	EventType string
	Details   string
	Timestamp time.Time
}

// Store handles persistence of order events to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves an event to the database. Timestamps are stored as RFC3339
// UTC strings so SQLite's date() can parse them and range comparisons stay
// lexicographic.
func (s *Store) Record(e OrderEvent) error {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := s.db.Exec(
		"INSERT INTO order_events (chat_id, event_type, details, created_at) VALUES (?, ?, ?, ?)",
		e.ChatID, e.EventType, e.Details, ts.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	return nil
}

// DailyActivity represents event totals for a single day.
type DailyActivity struct {
	Date        string
	Selections  int
	Submissions int
	TotalEvents int
}

// GetDailyActivity retrieves activity for the last N days, newest first.
func (s *Store) GetDailyActivity(days int) ([]DailyActivity, error) {
	since := time.Now().AddDate(0, 0, -days).UTC().Format(time.RFC3339)
	rows, err := s.db.Query(`
		SELECT date(created_at) AS day,
		       SUM(CASE WHEN event_type = ? THEN 1 ELSE 0 END),
		       SUM(CASE WHEN event_type = ? THEN 1 ELSE 0 END),
		       COUNT(*)
		FROM order_events
		WHERE created_at >= ?
		GROUP BY day
		ORDER BY day DESC
	`, EventDishSelected, EventOrderSubmitted, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily activity: %w", err)
	}
	defer rows.Close()

	var results []DailyActivity
	for rows.Next() {
		var a DailyActivity
		if err := rows.Scan(&a.Date, &a.Selections, &a.Submissions, &a.TotalEvents); err != nil {
			return nil, fmt.Errorf("failed to scan daily activity: %w", err)
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

// Cleanup removes events older than the specified number of days and returns
// how many rows were deleted.
func (s *Store) Cleanup(olderThanDays int) (int64, error) {
	threshold := time.Now().AddDate(0, 0, -olderThanDays).UTC().Format(time.RFC3339)
	res, err := s.db.Exec("DELETE FROM order_events WHERE created_at < ?", threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup events: %w", err)
	}
	return res.RowsAffected()
}
