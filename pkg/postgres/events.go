package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bibnhs/chapter-portal/pkg/core/model"
)

// ListEvents returns every calendar event
func (d *DB) ListEvents(ctx context.Context) ([]model.Event, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, title, category, description, event_date, COALESCE(created_by::text, '')
		FROM events
		ORDER BY event_date
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		var category string
		if err := rows.Scan(&e.ID, &e.Title, &category, &e.Description, &e.EventDate, &e.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Category = model.EventCategory(category)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}
	return events, nil
}

// GetEvent returns one event by ID, or nil when absent
func (d *DB) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	var e model.Event
	var category string
	err := d.pool.QueryRow(ctx, `
		SELECT id, title, category, description, event_date, COALESCE(created_by::text, '')
		FROM events WHERE id = $1
	`, id).Scan(&e.ID, &e.Title, &category, &e.Description, &e.EventDate, &e.CreatedBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query event: %w", err)
	}
	e.Category = model.EventCategory(category)
	return &e, nil
}

// InsertEvent inserts a calendar event
func (d *DB) InsertEvent(ctx context.Context, event model.Event) error {
	var createdBy *string
	if event.CreatedBy != "" {
		createdBy = &event.CreatedBy
	}
	_, err := d.pool.Exec(ctx, `
		INSERT INTO events (id, title, category, description, event_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, event.ID, event.Title, string(event.Category), event.Description, event.EventDate, createdBy)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// UpdateEvent replaces an event's editable fields
func (d *DB) UpdateEvent(ctx context.Context, event model.Event) error {
	_, err := d.pool.Exec(ctx, `
		UPDATE events
		SET title = $2, category = $3, description = $4, event_date = $5
		WHERE id = $1
	`, event.ID, event.Title, string(event.Category), event.Description, event.EventDate)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

// DeleteEvent removes a calendar event
func (d *DB) DeleteEvent(ctx context.Context, id string) error {
	_, err := d.pool.Exec(ctx, `
		DELETE FROM events WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}
