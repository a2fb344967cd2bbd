package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bibnhs/chapter-portal/pkg/core/model"
)

const serviceHourColumns = `
	id, user_id, hours, category, trimester, service_date,
	description, supervisor_name, signature, status, created_at
`

func scanEntry(row pgx.Row) (*model.ServiceEntry, error) {
	var e model.ServiceEntry
	var category *string
	err := row.Scan(&e.ID, &e.UserID, &e.Hours, &category, &e.Trimester, &e.Date,
		&e.Description, &e.SupervisorName, &e.Signature, &e.Status, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	if category != nil {
		e.Category = model.Category(*category)
	}
	return &e, nil
}

func scanEntries(rows pgx.Rows) ([]model.ServiceEntry, error) {
	defer rows.Close()

	var entries []model.ServiceEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating service entries: %w", err)
	}
	return entries, nil
}

// ListEntriesForUser returns one member's entries, newest first
func (d *DB) ListEntriesForUser(ctx context.Context, userID string) ([]model.ServiceEntry, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+serviceHourColumns+`
		FROM service_hours WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for user: %w", err)
	}
	return scanEntries(rows)
}

// ListCompletedEntries returns every completed entry across all members
func (d *DB) ListCompletedEntries(ctx context.Context) ([]model.ServiceEntry, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+serviceHourColumns+`
		FROM service_hours WHERE status = 'completed'
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed entries: %w", err)
	}
	return scanEntries(rows)
}

// ListSignedCompletedEntries returns completed entries that carry a signature
func (d *DB) ListSignedCompletedEntries(ctx context.Context) ([]model.ServiceEntry, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+serviceHourColumns+`
		FROM service_hours WHERE status = 'completed' AND signature <> ''
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query signed entries: %w", err)
	}
	return scanEntries(rows)
}

// GetEntry returns one entry by ID, or nil when absent
func (d *DB) GetEntry(ctx context.Context, id string) (*model.ServiceEntry, error) {
	entry, err := scanEntry(d.pool.QueryRow(ctx, `
		SELECT `+serviceHourColumns+`
		FROM service_hours WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query entry: %w", err)
	}
	return entry, nil
}

// InsertEntry inserts a new service-hour entry
func (d *DB) InsertEntry(ctx context.Context, entry model.ServiceEntry) error {
	var category *string
	if entry.Category != "" {
		c := string(entry.Category)
		category = &c
	}
	_, err := d.pool.Exec(ctx, `
		INSERT INTO service_hours (`+serviceHourColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, entry.ID, entry.UserID, entry.Hours, category, entry.Trimester, entry.Date,
		entry.Description, entry.SupervisorName, entry.Signature, string(entry.Status), entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

// UpdateEntry replaces an entry's editable fields
func (d *DB) UpdateEntry(ctx context.Context, entry model.ServiceEntry) error {
	var category *string
	if entry.Category != "" {
		c := string(entry.Category)
		category = &c
	}
	_, err := d.pool.Exec(ctx, `
		UPDATE service_hours
		SET hours = $2, category = $3, trimester = $4, service_date = $5,
		    description = $6, supervisor_name = $7, signature = $8, status = $9
		WHERE id = $1
	`, entry.ID, entry.Hours, category, entry.Trimester, entry.Date,
		entry.Description, entry.SupervisorName, entry.Signature, string(entry.Status))
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	return nil
}

// DeleteEntry removes one entry
func (d *DB) DeleteEntry(ctx context.Context, id string) error {
	_, err := d.pool.Exec(ctx, `
		DELETE FROM service_hours WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}
