package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bibnhs/chapter-portal/pkg/core/model"
	"github.com/bibnhs/chapter-portal/pkg/db"
)

// CreateUser inserts an account and its profile in one transaction
func (d *DB) CreateUser(ctx context.Context, account db.UserAccount, profile model.Profile) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, account.ID, account.Email, account.PasswordHash, account.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO profiles (id, first_name, last_name, grade, role, approved)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, profile.ID, profile.FirstName, profile.LastName, profile.Grade, string(profile.Role), profile.Approved)
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit user creation: %w", err)
	}
	return nil
}

// GetUserByEmail returns the account for an email, or nil when absent
func (d *DB) GetUserByEmail(ctx context.Context, email string) (*db.UserAccount, error) {
	var account db.UserAccount
	err := d.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at
		FROM users WHERE email = $1
	`, email).Scan(&account.ID, &account.Email, &account.PasswordHash, &account.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	return &account, nil
}

// UpdatePassword replaces an account's password hash
func (d *DB) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	_, err := d.pool.Exec(ctx, `
		UPDATE users SET password_hash = $2 WHERE id = $1
	`, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
