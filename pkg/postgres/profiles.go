package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bibnhs/chapter-portal/pkg/core/model"
	"github.com/bibnhs/chapter-portal/pkg/db"
)

// GetProfile returns a profile by user ID, or nil when absent
func (d *DB) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	var p model.Profile
	var role string
	err := d.pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, grade, role, approved
		FROM profiles WHERE id = $1
	`, id).Scan(&p.ID, &p.FirstName, &p.LastName, &p.Grade, &role, &p.Approved)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}
	p.Role = model.Role(role)
	return &p, nil
}

// UpdateProfile replaces a profile's name and grade
func (d *DB) UpdateProfile(ctx context.Context, id, firstName, lastName string, grade *int) error {
	_, err := d.pool.Exec(ctx, `
		UPDATE profiles SET first_name = $2, last_name = $3, grade = $4 WHERE id = $1
	`, id, firstName, lastName, grade)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// SetApproved flips approval for a batch of profiles
func (d *DB) SetApproved(ctx context.Context, ids []string, approved bool) error {
	_, err := d.pool.Exec(ctx, `
		UPDATE profiles SET approved = $2 WHERE id = ANY($1)
	`, ids, approved)
	if err != nil {
		return fmt.Errorf("failed to set approval: %w", err)
	}
	return nil
}

// SetRole assigns a role to a profile
func (d *DB) SetRole(ctx context.Context, id string, role model.Role) error {
	_, err := d.pool.Exec(ctx, `
		UPDATE profiles SET role = $2 WHERE id = $1
	`, id, string(role))
	if err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}
	return nil
}

func scanProfilesWithEmail(rows pgx.Rows) ([]db.ProfileWithEmail, error) {
	defer rows.Close()

	var profiles []db.ProfileWithEmail
	for rows.Next() {
		var p db.ProfileWithEmail
		var role string
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Grade, &role, &p.Approved); err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		p.Role = model.Role(role)
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}
	return profiles, nil
}

// ListMembersWithEmail returns every approved non-admin profile joined with
// its account email. This is the privileged roster view behind the
// catalogue; admins carry no grade and never appear in it.
func (d *DB) ListMembersWithEmail(ctx context.Context) ([]db.ProfileWithEmail, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT p.id, p.first_name, p.last_name, u.email, p.grade, p.role, p.approved
		FROM profiles p JOIN users u ON u.id = p.id
		WHERE p.approved = TRUE AND p.role <> 'admin'
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	return scanProfilesWithEmail(rows)
}

// ListUsersWithEmail returns every profile, approved or not, joined with its
// account email. This feeds user administration.
func (d *DB) ListUsersWithEmail(ctx context.Context) ([]db.ProfileWithEmail, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT p.id, p.first_name, p.last_name, u.email, p.grade, p.role, p.approved
		FROM profiles p JOIN users u ON u.id = p.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	return scanProfilesWithEmail(rows)
}

// DeleteUsers removes accounts; profiles and owned records cascade
func (d *DB) DeleteUsers(ctx context.Context, ids []string) error {
	_, err := d.pool.Exec(ctx, `
		DELETE FROM users WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to delete users: %w", err)
	}
	return nil
}
