package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/bibnhs/chapter-portal/pkg/core/model"
	"github.com/bibnhs/chapter-portal/pkg/db"
)

// UserAdminStore defines the database operations needed for user
// administration
type UserAdminStore interface {
	ListUsersWithEmail(ctx context.Context) ([]db.ProfileWithEmail, error)
	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	SetApproved(ctx context.Context, userIDs []string, approved bool) error
	SetRole(ctx context.Context, userID string, role model.Role) error
	DeleteUsers(ctx context.Context, userIDs []string) error
}

// UserFilter selects which accounts to list
type UserFilter string

const (
	FilterAll      UserFilter = "all"
	FilterPending  UserFilter = "pending"
	FilterApproved UserFilter = "approved"
)

// ListUsers returns every account visible to administration, split by
// approval status where requested and matched against a name/email search.
// Pending accounts sort ahead of approved ones; within each group ordering is
// by last then first name. The caller gates access to admins.
func ListUsers(
	ctx context.Context,
	store UserAdminStore,
	logger *zap.Logger,
	filter UserFilter,
	search string,
) ([]db.ProfileWithEmail, error) {
	users, err := store.ListUsersWithEmail(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	needle := strings.ToLower(strings.TrimSpace(search))

	results := make([]db.ProfileWithEmail, 0, len(users))
	for _, u := range users {
		switch filter {
		case FilterPending:
			if u.Approved {
				continue
			}
		case FilterApproved:
			if !u.Approved {
				continue
			}
		}
		if needle != "" {
			name := strings.ToLower(u.FirstName + " " + u.LastName)
			if !strings.Contains(name, needle) &&
				!strings.Contains(strings.ToLower(u.Email), needle) {
				continue
			}
		}
		results = append(results, u)
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Approved != b.Approved {
			return !a.Approved
		}
		an := strings.ToLower(a.LastName + " " + a.FirstName)
		bn := strings.ToLower(b.LastName + " " + b.FirstName)
		return an < bn
	})

	logger.Debug("User list built",
		zap.String("filter", string(filter)),
		zap.Int("count", len(results)))
	return results, nil
}

// ApproveUsers marks the given accounts approved. Works for single and bulk
// approval.
func ApproveUsers(
	ctx context.Context,
	store UserAdminStore,
	logger *zap.Logger,
	actorID string,
	userIDs []string,
) error {
	if len(userIDs) == 0 {
		return fmt.Errorf("no users selected: %w", ErrValidation)
	}
	if err := store.SetApproved(ctx, userIDs, true); err != nil {
		return fmt.Errorf("failed to approve users: %w", err)
	}
	logger.Info("Approved users",
		zap.String("actor_id", actorID),
		zap.Int("count", len(userIDs)))
	return nil
}

// UnapproveUsers revokes approval from the given accounts. An admin may not
// unapprove themselves, and admin accounts are never unapprovable.
func UnapproveUsers(
	ctx context.Context,
	store UserAdminStore,
	logger *zap.Logger,
	actorID string,
	userIDs []string,
) error {
	if len(userIDs) == 0 {
		return fmt.Errorf("no users selected: %w", ErrValidation)
	}
	for _, id := range userIDs {
		if id == actorID {
			return fmt.Errorf("cannot unapprove your own account: %w", ErrForbidden)
		}
		profile, err := store.GetProfile(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to fetch profile %s: %w", id, err)
		}
		if profile == nil {
			return fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		if profile.Role == model.RoleAdmin {
			return fmt.Errorf("admin accounts cannot be unapproved: %w", ErrForbidden)
		}
	}
	if err := store.SetApproved(ctx, userIDs, false); err != nil {
		return fmt.Errorf("failed to unapprove users: %w", err)
	}
	logger.Info("Unapproved users",
		zap.String("actor_id", actorID),
		zap.Int("count", len(userIDs)))
	return nil
}

// ChangeRole assigns a new role to an account. Admins may not change their
// own role, and an existing admin can never be assigned a lower role.
func ChangeRole(
	ctx context.Context,
	store UserAdminStore,
	logger *zap.Logger,
	actorID string,
	userID string,
	role model.Role,
) error {
	if !role.IsValid() {
		return fmt.Errorf("invalid role %q: %w", role, ErrValidation)
	}
	if userID == actorID {
		return fmt.Errorf("cannot change your own role: %w", ErrForbidden)
	}
	profile, err := store.GetProfile(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch profile %s: %w", userID, err)
	}
	if profile == nil {
		return fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	if profile.Role == model.RoleAdmin && role != model.RoleAdmin {
		return fmt.Errorf("admin role cannot be revoked: %w", ErrForbidden)
	}
	if err := store.SetRole(ctx, userID, role); err != nil {
		return fmt.Errorf("failed to set role for %s: %w", userID, err)
	}
	logger.Info("Changed user role",
		zap.String("actor_id", actorID),
		zap.String("user_id", userID),
		zap.String("role", string(role)))
	return nil
}

// RemoveUsers deletes the given accounts and every record they own. An admin
// may not remove themselves; other admins are removable.
func RemoveUsers(
	ctx context.Context,
	store UserAdminStore,
	logger *zap.Logger,
	actorID string,
	userIDs []string,
) error {
	if len(userIDs) == 0 {
		return fmt.Errorf("no users selected: %w", ErrValidation)
	}
	for _, id := range userIDs {
		if id == actorID {
			return fmt.Errorf("cannot remove your own account: %w", ErrForbidden)
		}
	}
	if err := store.DeleteUsers(ctx, userIDs); err != nil {
		return fmt.Errorf("failed to delete users: %w", err)
	}
	logger.Info("Removed users",
		zap.String("actor_id", actorID),
		zap.Int("count", len(userIDs)))
	return nil
}
