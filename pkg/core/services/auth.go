package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bibnhs/chapter-portal/pkg/core/model"
	"github.com/bibnhs/chapter-portal/pkg/db"
)

// MinPasswordLength is the minimum accepted password length
const MinPasswordLength = 6

// ErrInvalidCredentials is returned when an email/password pair does not
// match an account.
var ErrInvalidCredentials = fmt.Errorf("invalid email or password")

// PasswordHasher abstracts password hashing for the auth services
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// AuthStore defines the database operations needed by account services
type AuthStore interface {
	CreateUser(ctx context.Context, account db.UserAccount, profile model.Profile) error
	GetUserByEmail(ctx context.Context, email string) (*db.UserAccount, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	UpdateProfile(ctx context.Context, userID, firstName, lastName string, grade *int) error
	DeleteUsers(ctx context.Context, userIDs []string) error
}

// SignUpInput carries a registration request
type SignUpInput struct {
	FirstName       string
	LastName        string
	Email           string
	Grade           int
	Password        string
	ConfirmPassword string
}

// SignUp registers a new account with an unapproved member profile and
// returns both, so callers issue session tokens against the stored account
// rather than the raw request. The account cannot use the portal until an
// admin approves it.
func SignUp(
	ctx context.Context,
	store AuthStore,
	hasher PasswordHasher,
	logger *zap.Logger,
	input SignUpInput,
) (*db.UserAccount, *model.Profile, error) {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if firstName == "" || lastName == "" {
		return nil, nil, fmt.Errorf("first and last name are required: %w", ErrValidation)
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, nil, fmt.Errorf("a valid email address is required: %w", ErrValidation)
	}
	if !model.ValidGrade(input.Grade) {
		return nil, nil, fmt.Errorf("grade must be between %d and %d: %w",
			model.MinGrade, model.MaxGrade, ErrValidation)
	}
	if len(input.Password) < MinPasswordLength {
		return nil, nil, fmt.Errorf("password must be at least %d characters: %w",
			MinPasswordLength, ErrValidation)
	}
	if input.Password != input.ConfirmPassword {
		return nil, nil, fmt.Errorf("passwords do not match: %w", ErrValidation)
	}

	existing, err := store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check for existing account: %w", err)
	}
	if existing != nil {
		return nil, nil, fmt.Errorf("an account already exists for %s: %w", email, ErrValidation)
	}

	hash, err := hasher.Hash(input.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	grade := input.Grade
	account := db.UserAccount{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	profile := model.Profile{
		ID:        account.ID,
		FirstName: firstName,
		LastName:  lastName,
		Grade:     &grade,
		Role:      model.RoleMember,
		Approved:  false,
	}
	if err := store.CreateUser(ctx, account, profile); err != nil {
		return nil, nil, fmt.Errorf("failed to create account: %w", err)
	}

	logger.Info("Registered new account",
		zap.String("user_id", account.ID),
		zap.String("email", email))
	return &account, &profile, nil
}

// SignIn verifies an email/password pair and returns the account and its
// profile. Unknown emails and wrong passwords both return
// ErrInvalidCredentials so callers cannot distinguish the two.
func SignIn(
	ctx context.Context,
	store AuthStore,
	hasher PasswordHasher,
	logger *zap.Logger,
	email, password string,
) (*db.UserAccount, *model.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch account: %w", err)
	}
	if account == nil {
		return nil, nil, ErrInvalidCredentials
	}
	if err := hasher.Compare(account.PasswordHash, password); err != nil {
		logger.Debug("Password mismatch", zap.String("email", email))
		return nil, nil, ErrInvalidCredentials
	}

	profile, err := store.GetProfile(ctx, account.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	if profile == nil {
		return nil, nil, fmt.Errorf("profile for %s: %w", account.ID, ErrNotFound)
	}

	logger.Info("Signed in", zap.String("user_id", account.ID))
	return account, profile, nil
}

// UpdatePassword replaces the caller's password
func UpdatePassword(
	ctx context.Context,
	store AuthStore,
	hasher PasswordHasher,
	logger *zap.Logger,
	userID, newPassword string,
) error {
	if len(newPassword) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters: %w",
			MinPasswordLength, ErrValidation)
	}
	hash, err := hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := store.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	logger.Info("Updated password", zap.String("user_id", userID))
	return nil
}

// UpdateProfile edits the caller's own name and, for non-admins, grade.
// Admin accounts carry no grade and attempts to set one are rejected.
func UpdateProfile(
	ctx context.Context,
	store AuthStore,
	logger *zap.Logger,
	actor *model.Profile,
	firstName, lastName string,
	grade *int,
) error {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return fmt.Errorf("first and last name are required: %w", ErrValidation)
	}

	if actor.Role == model.RoleAdmin {
		if grade != nil {
			return fmt.Errorf("admin accounts have no grade: %w", ErrValidation)
		}
	} else {
		if grade == nil {
			return fmt.Errorf("grade is required: %w", ErrValidation)
		}
		if !model.ValidGrade(*grade) {
			return fmt.Errorf("grade must be between %d and %d: %w",
				model.MinGrade, model.MaxGrade, ErrValidation)
		}
	}

	if err := store.UpdateProfile(ctx, actor.ID, firstName, lastName, grade); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	logger.Info("Updated profile", zap.String("user_id", actor.ID))
	return nil
}

// DeleteAccount removes the caller's own account and every record it owns
func DeleteAccount(
	ctx context.Context,
	store AuthStore,
	logger *zap.Logger,
	userID string,
) error {
	if err := store.DeleteUsers(ctx, []string{userID}); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	logger.Info("Deleted account", zap.String("user_id", userID))
	return nil
}
