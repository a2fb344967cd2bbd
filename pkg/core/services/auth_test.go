package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bibnhs/chapter-portal/pkg/core/model"
	"github.com/bibnhs/chapter-portal/pkg/db"
)

// mockAuthStore implements AuthStore
type mockAuthStore struct {
	accounts        map[string]*db.UserAccount // keyed by email
	profiles        map[string]*model.Profile
	created         []db.UserAccount
	createdProfiles []model.Profile
	passwords       map[string]string
	profileUpdates  []string
	deleted         []string
	createErr       error
}

func newMockAuthStore() *mockAuthStore {
	return &mockAuthStore{
		accounts:  map[string]*db.UserAccount{},
		profiles:  map[string]*model.Profile{},
		passwords: map[string]string{},
	}
}

func (m *mockAuthStore) CreateUser(ctx context.Context, account db.UserAccount, profile model.Profile) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, account)
	m.createdProfiles = append(m.createdProfiles, profile)
	return nil
}

func (m *mockAuthStore) GetUserByEmail(ctx context.Context, email string) (*db.UserAccount, error) {
	return m.accounts[email], nil
}

func (m *mockAuthStore) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	m.passwords[userID] = passwordHash
	return nil
}

func (m *mockAuthStore) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	return m.profiles[userID], nil
}

func (m *mockAuthStore) UpdateProfile(ctx context.Context, userID, firstName, lastName string, grade *int) error {
	m.profileUpdates = append(m.profileUpdates, userID)
	return nil
}

func (m *mockAuthStore) DeleteUsers(ctx context.Context, userIDs []string) error {
	m.deleted = append(m.deleted, userIDs...)
	return nil
}

// fakeHasher implements PasswordHasher with reversible fake hashes
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return fmt.Errorf("mismatch")
	}
	return nil
}

func validSignUp() SignUpInput {
	return SignUpInput{
		FirstName:       "Ada",
		LastName:        "Young",
		Email:           "Ada@School.org",
		Grade:           10,
		Password:        "hunter22",
		ConfirmPassword: "hunter22",
	}
}

func TestSignUp(t *testing.T) {
	store := newMockAuthStore()

	account, profile, err := SignUp(context.Background(), store, fakeHasher{}, zap.NewNop(), validSignUp())

	require.NoError(t, err)
	require.Len(t, store.created, 1)
	assert.Equal(t, *account, store.created[0])
	assert.Equal(t, "ada@school.org", account.Email)
	assert.Equal(t, "hashed:hunter22", account.PasswordHash)
	assert.Equal(t, account.ID, profile.ID)
	assert.Equal(t, model.RoleMember, profile.Role)
	assert.False(t, profile.Approved)
	require.NotNil(t, profile.Grade)
	assert.Equal(t, 10, *profile.Grade)
}

func TestSignUp_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SignUpInput)
	}{
		{"missing first name", func(in *SignUpInput) { in.FirstName = " " }},
		{"missing last name", func(in *SignUpInput) { in.LastName = "" }},
		{"bad email", func(in *SignUpInput) { in.Email = "not-an-email" }},
		{"grade too low", func(in *SignUpInput) { in.Grade = 9 }},
		{"grade too high", func(in *SignUpInput) { in.Grade = 13 }},
		{"short password", func(in *SignUpInput) { in.Password = "abc"; in.ConfirmPassword = "abc" }},
		{"mismatched passwords", func(in *SignUpInput) { in.ConfirmPassword = "hunter23" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newMockAuthStore()
			input := validSignUp()
			tc.mutate(&input)

			_, _, err := SignUp(context.Background(), store, fakeHasher{}, zap.NewNop(), input)

			assert.ErrorIs(t, err, ErrValidation)
			assert.Empty(t, store.created)
		})
	}
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	store := newMockAuthStore()
	store.accounts["ada@school.org"] = &db.UserAccount{ID: "u-1", Email: "ada@school.org"}

	_, _, err := SignUp(context.Background(), store, fakeHasher{}, zap.NewNop(), validSignUp())

	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, store.created)
}

func TestSignIn(t *testing.T) {
	store := newMockAuthStore()
	store.accounts["ada@school.org"] = &db.UserAccount{
		ID: "u-1", Email: "ada@school.org", PasswordHash: "hashed:hunter22",
	}
	store.profiles["u-1"] = &model.Profile{ID: "u-1", FirstName: "Ada", Approved: true}

	account, profile, err := SignIn(context.Background(), store, fakeHasher{}, zap.NewNop(),
		" Ada@School.org ", "hunter22")

	require.NoError(t, err)
	assert.Equal(t, "u-1", account.ID)
	assert.Equal(t, "Ada", profile.FirstName)
}

func TestSignIn_WrongPassword(t *testing.T) {
	store := newMockAuthStore()
	store.accounts["ada@school.org"] = &db.UserAccount{
		ID: "u-1", Email: "ada@school.org", PasswordHash: "hashed:hunter22",
	}

	_, _, err := SignIn(context.Background(), store, fakeHasher{}, zap.NewNop(),
		"ada@school.org", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignIn_UnknownEmail(t *testing.T) {
	store := newMockAuthStore()

	_, _, err := SignIn(context.Background(), store, fakeHasher{}, zap.NewNop(),
		"nobody@school.org", "hunter22")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdatePassword(t *testing.T) {
	store := newMockAuthStore()

	err := UpdatePassword(context.Background(), store, fakeHasher{}, zap.NewNop(), "u-1", "newsecret")

	require.NoError(t, err)
	assert.Equal(t, "hashed:newsecret", store.passwords["u-1"])
}

func TestUpdatePassword_TooShort(t *testing.T) {
	store := newMockAuthStore()

	err := UpdatePassword(context.Background(), store, fakeHasher{}, zap.NewNop(), "u-1", "abc")

	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, store.passwords)
}

func TestUpdateProfile_Member(t *testing.T) {
	store := newMockAuthStore()
	actor := &model.Profile{ID: "u-1", Role: model.RoleMember}

	err := UpdateProfile(context.Background(), store, zap.NewNop(), actor, "Ada", "Young", intPtr(11))

	require.NoError(t, err)
	assert.Equal(t, []string{"u-1"}, store.profileUpdates)
}

func TestUpdateProfile_MemberNeedsGrade(t *testing.T) {
	store := newMockAuthStore()
	actor := &model.Profile{ID: "u-1", Role: model.RoleMember}

	err := UpdateProfile(context.Background(), store, zap.NewNop(), actor, "Ada", "Young", nil)

	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateProfile_AdminHasNoGrade(t *testing.T) {
	store := newMockAuthStore()
	actor := &model.Profile{ID: "u-1", Role: model.RoleAdmin}

	err := UpdateProfile(context.Background(), store, zap.NewNop(), actor, "Cleo", "Marsh", nil)
	require.NoError(t, err)

	err = UpdateProfile(context.Background(), store, zap.NewNop(), actor, "Cleo", "Marsh", intPtr(12))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteAccount(t *testing.T) {
	store := newMockAuthStore()

	err := DeleteAccount(context.Background(), store, zap.NewNop(), "u-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"u-1"}, store.deleted)
}
