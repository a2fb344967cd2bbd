package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bibnhs/chapter-portal/pkg/core/model"
	"github.com/bibnhs/chapter-portal/pkg/db"
)

// mockSignatureStore implements SignatureStore
type mockSignatureStore struct {
	entries []model.ServiceEntry
	members []db.ProfileWithEmail
	byID    map[string]*model.ServiceEntry
	deleted []string
	listErr error
}

func (m *mockSignatureStore) ListSignedCompletedEntries(ctx context.Context) ([]model.ServiceEntry, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.entries, nil
}

func (m *mockSignatureStore) ListMembersWithEmail(ctx context.Context) ([]db.ProfileWithEmail, error) {
	return m.members, nil
}

func (m *mockSignatureStore) GetEntry(ctx context.Context, id string) (*model.ServiceEntry, error) {
	return m.byID[id], nil
}

func (m *mockSignatureStore) DeleteEntry(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func signatureFixtures() *mockSignatureStore {
	day := func(d int) *time.Time {
		return timePtr(time.Date(2026, 10, d, 0, 0, 0, 0, time.UTC))
	}
	return &mockSignatureStore{
		members: []db.ProfileWithEmail{
			{ID: "u-1", FirstName: "Ada", LastName: "Young", Grade: intPtr(10)},
			{ID: "u-2", FirstName: "Ben", LastName: "Adams", Grade: intPtr(11)},
		},
		entries: []model.ServiceEntry{
			{ID: "e-1", UserID: "u-1", Date: day(3), Trimester: intPtr(1),
				Category: model.CategoryInSchool, SupervisorName: "Ms. Rivera"},
			{ID: "e-2", UserID: "u-2", Date: day(9), Trimester: intPtr(2),
				Category: model.CategoryRedHook, SupervisorName: "Mr. Cole"},
			{ID: "e-3", UserID: "gone", Date: day(1), Trimester: intPtr(1),
				Category: model.CategoryInSchool, SupervisorName: "Ms. Rivera"},
		},
	}
}

func TestListSignatures_NewestFirstJoined(t *testing.T) {
	store := signatureFixtures()

	results, err := ListSignatures(context.Background(), store, zap.NewNop(), SignatureQuery{})

	require.NoError(t, err)
	// Orphaned entry e-3 is dropped; remaining order by service date desc.
	require.Len(t, results, 2)
	assert.Equal(t, "e-2", results[0].Entry.ID)
	assert.Equal(t, "Ben", results[0].Student.FirstName)
	assert.Equal(t, "e-1", results[1].Entry.ID)
}

func TestListSignatures_Filters(t *testing.T) {
	store := signatureFixtures()

	byTrimester, err := ListSignatures(context.Background(), store, zap.NewNop(),
		SignatureQuery{Trimester: 2})
	require.NoError(t, err)
	require.Len(t, byTrimester, 1)
	assert.Equal(t, "e-2", byTrimester[0].Entry.ID)

	byCategory, err := ListSignatures(context.Background(), store, zap.NewNop(),
		SignatureQuery{Category: string(model.CategoryInSchool)})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "e-1", byCategory[0].Entry.ID)

	byGrade, err := ListSignatures(context.Background(), store, zap.NewNop(),
		SignatureQuery{Grade: 11})
	require.NoError(t, err)
	require.Len(t, byGrade, 1)
	assert.Equal(t, "e-2", byGrade[0].Entry.ID)
}

func TestListSignatures_SearchMatchesStudentAndSupervisor(t *testing.T) {
	store := signatureFixtures()

	byStudent, err := ListSignatures(context.Background(), store, zap.NewNop(),
		SignatureQuery{Search: "ada young"})
	require.NoError(t, err)
	require.Len(t, byStudent, 1)
	assert.Equal(t, "e-1", byStudent[0].Entry.ID)

	bySupervisor, err := ListSignatures(context.Background(), store, zap.NewNop(),
		SignatureQuery{Search: "cole"})
	require.NoError(t, err)
	require.Len(t, bySupervisor, 1)
	assert.Equal(t, "e-2", bySupervisor[0].Entry.ID)
}

func TestDeleteReviewedEntry(t *testing.T) {
	store := signatureFixtures()
	store.byID = map[string]*model.ServiceEntry{
		"e-1": {ID: "e-1", UserID: "u-1", Status: model.StatusCompleted},
	}

	err := DeleteReviewedEntry(context.Background(), store, zap.NewNop(), "e-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"e-1"}, store.deleted)
}

func TestDeleteReviewedEntry_Missing(t *testing.T) {
	store := signatureFixtures()
	store.byID = map[string]*model.ServiceEntry{}

	err := DeleteReviewedEntry(context.Background(), store, zap.NewNop(), "absent")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, store.deleted)
}
