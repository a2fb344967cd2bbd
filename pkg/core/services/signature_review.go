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

// SignatureStore defines the database operations needed for signature review
type SignatureStore interface {
	ListSignedCompletedEntries(ctx context.Context) ([]model.ServiceEntry, error)
	ListMembersWithEmail(ctx context.Context) ([]db.ProfileWithEmail, error)
	GetEntry(ctx context.Context, entryID string) (*model.ServiceEntry, error)
	DeleteEntry(ctx context.Context, entryID string) error
}

// SignatureQuery filters the review list. Zero values leave a dimension
// unfiltered.
type SignatureQuery struct {
	Search    string
	Trimester int
	Category  string
	Grade     int
}

// SignedEntry is a completed, signed entry joined with its student
type SignedEntry struct {
	Entry   model.ServiceEntry
	Student db.ProfileWithEmail
}

// ListSignatures returns completed entries carrying a supervisor signature,
// joined with the submitting student and ordered newest service date first.
// Entries whose student no longer has a profile are omitted.
func ListSignatures(
	ctx context.Context,
	store SignatureStore,
	logger *zap.Logger,
	query SignatureQuery,
) ([]SignedEntry, error) {
	logger.Debug("Fetching signed completed entries")
	entries, err := store.ListSignedCompletedEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch signed entries: %w", err)
	}

	members, err := store.ListMembersWithEmail(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}
	byID := make(map[string]db.ProfileWithEmail, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}

	search := strings.ToLower(strings.TrimSpace(query.Search))

	results := make([]SignedEntry, 0, len(entries))
	for _, entry := range entries {
		student, ok := byID[entry.UserID]
		if !ok {
			continue
		}
		if query.Trimester != 0 {
			if entry.Trimester == nil || *entry.Trimester != query.Trimester {
				continue
			}
		}
		if query.Category != "" && string(entry.Category) != query.Category {
			continue
		}
		if query.Grade != 0 {
			if student.Grade == nil || *student.Grade != query.Grade {
				continue
			}
		}
		if search != "" {
			name := strings.ToLower(student.FirstName + " " + student.LastName)
			supervisor := strings.ToLower(entry.SupervisorName)
			if !strings.Contains(name, search) && !strings.Contains(supervisor, search) {
				continue
			}
		}
		results = append(results, SignedEntry{Entry: entry, Student: student})
	}

	sort.SliceStable(results, func(i, j int) bool {
		di, dj := results[i].Entry.Date, results[j].Entry.Date
		if di == nil {
			return false
		}
		if dj == nil {
			return true
		}
		return di.After(*dj)
	})

	logger.Debug("Signature review list built", zap.Int("count", len(results)))
	return results, nil
}

// DeleteReviewedEntry removes a completed entry after review. Unlike member
// deletion this bypasses the in-progress restriction. The caller gates access
// to admins.
func DeleteReviewedEntry(
	ctx context.Context,
	store SignatureStore,
	logger *zap.Logger,
	entryID string,
) error {
	entry, err := store.GetEntry(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to fetch entry %s: %w", entryID, err)
	}
	if entry == nil {
		return fmt.Errorf("entry %s: %w", entryID, ErrNotFound)
	}

	if err := store.DeleteEntry(ctx, entryID); err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", entryID, err)
	}
	logger.Info("Deleted reviewed entry",
		zap.String("entry_id", entryID),
		zap.String("user_id", entry.UserID))
	return nil
}
