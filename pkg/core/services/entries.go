package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bibnhs/chapter-portal/pkg/core/hours"
	"github.com/bibnhs/chapter-portal/pkg/core/model"
	"github.com/bibnhs/chapter-portal/pkg/core/signature"
)

// EntryStore defines the database operations needed for service-hour entries
type EntryStore interface {
	ListEntriesForUser(ctx context.Context, userID string) ([]model.ServiceEntry, error)
	GetEntry(ctx context.Context, id string) (*model.ServiceEntry, error)
	InsertEntry(ctx context.Context, entry model.ServiceEntry) error
	UpdateEntry(ctx context.Context, entry model.ServiceEntry) error
	DeleteEntry(ctx context.Context, id string) error
}

// EntryInput carries the fields a member submits for a service-hour entry.
// Nullable fields may stay nil while the entry is saved as a draft.
type EntryInput struct {
	Hours          *float64
	Category       string
	Trimester      *int
	Date           *time.Time
	Description    string
	SupervisorName string
	Signature      string // inline png data url, empty when unsigned
}

// SaveEntry creates or updates a service-hour entry for its owner. With
// entryID empty a new draft or completed entry is created; otherwise the
// existing entry is updated in place. Completing requires every field plus a
// non-blank signature; completed entries are immutable to their owner.
func SaveEntry(
	ctx context.Context,
	store EntryStore,
	logger *zap.Logger,
	userID string,
	entryID string,
	input EntryInput,
	complete bool,
) (*model.ServiceEntry, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, fmt.Errorf("please enter a description: %w", ErrValidation)
	}

	if complete {
		if err := validateCompletion(input); err != nil {
			return nil, err
		}
	}

	status := model.StatusInProgress
	if complete {
		status = model.StatusCompleted
	}

	entry := model.ServiceEntry{
		ID:             entryID,
		UserID:         userID,
		Hours:          input.Hours,
		Category:       model.Category(input.Category),
		Trimester:      input.Trimester,
		Date:           input.Date,
		Description:    strings.TrimSpace(input.Description),
		SupervisorName: strings.TrimSpace(input.SupervisorName),
		Signature:      input.Signature,
		Status:         status,
	}

	if input.Category != "" && !entry.Category.IsValid() {
		return nil, fmt.Errorf("unknown category %q: %w", input.Category, ErrValidation)
	}
	if input.Trimester != nil && !model.ValidTrimester(*input.Trimester) {
		return nil, fmt.Errorf("trimester must be 1, 2 or 3: %w", ErrValidation)
	}

	if entryID == "" {
		entry.ID = uuid.New().String()
		entry.CreatedAt = time.Now().UTC()
		logger.Debug("Inserting service entry",
			zap.String("entry_id", entry.ID),
			zap.String("user_id", userID),
			zap.String("status", string(status)))
		if err := store.InsertEntry(ctx, entry); err != nil {
			return nil, fmt.Errorf("failed to insert entry: %w", err)
		}
		return &entry, nil
	}

	existing, err := store.GetEntry(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entry: %w", err)
	}
	if existing == nil {
		return nil, fmt.Errorf("entry %s: %w", entryID, ErrNotFound)
	}
	if existing.UserID != userID {
		return nil, fmt.Errorf("entry belongs to another member: %w", ErrForbidden)
	}
	if existing.Status == model.StatusCompleted {
		// Completed entries are immutable to their owner; only an
		// administrator may delete them through signature review.
		return nil, fmt.Errorf("completed hours cannot be edited: %w", ErrForbidden)
	}

	entry.CreatedAt = existing.CreatedAt
	logger.Debug("Updating service entry",
		zap.String("entry_id", entry.ID),
		zap.String("status", string(status)))
	if err := store.UpdateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}

	return &entry, nil
}

// validateCompletion enforces the in_progress -> completed transition gate
func validateCompletion(input EntryInput) error {
	switch {
	case input.Hours == nil,
		input.Date == nil,
		input.Trimester == nil,
		input.Category == "",
		strings.TrimSpace(input.SupervisorName) == "":
		return fmt.Errorf("please fill in all required fields to mark as completed: %w", ErrValidation)
	case *input.Hours <= 0:
		return fmt.Errorf("hours must be greater than 0: %w", ErrValidation)
	case signature.BlankDataURL(input.Signature):
		return fmt.Errorf("please provide a signature to mark as completed: %w", ErrValidation)
	}
	return nil
}

// DeleteEntry removes a member's own entry. Only in-progress entries may be
// deleted by their owner.
func DeleteEntry(ctx context.Context, store EntryStore, logger *zap.Logger, userID, entryID string) error {
	entry, err := store.GetEntry(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to load entry: %w", err)
	}
	if entry == nil {
		return fmt.Errorf("entry %s: %w", entryID, ErrNotFound)
	}
	if entry.UserID != userID {
		return fmt.Errorf("entry belongs to another member: %w", ErrForbidden)
	}
	if entry.Status == model.StatusCompleted {
		return fmt.Errorf("completed hours cannot be deleted: %w", ErrForbidden)
	}

	logger.Debug("Deleting service entry", zap.String("entry_id", entryID))
	if err := store.DeleteEntry(ctx, entryID); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

// MemberSummary is the per-category completed-hour roll-up shown on the
// member's own hours page.
type MemberSummary struct {
	InSchool  float64
	OutSchool float64
	RedHook   float64
	Total     float64
}

// ListEntriesResult holds a member's entries split by lifecycle status,
// newest first, plus the completed-hours summary.
type ListEntriesResult struct {
	InProgress []model.ServiceEntry
	Completed  []model.ServiceEntry
	Summary    MemberSummary
}

// ListEntries fetches one member's entries and computes their summary
func ListEntries(ctx context.Context, store EntryStore, logger *zap.Logger, userID string) (*ListEntriesResult, error) {
	logger.Debug("Fetching entries", zap.String("user_id", userID))
	entries, err := store.ListEntriesForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entries: %w", err)
	}

	result := &ListEntriesResult{
		InProgress: make([]model.ServiceEntry, 0),
		Completed:  make([]model.ServiceEntry, 0),
	}
	for _, entry := range entries {
		if entry.Status == model.StatusCompleted {
			result.Completed = append(result.Completed, entry)
		} else {
			result.InProgress = append(result.InProgress, entry)
		}
	}

	total := hours.AggregateMember(userID, entries).Total
	result.Summary = MemberSummary{
		InSchool:  total.InSchool,
		OutSchool: total.OutSchool,
		RedHook:   total.RedHook,
		Total:     total.Overall(),
	}

	logger.Debug("Entries fetched",
		zap.Int("in_progress", len(result.InProgress)),
		zap.Int("completed", len(result.Completed)))
	return result, nil
}
