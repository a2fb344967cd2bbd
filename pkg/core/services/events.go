package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bibnhs/chapter-portal/pkg/core/model"
)

// EventStore defines the database operations needed for the calendar
type EventStore interface {
	ListEvents(ctx context.Context) ([]model.Event, error)
	GetEvent(ctx context.Context, eventID string) (*model.Event, error)
	InsertEvent(ctx context.Context, event model.Event) error
	UpdateEvent(ctx context.Context, event model.Event) error
	DeleteEvent(ctx context.Context, eventID string) error
}

// EventInput carries the editable fields of a calendar event
type EventInput struct {
	Title       string
	Category    string
	Description string
	EventDate   *time.Time
}

func validateEvent(input EventInput) (model.EventCategory, error) {
	if strings.TrimSpace(input.Title) == "" {
		return "", fmt.Errorf("event title is required: %w", ErrValidation)
	}
	if input.EventDate == nil {
		return "", fmt.Errorf("event date is required: %w", ErrValidation)
	}
	category := model.EventCategory(input.Category)
	if category == "" {
		category = model.EventOther
	}
	if !category.IsValid() {
		return "", fmt.Errorf("invalid event category %q: %w", input.Category, ErrValidation)
	}
	return category, nil
}

// ListEvents returns every calendar event in ascending date order
func ListEvents(
	ctx context.Context,
	store EventStore,
	logger *zap.Logger,
) ([]model.Event, error) {
	events, err := store.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].EventDate.Before(events[j].EventDate)
	})
	logger.Debug("Event list built", zap.Int("count", len(events)))
	return events, nil
}

// CreateEvent adds a calendar event. The caller gates access to leaders and
// admins.
func CreateEvent(
	ctx context.Context,
	store EventStore,
	logger *zap.Logger,
	creatorID string,
	input EventInput,
) (*model.Event, error) {
	category, err := validateEvent(input)
	if err != nil {
		return nil, err
	}

	event := model.Event{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(input.Title),
		Category:    category,
		Description: strings.TrimSpace(input.Description),
		EventDate:   *input.EventDate,
		CreatedBy:   creatorID,
	}
	if err := store.InsertEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}
	logger.Info("Created event",
		zap.String("event_id", event.ID),
		zap.String("title", event.Title),
		zap.Time("date", event.EventDate))
	return &event, nil
}

// UpdateEvent replaces an event's editable fields. The caller gates access to
// leaders and admins.
func UpdateEvent(
	ctx context.Context,
	store EventStore,
	logger *zap.Logger,
	eventID string,
	input EventInput,
) (*model.Event, error) {
	category, err := validateEvent(input)
	if err != nil {
		return nil, err
	}

	existing, err := store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event %s: %w", eventID, err)
	}
	if existing == nil {
		return nil, fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}

	event := *existing
	event.Title = strings.TrimSpace(input.Title)
	event.Category = category
	event.Description = strings.TrimSpace(input.Description)
	event.EventDate = *input.EventDate

	if err := store.UpdateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event %s: %w", eventID, err)
	}
	logger.Info("Updated event", zap.String("event_id", eventID))
	return &event, nil
}

// DeleteEvent removes a calendar event. The caller gates access to leaders
// and admins.
func DeleteEvent(
	ctx context.Context,
	store EventStore,
	logger *zap.Logger,
	eventID string,
) error {
	existing, err := store.GetEvent(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to fetch event %s: %w", eventID, err)
	}
	if existing == nil {
		return fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}
	if err := store.DeleteEvent(ctx, eventID); err != nil {
		return fmt.Errorf("failed to delete event %s: %w", eventID, err)
	}
	logger.Info("Deleted event", zap.String("event_id", eventID))
	return nil
}
