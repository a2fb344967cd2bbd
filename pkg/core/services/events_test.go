package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bibnhs/chapter-portal/pkg/core/model"
)

// mockEventStore implements EventStore
type mockEventStore struct {
	events   map[string]*model.Event
	inserted []model.Event
	updated  []model.Event
	deleted  []string
	listErr  error
}

func newMockEventStore() *mockEventStore {
	return &mockEventStore{events: map[string]*model.Event{}}
}

func (m *mockEventStore) ListEvents(ctx context.Context) ([]model.Event, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	events := make([]model.Event, 0, len(m.events))
	for _, e := range m.events {
		events = append(events, *e)
	}
	return events, nil
}

func (m *mockEventStore) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	return m.events[id], nil
}

func (m *mockEventStore) InsertEvent(ctx context.Context, event model.Event) error {
	m.inserted = append(m.inserted, event)
	m.events[event.ID] = &event
	return nil
}

func (m *mockEventStore) UpdateEvent(ctx context.Context, event model.Event) error {
	m.updated = append(m.updated, event)
	return nil
}

func (m *mockEventStore) DeleteEvent(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func TestListEvents_DateOrder(t *testing.T) {
	store := newMockEventStore()
	store.events["ev-1"] = &model.Event{
		ID: "ev-1", Title: "Later", EventDate: time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC),
	}
	store.events["ev-2"] = &model.Event{
		ID: "ev-2", Title: "Sooner", EventDate: time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC),
	}

	events, err := ListEvents(context.Background(), store, zap.NewNop())

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "ev-2", events[0].ID)
	assert.Equal(t, "ev-1", events[1].ID)
}

func TestCreateEvent(t *testing.T) {
	store := newMockEventStore()
	date := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	event, err := CreateEvent(context.Background(), store, zap.NewNop(), "u-1", EventInput{
		Title:     "Park cleanup",
		Category:  string(model.EventOutOfSchool),
		EventDate: &date,
	})

	require.NoError(t, err)
	require.Len(t, store.inserted, 1)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "u-1", event.CreatedBy)
	assert.Equal(t, model.EventOutOfSchool, event.Category)
}

func TestCreateEvent_DefaultsCategory(t *testing.T) {
	store := newMockEventStore()
	date := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	event, err := CreateEvent(context.Background(), store, zap.NewNop(), "u-1", EventInput{
		Title:     "Assembly",
		EventDate: &date,
	})

	require.NoError(t, err)
	assert.Equal(t, model.EventOther, event.Category)
}

func TestCreateEvent_Validation(t *testing.T) {
	store := newMockEventStore()
	date := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	_, err := CreateEvent(context.Background(), store, zap.NewNop(), "u-1", EventInput{
		EventDate: &date,
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = CreateEvent(context.Background(), store, zap.NewNop(), "u-1", EventInput{
		Title: "No date",
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = CreateEvent(context.Background(), store, zap.NewNop(), "u-1", EventInput{
		Title: "Bad category", Category: "fundraiser", EventDate: &date,
	})
	assert.ErrorIs(t, err, ErrValidation)

	assert.Empty(t, store.inserted)
}

func TestUpdateEvent(t *testing.T) {
	store := newMockEventStore()
	store.events["ev-1"] = &model.Event{
		ID: "ev-1", Title: "Old", CreatedBy: "u-1",
		EventDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	}
	newDate := time.Date(2026, 10, 8, 0, 0, 0, 0, time.UTC)

	event, err := UpdateEvent(context.Background(), store, zap.NewNop(), "ev-1", EventInput{
		Title:     "Rescheduled",
		Category:  string(model.EventMandatory),
		EventDate: &newDate,
	})

	require.NoError(t, err)
	require.Len(t, store.updated, 1)
	assert.Equal(t, "Rescheduled", event.Title)
	assert.Equal(t, newDate, event.EventDate)
	assert.Equal(t, "u-1", event.CreatedBy)
}

func TestUpdateEvent_Missing(t *testing.T) {
	store := newMockEventStore()
	date := time.Date(2026, 10, 8, 0, 0, 0, 0, time.UTC)

	_, err := UpdateEvent(context.Background(), store, zap.NewNop(), "absent", EventInput{
		Title: "T", EventDate: &date,
	})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteEvent(t *testing.T) {
	store := newMockEventStore()
	store.events["ev-1"] = &model.Event{ID: "ev-1"}

	err := DeleteEvent(context.Background(), store, zap.NewNop(), "ev-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"ev-1"}, store.deleted)
}

func TestDeleteEvent_Missing(t *testing.T) {
	store := newMockEventStore()

	err := DeleteEvent(context.Background(), store, zap.NewNop(), "absent")

	assert.ErrorIs(t, err, ErrNotFound)
}
