package db

import (
	"context"

	"github.com/bibnhs/chapter-portal/pkg/core/model"
)

// UserStore defines authentication account operations
type UserStore interface {
	CreateUser(ctx context.Context, account UserAccount, profile model.Profile) error
	GetUserByEmail(ctx context.Context, email string) (*UserAccount, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// ProfileStore defines profile record operations, including the privileged
// aggregate queries that join account emails.
type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (*model.Profile, error)
	UpdateProfile(ctx context.Context, id, firstName, lastName string, grade *int) error
	SetApproved(ctx context.Context, ids []string, approved bool) error
	SetRole(ctx context.Context, id string, role model.Role) error
	ListMembersWithEmail(ctx context.Context) ([]ProfileWithEmail, error)
	ListUsersWithEmail(ctx context.Context) ([]ProfileWithEmail, error)
	DeleteUsers(ctx context.Context, ids []string) error
}

// ServiceHourStore defines service-hour entry operations
type ServiceHourStore interface {
	ListEntriesForUser(ctx context.Context, userID string) ([]model.ServiceEntry, error)
	ListCompletedEntries(ctx context.Context) ([]model.ServiceEntry, error)
	ListSignedCompletedEntries(ctx context.Context) ([]model.ServiceEntry, error)
	GetEntry(ctx context.Context, id string) (*model.ServiceEntry, error)
	InsertEntry(ctx context.Context, entry model.ServiceEntry) error
	UpdateEntry(ctx context.Context, entry model.ServiceEntry) error
	DeleteEntry(ctx context.Context, id string) error
}

// EventStore defines calendar event operations
type EventStore interface {
	ListEvents(ctx context.Context) ([]model.Event, error)
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	InsertEvent(ctx context.Context, event model.Event) error
	UpdateEvent(ctx context.Context, event model.Event) error
	DeleteEvent(ctx context.Context, id string) error
}

// CommunicationStore defines post and reply operations. AppendReply must be
// an atomic server-side append so concurrent replies never overwrite each
// other.
type CommunicationStore interface {
	ListPosts(ctx context.Context) ([]model.Post, error)
	GetPost(ctx context.Context, id string) (*model.Post, error)
	InsertPost(ctx context.Context, post model.Post) error
	UpdatePostContent(ctx context.Context, id, title, description string) error
	AppendReply(ctx context.Context, postID string, reply model.Reply) error
	DeletePost(ctx context.Context, id string) error
}

// Database is the full store surface. The postgres implementation satisfies
// it; services depend on the narrow slices they need.
type Database interface {
	UserStore
	ProfileStore
	ServiceHourStore
	EventStore
	CommunicationStore
}
