package model

import "time"

type Role string

const (
	RoleMember Role = "member"
	RoleLeader Role = "leader"
	RoleAdmin  Role = "admin"
)

func (r Role) IsValid() bool {
	return r == RoleMember || r == RoleLeader || r == RoleAdmin
}

// CanManageContent reports whether the role may create, edit, and delete
// posts and events.
func (r Role) CanManageContent() bool {
	return r == RoleLeader || r == RoleAdmin
}

// Category classifies the origin of a service-hour entry
type Category string

const (
	CategoryInSchool  Category = "in_school"
	CategoryOutSchool Category = "out_school"
	CategoryRedHook   Category = "red_hook"
)

// Categories lists every valid category in display order
var Categories = []Category{CategoryInSchool, CategoryOutSchool, CategoryRedHook}

func (c Category) IsValid() bool {
	return c == CategoryInSchool || c == CategoryOutSchool || c == CategoryRedHook
}

func (c Category) Label() string {
	switch c {
	case CategoryInSchool:
		return "In-School"
	case CategoryOutSchool:
		return "Out-of-School"
	case CategoryRedHook:
		return "Red Hook"
	}
	return string(c)
}

// EntryStatus is the lifecycle status of a service-hour entry
type EntryStatus string

const (
	StatusInProgress EntryStatus = "in_progress"
	StatusCompleted  EntryStatus = "completed"
)

func (s EntryStatus) IsValid() bool {
	return s == StatusInProgress || s == StatusCompleted
}

// Grade bounds for non-admin members
const (
	MinGrade = 10
	MaxGrade = 12
)

func ValidGrade(g int) bool {
	return g >= MinGrade && g <= MaxGrade
}

// Trimester bounds; service hours are tracked against trimesters 1-3
const (
	MinTrimester = 1
	MaxTrimester = 3
)

func ValidTrimester(t int) bool {
	return t >= MinTrimester && t <= MaxTrimester
}

// Profile represents a chapter member's profile. The ID equals the
// authentication identity. Grade is nil for admins.
type Profile struct {
	ID        string
	FirstName string
	LastName  string
	Grade     *int
	Role      Role
	Approved  bool
}

// FullName returns "first last" as shown throughout the UI
func (p Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}

// ServiceEntry represents one logged service-hour record. Nullable fields
// stay nil while the entry is a draft.
type ServiceEntry struct {
	ID             string
	UserID         string
	Hours          *float64
	Category       Category
	Trimester      *int
	Date           *time.Time
	Description    string
	SupervisorName string
	Signature      string // inline data URL, empty when unsigned
	Status         EntryStatus
	CreatedAt      time.Time
}

// EventCategory classifies calendar events
type EventCategory string

const (
	EventMandatory   EventCategory = "mandatory"
	EventInSchool    EventCategory = "in-school"
	EventOutOfSchool EventCategory = "out-of-school"
	EventRedHook     EventCategory = "red-hook"
	EventOther       EventCategory = "other"
)

func (c EventCategory) IsValid() bool {
	switch c {
	case EventMandatory, EventInSchool, EventOutOfSchool, EventRedHook, EventOther:
		return true
	}
	return false
}

// Event is a single-dated calendar event, visible to all approved members
type Event struct {
	ID          string
	Title       string
	Category    EventCategory
	Description string
	EventDate   time.Time
	CreatedBy   string
}

// Reply is one entry in a post's append-only reply log. Replies are never
// edited or removed once posted.
type Reply struct {
	Content   string    `json:"content"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Post is a community post with its ordered reply log
type Post struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Replies     []Reply
	CreatedAt   time.Time
}
