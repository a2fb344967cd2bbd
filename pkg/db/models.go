package db

import (
	"time"

	"github.com/bibnhs/chapter-portal/pkg/core/model"
)

// UserAccount is an authentication record. Profile data lives separately in
// the profiles table under the same ID.
type UserAccount struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// ProfileWithEmail is the privileged roster row: a profile joined with the
// account email. Ordinary member reads never see other members' emails; the
// join runs only behind the leader/admin aggregate queries.
type ProfileWithEmail struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Grade     *int
	Role      model.Role
	Approved  bool
}
