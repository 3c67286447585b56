package domain

import (
	"slices"
	"time"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RolePatient   Role = "patient"
	RoleDoctor    Role = "doctor"
)

var Roles = []Role{RoleAdmin, RoleUser, RoleModerator, RolePatient, RoleDoctor}

func (r Role) Valid() bool { return slices.Contains(Roles, r) }

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) Valid() bool { return s == StatusActive || s == StatusInactive }

// ProviderEmail marks accounts that log in with a local password.
// Any other provider value names an external identity service.
const ProviderEmail = "email"

type User struct {
	ID        string
	Email     *string
	Password  string
	Provider  string
	SocialID  *string
	FirstName *string
	LastName  *string
	Role      Role
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) EmailValue() string {
	if u == nil || u.Email == nil {
		return ""
	}
	return *u.Email
}

// UserPatch carries a partial update. Nil fields are left untouched;
// ClearEmail sets the email to null.
type UserPatch struct {
	Email      *string
	ClearEmail bool
	Password   *string
	Provider   *string
	SocialID   *string
	FirstName  *string
	LastName   *string
	Role       *Role
	Status     *Status
}
