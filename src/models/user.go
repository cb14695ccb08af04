package models

import (
	"fmt"
	"strings"
	"time"
)

type Role int

const (
	RoleReader     Role = 1 // Default for new accounts
	RoleJournalist Role = 2 // May author articles
	RoleEditor     Role = 3 // May run publications and review content
)

func (r Role) String() string {
	switch r {
	case RoleReader:
		return "reader"
	case RoleJournalist:
		return "journalist"
	case RoleEditor:
		return "editor"
	}
	return fmt.Sprintf("unknown role %d", int(r))
}

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(s) {
	case "reader":
		return RoleReader, nil
	case "journalist":
		return RoleJournalist, nil
	case "editor":
		return RoleEditor, nil
	}
	return 0, fmt.Errorf("unknown role '%s'", s)
}

type User struct {
	ID int `db:"id"`

	Email    string `db:"email"` // identity key, unique
	Password string `db:"password"`
	Role     Role   `db:"role"`

	FirstName   string `db:"first_name"`
	LastName    string `db:"last_name"`
	DisplayName string `db:"display_name"`

	DateJoined time.Time `db:"date_joined"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// The name shown on articles and comments: the chosen display name, falling
// back to the full name.
func (u *User) BestName() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.FullName()
}
