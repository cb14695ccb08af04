package models

import (
	"fmt"
	"time"
)

type JoinRequestStatus int

const (
	JoinRequestPending  JoinRequestStatus = 1
	JoinRequestApproved JoinRequestStatus = 2 // terminal
	JoinRequestRejected JoinRequestStatus = 3 // terminal
)

func (s JoinRequestStatus) String() string {
	switch s {
	case JoinRequestPending:
		return "pending"
	case JoinRequestApproved:
		return "approved"
	case JoinRequestRejected:
		return "rejected"
	}
	return fmt.Sprintf("unknown join request status %d", int(s))
}

// A journalist's petition to join a publication's journalist set. Editors of
// the publication approve or reject it. At most one pending request may exist
// per (user, publication) pair.
type JoinRequest struct {
	ID int `db:"id"`

	PublicationID int `db:"publication_id"`
	UserID        int `db:"user_id"`

	Message  string            `db:"message"`
	Status   JoinRequestStatus `db:"status"`
	Feedback string            `db:"feedback"`

	CreatedAt  time.Time  `db:"created_at"`
	ReviewedAt *time.Time `db:"reviewed_at"`
}
