package models

import (
	"errors"
	"time"
)

// A reader's interest in either a publication or a journalist - exactly one
// of the two, never both, never neither.
type Subscription struct {
	ID int `db:"id"`

	SubscriberID  int  `db:"subscriber_id"`
	PublicationID *int `db:"publication_id"`
	JournalistID  *int `db:"journalist_id"`

	CreatedAt time.Time `db:"created_at"`
}

var (
	ErrSubscriptionNoTarget   = errors.New("specify either a publication or a journalist to subscribe to")
	ErrSubscriptionBothTarget = errors.New("subscribe to either a publication or a journalist, not both")
)

// Enforces the exactly-one-target rule before the row ever reaches the
// database.
func (s *Subscription) Validate() error {
	if s.PublicationID == nil && s.JournalistID == nil {
		return ErrSubscriptionNoTarget
	}
	if s.PublicationID != nil && s.JournalistID != nil {
		return ErrSubscriptionBothTarget
	}
	return nil
}
