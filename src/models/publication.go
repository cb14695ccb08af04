package models

import "time"

// A publication is a named outlet with two disjoint membership sets: editors,
// who review content and manage membership, and journalists, who may author
// content under it. Membership lives in the publication_editor and
// publication_journalist join tables.
type Publication struct {
	ID int `db:"id"`

	Name        string `db:"name"` // unique
	Description string `db:"description"`

	CreatedAt time.Time `db:"created_at"`
}
