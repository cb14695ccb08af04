package models

import "time"

// A reader's comment under an article. Comments are fetched newest-first and
// cannot be edited or deleted.
type Comment struct {
	ID int `db:"id"`

	ArticleID int `db:"article_id"`
	UserID    int `db:"user_id"`

	Text string `db:"text"`

	CreatedAt time.Time `db:"created_at"`
}
