package models

const (
	MinRatingScore = 1
	MaxRatingScore = 5
)

// A 1-5 score a user gave an article. At most one row exists per
// (article, user) pair; re-rating updates the row in place.
type Rating struct {
	ID int `db:"id"`

	ArticleID int `db:"article_id"`
	UserID    int `db:"user_id"`

	Score int `db:"score"`
}
