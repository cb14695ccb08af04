package nhdata

import (
	"context"
	"strings"

	"git.newshub.network/newshub/newshub/src/db"
	"git.newshub.network/newshub/newshub/src/models"
	"git.newshub.network/newshub/newshub/src/oops"
)

// CommentOnArticle posts a comment under an article. Commenting requires
// only that the article is visible to the actor.
func CommentOnArticle(ctx context.Context, dbConn db.ConnOrTx, actor *models.User, articleId int, text string) (*models.Comment, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ValidationError{Field: "text", Msg: "must not be empty"}
	}

	if _, err := FetchArticle(ctx, dbConn, actor, articleId); err != nil {
		return nil, err
	}

	comment, err := db.QueryOne[models.Comment](ctx, dbConn,
		`
		INSERT INTO comment (article_id, user_id, text, created_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		RETURNING $columns
		`,
		articleId, actor.ID, text,
	)
	if err != nil {
		return nil, oops.New(err, "failed to create comment")
	}

	return comment, nil
}

// RateArticle records the actor's score for an article. Rating the same
// article again replaces the previous score, so one row per (article, user)
// pair exists at all times. Authors cannot rate their own work.
func RateArticle(ctx context.Context, dbConn db.ConnOrTx, actor *models.User, articleId int, score int) (*models.Rating, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	if score < models.MinRatingScore || score > models.MaxRatingScore {
		return nil, ValidationError{Field: "score", Msg: "must be between 1 and 5"}
	}

	article, err := FetchArticle(ctx, dbConn, actor, articleId)
	if err != nil {
		return nil, err
	}
	if article.Article.AuthorID != nil && *article.Article.AuthorID == actor.ID {
		return nil, ErrUnauthorized
	}

	rating, err := db.QueryOne[models.Rating](ctx, dbConn,
		`
		INSERT INTO rating (article_id, user_id, score)
		VALUES ($1, $2, $3)
		ON CONFLICT (article_id, user_id) DO UPDATE SET score = EXCLUDED.score
		RETURNING $columns
		`,
		articleId, actor.ID, score,
	)
	if err != nil {
		return nil, oops.New(err, "failed to save rating")
	}

	return rating, nil
}
