package nhdata

import (
	"context"

	"git.newshub.network/newshub/newshub/src/db"
	"git.newshub.network/newshub/newshub/src/models"
	"git.newshub.network/newshub/newshub/src/oops"
)

type ArticlesQuery struct {
	// Ignored when empty
	ArticleIDs     []int
	Slugs          []string
	AuthorIDs      []int
	PublicationIDs []int
	Statuses       []models.ArticleStatus
	Types          []models.ArticleType

	IndependentOnly bool

	OrderByPublished bool
	Limit, Offset    int
}

type ArticleAndStuff struct {
	Article     models.Article      `db:"article"`
	Author      *models.User        `db:"author"`
	Publication *models.Publication `db:"publication"`
}

// FetchArticles returns articles visible to the current user:
//
//   - Published articles are visible to everyone, including anonymous users.
//   - Journalists additionally see all of their own articles.
//   - Editors additionally see all articles assigned to publications they edit.
func FetchArticles(ctx context.Context, dbConn db.ConnOrTx, currentUser *models.User, q ArticlesQuery) ([]*ArticleAndStuff, error) {
	var qb db.QueryBuilder
	qb.Add(
		`
		SELECT $columns
		FROM
			article
			LEFT JOIN nh_user AS author ON author.id = article.author_id
			LEFT JOIN publication ON publication.id = article.publication_id
		WHERE TRUE
		`,
	)
	if len(q.ArticleIDs) > 0 {
		qb.Add(`AND article.id = ANY ($?)`, q.ArticleIDs)
	}
	if len(q.Slugs) > 0 {
		qb.Add(`AND article.slug = ANY ($?)`, q.Slugs)
	}
	if len(q.AuthorIDs) > 0 {
		qb.Add(`AND article.author_id = ANY ($?)`, q.AuthorIDs)
	}
	if len(q.PublicationIDs) > 0 {
		qb.Add(`AND article.publication_id = ANY ($?)`, q.PublicationIDs)
	}
	if q.IndependentOnly {
		qb.Add(`AND article.publication_id IS NULL`)
	}
	if len(q.Statuses) > 0 {
		qb.Add(`AND article.status = ANY ($?)`, q.Statuses)
	}
	if len(q.Types) > 0 {
		qb.Add(`AND article.type = ANY ($?)`, q.Types)
	}

	addVisibility(&qb, currentUser)

	if q.OrderByPublished {
		qb.Add(`ORDER BY article.published_at DESC NULLS LAST, article.id DESC`)
	} else {
		qb.Add(`ORDER BY article.id DESC`)
	}
	if q.Limit > 0 {
		qb.Add(`LIMIT $? OFFSET $?`, q.Limit, q.Offset)
	}

	articles, err := db.Query[ArticleAndStuff](ctx, dbConn, qb.String(), qb.Args()...)
	if err != nil {
		return nil, oops.New(err, "failed to fetch articles")
	}

	return articles, nil
}

func addVisibility(qb *db.QueryBuilder, currentUser *models.User) {
	if currentUser == nil {
		qb.Add(`AND article.status = $?`, models.ArticleStatusPublished)
		return
	}

	switch currentUser.Role {
	case models.RoleJournalist:
		qb.Add(
			`AND (article.status = $? OR article.author_id = $?)`,
			models.ArticleStatusPublished, currentUser.ID,
		)
	case models.RoleEditor:
		qb.Add(
			`
			AND (
				article.status = $?
				OR article.publication_id IN (
					SELECT publication_id FROM publication_editor WHERE user_id = $?
				)
			)
			`,
			models.ArticleStatusPublished, currentUser.ID,
		)
	default:
		qb.Add(`AND article.status = $?`, models.ArticleStatusPublished)
	}
}

// FetchArticle fetches a single article by id, subject to the same visibility
// rules as FetchArticles. Returns db.NotFound for both missing and invisible
// articles.
func FetchArticle(ctx context.Context, dbConn db.ConnOrTx, currentUser *models.User, articleId int) (*ArticleAndStuff, error) {
	articles, err := FetchArticles(ctx, dbConn, currentUser, ArticlesQuery{ArticleIDs: []int{articleId}})
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, db.NotFound
	}
	return articles[0], nil
}

func FetchArticleBySlug(ctx context.Context, dbConn db.ConnOrTx, currentUser *models.User, slug string) (*ArticleAndStuff, error) {
	articles, err := FetchArticles(ctx, dbConn, currentUser, ArticlesQuery{Slugs: []string{slug}})
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, db.NotFound
	}
	return articles[0], nil
}

type CommentAndAuthor struct {
	Comment models.Comment `db:"comment"`
	Author  *models.User   `db:"author"`
}

// FetchComments returns an article's comments, newest first.
func FetchComments(ctx context.Context, dbConn db.ConnOrTx, articleId int) ([]*CommentAndAuthor, error) {
	comments, err := db.Query[CommentAndAuthor](ctx, dbConn,
		`
		SELECT $columns
		FROM
			comment
			LEFT JOIN nh_user AS author ON author.id = comment.user_id
		WHERE comment.article_id = $1
		ORDER BY comment.created_at DESC, comment.id DESC
		`,
		articleId,
	)
	if err != nil {
		return nil, oops.New(err, "failed to fetch comments")
	}

	return comments, nil
}

// FetchAverageRating returns the article's average score rounded to one
// decimal place, or 0 when nobody has rated it yet.
func FetchAverageRating(ctx context.Context, dbConn db.ConnOrTx, articleId int) (float64, error) {
	avg, err := db.QueryOneScalar[float64](ctx, dbConn,
		`
		SELECT COALESCE(ROUND(AVG(score)::numeric, 1), 0)::float8
		FROM rating
		WHERE article_id = $1
		`,
		articleId,
	)
	if err != nil {
		return 0, oops.New(err, "failed to fetch average rating")
	}

	return avg, nil
}
