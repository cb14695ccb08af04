package nhdata

import (
	"context"
	"strings"
	"time"

	"git.newshub.network/newshub/newshub/src/db"
	"git.newshub.network/newshub/newshub/src/models"
	"git.newshub.network/newshub/newshub/src/oops"
	"git.newshub.network/newshub/newshub/src/perms"
)

// PublishNotifier gets told about articles that just transitioned into the
// published state. It is called after the surrounding transaction commits, so
// implementations see exactly the committed article, exactly once per
// transition.
type PublishNotifier interface {
	ArticlePublished(ctx context.Context, article *models.Article, author *models.User)
}

type ArticleInput struct {
	Title         string
	Slug          string // generated from the title when empty
	Content       string
	Type          models.ArticleType
	PublicationID *int
}

func (input *ArticleInput) validate() error {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return ValidationError{Field: "title", Msg: "must not be empty"}
	}
	if strings.TrimSpace(input.Content) == "" {
		return ValidationError{Field: "content", Msg: "must not be empty"}
	}
	if input.Type != models.ArticleTypeArticle && input.Type != models.ArticleTypeNewsletter {
		return ValidationError{Field: "type", Msg: "unknown article type"}
	}
	return nil
}

// CreateArticle writes a new article on behalf of the acting journalist.
// Independent articles go live immediately; articles assigned to a
// publication land in pending approval and wait for one of its editors.
func CreateArticle(ctx context.Context, dbConn db.ConnOrTx, actor *models.User, input ArticleInput, notifier PublishNotifier) (*models.Article, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return nil, oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	target := perms.ArticleTarget{HasPublication: input.PublicationID != nil}
	if actor != nil {
		target.AuthorID = &actor.ID
		if input.PublicationID != nil {
			target.ActorIsPublicationJournalist, err = UserIsPublicationJournalist(ctx, tx, actor.ID, *input.PublicationID)
			if err != nil {
				return nil, err
			}
		}
	}
	if !perms.Can(actor, perms.ActionCreate, target) {
		return nil, ErrUnauthorized
	}

	now := time.Now()

	article := models.Article{
		Title:         input.Title,
		Slug:          input.Slug,
		Content:       input.Content,
		Type:          input.Type,
		AuthorID:      &actor.ID,
		PublicationID: input.PublicationID,
		CreatedAt:     now,
	}
	if article.Slug == "" {
		article.Slug = models.GenerateSlug(article.Title, now)
	}
	article.ResolveOnSave(now)

	saved, err := db.QueryOne[models.Article](ctx, tx,
		`
		INSERT INTO article (title, slug, content, type, status, author_id, publication_id, feedback, created_at, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING $columns
		`,
		article.Title, article.Slug, article.Content, article.Type, article.Status,
		article.AuthorID, article.PublicationID, article.Feedback, article.CreatedAt, article.PublishedAt,
	)
	if err != nil {
		return nil, oops.New(err, "failed to create article")
	}

	err = tx.Commit(ctx)
	if err != nil {
		return nil, oops.New(err, "failed to commit article")
	}

	if saved.Status == models.ArticleStatusPublished && notifier != nil {
		notifier.ArticlePublished(ctx, saved, actor)
	}

	return saved, nil
}

// UpdateArticle edits an article's content. Edits re-run the resolution rule:
// a published independent article stays published, while anything assigned to
// a publication drops back to pending approval and must be re-approved.
func UpdateArticle(ctx context.Context, dbConn db.ConnOrTx, actor *models.User, articleId int, input ArticleInput, notifier PublishNotifier) (*models.Article, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return nil, oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	article, err := fetchArticleForUpdate(ctx, tx, actor, articleId)
	if err != nil {
		return nil, err
	}

	target, err := articleFacts(ctx, tx, actor, article)
	if err != nil {
		return nil, err
	}
	if !perms.Can(actor, perms.ActionUpdate, target) {
		return nil, ErrUnauthorized
	}

	// Reassigning between publications requires membership in the new one
	// too, unless the actor edits it.
	if input.PublicationID != nil && !intPtrEqual(input.PublicationID, article.PublicationID) {
		ok, err := UserIsPublicationJournalist(ctx, tx, actor.ID, *input.PublicationID)
		if err != nil {
			return nil, err
		}
		if !ok && actor.Role == models.RoleEditor {
			ok, err = UserIsPublicationEditor(ctx, tx, actor.ID, *input.PublicationID)
			if err != nil {
				return nil, err
			}
		}
		if !ok {
			return nil, ErrUnauthorized
		}
	}

	wasPublished := article.Status == models.ArticleStatusPublished

	article.Title = input.Title
	article.Content = input.Content
	article.Type = input.Type
	article.PublicationID = input.PublicationID
	if input.Slug != "" {
		article.Slug = input.Slug
	}
	article.ResolveOnSave(time.Now())

	saved, err := saveArticle(ctx, tx, article)
	if err != nil {
		return nil, err
	}

	var author *models.User
	newlyPublished := !wasPublished && saved.Status == models.ArticleStatusPublished
	if newlyPublished && saved.AuthorID != nil {
		author, err = FetchUser(ctx, tx, *saved.AuthorID)
		if err != nil {
			return nil, err
		}
	}

	err = tx.Commit(ctx)
	if err != nil {
		return nil, oops.New(err, "failed to commit article update")
	}

	if newlyPublished && notifier != nil {
		notifier.ArticlePublished(ctx, saved, author)
	}

	return saved, nil
}

// SubmitForApproval moves a draft or rejected publication article into
// pending approval. For independent articles there is no approval step, so
// the call succeeds without doing anything and reports submitted = false.
func SubmitForApproval(ctx context.Context, dbConn db.ConnOrTx, actor *models.User, articleId int) (*models.Article, bool, error) {
	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return nil, false, oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	article, err := fetchArticleForUpdate(ctx, tx, actor, articleId)
	if err != nil {
		return nil, false, err
	}

	target, err := articleFacts(ctx, tx, actor, article)
	if err != nil {
		return nil, false, err
	}
	if !perms.Can(actor, perms.ActionSubmit, target) {
		return nil, false, ErrUnauthorized
	}

	if article.IsIndependent() {
		return article, false, nil
	}

	switch article.Status {
	case models.ArticleStatusDraft, models.ArticleStatusRejected:
		// ok
	case models.ArticleStatusPendingApproval:
		return article, false, nil
	default:
		return nil, false, ErrInvalidState
	}

	article.Status = models.ArticleStatusPendingApproval

	saved, err := saveArticle(ctx, tx, article)
	if err != nil {
		return nil, false, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return nil, false, oops.New(err, "failed to commit submission")
	}

	return saved, true, nil
}

// ApproveArticle publishes a publication article and clears any reviewer
// feedback left over from an earlier rejection.
func ApproveArticle(ctx context.Context, dbConn db.ConnOrTx, actor *models.User, articleId int, notifier PublishNotifier) (*models.Article, error) {
	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return nil, oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	article, err := fetchArticleForUpdate(ctx, tx, actor, articleId)
	if err != nil {
		return nil, err
	}

	target, err := articleFacts(ctx, tx, actor, article)
	if err != nil {
		return nil, err
	}
	if !perms.Can(actor, perms.ActionApprove, target) {
		return nil, ErrUnauthorized
	}

	if article.Status == models.ArticleStatusPublished {
		return article, nil
	}

	now := time.Now()
	article.Status = models.ArticleStatusPublished
	article.Feedback = ""
	article.PublishedAt = &now

	saved, err := saveArticle(ctx, tx, article)
	if err != nil {
		return nil, err
	}

	var author *models.User
	if saved.AuthorID != nil {
		author, err = FetchUser(ctx, tx, *saved.AuthorID)
		if err != nil {
			return nil, err
		}
	}

	err = tx.Commit(ctx)
	if err != nil {
		return nil, oops.New(err, "failed to commit approval")
	}

	if notifier != nil {
		notifier.ArticlePublished(ctx, saved, author)
	}

	return saved, nil
}

// RejectArticle sends a draft or pending article back to its author with the
// editor's feedback attached.
func RejectArticle(ctx context.Context, dbConn db.ConnOrTx, actor *models.User, articleId int, feedback string) (*models.Article, error) {
	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return nil, oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	article, err := fetchArticleForUpdate(ctx, tx, actor, articleId)
	if err != nil {
		return nil, err
	}

	target, err := articleFacts(ctx, tx, actor, article)
	if err != nil {
		return nil, err
	}
	if !perms.Can(actor, perms.ActionReject, target) {
		return nil, ErrUnauthorized
	}

	switch article.Status {
	case models.ArticleStatusDraft, models.ArticleStatusPendingApproval:
		// ok
	default:
		return nil, ErrInvalidState
	}

	article.Status = models.ArticleStatusRejected
	article.Feedback = feedback

	saved, err := saveArticle(ctx, tx, article)
	if err != nil {
		return nil, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return nil, oops.New(err, "failed to commit rejection")
	}

	return saved, nil
}

func DeleteArticle(ctx context.Context, dbConn db.ConnOrTx, actor *models.User, articleId int) error {
	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	article, err := fetchArticleForUpdate(ctx, tx, actor, articleId)
	if err != nil {
		return err
	}

	target, err := articleFacts(ctx, tx, actor, article)
	if err != nil {
		return err
	}
	if !perms.Can(actor, perms.ActionDelete, target) {
		return ErrUnauthorized
	}

	_, err = tx.Exec(ctx, `DELETE FROM article WHERE id = $1`, articleId)
	if err != nil {
		return oops.New(err, "failed to delete article")
	}

	err = tx.Commit(ctx)
	if err != nil {
		return oops.New(err, "failed to commit deletion")
	}

	return nil
}

// fetchArticleForUpdate grabs the article row with a row lock so that
// concurrent lifecycle operations on the same article serialize instead of
// clobbering each other. The actor's visibility rules apply, so an id the
// actor cannot read reads as NotFound instead of revealing that the row
// exists.
func fetchArticleForUpdate(ctx context.Context, tx db.ConnOrTx, actor *models.User, articleId int) (*models.Article, error) {
	qb := articleForUpdateQuery(actor, articleId)
	article, err := db.QueryOne[models.Article](ctx, tx, qb.String(), qb.Args()...)
	if err != nil {
		if err == db.NotFound {
			return nil, db.NotFound
		}
		return nil, oops.New(err, "failed to fetch article for update")
	}
	return article, nil
}

func articleForUpdateQuery(actor *models.User, articleId int) *db.QueryBuilder {
	var qb db.QueryBuilder
	qb.Add(
		`
		SELECT $columns
		FROM article
		WHERE article.id = $?
		`,
		articleId,
	)
	addVisibility(&qb, actor)
	qb.Add(`FOR UPDATE`)
	return &qb
}

func saveArticle(ctx context.Context, tx db.ConnOrTx, article *models.Article) (*models.Article, error) {
	saved, err := db.QueryOne[models.Article](ctx, tx,
		`
		UPDATE article
		SET
			title = $1,
			slug = $2,
			content = $3,
			type = $4,
			status = $5,
			publication_id = $6,
			feedback = $7,
			published_at = $8,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $9
		RETURNING $columns
		`,
		article.Title, article.Slug, article.Content, article.Type, article.Status,
		article.PublicationID, article.Feedback, article.PublishedAt, article.ID,
	)
	if err != nil {
		return nil, oops.New(err, "failed to save article")
	}
	return saved, nil
}

// articleFacts resolves the membership facts the permission table needs for
// an article decision.
func articleFacts(ctx context.Context, dbConn db.ConnOrTx, actor *models.User, article *models.Article) (perms.ArticleTarget, error) {
	target := perms.ArticleTarget{
		AuthorID:       article.AuthorID,
		HasPublication: article.PublicationID != nil,
	}
	if actor != nil && article.PublicationID != nil {
		var err error
		target.ActorIsPublicationEditor, err = UserIsPublicationEditor(ctx, dbConn, actor.ID, *article.PublicationID)
		if err != nil {
			return perms.ArticleTarget{}, err
		}
		target.ActorIsPublicationJournalist, err = UserIsPublicationJournalist(ctx, dbConn, actor.ID, *article.PublicationID)
		if err != nil {
			return perms.ArticleTarget{}, err
		}
	}
	return target, nil
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
