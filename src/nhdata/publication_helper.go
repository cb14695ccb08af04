package nhdata

import (
	"context"
	"errors"
	"strings"

	"git.newshub.network/newshub/newshub/src/db"
	"git.newshub.network/newshub/newshub/src/models"
	"git.newshub.network/newshub/newshub/src/oops"
	"git.newshub.network/newshub/newshub/src/perms"
)

type PublicationsQuery struct {
	// Ignored when empty
	PublicationIDs []int
	EditorIDs      []int
	JournalistIDs  []int

	Limit, Offset int
}

func FetchPublications(ctx context.Context, dbConn db.ConnOrTx, q PublicationsQuery) ([]*models.Publication, error) {
	var qb db.QueryBuilder
	qb.Add(
		`
		SELECT $columns
		FROM publication
		WHERE TRUE
		`,
	)
	if len(q.PublicationIDs) > 0 {
		qb.Add(`AND publication.id = ANY ($?)`, q.PublicationIDs)
	}
	if len(q.EditorIDs) > 0 {
		qb.Add(
			`
			AND publication.id IN (
				SELECT publication_id FROM publication_editor WHERE user_id = ANY ($?)
			)
			`,
			q.EditorIDs,
		)
	}
	if len(q.JournalistIDs) > 0 {
		qb.Add(
			`
			AND publication.id IN (
				SELECT publication_id FROM publication_journalist WHERE user_id = ANY ($?)
			)
			`,
			q.JournalistIDs,
		)
	}
	qb.Add(`ORDER BY publication.name ASC`)
	if q.Limit > 0 {
		qb.Add(`LIMIT $? OFFSET $?`, q.Limit, q.Offset)
	}

	pubs, err := db.Query[models.Publication](ctx, dbConn, qb.String(), qb.Args()...)
	if err != nil {
		return nil, oops.New(err, "failed to fetch publications")
	}

	return pubs, nil
}

func FetchPublication(ctx context.Context, dbConn db.ConnOrTx, pubId int) (*models.Publication, error) {
	pubs, err := FetchPublications(ctx, dbConn, PublicationsQuery{PublicationIDs: []int{pubId}})
	if err != nil {
		return nil, err
	}
	if len(pubs) == 0 {
		return nil, db.NotFound
	}
	return pubs[0], nil
}

func UserIsPublicationEditor(ctx context.Context, dbConn db.ConnOrTx, userId int, pubId int) (bool, error) {
	isEditor, err := db.QueryOneScalar[bool](ctx, dbConn,
		`
		SELECT COUNT(*) > 0
		FROM publication_editor
		WHERE user_id = $1 AND publication_id = $2
		`,
		userId, pubId,
	)
	if err != nil {
		return false, oops.New(err, "failed to check editor membership")
	}
	return isEditor, nil
}

func UserIsPublicationJournalist(ctx context.Context, dbConn db.ConnOrTx, userId int, pubId int) (bool, error) {
	isMember, err := db.QueryOneScalar[bool](ctx, dbConn,
		`
		SELECT COUNT(*) > 0
		FROM publication_journalist
		WHERE user_id = $1 AND publication_id = $2
		`,
		userId, pubId,
	)
	if err != nil {
		return false, oops.New(err, "failed to check journalist membership")
	}
	return isMember, nil
}

type PublicationInput struct {
	Name        string
	Description string
}

// CreatePublication creates a publication and makes the creator its first
// editor, in one transaction.
func CreatePublication(ctx context.Context, dbConn db.ConnOrTx, actor *models.User, input PublicationInput) (*models.Publication, error) {
	if !perms.Can(actor, perms.ActionCreate, perms.PublicationTarget{}) {
		return nil, ErrUnauthorized
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ValidationError{Field: "name", Msg: "must not be empty"}
	}

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return nil, oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	pub, err := db.QueryOne[models.Publication](ctx, tx,
		`
		INSERT INTO publication (name, description, created_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT DO NOTHING
		RETURNING $columns
		`,
		name, input.Description,
	)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			// Name is already taken.
			return nil, ErrConflict
		}
		return nil, oops.New(err, "failed to create publication")
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO publication_editor (publication_id, user_id) VALUES ($1, $2)`,
		pub.ID, actor.ID,
	)
	if err != nil {
		return nil, oops.New(err, "failed to add creator as editor")
	}

	err = tx.Commit(ctx)
	if err != nil {
		return nil, oops.New(err, "failed to commit publication")
	}

	return pub, nil
}

func UpdatePublication(ctx context.Context, dbConn db.ConnOrTx, actor *models.User, pubId int, input PublicationInput) (*models.Publication, error) {
	isEditor := false
	if actor != nil {
		var err error
		isEditor, err = UserIsPublicationEditor(ctx, dbConn, actor.ID, pubId)
		if err != nil {
			return nil, err
		}
	}
	if !perms.Can(actor, perms.ActionUpdate, perms.PublicationTarget{ActorIsEditor: isEditor}) {
		return nil, ErrUnauthorized
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ValidationError{Field: "name", Msg: "must not be empty"}
	}

	pub, err := db.QueryOne[models.Publication](ctx, dbConn,
		`
		UPDATE publication
		SET name = $1, description = $2
		WHERE id = $3
		RETURNING $columns
		`,
		name, input.Description, pubId,
	)
	if err != nil {
		return nil, oops.New(err, "failed to update publication")
	}

	return pub, nil
}

// DeletePublication removes a publication. Memberships, join requests and
// subscriptions referencing it go with it via ON DELETE CASCADE; articles
// keep existing but become independent (publication_id set NULL by the
// schema), matching what happens to an orphaned draft.
func DeletePublication(ctx context.Context, dbConn db.ConnOrTx, actor *models.User, pubId int) error {
	isEditor := false
	if actor != nil {
		var err error
		isEditor, err = UserIsPublicationEditor(ctx, dbConn, actor.ID, pubId)
		if err != nil {
			return err
		}
	}
	if !perms.Can(actor, perms.ActionDelete, perms.PublicationTarget{ActorIsEditor: isEditor}) {
		return ErrUnauthorized
	}

	tag, err := dbConn.Exec(ctx, `DELETE FROM publication WHERE id = $1`, pubId)
	if err != nil {
		return oops.New(err, "failed to delete publication")
	}
	if tag.RowsAffected() == 0 {
		return db.NotFound
	}

	return nil
}
