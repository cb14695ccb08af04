package nhdata

import (
	"context"
	"errors"
	"strings"
	"time"

	"git.newshub.network/newshub/newshub/src/db"
	"git.newshub.network/newshub/newshub/src/models"
	"git.newshub.network/newshub/newshub/src/oops"
	"git.newshub.network/newshub/newshub/src/perms"
)

type JoinRequestsQuery struct {
	// Ignored when empty
	JoinRequestIDs []int
	PublicationIDs []int
	UserIDs        []int
	Statuses       []models.JoinRequestStatus
}

type JoinRequestAndStuff struct {
	JoinRequest models.JoinRequest  `db:"join_request"`
	User        *models.User        `db:"requester"`
	Publication *models.Publication `db:"publication"`
}

func FetchJoinRequests(ctx context.Context, dbConn db.ConnOrTx, q JoinRequestsQuery) ([]*JoinRequestAndStuff, error) {
	var qb db.QueryBuilder
	qb.Add(
		`
		SELECT $columns
		FROM
			join_request
			LEFT JOIN nh_user AS requester ON requester.id = join_request.user_id
			LEFT JOIN publication ON publication.id = join_request.publication_id
		WHERE TRUE
		`,
	)
	if len(q.JoinRequestIDs) > 0 {
		qb.Add(`AND join_request.id = ANY ($?)`, q.JoinRequestIDs)
	}
	if len(q.PublicationIDs) > 0 {
		qb.Add(`AND join_request.publication_id = ANY ($?)`, q.PublicationIDs)
	}
	if len(q.UserIDs) > 0 {
		qb.Add(`AND join_request.user_id = ANY ($?)`, q.UserIDs)
	}
	if len(q.Statuses) > 0 {
		qb.Add(`AND join_request.status = ANY ($?)`, q.Statuses)
	}
	qb.Add(`ORDER BY join_request.created_at DESC, join_request.id DESC`)

	reqs, err := db.Query[JoinRequestAndStuff](ctx, dbConn, qb.String(), qb.Args()...)
	if err != nil {
		return nil, oops.New(err, "failed to fetch join requests")
	}

	return reqs, nil
}

func FetchJoinRequest(ctx context.Context, dbConn db.ConnOrTx, id int) (*JoinRequestAndStuff, error) {
	reqs, err := FetchJoinRequests(ctx, dbConn, JoinRequestsQuery{JoinRequestIDs: []int{id}})
	if err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return nil, db.NotFound
	}
	return reqs[0], nil
}

// CreateJoinRequest files a journalist's request to join a publication. At
// most one pending request per (journalist, publication) pair can exist; a
// partial unique index enforces this even against concurrent requests, and
// losing that race yields ErrConflict. Journalists who are already members
// get ErrConflict as well.
func CreateJoinRequest(ctx context.Context, dbConn db.ConnOrTx, actor *models.User, pubId int, message string) (*models.JoinRequest, error) {
	if !perms.Can(actor, perms.ActionCreate, perms.JoinRequestTarget{}) {
		return nil, ErrUnauthorized
	}

	if _, err := FetchPublication(ctx, dbConn, pubId); err != nil {
		return nil, err
	}

	alreadyMember, err := UserIsPublicationJournalist(ctx, dbConn, actor.ID, pubId)
	if err != nil {
		return nil, err
	}
	if alreadyMember {
		return nil, ErrConflict
	}

	req, err := db.QueryOne[models.JoinRequest](ctx, dbConn,
		`
		INSERT INTO join_request (publication_id, user_id, message, status, created_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, publication_id) WHERE status = 1 DO NOTHING
		RETURNING $columns
		`,
		pubId, actor.ID, strings.TrimSpace(message), models.JoinRequestPending,
	)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			// The insert hit the pending-request index and did nothing.
			return nil, ErrConflict
		}
		return nil, oops.New(err, "failed to create join request")
	}

	return req, nil
}

// ApproveJoinRequest accepts a pending request and adds the journalist to
// the publication in the same transaction.
func ApproveJoinRequest(ctx context.Context, dbConn db.ConnOrTx, actor *models.User, requestId int) (*models.JoinRequest, error) {
	return reviewJoinRequest(ctx, dbConn, actor, requestId, models.JoinRequestApproved, "", perms.ActionApprove)
}

// RejectJoinRequest declines a pending request, recording the editor's
// feedback for the journalist.
func RejectJoinRequest(ctx context.Context, dbConn db.ConnOrTx, actor *models.User, requestId int, feedback string) (*models.JoinRequest, error) {
	return reviewJoinRequest(ctx, dbConn, actor, requestId, models.JoinRequestRejected, feedback, perms.ActionReject)
}

func reviewJoinRequest(
	ctx context.Context,
	dbConn db.ConnOrTx,
	actor *models.User,
	requestId int,
	newStatus models.JoinRequestStatus,
	feedback string,
	action perms.Action,
) (*models.JoinRequest, error) {
	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return nil, oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	req, err := db.QueryOne[models.JoinRequest](ctx, tx,
		`
		SELECT $columns
		FROM join_request
		WHERE id = $1
		FOR UPDATE
		`,
		requestId,
	)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return nil, db.NotFound
		}
		return nil, oops.New(err, "failed to fetch join request")
	}

	target := perms.JoinRequestTarget{}
	if actor != nil {
		target.ActorIsPublicationEditor, err = UserIsPublicationEditor(ctx, tx, actor.ID, req.PublicationID)
		if err != nil {
			return nil, err
		}
	}
	if !perms.Can(actor, action, target) {
		return nil, ErrUnauthorized
	}

	if req.Status != models.JoinRequestPending {
		return nil, ErrInvalidState
	}

	now := time.Now()
	req.Status = newStatus
	req.Feedback = feedback
	req.ReviewedAt = &now

	_, err = tx.Exec(ctx,
		`
		UPDATE join_request
		SET status = $1, feedback = $2, reviewed_at = $3
		WHERE id = $4
		`,
		req.Status, req.Feedback, req.ReviewedAt, req.ID,
	)
	if err != nil {
		return nil, oops.New(err, "failed to update join request")
	}

	if newStatus == models.JoinRequestApproved {
		_, err = tx.Exec(ctx,
			`
			INSERT INTO publication_journalist (publication_id, user_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
			`,
			req.PublicationID, req.UserID,
		)
		if err != nil {
			return nil, oops.New(err, "failed to add journalist to publication")
		}
	}

	err = tx.Commit(ctx)
	if err != nil {
		return nil, oops.New(err, "failed to commit join request review")
	}

	return req, nil
}
