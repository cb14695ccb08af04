package nhdata

import (
	"context"
	"errors"
	"strings"

	"git.newshub.network/newshub/newshub/src/auth"
	"git.newshub.network/newshub/newshub/src/db"
	"git.newshub.network/newshub/newshub/src/email"
	"git.newshub.network/newshub/newshub/src/models"
	"git.newshub.network/newshub/newshub/src/oops"
)

type UsersQuery struct {
	// Ignored when empty
	UserIDs []int
	Emails  []string
	Roles   []models.Role
}

func FetchUsers(ctx context.Context, dbConn db.ConnOrTx, q UsersQuery) ([]*models.User, error) {
	var qb db.QueryBuilder
	qb.Add(
		`
		SELECT $columns
		FROM nh_user
		WHERE TRUE
		`,
	)
	if len(q.UserIDs) > 0 {
		qb.Add(`AND nh_user.id = ANY ($?)`, q.UserIDs)
	}
	if len(q.Emails) > 0 {
		lowered := make([]string, len(q.Emails))
		for i, e := range q.Emails {
			lowered[i] = strings.ToLower(e)
		}
		qb.Add(`AND LOWER(nh_user.email) = ANY ($?)`, lowered)
	}
	if len(q.Roles) > 0 {
		qb.Add(`AND nh_user.role = ANY ($?)`, q.Roles)
	}
	qb.Add(`ORDER BY nh_user.id ASC`)

	users, err := db.Query[models.User](ctx, dbConn, qb.String(), qb.Args()...)
	if err != nil {
		return nil, oops.New(err, "failed to fetch users")
	}

	return users, nil
}

// FetchUser fetches a single user. Returns db.NotFound if no user matches.
func FetchUser(ctx context.Context, dbConn db.ConnOrTx, userId int) (*models.User, error) {
	users, err := FetchUsers(ctx, dbConn, UsersQuery{UserIDs: []int{userId}})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, db.NotFound
	}
	return users[0], nil
}

func FetchUserByEmail(ctx context.Context, dbConn db.ConnOrTx, emailAddr string) (*models.User, error) {
	users, err := FetchUsers(ctx, dbConn, UsersQuery{Emails: []string{emailAddr}})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, db.NotFound
	}
	return users[0], nil
}

type CreateUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// CreateUser registers a new account. New accounts always start out as
// readers; only an existing flow (SetUserRole) can promote them.
func CreateUser(ctx context.Context, dbConn db.ConnOrTx, input CreateUserInput) (*models.User, error) {
	addr := strings.TrimSpace(strings.ToLower(input.Email))
	if !email.IsEmail(addr) {
		return nil, ValidationError{Field: "email", Msg: "not a valid email address"}
	}
	if len(input.Password) < 8 {
		return nil, ValidationError{Field: "password", Msg: "must be at least 8 characters"}
	}

	hashed := auth.HashPassword(input.Password)

	userId, err := db.QueryOneScalar[int](ctx, dbConn,
		`
		INSERT INTO nh_user (email, password, role, first_name, last_name, date_joined)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
		ON CONFLICT DO NOTHING
		RETURNING id
		`,
		addr, hashed.String(), models.RoleReader, input.FirstName, input.LastName,
	)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return nil, ErrConflict
		}
		return nil, oops.New(err, "failed to create user")
	}

	return FetchUser(ctx, dbConn, userId)
}

// SetUserRole changes a user's role and cleans up relations that no longer
// make sense for the new role, all in one transaction. Demoting a journalist
// removes their publication memberships and any pending join requests;
// demoting anyone to reader also drops nothing extra since readers keep
// their subscriptions only while they are readers.
func SetUserRole(ctx context.Context, dbConn db.ConnOrTx, userId int, role models.Role) (*models.User, error) {
	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return nil, oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	user, err := FetchUser(ctx, tx, userId)
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		return user, nil
	}

	if user.Role == models.RoleReader {
		// Readers keep subscriptions only as readers.
		_, err = tx.Exec(ctx, `DELETE FROM subscription WHERE subscriber_id = $1`, userId)
		if err != nil {
			return nil, oops.New(err, "failed to clear subscriptions")
		}
	}
	if user.Role == models.RoleJournalist {
		_, err = tx.Exec(ctx, `DELETE FROM publication_journalist WHERE user_id = $1`, userId)
		if err != nil {
			return nil, oops.New(err, "failed to clear publication memberships")
		}
		_, err = tx.Exec(ctx,
			`DELETE FROM join_request WHERE user_id = $1 AND status = $2`,
			userId, models.JoinRequestPending,
		)
		if err != nil {
			return nil, oops.New(err, "failed to clear pending join requests")
		}
	}
	if user.Role == models.RoleEditor {
		_, err = tx.Exec(ctx, `DELETE FROM publication_editor WHERE user_id = $1`, userId)
		if err != nil {
			return nil, oops.New(err, "failed to clear editor memberships")
		}
	}

	_, err = tx.Exec(ctx, `UPDATE nh_user SET role = $1 WHERE id = $2`, role, userId)
	if err != nil {
		return nil, oops.New(err, "failed to update role")
	}

	err = tx.Commit(ctx)
	if err != nil {
		return nil, oops.New(err, "failed to commit role change")
	}

	user.Role = role
	return user, nil
}
