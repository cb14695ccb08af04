package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"time"

	"git.newshub.network/newshub/newshub/src/db"
	"git.newshub.network/newshub/newshub/src/models"
	"git.newshub.network/newshub/newshub/src/oops"
)

const sessionDuration = time.Hour * 24 * 14

var ErrNoSession = errors.New("no session found")

func makeSessionId() string {
	idBytes := make([]byte, 40)
	_, err := io.ReadFull(rand.Reader, idBytes)
	if err != nil {
		panic(err)
	}

	return base64.StdEncoding.EncodeToString(idBytes)[:40]
}

func GetSession(ctx context.Context, conn db.ConnOrTx, id string) (*models.Session, error) {
	sess, err := db.QueryOne[models.Session](ctx, conn,
		`
		SELECT $columns
		FROM session
		WHERE id = $1 AND expires_at > CURRENT_TIMESTAMP
		`,
		id,
	)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return nil, ErrNoSession
		} else {
			return nil, oops.New(err, "failed to get session")
		}
	}

	return sess, nil
}

func CreateSession(ctx context.Context, conn db.ConnOrTx, userId int) (*models.Session, error) {
	session := models.Session{
		ID:        makeSessionId(),
		UserID:    userId,
		ExpiresAt: time.Now().Add(sessionDuration),
	}

	_, err := conn.Exec(ctx,
		`
		INSERT INTO session (id, user_id, expires_at)
		VALUES ($1, $2, $3)
		`,
		session.ID, session.UserID, session.ExpiresAt,
	)
	if err != nil {
		return nil, oops.New(err, "failed to create session")
	}

	return &session, nil
}

// DeleteSession deletes a session by id. If no session with that id exists, no
// error is returned.
func DeleteSession(ctx context.Context, conn db.ConnOrTx, id string) error {
	_, err := conn.Exec(ctx, "DELETE FROM session WHERE id = $1", id)
	if err != nil {
		return oops.New(err, "failed to delete session")
	}

	return nil
}

func DeleteExpiredSessions(ctx context.Context, conn db.ConnOrTx) (int64, error) {
	tag, err := conn.Exec(ctx, "DELETE FROM session WHERE expires_at <= CURRENT_TIMESTAMP")
	if err != nil {
		return 0, oops.New(err, "failed to delete expired sessions")
	}

	return tag.RowsAffected(), nil
}
