package nhdata

import (
	"context"
	"sort"

	"git.newshub.network/newshub/newshub/src/db"
	"git.newshub.network/newshub/newshub/src/models"
	"git.newshub.network/newshub/newshub/src/oops"
	"git.newshub.network/newshub/newshub/src/perms"
)

type SubscriptionsQuery struct {
	// Ignored when empty
	SubscriberIDs  []int
	PublicationIDs []int
	JournalistIDs  []int
}

func FetchSubscriptions(ctx context.Context, dbConn db.ConnOrTx, q SubscriptionsQuery) ([]*models.Subscription, error) {
	var qb db.QueryBuilder
	qb.Add(
		`
		SELECT $columns
		FROM subscription
		WHERE TRUE
		`,
	)
	if len(q.SubscriberIDs) > 0 {
		qb.Add(`AND subscription.subscriber_id = ANY ($?)`, q.SubscriberIDs)
	}
	if len(q.PublicationIDs) > 0 {
		qb.Add(`AND subscription.publication_id = ANY ($?)`, q.PublicationIDs)
	}
	if len(q.JournalistIDs) > 0 {
		qb.Add(`AND subscription.journalist_id = ANY ($?)`, q.JournalistIDs)
	}
	qb.Add(`ORDER BY subscription.created_at DESC, subscription.id DESC`)

	subs, err := db.Query[models.Subscription](ctx, dbConn, qb.String(), qb.Args()...)
	if err != nil {
		return nil, oops.New(err, "failed to fetch subscriptions")
	}

	return subs, nil
}

// Subscribe adds a subscription to exactly one of a publication or a
// journalist. Subscribing again to the same target succeeds without creating
// a duplicate and reports created = false.
//
// One combination is refused outright: following both a journalist and the
// single publication they write for would deliver every notification twice,
// so whichever of the two is added second yields ErrConflict. A journalist
// writing for several publications is fine to combine freely.
func Subscribe(ctx context.Context, dbConn db.ConnOrTx, actor *models.User, sub models.Subscription) (*models.Subscription, bool, error) {
	if !perms.Can(actor, perms.ActionCreate, perms.SubscriptionTarget{}) {
		return nil, false, ErrUnauthorized
	}
	sub.SubscriberID = actor.ID

	if err := sub.Validate(); err != nil {
		return nil, false, ValidationError{Field: "subscription", Msg: err.Error()}
	}

	if sub.PublicationID != nil {
		if _, err := FetchPublication(ctx, dbConn, *sub.PublicationID); err != nil {
			return nil, false, err
		}
	}
	if sub.JournalistID != nil {
		journalist, err := FetchUser(ctx, dbConn, *sub.JournalistID)
		if err != nil {
			return nil, false, err
		}
		if journalist.Role != models.RoleJournalist {
			return nil, false, db.NotFound
		}
	}

	conflict, err := crossTargetConflict(ctx, dbConn, actor.ID, sub)
	if err != nil {
		return nil, false, err
	}
	if conflict {
		return nil, false, ErrConflict
	}

	saved, err := db.QueryOne[models.Subscription](ctx, dbConn,
		`
		INSERT INTO subscription (subscriber_id, publication_id, journalist_id, created_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		ON CONFLICT DO NOTHING
		RETURNING $columns
		`,
		sub.SubscriberID, sub.PublicationID, sub.JournalistID,
	)
	if err != nil {
		if err == db.NotFound {
			// Already subscribed; fetch the existing row.
			existing, err := fetchExistingSubscription(ctx, dbConn, sub)
			if err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		return nil, false, oops.New(err, "failed to create subscription")
	}

	return saved, true, nil
}

// Unsubscribe removes the actor's subscription to the given target.
// Reports removed = false when there was nothing to remove.
func Unsubscribe(ctx context.Context, dbConn db.ConnOrTx, actor *models.User, sub models.Subscription) (bool, error) {
	if !perms.Can(actor, perms.ActionDelete, perms.SubscriptionTarget{}) {
		return false, ErrUnauthorized
	}
	sub.SubscriberID = actor.ID

	if err := sub.Validate(); err != nil {
		return false, ValidationError{Field: "subscription", Msg: err.Error()}
	}

	var qb db.QueryBuilder
	qb.Add(`DELETE FROM subscription WHERE subscriber_id = $?`, sub.SubscriberID)
	if sub.PublicationID != nil {
		qb.Add(`AND publication_id = $?`, *sub.PublicationID)
	} else {
		qb.Add(`AND journalist_id = $?`, *sub.JournalistID)
	}

	tag, err := dbConn.Exec(ctx, qb.String(), qb.Args()...)
	if err != nil {
		return false, oops.New(err, "failed to delete subscription")
	}

	return tag.RowsAffected() > 0, nil
}

func fetchExistingSubscription(ctx context.Context, dbConn db.ConnOrTx, sub models.Subscription) (*models.Subscription, error) {
	var qb db.QueryBuilder
	qb.Add(`SELECT $columns FROM subscription WHERE subscriber_id = $?`, sub.SubscriberID)
	if sub.PublicationID != nil {
		qb.Add(`AND publication_id = $?`, *sub.PublicationID)
	} else {
		qb.Add(`AND journalist_id = $?`, *sub.JournalistID)
	}

	existing, err := db.QueryOne[models.Subscription](ctx, dbConn, qb.String(), qb.Args()...)
	if err != nil {
		return nil, oops.New(err, "failed to fetch existing subscription")
	}
	return existing, nil
}

func crossTargetConflict(ctx context.Context, dbConn db.ConnOrTx, subscriberId int, sub models.Subscription) (bool, error) {
	if sub.PublicationID != nil {
		// Conflicts with an existing journalist subscription whose journalist
		// writes only for this publication.
		journalistIds, err := db.QueryScalar[int](ctx, dbConn,
			`
			SELECT journalist_id
			FROM subscription
			WHERE subscriber_id = $1 AND journalist_id IS NOT NULL
			`,
			subscriberId,
		)
		if err != nil {
			return false, oops.New(err, "failed to fetch journalist subscriptions")
		}
		for _, jid := range journalistIds {
			pubIds, err := authoredPublicationIDs(ctx, dbConn, jid)
			if err != nil {
				return false, err
			}
			if soleTarget(pubIds, *sub.PublicationID) {
				return true, nil
			}
		}
		return false, nil
	}

	// Conflicts with an existing publication subscription when that
	// publication is the only one the journalist writes for.
	pubIds, err := authoredPublicationIDs(ctx, dbConn, *sub.JournalistID)
	if err != nil {
		return false, err
	}
	if len(pubIds) != 1 {
		return false, nil
	}
	subscribed, err := db.QueryOneScalar[bool](ctx, dbConn,
		`
		SELECT COUNT(*) > 0
		FROM subscription
		WHERE subscriber_id = $1 AND publication_id = $2
		`,
		subscriberId, pubIds[0],
	)
	if err != nil {
		return false, oops.New(err, "failed to check publication subscription")
	}

	return subscribed, nil
}

// authoredPublicationIDs returns the distinct publications a journalist has
// written articles for, sorted.
func authoredPublicationIDs(ctx context.Context, dbConn db.ConnOrTx, journalistId int) ([]int, error) {
	ids, err := db.QueryScalar[int](ctx, dbConn,
		`
		SELECT DISTINCT publication_id
		FROM article
		WHERE author_id = $1 AND publication_id IS NOT NULL
		`,
		journalistId,
	)
	if err != nil {
		return nil, oops.New(err, "failed to fetch authored publications")
	}
	sort.Ints(ids)
	return ids, nil
}

// soleTarget reports whether pubIds consists of exactly the one target
// publication, i.e. the journalist writes for it and nothing else.
func soleTarget(pubIds []int, target int) bool {
	return len(pubIds) == 1 && pubIds[0] == target
}

// PublicationNoticeRecipients resolves the email addresses that should hear
// about the article: subscribers of its publication plus subscribers of its
// author, deduplicated.
func PublicationNoticeRecipients(ctx context.Context, dbConn db.ConnOrTx, article *models.Article) ([]string, error) {
	var qb db.QueryBuilder
	qb.Add(
		`
		SELECT nh_user.email
		FROM
			subscription
			JOIN nh_user ON nh_user.id = subscription.subscriber_id
		WHERE FALSE
		`,
	)
	if article.PublicationID != nil {
		qb.Add(`OR subscription.publication_id = $?`, *article.PublicationID)
	}
	if article.AuthorID != nil {
		qb.Add(`OR subscription.journalist_id = $?`, *article.AuthorID)
	}

	emails, err := db.QueryScalar[string](ctx, dbConn, qb.String(), qb.Args()...)
	if err != nil {
		return nil, oops.New(err, "failed to fetch notice recipients")
	}

	return dedupeEmails(emails), nil
}

// dedupeEmails sorts, deduplicates and drops empty addresses.
func dedupeEmails(emails []string) []string {
	sort.Strings(emails)
	result := make([]string, 0, len(emails))
	for i, e := range emails {
		if e == "" {
			continue
		}
		if i > 0 && emails[i-1] == e {
			continue
		}
		result = append(result, e)
	}
	return result
}
