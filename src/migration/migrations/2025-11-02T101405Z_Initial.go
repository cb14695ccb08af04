package migrations

import (
	"context"
	"time"

	"git.newshub.network/newshub/newshub/src/migration/types"
	"github.com/jackc/pgx/v5"
)

func init() {
	registerMigration(Initial{})
}

type Initial struct{}

func (m Initial) Version() types.MigrationVersion {
	return types.MigrationVersion(time.Date(2025, 11, 2, 10, 14, 5, 0, time.UTC))
}

func (m Initial) Name() string {
	return "Initial"
}

func (m Initial) Description() string {
	return "Creates the entire newshub schema"
}

func (m Initial) Up(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		CREATE TABLE nh_user (
			id BIGSERIAL PRIMARY KEY,
			email VARCHAR(255) NOT NULL,
			password VARCHAR(255) NOT NULL,
			role INT NOT NULL DEFAULT 1,
			first_name VARCHAR(150) NOT NULL DEFAULT '',
			last_name VARCHAR(150) NOT NULL DEFAULT '',
			display_name VARCHAR(150) NOT NULL DEFAULT '',
			date_joined TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE UNIQUE INDEX nh_user_email ON nh_user (LOWER(email));

		CREATE TABLE session (
			id VARCHAR(40) PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES nh_user (id) ON DELETE CASCADE,
			expires_at TIMESTAMP WITH TIME ZONE NOT NULL
		);

		CREATE TABLE publication (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE publication_editor (
			publication_id BIGINT NOT NULL REFERENCES publication (id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL REFERENCES nh_user (id) ON DELETE CASCADE,
			PRIMARY KEY (publication_id, user_id)
		);

		CREATE TABLE publication_journalist (
			publication_id BIGINT NOT NULL REFERENCES publication (id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL REFERENCES nh_user (id) ON DELETE CASCADE,
			PRIMARY KEY (publication_id, user_id)
		);

		CREATE TABLE join_request (
			id BIGSERIAL PRIMARY KEY,
			publication_id BIGINT NOT NULL REFERENCES publication (id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL REFERENCES nh_user (id) ON DELETE CASCADE,
			message TEXT NOT NULL DEFAULT '',
			status INT NOT NULL DEFAULT 1,
			feedback TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
			reviewed_at TIMESTAMP WITH TIME ZONE
		);
		-- At most one pending request per journalist and publication. The
		-- lifecycle code relies on this index for its ON CONFLICT clause.
		CREATE UNIQUE INDEX join_request_one_pending
			ON join_request (user_id, publication_id)
			WHERE status = 1;

		CREATE TABLE article (
			id BIGSERIAL PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			slug VARCHAR(255) NOT NULL UNIQUE,
			content TEXT NOT NULL,
			type INT NOT NULL DEFAULT 1,
			status INT NOT NULL DEFAULT 1,
			author_id BIGINT REFERENCES nh_user (id) ON DELETE SET NULL,
			publication_id BIGINT REFERENCES publication (id) ON DELETE SET NULL,
			feedback TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
			published_at TIMESTAMP WITH TIME ZONE
		);
		CREATE INDEX article_by_author ON article (author_id);
		CREATE INDEX article_by_publication ON article (publication_id);
		CREATE INDEX article_published ON article (published_at DESC) WHERE status = 3;

		CREATE TABLE comment (
			id BIGSERIAL PRIMARY KEY,
			article_id BIGINT NOT NULL REFERENCES article (id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL REFERENCES nh_user (id) ON DELETE CASCADE,
			text TEXT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX comment_by_article ON comment (article_id, created_at DESC);

		CREATE TABLE rating (
			id BIGSERIAL PRIMARY KEY,
			article_id BIGINT NOT NULL REFERENCES article (id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL REFERENCES nh_user (id) ON DELETE CASCADE,
			score INT NOT NULL CHECK (score BETWEEN 1 AND 5),
			UNIQUE (article_id, user_id)
		);

		CREATE TABLE subscription (
			id BIGSERIAL PRIMARY KEY,
			subscriber_id BIGINT NOT NULL REFERENCES nh_user (id) ON DELETE CASCADE,
			publication_id BIGINT REFERENCES publication (id) ON DELETE CASCADE,
			journalist_id BIGINT REFERENCES nh_user (id) ON DELETE CASCADE,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CHECK ((publication_id IS NULL) <> (journalist_id IS NULL))
		);
		CREATE UNIQUE INDEX subscription_publication
			ON subscription (subscriber_id, publication_id)
			WHERE publication_id IS NOT NULL;
		CREATE UNIQUE INDEX subscription_journalist
			ON subscription (subscriber_id, journalist_id)
			WHERE journalist_id IS NOT NULL;
	`)
	return err
}

func (m Initial) Down(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		DROP TABLE subscription;
		DROP TABLE rating;
		DROP TABLE comment;
		DROP TABLE article;
		DROP TABLE join_request;
		DROP TABLE publication_journalist;
		DROP TABLE publication_editor;
		DROP TABLE publication;
		DROP TABLE session;
		DROP TABLE nh_user;
	`)
	return err
}
