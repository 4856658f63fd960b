package database

import (
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		hashed_password TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'member',
		level TEXT NOT NULL DEFAULT 'beginner',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		event_type TEXT NOT NULL,
		date TIMESTAMPTZ NOT NULL,
		duration_minutes INT NOT NULL DEFAULT 0,
		location TEXT NOT NULL DEFAULT '',
		created_by BIGINT NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS event_registrations (
		id BIGSERIAL PRIMARY KEY,
		event_id BIGINT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		user_id BIGINT NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (event_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS contest_results (
		id BIGSERIAL PRIMARY KEY,
		event_id BIGINT NOT NULL REFERENCES events(id),
		user_id BIGINT NOT NULL REFERENCES users(id),
		score INT NOT NULL,
		position INT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS score_adjustments (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		delta INT NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		created_by BIGINT NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS forum_posts (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		content TEXT NOT NULL,
		user_id BIGINT NOT NULL REFERENCES users(id),
		views INT NOT NULL DEFAULT 0,
		tags JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS forum_replies (
		id BIGSERIAL PRIMARY KEY,
		post_id BIGINT NOT NULL REFERENCES forum_posts(id),
		user_id BIGINT NOT NULL REFERENCES users(id),
		content TEXT NOT NULL,
		upvotes INT NOT NULL DEFAULT 0,
		is_best_answer BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS reply_upvotes (
		reply_id BIGINT NOT NULL REFERENCES forum_replies(id),
		user_id BIGINT NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (reply_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS resources (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		link TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		resource_type TEXT NOT NULL DEFAULT '',
		user_id BIGINT NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_forum_replies_post_id ON forum_replies(post_id)`,
	`CREATE INDEX IF NOT EXISTS idx_contest_results_user_id ON contest_results(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_event_registrations_event_id ON event_registrations(event_id)`,
	// Partial unique index backs the one-best-answer-per-post invariant even
	// if application code misbehaves.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_forum_replies_best_answer
		ON forum_replies(post_id) WHERE is_best_answer`,
}

// RunMigrations applies the schema at startup. Statements are idempotent so
// repeated boots are safe.
func RunMigrations() error {
	for i, stmt := range migrations {
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
