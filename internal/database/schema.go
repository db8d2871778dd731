package database

import (
	"context"
	"database/sql"
	"time"
)

// Schema statements, one per table, in dependency order. The unique keys
// are load-bearing: uq_users_email makes get-or-create race-free and
// uq_review_author enforces one review per author per title at the
// storage level, not in handler code.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		email         VARCHAR(254)  NOT NULL,
		username      VARCHAR(150)  NOT NULL,
		role          VARCHAR(16)   NOT NULL DEFAULT 'user',
		is_superuser  TINYINT(1)    NOT NULL DEFAULT 0,
		bio           TEXT          NOT NULL,
		first_name    VARCHAR(150)  NOT NULL DEFAULT '',
		last_name     VARCHAR(150)  NOT NULL DEFAULT '',
		is_active     TINYINT(1)    NOT NULL DEFAULT 1,
		last_login_at DATETIME(6)   NULL,
		created_at    DATETIME(6)   NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		updated_at    DATETIME(6)   NOT NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6),
		UNIQUE KEY uq_users_email (email),
		UNIQUE KEY uq_users_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS categories (
		id   BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(256) NOT NULL,
		slug VARCHAR(50)  NOT NULL,
		UNIQUE KEY uq_categories_slug (slug)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS genres (
		id   BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(256) NOT NULL,
		slug VARCHAR(50)  NOT NULL,
		UNIQUE KEY uq_genres_slug (slug)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS titles (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name        VARCHAR(256)    NOT NULL,
		year        INT             NOT NULL,
		description TEXT            NOT NULL,
		category_id BIGINT UNSIGNED NULL,
		KEY idx_titles_year (year),
		CONSTRAINT fk_titles_category FOREIGN KEY (category_id)
			REFERENCES categories (id) ON DELETE SET NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS title_genres (
		title_id BIGINT UNSIGNED NOT NULL,
		genre_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (title_id, genre_id),
		CONSTRAINT fk_tg_title FOREIGN KEY (title_id)
			REFERENCES titles (id) ON DELETE CASCADE,
		CONSTRAINT fk_tg_genre FOREIGN KEY (genre_id)
			REFERENCES genres (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS reviews (
		id        BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title_id  BIGINT UNSIGNED NOT NULL,
		author_id BIGINT UNSIGNED NOT NULL,
		text      TEXT            NOT NULL,
		score     TINYINT         NOT NULL,
		pub_date  DATETIME(6)     NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		UNIQUE KEY uq_review_author (title_id, author_id),
		CONSTRAINT fk_reviews_title FOREIGN KEY (title_id)
			REFERENCES titles (id) ON DELETE CASCADE,
		CONSTRAINT fk_reviews_author FOREIGN KEY (author_id)
			REFERENCES users (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS comments (
		id        BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		review_id BIGINT UNSIGNED NOT NULL,
		author_id BIGINT UNSIGNED NOT NULL,
		text      TEXT            NOT NULL,
		pub_date  DATETIME(6)     NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		CONSTRAINT fk_comments_review FOREIGN KEY (review_id)
			REFERENCES reviews (id) ON DELETE CASCADE,
		CONSTRAINT fk_comments_author FOREIGN KEY (author_id)
			REFERENCES users (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates any missing tables. Statements are idempotent so a
// fleet of API workers can all run this at boot.
func EnsureSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
