package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
		if db.Dialect().Name() == dialect.PG {
			idColumn = "id BIGSERIAL PRIMARY KEY"
		}

		_, err := db.Exec(`
			CREATE TABLE borrowers (
				` + idColumn + `,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name TEXT NOT NULL CHECK (name <> ''),
				email TEXT NOT NULL CHECK (email <> '')
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		// Exact, case-sensitive match. Closes the race between the
		// existence check and the insert in RegisterBorrower.
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_borrowers_email ON borrowers (email)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE books (
				` + idColumn + `,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				title TEXT NOT NULL CHECK (title <> ''),
				author TEXT NOT NULL CHECK (author <> ''),
				isbn TEXT,
				available BOOLEAN NOT NULL DEFAULT TRUE,
				borrower_id BIGINT REFERENCES borrowers (id),
				CHECK (available = (borrower_id IS NULL))
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		// NULLs never collide, so books without an ISBN are unconstrained.
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_books_isbn ON books (isbn)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_books_borrower_id ON books (borrower_id)`)
		if err != nil {
			return errors.WithStack(err)
		}

		return nil
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`DROP TABLE IF EXISTS books`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`DROP TABLE IF EXISTS borrowers`)
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
