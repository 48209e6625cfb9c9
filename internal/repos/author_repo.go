package repos

import (
	"database/sql"
	"fmt"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"

	"bookshop/internal/domain"
	"bookshop/internal/validate"
)

type AuthorRepo struct {
	db *sqlx.DB
	d  dialect
}

func NewAuthorRepo(db *sqlx.DB) *AuthorRepo { return &AuthorRepo{db: db, d: dialectOf(db)} }

// AuthorCopies is the total stock of one author's books.
type AuthorCopies struct {
	ID        int64          `db:"author_id"`
	FirstName sql.NullString `db:"first_name"`
	LastName  string         `db:"last_name"`
	Copies    int            `db:"total_copies"`
}

func (r *AuthorRepo) Insert(a *domain.Author) error { return insertAuthor(r.db, a) }

func insertAuthor(q sqlx.Ext, a *domain.Author) error {
	if err := validate.Struct(a); err != nil {
		return fmt.Errorf("author %q: %w", a.LastName, err)
	}
	return sqlx.Get(q, &a.ID, q.Rebind(`
		INSERT INTO authors(first_name, last_name)
		VALUES (?, ?)
		RETURNING author_id
	`), a.FirstName, a.LastName)
}

// FirstNameEndingIn is case-sensitive and skips authors without a first name.
// Results are ordered by full name.
func (r *AuthorRepo) FirstNameEndingIn(suffix string) ([]domain.Author, error) {
	var out []domain.Author
	err := r.db.Select(&out, r.db.Rebind(`
		SELECT author_id, first_name, last_name
		FROM authors
		WHERE first_name IS NOT NULL
		  AND SUBSTR(first_name, LENGTH(first_name) - ? + 1) = ?
		ORDER BY `+r.d.Ordered("first_name || ' ' || last_name")+`, author_id
	`), utf8.RuneCountInString(suffix), suffix)
	return out, err
}

// Copies sums copies per author, authors without books counting zero.
func (r *AuthorRepo) Copies() ([]AuthorCopies, error) {
	var out []AuthorCopies
	err := r.db.Select(&out, `
		SELECT a.author_id, a.first_name, a.last_name, COALESCE(SUM(b.copies), 0) AS total_copies
		FROM authors a
		LEFT JOIN books b ON b.author_id = a.author_id
		GROUP BY a.author_id, a.first_name, a.last_name
		ORDER BY total_copies DESC, a.author_id
	`)
	return out, err
}
