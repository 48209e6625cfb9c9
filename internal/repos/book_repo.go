package repos

import (
	"database/sql"
	"fmt"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"

	"bookshop/internal/domain"
	"bookshop/internal/validate"
)

type BookRepo struct {
	db *sqlx.DB
	d  dialect
}

func NewBookRepo(db *sqlx.DB) *BookRepo { return &BookRepo{db: db, d: dialectOf(db)} }

// ---------- Projections ----------

type PricedTitle struct {
	Title string  `db:"title"`
	Price float64 `db:"price"`
}

type ReleasedTitle struct {
	Title       string             `db:"title"`
	EditionType domain.EditionType `db:"edition_type"`
	Price       float64            `db:"price"`
}

type AuthoredTitle struct {
	Title     string         `db:"title"`
	FirstName sql.NullString `db:"first_name"`
	LastName  string         `db:"last_name"`
}

// PriceSnapshot is one row picked for a price change.
type PriceSnapshot struct {
	ID    int64   `db:"book_id"`
	Price float64 `db:"price"`
}

// ---------- Writes ----------

// Insert validates b and stores it, filling b.ID.
func (r *BookRepo) Insert(b *domain.Book) error { return insertBook(r.db, b) }

func insertBook(q sqlx.Ext, b *domain.Book) error {
	if err := validate.Struct(b); err != nil {
		return fmt.Errorf("book %q: %w", b.Title, err)
	}
	return sqlx.Get(q, &b.ID, q.Rebind(`
		INSERT INTO books(title, description, release_date, copies, price, edition_type, age_restriction, author_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING book_id
	`), b.Title, b.Description, b.ReleaseDate, b.Copies, b.Price, int(b.EditionType), int(b.AgeRestriction), b.AuthorID)
}

// Link adds the book to a category; linking twice is a no-op.
func (r *BookRepo) Link(bookID, categoryID int64) error { return linkBook(r.db, bookID, categoryID) }

func linkBook(q sqlx.Ext, bookID, categoryID int64) error {
	_, err := q.Exec(q.Rebind(`
		INSERT INTO book_categories(category_id, book_id)
		VALUES (?, ?)
		ON CONFLICT(category_id, book_id) DO NOTHING
	`), categoryID, bookID)
	return err
}

// AddToPrices adds by to the price of each listed book in one transaction
// and returns how many rows changed.
func (r *BookRepo) AddToPrices(ids []int64, by float64) (int, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Preparex(r.db.Rebind(`UPDATE books SET price = price + ? WHERE book_id = ?`))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	n := 0
	for _, id := range ids {
		res, err := stmt.Exec(by, id)
		if err != nil {
			return 0, fmt.Errorf("update book %d: %w", id, err)
		}
		k, _ := res.RowsAffected()
		n += int(k)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

// Delete removes the listed books and their category links in one
// transaction and returns how many books were removed.
func (r *BookRepo) Delete(ids []int64) (int, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	unlink, err := tx.Preparex(r.db.Rebind(`DELETE FROM book_categories WHERE book_id = ?`))
	if err != nil {
		return 0, err
	}
	defer unlink.Close()
	del, err := tx.Preparex(r.db.Rebind(`DELETE FROM books WHERE book_id = ?`))
	if err != nil {
		return 0, err
	}
	defer del.Close()

	n := 0
	for _, id := range ids {
		if _, err := unlink.Exec(id); err != nil {
			return 0, fmt.Errorf("unlink book %d: %w", id, err)
		}
		res, err := del.Exec(id)
		if err != nil {
			return 0, fmt.Errorf("delete book %d: %w", id, err)
		}
		k, _ := res.RowsAffected()
		n += int(k)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

// ---------- Reads ----------

func (r *BookRepo) Get(id int64) (domain.Book, error) {
	var b domain.Book
	err := r.db.Get(&b, r.db.Rebind(`
		SELECT book_id, title, description, `+r.d.Date("release_date")+` AS release_date,
		       copies, price, edition_type, age_restriction, author_id
		FROM books
		WHERE book_id = ?
	`), id)
	return b, err
}

// List returns every book by id.
func (r *BookRepo) List() ([]domain.Book, error) {
	var out []domain.Book
	err := r.db.Select(&out, `
		SELECT book_id, title, description, `+r.d.Date("release_date")+` AS release_date,
		       copies, price, edition_type, age_restriction, author_id
		FROM books
		ORDER BY book_id
	`)
	return out, err
}

func (r *BookRepo) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM books`)
	return n, err
}

func (r *BookRepo) TitlesByAgeRestriction(a domain.AgeRestriction) ([]string, error) {
	var out []string
	err := r.db.Select(&out, r.db.Rebind(`
		SELECT title FROM books
		WHERE age_restriction = ?
		ORDER BY `+r.d.Ordered("title")+`, book_id
	`), int(a))
	return out, err
}

// TitlesByEdition lists books of edition e with fewer than copiesBelow copies, by id.
func (r *BookRepo) TitlesByEdition(e domain.EditionType, copiesBelow int) ([]string, error) {
	var out []string
	err := r.db.Select(&out, r.db.Rebind(`
		SELECT title FROM books
		WHERE edition_type = ? AND copies < ?
		ORDER BY book_id
	`), int(e), copiesBelow)
	return out, err
}

// PricedAbove lists books dearer than min, dearest first.
func (r *BookRepo) PricedAbove(min float64) ([]PricedTitle, error) {
	var out []PricedTitle
	err := r.db.Select(&out, r.db.Rebind(`
		SELECT title, price FROM books
		WHERE price > ?
		ORDER BY price DESC, book_id
	`), min)
	return out, err
}

// TitlesNotReleasedIn skips books without a release date.
func (r *BookRepo) TitlesNotReleasedIn(year int) ([]string, error) {
	var out []string
	err := r.db.Select(&out, r.db.Rebind(`
		SELECT title FROM books
		WHERE release_date IS NOT NULL AND `+r.d.Year("release_date")+` <> ?
		ORDER BY book_id
	`), year)
	return out, err
}

// TitlesInCategories matches lower-cased category names.
func (r *BookRepo) TitlesInCategories(names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}
	q, args, err := sqlx.In(`
		SELECT b.title FROM books b
		WHERE EXISTS (
		  SELECT 1
		  FROM book_categories bc
		  JOIN categories c ON c.category_id = bc.category_id
		  WHERE bc.book_id = b.book_id AND `+r.d.Lower("c.name")+` IN (?)
		)
		ORDER BY `+r.d.Ordered("b.title")+`, b.book_id
	`, names)
	if err != nil {
		return nil, err
	}
	var out []string
	err = r.db.Select(&out, r.db.Rebind(q), args...)
	return out, err
}

// ReleasedBefore takes a YYYY-MM-DD date and lists newest first.
func (r *BookRepo) ReleasedBefore(date string) ([]ReleasedTitle, error) {
	var out []ReleasedTitle
	err := r.db.Select(&out, r.db.Rebind(`
		SELECT title, edition_type, price FROM books
		WHERE release_date < ?
		ORDER BY release_date DESC, book_id
	`), date)
	return out, err
}

// TitlesContaining expects key already lower-cased; it is matched literally.
func (r *BookRepo) TitlesContaining(key string) ([]string, error) {
	var out []string
	err := r.db.Select(&out, r.db.Rebind(`
		SELECT title FROM books
		WHERE `+r.d.Contains(r.d.Lower("title"), "?")+`
		ORDER BY `+r.d.Ordered("title")+`, book_id
	`), key)
	return out, err
}

// ByAuthorPrefix expects prefix already lower-cased.
func (r *BookRepo) ByAuthorPrefix(prefix string) ([]AuthoredTitle, error) {
	var out []AuthoredTitle
	err := r.db.Select(&out, r.db.Rebind(`
		SELECT b.title, a.first_name, a.last_name
		FROM books b
		JOIN authors a ON a.author_id = b.author_id
		WHERE SUBSTR(`+r.d.Lower("a.last_name")+`, 1, ?) = ?
		ORDER BY b.book_id
	`), utf8.RuneCountInString(prefix), prefix)
	return out, err
}

func (r *BookRepo) CountTitlesLongerThan(n int) (int, error) {
	var count int
	err := r.db.Get(&count, r.db.Rebind(`
		SELECT COUNT(*) FROM books
		WHERE LENGTH(title) > ?
	`), n)
	return count, err
}

// ReleasedBeforeYear snapshots dated books released before year.
func (r *BookRepo) ReleasedBeforeYear(year int) ([]PriceSnapshot, error) {
	var out []PriceSnapshot
	err := r.db.Select(&out, r.db.Rebind(`
		SELECT book_id, price FROM books
		WHERE release_date IS NOT NULL AND `+r.d.Year("release_date")+` < ?
		ORDER BY book_id
	`), year)
	return out, err
}

func (r *BookRepo) IDsWithCopiesBelow(n int) ([]int64, error) {
	var out []int64
	err := r.db.Select(&out, r.db.Rebind(`
		SELECT book_id FROM books
		WHERE copies < ?
		ORDER BY book_id
	`), n)
	return out, err
}
