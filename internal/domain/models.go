package domain

import (
	"database/sql"
	"time"
)

// DateLayout is the storage layout of Book.ReleaseDate.
const DateLayout = "2006-01-02"

type Author struct {
	ID        int64          `db:"author_id"`
	FirstName sql.NullString `db:"first_name" validate:"omitempty,max=50"`
	LastName  string         `db:"last_name" validate:"required,max=50"`
}

// FullName is "First Last", or the last name alone when there is no first name.
func (a Author) FullName() string {
	return FullName(a.FirstName, a.LastName)
}

func FullName(first sql.NullString, last string) string {
	if !first.Valid {
		return last
	}
	return first.String + " " + last
}

type Category struct {
	ID   int64  `db:"category_id"`
	Name string `db:"name" validate:"required,max=50"`
}

type Book struct {
	ID             int64          `db:"book_id"`
	Title          string         `db:"title" validate:"required,max=50"`
	Description    sql.NullString `db:"description" validate:"omitempty,max=1000"`
	ReleaseDate    sql.NullString `db:"release_date" validate:"omitempty,release_date"` // YYYY-MM-DD
	Copies         int            `db:"copies" validate:"gte=0"`
	Price          float64        `db:"price" validate:"gte=0"`
	EditionType    EditionType    `db:"edition_type" validate:"edition_type"`
	AgeRestriction AgeRestriction `db:"age_restriction" validate:"age_restriction"`
	AuthorID       int64          `db:"author_id" validate:"required"`
}

// Released returns the parsed release date; ok is false when the book has none.
func (b Book) Released() (t time.Time, ok bool) {
	if !b.ReleaseDate.Valid {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, b.ReleaseDate.String)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// BookCategory links a book to a category. The pair is the identity.
type BookCategory struct {
	CategoryID int64 `db:"category_id"`
	BookID     int64 `db:"book_id"`
}

// Date turns a time into the nullable release date column value.
func Date(t time.Time) sql.NullString {
	return sql.NullString{String: t.Format(DateLayout), Valid: true}
}
