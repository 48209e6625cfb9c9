package repos

import (
	"database/sql"
	"log"

	"github.com/jmoiron/sqlx"

	"bookshop/internal/domain"
)

type seedBook struct {
	title    string
	released string // YYYY-MM-DD, empty when unknown
	copies   int
	price    float64
	edition  domain.EditionType
	age      domain.AgeRestriction
	author   int // index into seed authors
	cats     []int
}

// SeedIfEmpty loads a small demo catalog when there are no books yet.
// It reports whether anything was inserted. The catalog goes in as one
// transaction, so a failed seed leaves the store empty.
func SeedIfEmpty(db *sqlx.DB) (bool, error) {
	n, err := NewBookRepo(db).Count()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	log.Println("[seed] inserting demo authors/categories/books")

	tx, err := db.Beginx()
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	authors := []domain.Author{
		{FirstName: sql.NullString{String: "Jane", Valid: true}, LastName: "Austen"},
		{FirstName: sql.NullString{String: "Stephen", Valid: true}, LastName: "King"},
		{FirstName: sql.NullString{String: "Agatha", Valid: true}, LastName: "Christie"},
		{LastName: "Homer"},
	}
	for i := range authors {
		if err := insertAuthor(tx, &authors[i]); err != nil {
			return false, err
		}
	}

	cats := []domain.Category{{Name: "Romance"}, {Name: "Horror"}, {Name: "Mystery"}, {Name: "Classics"}, {Name: "Poetry"}}
	for i := range cats {
		if err := insertCategory(tx, &cats[i]); err != nil {
			return false, err
		}
	}

	for _, s := range []seedBook{
		{"Pride and Prejudice", "1813-01-28", 3200, 12.50, domain.EditionNormal, domain.AgeTeen, 0, []int{0, 3}},
		{"Emma", "1815-12-23", 5100, 44.00, domain.EditionGold, domain.AgeMinor, 0, []int{0, 3}},
		{"Carrie", "1974-04-05", 4800, 19.99, domain.EditionGold, domain.AgeAdult, 1, []int{1}},
		{"The Shining", "1977-01-28", 7600, 41.25, domain.EditionPromo, domain.AgeAdult, 1, []int{1}},
		{"It", "1986-09-15", 2900, 52.10, domain.EditionGold, domain.AgeAdult, 1, []int{1, 2}},
		{"Murder on the Orient Express", "1934-01-01", 4300, 9.99, domain.EditionNormal, domain.AgeTeen, 2, []int{2}},
		{"And Then There Were None", "1939-11-06", 6100, 15.00, domain.EditionPromo, domain.AgeTeen, 2, []int{2, 1}},
		{"The Odyssey", "", 900, 70.00, domain.EditionNormal, domain.AgeMinor, 3, []int{3}},
		{"Doctor Sleep", "2013-09-24", 4200, 28.40, domain.EditionNormal, domain.AgeAdult, 1, []int{1}},
	} {
		b := domain.Book{
			Title:          s.title,
			Copies:         s.copies,
			Price:          s.price,
			EditionType:    s.edition,
			AgeRestriction: s.age,
			AuthorID:       authors[s.author].ID,
		}
		if s.released != "" {
			b.ReleaseDate = sql.NullString{String: s.released, Valid: true}
		}
		if err := insertBook(tx, &b); err != nil {
			return false, err
		}
		for _, c := range s.cats {
			if err := linkBook(tx, b.ID, cats[c].ID); err != nil {
				return false, err
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}
