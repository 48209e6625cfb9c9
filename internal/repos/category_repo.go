package repos

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"bookshop/internal/domain"
	"bookshop/internal/validate"
)

type CategoryRepo struct {
	db *sqlx.DB
	d  dialect
}

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db, d: dialectOf(db)} }

// CategoryProfit is Σ price×copies over a category's books.
type CategoryProfit struct {
	ID    int64   `db:"category_id"`
	Name  string  `db:"name"`
	Total float64 `db:"total"`
}

// RecentBook is one row of a per-category ranking. Title is null for a
// category without books.
type RecentBook struct {
	CategoryID int64          `db:"category_id"`
	Category   string         `db:"name"`
	Title      sql.NullString `db:"title"`
	Year       sql.NullInt64  `db:"release_year"`
}

func (r *CategoryRepo) Insert(c *domain.Category) error { return insertCategory(r.db, c) }

func insertCategory(q sqlx.Ext, c *domain.Category) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("category %q: %w", c.Name, err)
	}
	return sqlx.Get(q, &c.ID, q.Rebind(`
		INSERT INTO categories(name)
		VALUES (?)
		RETURNING category_id
	`), c.Name)
}

func (r *CategoryRepo) List() ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.Select(&out, `
		SELECT category_id, name
		FROM categories
		ORDER BY `+r.d.Ordered("name")+`, category_id
	`)
	return out, err
}

// Profits ranks categories by total stock value, then by name.
func (r *CategoryRepo) Profits() ([]CategoryProfit, error) {
	var out []CategoryProfit
	err := r.db.Select(&out, `
		SELECT c.category_id, c.name, COALESCE(SUM(b.price * b.copies), 0) AS total
		FROM categories c
		LEFT JOIN book_categories bc ON bc.category_id = c.category_id
		LEFT JOIN books b ON b.book_id = bc.book_id
		GROUP BY c.category_id, c.name
		ORDER BY total DESC, `+r.d.Ordered("c.name")+`, c.category_id
	`)
	return out, err
}

// MostRecent returns up to top books per category, newest first, with
// categories in name order. Undated books rank last.
func (r *CategoryRepo) MostRecent(top int) ([]RecentBook, error) {
	var out []RecentBook
	err := r.db.Select(&out, r.db.Rebind(`
		SELECT c.category_id, c.name, ranked.title, ranked.release_year
		FROM categories c
		LEFT JOIN (
		  SELECT bc.category_id, b.title, `+r.d.Year("b.release_date")+` AS release_year,
		         ROW_NUMBER() OVER (
		           PARTITION BY bc.category_id
		           ORDER BY b.release_date DESC NULLS LAST, b.book_id
		         ) AS rn
		  FROM book_categories bc
		  JOIN books b ON b.book_id = bc.book_id
		) ranked ON ranked.category_id = c.category_id AND ranked.rn <= ?
		ORDER BY `+r.d.Ordered("c.name")+`, c.category_id, ranked.rn
	`), top)
	return out, err
}
