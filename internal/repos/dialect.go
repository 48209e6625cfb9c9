package repos

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// dialect covers the few expressions SQLite and PostgreSQL spell differently.
// Everything else in the repos is plain SQL shared by both.
type dialect struct {
	name    string // goose dialect and migrations dir
	year    string // format taking a date column
	date    string // format rendering a date column as YYYY-MM-DD
	collate string // suffix giving byte-wise string order
	instr   string // format taking (haystack, needle) yielding a 1-based index
	lower   string // format folding a text column to lower case, beyond ASCII
}

var (
	sqliteDialect = dialect{
		name:    "sqlite3",
		year:    "CAST(strftime('%%Y', %s) AS INTEGER)",
		date:    "%s",
		collate: "",
		instr:   "INSTR(%s, %s)",
		lower:   unicodeLower + "(%s)",
	}
	postgresDialect = dialect{
		name:    "postgres",
		year:    "CAST(EXTRACT(YEAR FROM %s) AS INTEGER)",
		date:    "to_char(%s, 'YYYY-MM-DD')",
		collate: ` COLLATE "C"`,
		instr:   "STRPOS(%s, %s)",
		lower:   "LOWER(%s)",
	}
)

func dialectOf(db *sqlx.DB) dialect {
	if db.DriverName() == "pgx" {
		return postgresDialect
	}
	return sqliteDialect
}

func (d dialect) Year(col string) string { return fmt.Sprintf(d.year, col) }

func (d dialect) Date(col string) string { return fmt.Sprintf(d.date, col) }

// Ordered makes col sort by byte value, which is SQLite's default.
func (d dialect) Ordered(col string) string { return col + d.collate }

// Lower folds col the way strings.ToLower folds parameters, so lower-cased
// input compares equal to stored text in any script.
func (d dialect) Lower(col string) string { return fmt.Sprintf(d.lower, col) }

func (d dialect) Contains(haystack, needle string) string {
	return fmt.Sprintf(d.instr, haystack, needle) + " > 0"
}

func (d dialect) migrations() string {
	if d.name == "postgres" {
		return "migrations/postgres"
	}
	return "migrations/sqlite"
}
