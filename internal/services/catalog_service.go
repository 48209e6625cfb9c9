package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"bookshop/internal/domain"
	applog "bookshop/internal/log"
	"bookshop/internal/repos"
	"bookshop/internal/validate"
)

var (
	ErrMalformedInput   = errors.New("malformed input")
	ErrMissingArgument  = errors.New("missing argument")
	ErrUnknownOperation = errors.New("unknown operation")
	ErrNegativePrice    = errors.New("price would become negative")
)

const (
	goldenCopiesBelow = 5000
	priceFloor        = 40
	recentPerCategory = 3
)

type CatalogService struct {
	Books   *repos.BookRepo
	Authors *repos.AuthorRepo
	Cats    *repos.CategoryRepo
}

func NewCatalogService(books *repos.BookRepo, authors *repos.AuthorRepo, cats *repos.CategoryRepo) *CatalogService {
	return &CatalogService{Books: books, Authors: authors, Cats: cats}
}

// BooksByAgeRestriction lists titles for an age group named in any case.
// A name outside the known groups matches nothing.
func (s *CatalogService) BooksByAgeRestriction(group string) (string, error) {
	a, ok := domain.ParseAgeRestriction(group)
	if !ok {
		return "", nil
	}
	titles, err := s.Books.TitlesByAgeRestriction(a)
	if err != nil {
		return "", err
	}
	return lines(titles), nil
}

// GoldenBooks lists gold editions with fewer than 5000 copies.
func (s *CatalogService) GoldenBooks() (string, error) {
	titles, err := s.Books.TitlesByEdition(domain.EditionGold, goldenCopiesBelow)
	if err != nil {
		return "", err
	}
	return lines(titles), nil
}

func (s *CatalogService) BooksByPrice() (string, error) {
	rows, err := s.Books.PricedAbove(priceFloor)
	if err != nil {
		return "", err
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Title+" - "+money(r.Price))
	}
	return lines(out), nil
}

func (s *CatalogService) BooksNotReleasedIn(year int) (string, error) {
	titles, err := s.Books.TitlesNotReleasedIn(year)
	if err != nil {
		return "", err
	}
	return lines(titles), nil
}

// BooksByCategory takes blank-separated category names, matched in any case.
func (s *CatalogService) BooksByCategory(input string) (string, error) {
	titles, err := s.Books.TitlesInCategories(validate.Words(input))
	if err != nil {
		return "", err
	}
	return lines(titles), nil
}

// BooksReleasedBefore takes a dd-MM-yyyy date.
func (s *CatalogService) BooksReleasedBefore(date string) (string, error) {
	t, ok := validate.Date(date)
	if !ok {
		return "", fmt.Errorf("%w: date %q, want dd-MM-yyyy", ErrMalformedInput, date)
	}
	rows, err := s.Books.ReleasedBefore(t.Format(domain.DateLayout))
	if err != nil {
		return "", err
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Title+" - "+r.EditionType.String()+" - "+money(r.Price))
	}
	return lines(out), nil
}

func (s *CatalogService) AuthorNamesEndingIn(suffix string) (string, error) {
	authors, err := s.Authors.FirstNameEndingIn(suffix)
	if err != nil {
		return "", err
	}
	out := make([]string, 0, len(authors))
	for _, a := range authors {
		out = append(out, a.FullName())
	}
	return lines(out), nil
}

func (s *CatalogService) BookTitlesContaining(key string) (string, error) {
	titles, err := s.Books.TitlesContaining(strings.ToLower(key))
	if err != nil {
		return "", err
	}
	return lines(titles), nil
}

// BooksByAuthor matches the start of the author's last name in any case.
func (s *CatalogService) BooksByAuthor(prefix string) (string, error) {
	rows, err := s.Books.ByAuthorPrefix(strings.ToLower(prefix))
	if err != nil {
		return "", err
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Title+" ("+domain.FullName(r.FirstName, r.LastName)+")")
	}
	return lines(out), nil
}

// CountBooks counts titles longer than length characters.
func (s *CatalogService) CountBooks(length int) (int, error) {
	return s.Books.CountTitlesLongerThan(length)
}

func (s *CatalogService) CopiesByAuthor() (string, error) {
	rows, err := s.Authors.Copies()
	if err != nil {
		return "", err
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.FullName(r.FirstName, r.LastName)+" - "+strconv.Itoa(r.Copies))
	}
	return lines(out), nil
}

func (s *CatalogService) ProfitByCategory() (string, error) {
	rows, err := s.Cats.Profits()
	if err != nil {
		return "", err
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Name+" "+money(r.Total))
	}
	return lines(out), nil
}

// MostRecentBooksByCategory renders a "--Name" block per category followed
// by its three newest books. A category without books is a bare header.
func (s *CatalogService) MostRecentBooksByCategory() (string, error) {
	rows, err := s.Cats.MostRecent(recentPerCategory)
	if err != nil {
		return "", err
	}
	var out []string
	var current int64
	for i, r := range rows {
		if i == 0 || r.CategoryID != current {
			current = r.CategoryID
			out = append(out, "--"+r.Category)
		}
		if !r.Title.Valid {
			continue
		}
		year := ""
		if r.Year.Valid {
			year = strconv.FormatInt(r.Year.Int64, 10)
		}
		out = append(out, r.Title.String+" ("+year+")")
	}
	return lines(out), nil
}

// IncreasePrices adds by to the price of every dated book released before
// the given year and returns how many books changed. The affected books are
// fixed before anything is written.
func (s *CatalogService) IncreasePrices(by float64, beforeYear int) (int, error) {
	snap, err := s.Books.ReleasedBeforeYear(beforeYear)
	if err != nil {
		return 0, err
	}
	if by == 0 || len(snap) == 0 {
		return 0, nil
	}
	ids := make([]int64, 0, len(snap))
	for _, b := range snap {
		if b.Price+by < 0 {
			return 0, fmt.Errorf("%w: book %d priced %s", ErrNegativePrice, b.ID, money(b.Price))
		}
		ids = append(ids, b.ID)
	}
	n, err := s.Books.AddToPrices(ids, by)
	if err != nil {
		return 0, fmt.Errorf("increase prices: %w", err)
	}
	applog.Audit(nil, "catalog.prices.increase", map[string]any{
		"run_id": uuid.NewString(), "increment": by, "before_year": beforeYear, "updated": n,
	})
	return n, nil
}

// RemoveBooks deletes every book with fewer than below copies and returns
// how many were deleted.
func (s *CatalogService) RemoveBooks(below int) (int, error) {
	ids, err := s.Books.IDsWithCopiesBelow(below)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := s.Books.Delete(ids)
	if err != nil {
		return 0, fmt.Errorf("remove books: %w", err)
	}
	applog.Audit(nil, "catalog.books.remove", map[string]any{
		"run_id": uuid.NewString(), "copies_below": below, "removed": n,
	})
	return n, nil
}

func lines(xs []string) string { return strings.Join(xs, "\n") }

func money(f float64) string { return fmt.Sprintf("$%.2f", f) }
