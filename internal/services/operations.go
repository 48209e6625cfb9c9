package services

import (
	"fmt"
	"strconv"
	"strings"

	"bookshop/internal/config"
	"bookshop/internal/validate"
)

// Console supplies a parameter the caller left out, one line per call.
type Console interface {
	ReadLine(prompt string) (string, error)
}

// Operation is one selectable catalog report or mutation.
type Operation struct {
	Number   int
	Name     string
	Title    string
	Param    string   // required parameter, prompted for when missing
	Optional []string // optional parameters, defaults from config
	Mutates  bool

	run func(r *Runner, args []string) (string, error)
}

var Operations = []Operation{
	{Number: 1, Name: "age-restriction", Title: "Books by age restriction", Param: "age group",
		run: func(r *Runner, args []string) (string, error) { return r.Catalog.BooksByAgeRestriction(joined(args)) }},
	{Number: 2, Name: "golden-books", Title: "Golden books",
		run: func(r *Runner, _ []string) (string, error) { return r.Catalog.GoldenBooks() }},
	{Number: 3, Name: "books-by-price", Title: "Books by price",
		run: func(r *Runner, _ []string) (string, error) { return r.Catalog.BooksByPrice() }},
	{Number: 4, Name: "not-released-in", Title: "Books not released in a year", Param: "year",
		run: func(r *Runner, args []string) (string, error) {
			year, err := parseInt("year", args[0])
			if err != nil {
				return "", err
			}
			return r.Catalog.BooksNotReleasedIn(year)
		}},
	{Number: 5, Name: "books-by-category", Title: "Book titles by category", Param: "categories",
		run: func(r *Runner, args []string) (string, error) { return r.Catalog.BooksByCategory(joined(args)) }},
	{Number: 6, Name: "released-before", Title: "Books released before a date", Param: "date (dd-MM-yyyy)",
		run: func(r *Runner, args []string) (string, error) { return r.Catalog.BooksReleasedBefore(args[0]) }},
	{Number: 7, Name: "author-search", Title: "Authors whose first name ends with", Param: "suffix",
		run: func(r *Runner, args []string) (string, error) { return r.Catalog.AuthorNamesEndingIn(joined(args)) }},
	{Number: 8, Name: "book-search", Title: "Book titles containing", Param: "text",
		run: func(r *Runner, args []string) (string, error) { return r.Catalog.BookTitlesContaining(joined(args)) }},
	{Number: 9, Name: "books-by-author", Title: "Books by author last name prefix", Param: "prefix",
		run: func(r *Runner, args []string) (string, error) { return r.Catalog.BooksByAuthor(joined(args)) }},
	{Number: 10, Name: "count-books", Title: "Count books with longer titles", Param: "title length",
		run: func(r *Runner, args []string) (string, error) {
			n, err := parseInt("title length", args[0])
			if err != nil {
				return "", err
			}
			count, err := r.Catalog.CountBooks(n)
			if err != nil {
				return "", err
			}
			return strconv.Itoa(count), nil
		}},
	{Number: 11, Name: "copies-by-author", Title: "Total book copies by author",
		run: func(r *Runner, _ []string) (string, error) { return r.Catalog.CopiesByAuthor() }},
	{Number: 12, Name: "profit-by-category", Title: "Profit by category",
		run: func(r *Runner, _ []string) (string, error) { return r.Catalog.ProfitByCategory() }},
	{Number: 13, Name: "most-recent-books", Title: "Most recent books by category",
		run: func(r *Runner, _ []string) (string, error) { return r.Catalog.MostRecentBooksByCategory() }},
	{Number: 14, Name: "increase-prices", Title: "Increase prices of older books",
		Optional: []string{"increment", "cutoff"}, Mutates: true,
		run: func(r *Runner, args []string) (string, error) {
			by, year := r.Defaults.PriceIncrement, r.Defaults.PriceCutoffYear
			if len(args) > 0 {
				f, ok := validate.Amount(args[0])
				if !ok {
					return "", fmt.Errorf("%w: increment %q", ErrMalformedInput, args[0])
				}
				by = f
			}
			if len(args) > 1 {
				y, ok := validate.Year(args[1])
				if !ok {
					return "", fmt.Errorf("%w: cutoff year %q", ErrMalformedInput, args[1])
				}
				year = y
			}
			n, err := r.Catalog.IncreasePrices(by, year)
			if err != nil {
				return "", err
			}
			return strconv.Itoa(n), nil
		}},
	{Number: 15, Name: "remove-books", Title: "Remove books with few copies",
		Optional: []string{"threshold"}, Mutates: true,
		run: func(r *Runner, args []string) (string, error) {
			below := r.Defaults.RemoveCopiesThreshold
			if len(args) > 0 {
				n, err := parseInt("threshold", args[0])
				if err != nil {
					return "", err
				}
				below = n
			}
			n, err := r.Catalog.RemoveBooks(below)
			if err != nil {
				return "", err
			}
			return strconv.Itoa(n), nil
		}},
}

// Lookup finds an operation by name or by number.
func Lookup(key string) (Operation, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, op := range Operations {
		if op.Name == key || strconv.Itoa(op.Number) == key {
			return op, nil
		}
	}
	return Operation{}, fmt.Errorf("%w: %q", ErrUnknownOperation, key)
}

// Runner executes operations against the catalog. Console may be nil, in
// which case a missing required parameter is an error.
type Runner struct {
	Catalog  *CatalogService
	Defaults config.Mutations
	Console  Console
}

func NewRunner(catalog *CatalogService, defaults config.Mutations, console Console) *Runner {
	return &Runner{Catalog: catalog, Defaults: defaults, Console: console}
}

// Run executes op with args, reading the required parameter from the
// console when args is empty. The result is a single text block.
func (r *Runner) Run(op Operation, args []string) (string, error) {
	if op.run == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownOperation, op.Name)
	}
	if op.Param != "" && len(args) == 0 {
		if r.Console == nil {
			return "", fmt.Errorf("%w: %s", ErrMissingArgument, op.Param)
		}
		line, err := r.Console.ReadLine(op.Param)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", op.Param, err)
		}
		args = []string{line}
	}
	return op.run(r, args)
}

func joined(args []string) string { return strings.Join(args, " ") }

func parseInt(name, s string) (int, error) {
	n, ok := validate.Int(s)
	if !ok {
		return 0, fmt.Errorf("%w: %s %q is not an integer", ErrMalformedInput, name, s)
	}
	return n, nil
}
