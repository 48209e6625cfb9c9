package services_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshop/internal/config"
	"bookshop/internal/domain"
	"bookshop/internal/services"
)

// scripted answers prompts from a fixed list and records what was asked.
type scripted struct {
	lines []string
	asked []string
}

func (s *scripted) ReadLine(prompt string) (string, error) {
	s.asked = append(s.asked, prompt)
	if len(s.lines) == 0 {
		return "", errors.New("no more input")
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func TestOperationsAreNumberedInOrder(t *testing.T) {
	require.Len(t, services.Operations, 15)
	seen := map[string]bool{}
	for i, op := range services.Operations {
		assert.Equal(t, i+1, op.Number)
		assert.False(t, seen[op.Name], "duplicate name %s", op.Name)
		seen[op.Name] = true
		assert.Equal(t, op.Number >= 14, op.Mutates, op.Name)
	}
}

func TestLookup(t *testing.T) {
	op, err := services.Lookup("golden-books")
	require.NoError(t, err)
	assert.Equal(t, 2, op.Number)

	op, err = services.Lookup(" 13 ")
	require.NoError(t, err)
	assert.Equal(t, "most-recent-books", op.Name)

	op, err = services.Lookup("Count-Books")
	require.NoError(t, err)
	assert.Equal(t, 10, op.Number)

	for _, key := range []string{"", "0", "16", "drop-tables"} {
		_, err = services.Lookup(key)
		assert.ErrorIs(t, err, services.ErrUnknownOperation, key)
	}
}

func TestRunner_PromptsForMissingParameter(t *testing.T) {
	f := newFixture(t)
	f.book(domain.Book{Title: "Teen Book", AgeRestriction: domain.AgeTeen})

	con := &scripted{lines: []string{"TEEN"}}
	r := services.NewRunner(f.svc, config.DefaultMutations(), con)

	op, err := services.Lookup("age-restriction")
	require.NoError(t, err)
	out, err := r.Run(op, nil)
	require.NoError(t, err)
	assert.Equal(t, "Teen Book", out)
	assert.Equal(t, []string{"age group"}, con.asked)

	// given arguments are not prompted for
	out, err = r.Run(op, []string{"adult"})
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Len(t, con.asked, 1)
}

func TestRunner_NoPromptWithoutParameter(t *testing.T) {
	f := newFixture(t)
	con := &scripted{}
	r := services.NewRunner(f.svc, config.DefaultMutations(), con)

	op, err := services.Lookup("golden-books")
	require.NoError(t, err)
	_, err = r.Run(op, nil)
	require.NoError(t, err)
	assert.Empty(t, con.asked)
}

func TestRunner_MissingArgumentWithoutConsole(t *testing.T) {
	f := newFixture(t)
	r := services.NewRunner(f.svc, config.DefaultMutations(), nil)

	op, err := services.Lookup("not-released-in")
	require.NoError(t, err)
	_, err = r.Run(op, nil)
	assert.ErrorIs(t, err, services.ErrMissingArgument)
}

func TestRunner_MalformedNumbers(t *testing.T) {
	f := newFixture(t)
	r := services.NewRunner(f.svc, config.DefaultMutations(), nil)

	for _, tc := range []struct {
		op   string
		args []string
	}{
		{"not-released-in", []string{"twenty"}},
		{"count-books", []string{"4.5"}},
		{"released-before", []string{"1/1/2000"}},
		{"increase-prices", []string{"five"}},
		{"increase-prices", []string{"5", "recent"}},
		{"remove-books", []string{"lots"}},
	} {
		op, err := services.Lookup(tc.op)
		require.NoError(t, err)
		out, err := r.Run(op, tc.args)
		assert.ErrorIs(t, err, services.ErrMalformedInput, "%s %v", tc.op, tc.args)
		assert.Empty(t, out)
	}
}

func TestRunner_JoinsWordArguments(t *testing.T) {
	f := newFixture(t)
	romance := f.category("Romance")
	horror := f.category("Horror")
	f.book(domain.Book{Title: "Love"}, romance)
	f.book(domain.Book{Title: "Fear"}, horror)

	r := services.NewRunner(f.svc, config.DefaultMutations(), nil)
	op, err := services.Lookup("5")
	require.NoError(t, err)
	out, err := r.Run(op, []string{"romance", "horror"})
	require.NoError(t, err)
	assert.Equal(t, "Fear\nLove", out)
}

func TestRunner_MutationDefaults(t *testing.T) {
	f := newFixture(t)
	old := f.book(domain.Book{Title: "Old", Price: 10, Copies: 100, ReleaseDate: date("2005-01-01")})
	f.book(domain.Book{Title: "New", Price: 10, Copies: 9000, ReleaseDate: date("2015-01-01")})

	r := services.NewRunner(f.svc, config.DefaultMutations(), nil)

	op, err := services.Lookup("increase-prices")
	require.NoError(t, err)
	out, err := r.Run(op, nil)
	require.NoError(t, err)
	assert.Equal(t, "1", out)
	assertPrice(t, f, old.ID, 15)

	out, err = r.Run(op, []string{"2.5", "2020"})
	require.NoError(t, err)
	assert.Equal(t, "2", out)
	assertPrice(t, f, old.ID, 17.5)

	op, err = services.Lookup("remove-books")
	require.NoError(t, err)
	out, err = r.Run(op, nil)
	require.NoError(t, err)
	assert.Equal(t, "1", out)

	out, err = r.Run(op, []string{"0"})
	require.NoError(t, err)
	assert.Equal(t, "0", out)
}

func TestRunner_CountBooks(t *testing.T) {
	f := newFixture(t)
	f.book(domain.Book{Title: "Short"})
	f.book(domain.Book{Title: "A much longer title"})

	r := services.NewRunner(f.svc, config.DefaultMutations(), &scripted{lines: []string{" 6 "}})
	op, err := services.Lookup("count-books")
	require.NoError(t, err)
	out, err := r.Run(op, nil)
	require.NoError(t, err)
	assert.Equal(t, "1", out)
}
