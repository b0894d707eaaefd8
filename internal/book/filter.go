package book

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Filter defines the optional criteria of a list query. Nil fields impose no constraint.
type Filter struct {
	Title    *string
	Author   *string
	YearFrom *int
	YearTo   *int
	Acquired *bool
}

// IsEmpty reports whether no criterion is set.
func (f Filter) IsEmpty() bool {
	return f.Title == nil && f.Author == nil && f.YearFrom == nil && f.YearTo == nil && f.Acquired == nil
}

// ParseFilter reads the title, author, from, to and acquired query parameters.
// Empty parameters are ignored.
func ParseFilter(query url.Values) (Filter, error) {
	var f Filter

	if v := unquote(query.Get("title")); v != "" {
		f.Title = &v
	}
	if v := unquote(query.Get("author")); v != "" {
		f.Author = &v
	}
	if v := unquote(query.Get("from")); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return Filter{}, fmt.Errorf("%w: from=%q", ErrInvalidFilter, v)
		}
		f.YearFrom = &year
	}
	if v := unquote(query.Get("to")); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return Filter{}, fmt.Errorf("%w: to=%q", ErrInvalidFilter, v)
		}
		f.YearTo = &year
	}
	if v := unquote(query.Get("acquired")); v != "" {
		acquired, err := strconv.ParseBool(v)
		if err != nil {
			return Filter{}, fmt.Errorf("%w: acquired=%q", ErrInvalidFilter, v)
		}
		f.Acquired = &acquired
	}
	return f, nil
}

// Where builds the WHERE clause for f. The SQL text only ever contains fixed
// fragments and $n placeholders; every user value is returned in args.
func (f Filter) Where() (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if f.Title != nil {
		clauses = append(clauses, fmt.Sprintf("title = $%d", argn))
		args = append(args, *f.Title)
		argn++
	}

	if f.Author != nil {
		clauses = append(clauses, fmt.Sprintf("array_to_string(authors, ', ') LIKE $%d", argn))
		args = append(args, "%"+escapeLike(*f.Author)+"%")
		argn++
	}

	if f.YearFrom != nil {
		clauses = append(clauses, fmt.Sprintf("published_year >= $%d", argn))
		args = append(args, *f.YearFrom)
		argn++
	}

	if f.YearTo != nil {
		clauses = append(clauses, fmt.Sprintf("published_year <= $%d", argn))
		args = append(args, *f.YearTo)
		argn++
	}

	if f.Acquired != nil {
		clauses = append(clauses, fmt.Sprintf("acquired = $%d", argn))
		args = append(args, *f.Acquired)
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

// unquote strips one pair of matching surrounding quotes, so 'Herbert' and
// "Herbert" both become Herbert.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '\'' || first == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
