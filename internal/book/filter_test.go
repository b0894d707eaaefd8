package book

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	t.Run("no options", func(t *testing.T) {
		f, err := ParseFilter(url.Values{})
		require.NoError(t, err)
		assert.True(t, f.IsEmpty())
	})

	t.Run("empty values are ignored", func(t *testing.T) {
		f, err := ParseFilter(url.Values{"title": {""}, "author": {""}})
		require.NoError(t, err)
		assert.True(t, f.IsEmpty())
	})

	t.Run("all options", func(t *testing.T) {
		f, err := ParseFilter(url.Values{
			"title":    {"Dune"},
			"author":   {"'Herbert'"},
			"from":     {"1960"},
			"to":       {"1970"},
			"acquired": {"true"},
		})
		require.NoError(t, err)
		require.NotNil(t, f.Title)
		assert.Equal(t, "Dune", *f.Title)
		require.NotNil(t, f.Author)
		assert.Equal(t, "Herbert", *f.Author)
		assert.Equal(t, 1960, *f.YearFrom)
		assert.Equal(t, 1970, *f.YearTo)
		assert.True(t, *f.Acquired)
	})

	t.Run("double quoted title", func(t *testing.T) {
		f, err := ParseFilter(url.Values{"title": {`"Dune"`}})
		require.NoError(t, err)
		assert.Equal(t, "Dune", *f.Title)
	})

	t.Run("only one bound", func(t *testing.T) {
		f, err := ParseFilter(url.Values{"to": {"1999"}})
		require.NoError(t, err)
		assert.Nil(t, f.YearFrom)
		assert.Equal(t, 1999, *f.YearTo)
	})

	t.Run("invalid year", func(t *testing.T) {
		_, err := ParseFilter(url.Values{"from": {"1970; DELETE FROM bookstore"}})
		assert.ErrorIs(t, err, ErrInvalidFilter)
	})

	t.Run("invalid acquired", func(t *testing.T) {
		_, err := ParseFilter(url.Values{"acquired": {"maybe"}})
		assert.ErrorIs(t, err, ErrInvalidFilter)
	})
}

func TestFilter_Where(t *testing.T) {
	t.Run("empty filter", func(t *testing.T) {
		where, args := Filter{}.Where()
		assert.Equal(t, "WHERE 1=1", where)
		assert.Empty(t, args)
	})

	t.Run("all options are ANDed", func(t *testing.T) {
		title, author := "Dune", "Herbert"
		from, to := 1960, 1970
		acquired := false

		where, args := Filter{Title: &title, Author: &author, YearFrom: &from, YearTo: &to, Acquired: &acquired}.Where()

		assert.Equal(t,
			"WHERE 1=1 AND title = $1 AND array_to_string(authors, ', ') LIKE $2 AND published_year >= $3 AND published_year <= $4 AND acquired = $5",
			where)
		assert.Equal(t, []any{"Dune", "%Herbert%", 1960, 1970, false}, args)
	})

	t.Run("placeholders stay sequential when options are skipped", func(t *testing.T) {
		author := "Herbert"
		to := 1970
		where, args := Filter{Author: &author, YearTo: &to}.Where()
		assert.Equal(t, "WHERE 1=1 AND array_to_string(authors, ', ') LIKE $1 AND published_year <= $2", where)
		assert.Equal(t, []any{"%Herbert%", 1970}, args)
	})

	t.Run("user values never reach the SQL text", func(t *testing.T) {
		title := "a'; DROP TABLE bookstore; --"
		author := "x' OR '1'='1"

		where, args := Filter{Title: &title, Author: &author}.Where()

		assert.NotContains(t, where, "DROP")
		assert.NotContains(t, where, "'1'='1")
		assert.NotContains(t, where, ";")
		assert.Equal(t, title, args[0])
		assert.Equal(t, "%x' OR '1'='1%", args[1])
	})

	t.Run("author LIKE metacharacters match literally", func(t *testing.T) {
		author := `100%_sure\`
		_, args := Filter{Author: &author}.Where()
		assert.Equal(t, `%100\%\_sure\\%`, args[0])
	})
}

func TestUnquote(t *testing.T) {
	assert.Equal(t, "Herbert", unquote("'Herbert'"))
	assert.Equal(t, "Herbert", unquote(`"Herbert"`))
	assert.Equal(t, "'Herbert\"", unquote("'Herbert\""))
	assert.Equal(t, "'", unquote("'"))
	assert.Equal(t, "", unquote("''"))
	assert.Equal(t, "a'; DROP TABLE bookstore; --", unquote("a'; DROP TABLE bookstore; --"))
}
