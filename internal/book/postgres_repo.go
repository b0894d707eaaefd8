package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectColumns = `book_id, ext_id, title, authors, acquired, published_year, thumbnail`

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.ExternalID, &b.Title, &b.Authors, &b.Acquired, &b.PublishedYear, &b.Thumbnail)
	if b.Authors == nil {
		b.Authors = []string{}
	}
	return b, err
}

func (r *PostgresRepo) ListAll(ctx context.Context) ([]Book, error) {
	return r.query(ctx, "list all", `SELECT `+selectColumns+` FROM bookstore ORDER BY book_id`)
}

func (r *PostgresRepo) List(ctx context.Context, f Filter) ([]Book, error) {
	where, args := f.Where()
	sql := fmt.Sprintf(`SELECT %s FROM bookstore %s ORDER BY book_id`, selectColumns, where)
	return r.query(ctx, "list", sql, args...)
}

func (r *PostgresRepo) query(ctx context.Context, op, sql string, args ...any) ([]Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, sql, args...)
	if err != nil {
		return nil, &StoreError{Op: op, Err: err}
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, &StoreError{Op: op, Err: err}
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: op, Err: err}
	}
	return out, nil
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (Book, error) {
	const sql = `SELECT ` + selectColumns + ` FROM bookstore WHERE book_id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, &StoreError{Op: "get", Err: err}
	}
	return b, nil
}

func (r *PostgresRepo) Create(ctx context.Context, nb NewBook) (Book, error) {
	const sql = `
		INSERT INTO bookstore (ext_id, title, authors, acquired, published_year, thumbnail)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + selectColumns

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, sql,
		nb.ExternalID, nb.Title, nb.Authors, nb.Acquired, nb.PublishedYear, nb.Thumbnail,
	))
	if err != nil {
		return Book{}, &StoreError{Op: "create", Err: err}
	}
	return b, nil
}

// Update writes only the non-nil fields of p; a NULL argument falls back to the
// current column value through COALESCE.
func (r *PostgresRepo) Update(ctx context.Context, id int64, p Patch) (Book, error) {
	const sql = `
		UPDATE bookstore SET
			ext_id = COALESCE($2, ext_id),
			title = COALESCE($3, title),
			authors = COALESCE($4, authors),
			acquired = COALESCE($5, acquired),
			published_year = COALESCE($6, published_year),
			thumbnail = COALESCE($7, thumbnail)
		WHERE book_id = $1
		RETURNING ` + selectColumns

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, sql,
		id, p.ExternalID, p.Title, p.Authors, p.Acquired, p.PublishedYear, p.Thumbnail,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, &StoreError{Op: "update", Err: err}
	}
	return b, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) (bool, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM bookstore WHERE book_id = $1`, id)
	if err != nil {
		return false, &StoreError{Op: "delete", Err: err}
	}
	return tag.RowsAffected() > 0, nil
}

// InsertMany copies books in a single COPY statement, so either every row lands or none.
func (r *PostgresRepo) InsertMany(ctx context.Context, books []NewBook) (int64, error) {
	if len(books) == 0 {
		return 0, nil
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	n, err := r.db.CopyFrom(timeoutCtx,
		pgx.Identifier{"bookstore"},
		[]string{"ext_id", "title", "authors", "acquired", "published_year", "thumbnail"},
		pgx.CopyFromSlice(len(books), func(i int) ([]any, error) {
			b := books[i]
			return []any{b.ExternalID, b.Title, b.Authors, b.Acquired, b.PublishedYear, b.Thumbnail}, nil
		}),
	)
	if err != nil {
		return 0, &StoreError{Op: "insert many", Err: err}
	}
	return n, nil
}

// Ping checks that the pool can reach the database.
func (r *PostgresRepo) Ping(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.Ping(timeoutCtx)
}
