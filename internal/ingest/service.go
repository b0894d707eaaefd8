package ingest

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"bookshelf/internal/book"
	"bookshelf/internal/metrics"
	"bookshelf/internal/platform/googlebooks"
)

type VolumeSource interface {
	Volumes(ctx context.Context, author string, startIndex, maxResults int) (*googlebooks.VolumesResponse, error)
}

type BookWriter interface {
	InsertMany(ctx context.Context, books []book.NewBook) (int64, error)
}

type Service struct {
	source VolumeSource
	books  BookWriter
}

func NewService(source VolumeSource, books BookWriter) *Service {
	return &Service{source: source, books: books}
}

// Import pulls every volume the source lists for author and stores the ones with
// an external id not seen earlier in the same run. Nothing is written unless
// every page was read.
func (s *Service) Import(ctx context.Context, author string) (res Result, err error) {
	author = strings.TrimSpace(author)
	res = Result{Author: author, State: StateStart}
	if author == "" {
		return res, ErrNoAuthor
	}

	started := time.Now()
	logger := log.With().Str("author", author).Logger()
	logger.Info().Msg("import started")

	defer func() {
		metrics.RecordImportRun(string(res.State), res.Inserted, res.Duplicates)
		ev := logger.Info()
		if err != nil {
			ev = logger.Error().Err(err)
		}
		ev.Str("state", string(res.State)).
			Int("processed", res.Processed).
			Int("inserted", res.Inserted).
			Int("duplicates", res.Duplicates).
			Dur("duration", time.Since(started)).
			Msg("import finished")
	}()

	page, err := s.source.Volumes(ctx, author, 0, PageSize)
	if err != nil {
		res.State = StateSourceError
		return res, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	total := page.TotalItems
	if total <= 0 {
		res.State = StateEmpty
		return res, nil
	}

	res.State = StatePaging
	// total is whatever the source claims; buffers grow with what is actually read.
	seen := make(map[string]struct{}, min(total, PageSize))
	staged := make([]book.NewBook, 0, min(total, PageSize))

	for start := 0; res.Processed < total; start += PageSize {
		if start > 0 {
			page, err = s.source.Volumes(ctx, author, start, PageSize)
			if err != nil {
				res.State = StateSourceError
				return res, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
			}
		}
		if len(page.Items) == 0 {
			break
		}

		for _, v := range page.Items {
			res.Processed++
			if _, dup := seen[v.ID]; dup {
				res.Duplicates++
			} else {
				seen[v.ID] = struct{}{}
				staged = append(staged, toNewBook(v))
			}
			if res.Processed == total {
				break
			}
		}
	}

	res.State = StateCommit
	n, err := s.books.InsertMany(ctx, staged)
	if err != nil {
		res.State = StateStoreError
		return res, err
	}
	res.Inserted = int(n)
	res.State = StateDone
	return res, nil
}

func toNewBook(v googlebooks.Volume) book.NewBook {
	id := v.ID
	acquired := false
	thumbnail := ""
	if v.VolumeInfo.ImageLinks != nil {
		thumbnail = v.VolumeInfo.ImageLinks.Thumbnail
	}
	authors := v.VolumeInfo.Authors
	if authors == nil {
		authors = []string{}
	}

	return book.NewBook{
		ExternalID:    &id,
		Title:         v.VolumeInfo.Title,
		Authors:       authors,
		Acquired:      &acquired,
		PublishedYear: publishedYear(v.VolumeInfo.PublishedDate),
		Thumbnail:     &thumbnail,
	}
}

// publishedYear reads the year from dates like "1965", "1965-08" or "1965-08-01".
func publishedYear(date string) *int {
	if len(date) > 4 {
		date = date[:4]
	}
	year, err := strconv.Atoi(date)
	if err != nil {
		return nil
	}
	return &year
}
