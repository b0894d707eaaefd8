package ingest

import (
	"errors"
)

// PageSize is the number of volumes requested per page; the source caps maxResults at 40.
const PageSize = 40

var (
	ErrSourceUnavailable = errors.New("book source unavailable")
	ErrNoAuthor          = errors.New("author is required")
)

type State string

const (
	StateStart       State = "start"
	StatePaging      State = "paging"
	StateCommit      State = "commit"
	StateDone        State = "done"
	StateEmpty       State = "empty"
	StateSourceError State = "source-error"
	StateStoreError  State = "store-error"
)

// Result describes one import run.
//
// Processed counts every item read from the source, duplicates included, and is
// the number reported to callers. Inserted is what actually reached the store.
type Result struct {
	Author     string
	Processed  int
	Inserted   int
	Duplicates int
	State      State
}
