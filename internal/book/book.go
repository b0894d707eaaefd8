package book

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// ErrInvalidFilter is returned when a numeric or boolean filter value does not parse.
var ErrInvalidFilter = errors.New("invalid filter")

// Book represents a row of the bookstore table.
type Book struct {
	ID            int64    `json:"id"`
	ExternalID    *string  `json:"external_id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Acquired      *bool    `json:"acquired"`
	PublishedYear *int     `json:"published_year"`
	Thumbnail     *string  `json:"thumbnail"`
}

// NewBook holds the fields of a book that does not have an id yet.
type NewBook struct {
	ExternalID    *string
	Title         string
	Authors       []string
	Acquired      *bool
	PublishedYear *int
	Thumbnail     *string
}

// Patch lists the fields of a partial update. Nil fields keep their stored value.
type Patch struct {
	ExternalID    *string
	Title         *string
	Authors       []string
	Acquired      *bool
	PublishedYear *int
	Thumbnail     *string
}

// ValidationError reports required fields missing from a create request.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	var title, authors bool
	for _, f := range e.Missing {
		switch f {
		case "title":
			title = true
		case "authors":
			authors = true
		}
	}
	switch {
	case title && authors:
		return "no autors and no title"
	case title:
		return "no title"
	case authors:
		return "no autors"
	}
	return "missing " + strings.Join(e.Missing, ", ")
}

// StoreError wraps a persistence failure that is not otherwise classified.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("book store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
