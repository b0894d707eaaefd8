package book

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// createInput carries the presence rules of a new book.
type createInput struct {
	Title   string   `validate:"required"`
	Authors []string `validate:"required,min=1"`
}

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the books matching f. An empty filter lists every book.
func (s *Service) List(ctx context.Context, f Filter) ([]Book, error) {
	if f.IsEmpty() {
		return s.repo.ListAll(ctx)
	}
	return s.repo.List(ctx, f)
}

// Get returns a book by its id.
func (s *Service) Get(ctx context.Context, id int64) (Book, error) {
	return s.repo.Get(ctx, id)
}

// Create validates nb and stores it. A missing title or authors list yields a *ValidationError.
func (s *Service) Create(ctx context.Context, nb NewBook) (Book, error) {
	if err := validateNew(nb); err != nil {
		return Book{}, err
	}
	return s.repo.Create(ctx, nb)
}

// Update applies p to the book with the given id.
func (s *Service) Update(ctx context.Context, id int64, p Patch) (Book, error) {
	return s.repo.Update(ctx, id, p)
}

// Delete removes the book with the given id and reports whether it existed.
func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	return s.repo.Delete(ctx, id)
}

func validateNew(nb NewBook) error {
	err := validate.Struct(createInput{Title: nb.Title, Authors: nb.Authors})
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	missing := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		missing = append(missing, strings.ToLower(fe.Field()))
	}
	return &ValidationError{Missing: missing}
}
