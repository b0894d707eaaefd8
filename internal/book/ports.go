package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	ListAll(ctx context.Context) ([]Book, error)
	List(ctx context.Context, f Filter) ([]Book, error)
	Get(ctx context.Context, id int64) (Book, error)
	Create(ctx context.Context, nb NewBook) (Book, error)
	Update(ctx context.Context, id int64, p Patch) (Book, error)
	Delete(ctx context.Context, id int64) (bool, error)
	InsertMany(ctx context.Context, books []NewBook) (int64, error)
}
