package repository

import (
	"context"

	"github.com/adsarees/storefront/internal/domain"
	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when the requested record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a record with the same id already exists
	ErrConflict = errors.New("record already exists")
)

// ProductRepository persists catalog products
type ProductRepository interface {
	// List returns every product in insertion order
	List(ctx context.Context) ([]domain.Product, error)

	// Get returns one product or ErrNotFound
	Get(ctx context.Context, id string) (*domain.Product, error)

	// Save inserts the product, or replaces the stored one with the same id
	Save(ctx context.Context, p *domain.Product) error

	// Create inserts the product, ErrConflict when the id is taken
	Create(ctx context.Context, p *domain.Product) error

	// Delete removes exactly one product
	Delete(ctx context.Context, id string) error

	// ToggleFeatured flips the featured flag and returns the updated product
	ToggleFeatured(ctx context.Context, id string) (*domain.Product, error)

	// ToggleActive flips the active flag and returns the updated product
	ToggleActive(ctx context.Context, id string) (*domain.Product, error)
}

// BannerRepository persists homepage banners
type BannerRepository interface {
	List(ctx context.Context) ([]domain.Banner, error)

	// Active returns active banners in insertion order
	Active(ctx context.Context) ([]domain.Banner, error)

	Get(ctx context.Context, id string) (*domain.Banner, error)

	// Save inserts or replaces by id, new banners go to the end
	Save(ctx context.Context, b *domain.Banner) error

	Delete(ctx context.Context, id string) error

	// Toggle flips is_active and returns the updated banner
	Toggle(ctx context.Context, id string) (*domain.Banner, error)
}

// Store bundles the repositories of one persistence adapter
type Store struct {
	Driver   string
	Products ProductRepository
	Banners  BannerRepository
	closer   func() error
}

// Close releases the underlying storage
func (s *Store) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer()
}

// IsNotFound reports whether err is, or wraps, ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
