package repository

import (
	"context"
	"time"

	"github.com/adsarees/storefront/internal/domain"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewGormStore returns the relational adapter
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Driver:   "sql",
		Products: NewGormProductRepository(db),
		Banners:  NewGormBannerRepository(db),
	}
}

func orderBySort(db *gorm.DB) *gorm.DB {
	return db.Order("sort ASC")
}

func translate(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return errors.Wrap(err, msg)
}

// GormProductRepository is the GORM implementation of ProductRepository
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GORM-based repository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) withMedia(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("ColorRows", orderBySort).
		Preload("ImageRows", orderBySort)
}

func (r *GormProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	var rows []domain.Product
	err := r.withMedia(ctx).Order("created_at ASC").Order("id ASC").Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return rows, nil
}

func (r *GormProductRepository) Get(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := r.withMedia(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err, "get product")
	}
	return &p, nil
}

func (r *GormProductRepository) exists(tx *gorm.DB, id string) (bool, error) {
	var count int64
	err := tx.Model(&domain.Product{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *GormProductRepository) Create(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := r.exists(tx, p.ID)
		if err != nil {
			return errors.Wrap(err, "create product")
		}
		if found {
			return ErrConflict
		}
		// the product row, colors and images go in together
		return errors.Wrap(tx.Create(p).Error, "create product")
	})
}

func (r *GormProductRepository) Save(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current domain.Product
		err := tx.Select("id", "created_at").Where("id = ?", p.ID).First(&current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.Wrap(tx.Create(p).Error, "save product")
		}
		if err != nil {
			return errors.Wrap(err, "save product")
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = current.CreatedAt
		}
		p.UpdatedAt = time.Now()
		if err := tx.Omit(clause.Associations).Save(p).Error; err != nil {
			return errors.Wrap(err, "save product")
		}
		if err := tx.Where("product_id = ?", p.ID).Delete(&domain.ProductColor{}).Error; err != nil {
			return errors.Wrap(err, "replace colors")
		}
		if err := tx.Where("product_id = ?", p.ID).Delete(&domain.ProductImage{}).Error; err != nil {
			return errors.Wrap(err, "replace images")
		}
		if len(p.ColorRows) > 0 {
			if err := tx.Create(&p.ColorRows).Error; err != nil {
				return errors.Wrap(err, "replace colors")
			}
		}
		if len(p.ImageRows) > 0 {
			if err := tx.Create(&p.ImageRows).Error; err != nil {
				return errors.Wrap(err, "replace images")
			}
		}
		return nil
	})
}

func (r *GormProductRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&domain.ProductColor{}).Error; err != nil {
			return errors.Wrap(err, "delete colors")
		}
		if err := tx.Where("product_id = ?", id).Delete(&domain.ProductImage{}).Error; err != nil {
			return errors.Wrap(err, "delete images")
		}
		res := tx.Where("id = ?", id).Delete(&domain.Product{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete product")
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *GormProductRepository) toggle(ctx context.Context, id, column string) (*domain.Product, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			column:       gorm.Expr("NOT " + column),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "toggle "+column)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *GormProductRepository) ToggleFeatured(ctx context.Context, id string) (*domain.Product, error) {
	return r.toggle(ctx, id, "featured")
}

func (r *GormProductRepository) ToggleActive(ctx context.Context, id string) (*domain.Product, error) {
	return r.toggle(ctx, id, "active")
}

// GormBannerRepository is the GORM implementation of BannerRepository
type GormBannerRepository struct {
	db *gorm.DB
}

func NewGormBannerRepository(db *gorm.DB) *GormBannerRepository {
	return &GormBannerRepository{db: db}
}

func (r *GormBannerRepository) List(ctx context.Context) ([]domain.Banner, error) {
	var rows []domain.Banner
	err := r.db.WithContext(ctx).Order("sort ASC").Find(&rows).Error
	return rows, errors.Wrap(err, "list banners")
}

func (r *GormBannerRepository) Active(ctx context.Context) ([]domain.Banner, error) {
	var rows []domain.Banner
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("sort ASC").Find(&rows).Error
	return rows, errors.Wrap(err, "list active banners")
}

func (r *GormBannerRepository) Get(ctx context.Context, id string) (*domain.Banner, error) {
	var b domain.Banner
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		return nil, translate(err, "get banner")
	}
	return &b, nil
}

func (r *GormBannerRepository) Save(ctx context.Context, b *domain.Banner) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current domain.Banner
		err := tx.Where("id = ?", b.ID).First(&current).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			var maxSort int64
			if err := tx.Model(&domain.Banner{}).Select("COALESCE(MAX(sort), 0)").Scan(&maxSort).Error; err != nil {
				return errors.Wrap(err, "save banner")
			}
			b.Sort = maxSort + 1
			return errors.Wrap(tx.Create(b).Error, "save banner")
		case err != nil:
			return errors.Wrap(err, "save banner")
		}
		b.Sort = current.Sort
		b.CreatedAt = current.CreatedAt
		return errors.Wrap(tx.Save(b).Error, "save banner")
	})
}

func (r *GormBannerRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Banner{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete banner")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormBannerRepository) Toggle(ctx context.Context, id string) (*domain.Banner, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Banner{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  gorm.Expr("NOT is_active"),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "toggle banner")
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}
