package repository

import (
	"context"
	"time"

	"github.com/adsarees/storefront/internal/domain"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

const (
	ProductsKey = "admin_sarees_data"
	BannersKey  = "admin_banner_images"
)

var (
	snapshotBucket = []byte("storefront")
	json           = jsoniter.ConfigCompatibleWithStandardLibrary
)

// SnapshotStore keeps each collection as one JSON blob in a bbolt file.
// Every mutation rewrites the whole collection.
type SnapshotStore struct {
	db *bolt.DB
}

// OpenSnapshotStore opens (or creates) the snapshot file and returns the adapter bundle
func OpenSnapshotStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open snapshot store")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(snapshotBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "init snapshot bucket")
	}
	s := &SnapshotStore{db: db}
	return &Store{
		Driver:   "snapshot",
		Products: &snapshotProducts{s},
		Banners:  &snapshotBanners{s},
		closer:   db.Close,
	}, nil
}

// readBlob decodes the collection stored under key. A missing or unreadable blob
// is replaced by the seed collection.
func readBlob[T any](tx *bolt.Tx, key string, seed func() []T) ([]T, error) {
	b := tx.Bucket(snapshotBucket)
	raw := b.Get([]byte(key))
	var items []T
	if raw != nil {
		err := json.Unmarshal(raw, &items)
		if err == nil {
			return items, nil
		}
		zap.L().Warn("snapshot: corrupt blob, resetting to defaults",
			zap.String("key", key), zap.Error(err))
	}
	items = seed()
	if tx.Writable() {
		if err := writeBlob(tx, key, items); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func writeBlob[T any](tx *bolt.Tx, key string, items []T) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return errors.Wrap(err, "encode "+key)
	}
	return tx.Bucket(snapshotBucket).Put([]byte(key), raw)
}

func (s *SnapshotStore) view(fn func(tx *bolt.Tx) error) error {
	return s.db.View(fn)
}

func (s *SnapshotStore) update(fn func(tx *bolt.Tx) error) error {
	return s.db.Update(fn)
}

func seedProducts() []domain.Product {
	items := domain.DefaultProducts()
	now := time.Now()
	for i := range items {
		items[i].SyncMedia()
		items[i].CreatedAt = now
		items[i].UpdatedAt = now
	}
	return items
}

type snapshotProducts struct {
	s *SnapshotStore
}

func (r *snapshotProducts) load(tx *bolt.Tx) ([]domain.Product, error) {
	return readBlob(tx, ProductsKey, seedProducts)
}

func (r *snapshotProducts) List(ctx context.Context) ([]domain.Product, error) {
	var result []domain.Product
	err := r.s.update(func(tx *bolt.Tx) error {
		items, err := r.load(tx)
		if err != nil {
			return err
		}
		result = make([]domain.Product, 0, len(items))
		for _, p := range items {
			result = append(result, p.Clone())
		}
		return nil
	})
	return result, err
}

func (r *snapshotProducts) Get(ctx context.Context, id string) (*domain.Product, error) {
	var result *domain.Product
	err := r.s.view(func(tx *bolt.Tx) error {
		items, err := r.load(tx)
		if err != nil {
			return err
		}
		for _, p := range items {
			if p.ID == id {
				c := p.Clone()
				result = &c
				return nil
			}
		}
		return ErrNotFound
	})
	return result, err
}

func (r *snapshotProducts) put(p *domain.Product, allowReplace bool) error {
	return r.s.update(func(tx *bolt.Tx) error {
		items, err := r.load(tx)
		if err != nil {
			return err
		}
		now := time.Now()
		p.SyncMedia()
		p.UpdatedAt = now
		for i := range items {
			if items[i].ID != p.ID {
				continue
			}
			if !allowReplace {
				return ErrConflict
			}
			if p.CreatedAt.IsZero() {
				p.CreatedAt = items[i].CreatedAt
			}
			items[i] = p.Clone()
			return writeBlob(tx, ProductsKey, items)
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		items = append(items, p.Clone())
		return writeBlob(tx, ProductsKey, items)
	})
}

func (r *snapshotProducts) Save(ctx context.Context, p *domain.Product) error {
	return r.put(p, true)
}

func (r *snapshotProducts) Create(ctx context.Context, p *domain.Product) error {
	return r.put(p, false)
}

func (r *snapshotProducts) Delete(ctx context.Context, id string) error {
	return r.s.update(func(tx *bolt.Tx) error {
		items, err := r.load(tx)
		if err != nil {
			return err
		}
		for i := range items {
			if items[i].ID == id {
				items = append(items[:i], items[i+1:]...)
				return writeBlob(tx, ProductsKey, items)
			}
		}
		return ErrNotFound
	})
}

func (r *snapshotProducts) toggle(id string, flip func(p *domain.Product)) (*domain.Product, error) {
	var result *domain.Product
	err := r.s.update(func(tx *bolt.Tx) error {
		items, err := r.load(tx)
		if err != nil {
			return err
		}
		for i := range items {
			if items[i].ID == id {
				flip(&items[i])
				items[i].UpdatedAt = time.Now()
				c := items[i].Clone()
				result = &c
				return writeBlob(tx, ProductsKey, items)
			}
		}
		return ErrNotFound
	})
	return result, err
}

func (r *snapshotProducts) ToggleFeatured(ctx context.Context, id string) (*domain.Product, error) {
	return r.toggle(id, func(p *domain.Product) { p.Featured = !p.Featured })
}

func (r *snapshotProducts) ToggleActive(ctx context.Context, id string) (*domain.Product, error) {
	return r.toggle(id, func(p *domain.Product) { p.Active = !p.Active })
}

type snapshotBanners struct {
	s *SnapshotStore
}

func (r *snapshotBanners) load(tx *bolt.Tx) ([]domain.Banner, error) {
	return readBlob(tx, BannersKey, domain.DefaultBanners)
}

func (r *snapshotBanners) List(ctx context.Context) ([]domain.Banner, error) {
	var result []domain.Banner
	err := r.s.update(func(tx *bolt.Tx) error {
		items, err := r.load(tx)
		result = items
		return err
	})
	return result, err
}

func (r *snapshotBanners) Active(ctx context.Context) ([]domain.Banner, error) {
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]domain.Banner, 0, len(items))
	for _, b := range items {
		if b.IsActive {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r *snapshotBanners) Get(ctx context.Context, id string) (*domain.Banner, error) {
	var result *domain.Banner
	err := r.s.view(func(tx *bolt.Tx) error {
		items, err := r.load(tx)
		if err != nil {
			return err
		}
		for i := range items {
			if items[i].ID == id {
				b := items[i]
				result = &b
				return nil
			}
		}
		return ErrNotFound
	})
	return result, err
}

func (r *snapshotBanners) Save(ctx context.Context, b *domain.Banner) error {
	return r.s.update(func(tx *bolt.Tx) error {
		items, err := r.load(tx)
		if err != nil {
			return err
		}
		now := time.Now()
		b.UpdatedAt = now
		var maxSort int64
		for i := range items {
			if items[i].Sort > maxSort {
				maxSort = items[i].Sort
			}
			if items[i].ID == b.ID {
				b.Sort = items[i].Sort
				b.CreatedAt = items[i].CreatedAt
				items[i] = *b
				return writeBlob(tx, BannersKey, items)
			}
		}
		b.Sort = maxSort + 1
		b.CreatedAt = now
		items = append(items, *b)
		return writeBlob(tx, BannersKey, items)
	})
}

func (r *snapshotBanners) Delete(ctx context.Context, id string) error {
	return r.s.update(func(tx *bolt.Tx) error {
		items, err := r.load(tx)
		if err != nil {
			return err
		}
		for i := range items {
			if items[i].ID == id {
				items = append(items[:i], items[i+1:]...)
				return writeBlob(tx, BannersKey, items)
			}
		}
		return ErrNotFound
	})
}

func (r *snapshotBanners) Toggle(ctx context.Context, id string) (*domain.Banner, error) {
	var result *domain.Banner
	err := r.s.update(func(tx *bolt.Tx) error {
		items, err := r.load(tx)
		if err != nil {
			return err
		}
		for i := range items {
			if items[i].ID == id {
				items[i].IsActive = !items[i].IsActive
				items[i].UpdatedAt = time.Now()
				b := items[i]
				result = &b
				return writeBlob(tx, BannersKey, items)
			}
		}
		return ErrNotFound
	})
	return result, err
}
