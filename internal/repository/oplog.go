package repository

import (
	"context"
	"time"

	"github.com/adsarees/storefront/internal/domain"
	"github.com/adsarees/storefront/pkg/common"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// OprLogFilter narrows the operation log listing
type OprLogFilter struct {
	Action   string
	Operator string
	Since    time.Time
}

// OprLogRepository stores the admin audit trail
type OprLogRepository interface {
	Create(ctx context.Context, log *domain.SysOprLog) error
	List(ctx context.Context, filter OprLogFilter, page, pageSize int) ([]domain.SysOprLog, int64, error)
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

type GormOprLogRepository struct {
	db *gorm.DB
}

func NewGormOprLogRepository(db *gorm.DB) *GormOprLogRepository {
	return &GormOprLogRepository{db: db}
}

func (r *GormOprLogRepository) Create(ctx context.Context, log *domain.SysOprLog) error {
	if log.ID == 0 {
		log.ID = common.UUIDint64()
	}
	if log.OptTime.IsZero() {
		log.OptTime = time.Now()
	}
	return errors.Wrap(r.db.WithContext(ctx).Create(log).Error, "create operation log")
}

func (r *GormOprLogRepository) List(ctx context.Context, filter OprLogFilter, page, pageSize int) ([]domain.SysOprLog, int64, error) {
	var rows []domain.SysOprLog
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.SysOprLog{})
	if filter.Action != "" {
		query = query.Where("opt_action = ?", filter.Action)
	}
	if filter.Operator != "" {
		query = query.Where("opr_name = ?", filter.Operator)
	}
	if !filter.Since.IsZero() {
		query = query.Where("opt_time >= ?", filter.Since)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count operation logs")
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	err := query.
		Order("opt_time DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	return rows, total, errors.Wrap(err, "list operation logs")
}

func (r *GormOprLogRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("opt_time < ?", before).Delete(&domain.SysOprLog{})
	return res.RowsAffected, errors.Wrap(res.Error, "purge operation logs")
}
