package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/adsarees/storefront/internal/domain"
)

// checkProducts seeds the default catalog into an empty products table
func (a *Application) checkProducts() {
	var count int64
	if err := a.gormDB.Model(&domain.Product{}).Count(&count).Error; err != nil {
		zap.L().Error("failed to count products", zap.Error(err))
		return
	}
	if count > 0 {
		return
	}

	ctx := context.Background()
	for _, p := range domain.DefaultProducts() {
		p := p
		p.SyncMedia()
		if err := a.store.Products.Create(ctx, &p); err != nil {
			zap.L().Error("failed to create default product", zap.String("id", p.ID), zap.Error(err))
		} else {
			zap.L().Info("initialized default product", zap.String("id", p.ID), zap.String("name", p.Name))
		}
	}
}

// checkBanners seeds the default home page slider into an empty banners table
func (a *Application) checkBanners() {
	var count int64
	if err := a.gormDB.Model(&domain.Banner{}).Count(&count).Error; err != nil {
		zap.L().Error("failed to count banners", zap.Error(err))
		return
	}
	if count > 0 {
		return
	}

	ctx := context.Background()
	for _, b := range domain.DefaultBanners() {
		b := b
		if err := a.store.Banners.Save(ctx, &b); err != nil {
			zap.L().Error("failed to create default banner", zap.String("id", b.ID), zap.Error(err))
		}
	}
	zap.L().Info("initialized default banners")
}
