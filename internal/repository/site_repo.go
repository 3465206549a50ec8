package repository

import (
	"context"

	"go-fleet-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SiteRepository interface {
	Create(ctx context.Context, site *model.Site) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Site, error)
	FindByCode(ctx context.Context, code string) (*model.Site, error)
	FindAll(ctx context.Context) ([]model.Site, error)
	FindTx(tx *gorm.DB, id uuid.UUID) (*model.Site, error)
}

type siteRepo struct {
	db *gorm.DB
}

func NewSiteRepo(db *gorm.DB) SiteRepository {
	return &siteRepo{db}
}

func (r *siteRepo) Create(ctx context.Context, site *model.Site) error {
	return wrap(r.db.WithContext(ctx).Create(site).Error, "create site %s", site.Code)
}

func (r *siteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Site, error) {
	return r.FindTx(r.db.WithContext(ctx), id)
}

func (r *siteRepo) FindByCode(ctx context.Context, code string) (*model.Site, error) {
	var site model.Site
	if err := r.db.WithContext(ctx).First(&site, "code = ?", code).Error; err != nil {
		return nil, wrap(err, "find site by code %s", code)
	}
	return &site, nil
}

func (r *siteRepo) FindAll(ctx context.Context) ([]model.Site, error) {
	var sites []model.Site
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&sites).Error; err != nil {
		return nil, wrap(err, "list sites")
	}
	return sites, nil
}

func (r *siteRepo) FindTx(tx *gorm.DB, id uuid.UUID) (*model.Site, error) {
	var site model.Site
	if err := tx.First(&site, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "find site %s", id)
	}
	return &site, nil
}
