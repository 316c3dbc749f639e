package repository

import (
	"context"
	"errors"

	"farmops/internal/apperror"
	"farmops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReferenceRepository serves the read-only reference data (cost centers,
// campaigns, machinery) the approval core consults for guards and display.
type ReferenceRepository interface {
	FindCostCenter(ctx context.Context, id uuid.UUID) (*model.CostCenter, error)
	ListCostCenters(ctx context.Context) ([]model.CostCenter, error)
	FindCampaign(ctx context.Context, id uuid.UUID) (*model.Campaign, error)
	ListCampaigns(ctx context.Context) ([]model.Campaign, error)
	FindMachinery(ctx context.Context, id uuid.UUID) (*model.Machinery, error)
	ListMachinery(ctx context.Context) ([]model.Machinery, error)
}

type referenceRepository struct {
	db *gorm.DB
}

func NewReferenceRepository(db *gorm.DB) ReferenceRepository {
	return &referenceRepository{db: db}
}

func (r *referenceRepository) FindCostCenter(ctx context.Context, id uuid.UUID) (*model.CostCenter, error) {
	var cc model.CostCenter
	if err := GetDB(ctx, r.db).First(&cc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("cost center", id.String())
		}
		return nil, err
	}
	return &cc, nil
}

func (r *referenceRepository) ListCostCenters(ctx context.Context) ([]model.CostCenter, error) {
	var ccs []model.CostCenter
	if err := GetDB(ctx, r.db).Order("code asc").Find(&ccs).Error; err != nil {
		return nil, err
	}
	return ccs, nil
}

func (r *referenceRepository) FindCampaign(ctx context.Context, id uuid.UUID) (*model.Campaign, error) {
	var c model.Campaign
	if err := GetDB(ctx, r.db).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("campaign", id.String())
		}
		return nil, err
	}
	return &c, nil
}

func (r *referenceRepository) ListCampaigns(ctx context.Context) ([]model.Campaign, error) {
	var cs []model.Campaign
	if err := GetDB(ctx, r.db).Order("starts_on desc").Find(&cs).Error; err != nil {
		return nil, err
	}
	return cs, nil
}

func (r *referenceRepository) FindMachinery(ctx context.Context, id uuid.UUID) (*model.Machinery, error) {
	var m model.Machinery
	if err := GetDB(ctx, r.db).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("machinery", id.String())
		}
		return nil, err
	}
	return &m, nil
}

func (r *referenceRepository) ListMachinery(ctx context.Context) ([]model.Machinery, error) {
	var ms []model.Machinery
	if err := GetDB(ctx, r.db).Order("code asc").Find(&ms).Error; err != nil {
		return nil, err
	}
	return ms, nil
}
