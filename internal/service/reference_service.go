package service

import (
	"context"

	"farmops/internal/apperror"
	"farmops/internal/model"
	"farmops/internal/repository"

	"github.com/google/uuid"
)

// ReferenceService serves the lookup data work forms are built from.
type ReferenceService interface {
	ListCostCenters(ctx context.Context) ([]model.CostCenter, error)
	GetCostCenter(ctx context.Context, id string) (*model.CostCenter, error)
	ListCampaigns(ctx context.Context) ([]model.Campaign, error)
	ListMachinery(ctx context.Context) ([]model.Machinery, error)
}

type referenceService struct {
	repo repository.ReferenceRepository
}

func NewReferenceService(repo repository.ReferenceRepository) ReferenceService {
	return &referenceService{repo: repo}
}

func (s *referenceService) ListCostCenters(ctx context.Context) ([]model.CostCenter, error) {
	return s.repo.ListCostCenters(ctx)
}

func (s *referenceService) GetCostCenter(ctx context.Context, id string) (*model.CostCenter, error) {
	ccID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.NewValidation("id", "invalid cost center id")
	}
	return s.repo.FindCostCenter(ctx, ccID)
}

func (s *referenceService) ListCampaigns(ctx context.Context) ([]model.Campaign, error) {
	return s.repo.ListCampaigns(ctx)
}

func (s *referenceService) ListMachinery(ctx context.Context) ([]model.Machinery, error) {
	return s.repo.ListMachinery(ctx)
}
