package repository

import (
	"context"

	"farmops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovementRepository is append-only: movements are created and read, never
// updated or deleted.
type MovementRepository interface {
	Create(ctx context.Context, mv *model.StockMovement) error
	// ListByInput returns the full history in insertion order, for replay.
	ListByInput(ctx context.Context, inputID uuid.UUID) ([]model.StockMovement, error)
	// ListByInputPaged is the kardex read path, oldest first.
	ListByInputPaged(ctx context.Context, inputID uuid.UUID, page, limit int) ([]model.StockMovement, int64, error)
	ListByWork(ctx context.Context, workID uuid.UUID) ([]model.StockMovement, error)
}

type movementRepository struct {
	db *gorm.DB
}

func NewMovementRepository(db *gorm.DB) MovementRepository {
	return &movementRepository{db: db}
}

func (r *movementRepository) Create(ctx context.Context, mv *model.StockMovement) error {
	return GetDB(ctx, r.db).Create(mv).Error
}

func (r *movementRepository) ListByInput(ctx context.Context, inputID uuid.UUID) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	if err := GetDB(ctx, r.db).
		Where("input_id = ?", inputID).
		Order("created_at asc").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

func (r *movementRepository) ListByInputPaged(ctx context.Context, inputID uuid.UUID, page, limit int) ([]model.StockMovement, int64, error) {
	var movements []model.StockMovement
	var total int64

	db := GetDB(ctx, r.db).Model(&model.StockMovement{}).Where("input_id = ?", inputID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at asc").Offset(offset).Limit(limit).Find(&movements).Error; err != nil {
		return nil, 0, err
	}

	return movements, total, nil
}

func (r *movementRepository) ListByWork(ctx context.Context, workID uuid.UUID) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	if err := GetDB(ctx, r.db).
		Where("work_id = ?", workID).
		Order("created_at asc").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}
