package repository

import (
	"bytes"
	"context"
	"errors"
	"slices"

	"farmops/internal/apperror"
	"farmops/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InputRepository interface {
	Create(ctx context.Context, input *model.Input) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Input, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Input, error)
	// LockByIDs locks the given input rows FOR UPDATE in ascending id order,
	// so two approvals sharing two or more inputs cannot deadlock.
	LockByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Input, error)
	List(ctx context.Context, page, limit int, search string) ([]model.Input, int64, error)
	// UpdateStock writes the recomputed projection. Only the ledger's replay
	// may call this; nothing else touches current_stock.
	UpdateStock(ctx context.Context, id uuid.UUID, stock decimal.Decimal) error
}

type inputRepository struct {
	db *gorm.DB
}

func NewInputRepository(db *gorm.DB) InputRepository {
	return &inputRepository{db: db}
}

func (r *inputRepository) Create(ctx context.Context, input *model.Input) error {
	return GetDB(ctx, r.db).Create(input).Error
}

func (r *inputRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Input, error) {
	var input model.Input
	if err := GetDB(ctx, r.db).First(&input, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("input", id.String())
		}
		return nil, err
	}
	return &input, nil
}

func (r *inputRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Input, error) {
	var input model.Input
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&input, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("input", id.String())
		}
		return nil, err
	}
	return &input, nil
}

func (r *inputRepository) LockByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Input, error) {
	sorted := make([]uuid.UUID, len(ids))
	copy(sorted, ids)
	slices.SortFunc(sorted, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})
	sorted = slices.Compact(sorted)

	inputs := make([]model.Input, 0, len(sorted))
	for _, id := range sorted {
		input, err := r.FindByIDForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, *input)
	}
	return inputs, nil
}

func (r *inputRepository) List(ctx context.Context, page, limit int, search string) ([]model.Input, int64, error) {
	var inputs []model.Input
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Input{})
	if search != "" {
		db = db.Where("name ILIKE ?", "%"+search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&inputs).Error; err != nil {
		return nil, 0, err
	}

	return inputs, total, nil
}

func (r *inputRepository) UpdateStock(ctx context.Context, id uuid.UUID, stock decimal.Decimal) error {
	return GetDB(ctx, r.db).Model(&model.Input{}).Where("id = ?", id).
		Update("current_stock", stock).Error
}
