package repository

import (
	"context"
	"errors"

	"farmops/internal/apperror"
	"farmops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WorkFilter narrows work listings for the approval inbox.
type WorkFilter struct {
	Status string
	Kind   string
	Page   int
	Limit  int
}

type WorkRepository interface {
	Create(ctx context.Context, work *model.Work) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Work, error)
	// FindByIDForUpdate locks the work row for the duration of the ambient
	// transaction; line collections are loaded alongside.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Work, error)
	// ReplaceLines drops all three line collections and inserts the ones on
	// the given work. Line edits are wholesale, never diffed.
	ReplaceLines(ctx context.Context, work *model.Work) error
	// UpdateVersioned applies updates guarded by the optimistic version and
	// bumps it. A stale version yields a ConflictError.
	UpdateVersioned(ctx context.Context, id uuid.UUID, version int, updates map[string]interface{}) error
	List(ctx context.Context, filter WorkFilter) ([]model.Work, int64, error)
}

type workRepository struct {
	db *gorm.DB
}

func NewWorkRepository(db *gorm.DB) WorkRepository {
	return &workRepository{db: db}
}

func (r *workRepository) Create(ctx context.Context, work *model.Work) error {
	return GetDB(ctx, r.db).Create(work).Error
}

func (r *workRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Work, error) {
	var work model.Work
	if err := GetDB(ctx, r.db).
		Preload("InputLines").
		Preload("MachineryLines").
		Preload("LaborLines").
		First(&work, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("work", id.String())
		}
		return nil, err
	}
	return &work, nil
}

func (r *workRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Work, error) {
	var work model.Work
	if err := GetDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&work, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("work", id.String())
		}
		return nil, err
	}

	db := GetDB(ctx, r.db)
	if err := db.Where("work_id = ?", id).Find(&work.InputLines).Error; err != nil {
		return nil, err
	}
	if err := db.Where("work_id = ?", id).Find(&work.MachineryLines).Error; err != nil {
		return nil, err
	}
	if err := db.Where("work_id = ?", id).Find(&work.LaborLines).Error; err != nil {
		return nil, err
	}
	return &work, nil
}

func (r *workRepository) ReplaceLines(ctx context.Context, work *model.Work) error {
	db := GetDB(ctx, r.db)

	if err := db.Where("work_id = ?", work.ID).Delete(&model.WorkInputLine{}).Error; err != nil {
		return err
	}
	if err := db.Where("work_id = ?", work.ID).Delete(&model.WorkMachineryLine{}).Error; err != nil {
		return err
	}
	if err := db.Where("work_id = ?", work.ID).Delete(&model.WorkLaborLine{}).Error; err != nil {
		return err
	}

	for i := range work.InputLines {
		work.InputLines[i].ID = uuid.Nil
		work.InputLines[i].WorkID = work.ID
		if err := db.Create(&work.InputLines[i]).Error; err != nil {
			return err
		}
	}
	for i := range work.MachineryLines {
		work.MachineryLines[i].ID = uuid.Nil
		work.MachineryLines[i].WorkID = work.ID
		if err := db.Create(&work.MachineryLines[i]).Error; err != nil {
			return err
		}
	}
	for i := range work.LaborLines {
		work.LaborLines[i].ID = uuid.Nil
		work.LaborLines[i].WorkID = work.ID
		if err := db.Create(&work.LaborLines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *workRepository) UpdateVersioned(ctx context.Context, id uuid.UUID, version int, updates map[string]interface{}) error {
	updates["version"] = version + 1
	res := GetDB(ctx, r.db).Model(&model.Work{}).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NewConflict("work was modified concurrently")
	}
	return nil
}

func (r *workRepository) List(ctx context.Context, filter WorkFilter) ([]model.Work, int64, error) {
	var works []model.Work
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Work{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Kind != "" {
		db = db.Where("kind = ?", filter.Kind)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	if err := db.
		Preload("InputLines").
		Preload("MachineryLines").
		Preload("LaborLines").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&works).Error; err != nil {
		return nil, 0, err
	}

	return works, total, nil
}
