package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reference data is read-only for the approval core: the engine consults it
// for guard checks and cost display, never mutates it.

// CostCenter groups works for cost attribution. A work must reference an
// active cost center before it can leave DRAFT.
type CostCenter struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Campaign is an optional seasonal grouping (e.g. "2026 wheat").
type Campaign struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string     `gorm:"type:varchar(255);not null" json:"name"`
	StartsOn  time.Time  `gorm:"type:date;not null" json:"starts_on"`
	EndsOn    *time.Time `gorm:"type:date" json:"ends_on"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Machinery is equipment referenced by work machinery lines.
type Machinery struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code        string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	CostPerHour decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"cost_per_hour"`
	IsActive    bool            `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
