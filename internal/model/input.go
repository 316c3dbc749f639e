package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Input is a consumable inventory item (fertilizer, seed, medicine...).
// CurrentStock is a cached projection over the movement ledger: it is only
// ever written by a full replay of the input's movement history, never by
// incrementing, so a partial failure self-heals on the next recompute.
type Input struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code         string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"code"`
	Name         string          `gorm:"type:varchar(255);not null" json:"name"`
	Unit         string          `gorm:"type:varchar(20);not null" json:"unit"`
	CurrentStock decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"current_stock"`
	CostPerUnit  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"cost_per_unit"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}
