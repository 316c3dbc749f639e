package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType enum constants
const (
	MovementEntry      = "ENTRY"
	MovementExit       = "EXIT"
	MovementAdjustment = "ADJUSTMENT"
	MovementTransfer   = "TRANSFER" // transfer out of the premise
)

// Adjustment direction constants. Quantity is always positive; ADJUSTMENT
// carries an explicit direction so the replay fold stays signed.
const (
	AdjustmentIn  = "IN"
	AdjustmentOut = "OUT"
)

// StockMovement is an append-only ledger entry. Rows are never updated or
// deleted; a mistaken movement is corrected by a compensating one.
type StockMovement struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InputID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"input_id"`
	WorkID       *uuid.UUID      `gorm:"type:uuid;index" json:"work_id"` // set when a work caused the movement
	Type         string          `gorm:"type:varchar(20);not null" json:"type"`
	Direction    string          `gorm:"type:varchar(5)" json:"direction,omitempty"` // ADJUSTMENT only: IN, OUT
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UnitCost     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"unit_cost"`
	BalanceAfter decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"balance_after"`
	MovementDate time.Time       `gorm:"type:date;not null" json:"movement_date"`
	Note         string          `gorm:"type:text" json:"note"`
	CreatedBy    *uuid.UUID      `gorm:"type:uuid" json:"created_by"`
	CreatedAt    time.Time       `gorm:"index" json:"created_at"`
}

// SignedQuantity is the movement's effect on the balance: ENTRY adds, EXIT
// and TRANSFER subtract, ADJUSTMENT follows its direction.
func (m *StockMovement) SignedQuantity() decimal.Decimal {
	switch m.Type {
	case MovementEntry:
		return m.Quantity
	case MovementExit, MovementTransfer:
		return m.Quantity.Neg()
	case MovementAdjustment:
		if m.Direction == AdjustmentOut {
			return m.Quantity.Neg()
		}
		return m.Quantity
	default:
		return decimal.Zero
	}
}

// Outbound reports whether the movement reduces the balance and therefore
// needs an availability check before posting.
func (m *StockMovement) Outbound() bool {
	return m.SignedQuantity().IsNegative()
}
