package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionWorkCreated   = "WORK_CREATED"
	ActionWorkUpdated   = "WORK_UPDATED"
	ActionWorkSubmitted = "WORK_SUBMITTED"
	ActionWorkApproved  = "WORK_APPROVED"
	ActionWorkRejected  = "WORK_REJECTED"
	ActionWorkClosed    = "WORK_CLOSED"
	ActionWorkCancelled = "WORK_CANCELLED"

	ActionInputCreated    = "INPUT_CREATED"
	ActionMovementPosted  = "STOCK_MOVEMENT_POSTED"
	ActionStockRecomputed = "STOCK_RECOMPUTED"
)

// AuditLog tracks Who, What, and When for every state change. Entries are
// written inside the same transaction as the change they describe, so a
// failed audit write rolls the whole transition back.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // nullable for automated jobs
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:jsonb" json:"details"` // serialized JSON payload
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
