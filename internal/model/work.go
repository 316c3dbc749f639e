package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WorkKind enum constants
const (
	WorkKindAgricultural = "AGRICULTURAL"
	WorkKindLivestock    = "LIVESTOCK"
)

// WorkStatus enum constants
const (
	WorkStatusDraft           = "DRAFT"
	WorkStatusPendingApproval = "PENDING_APPROVAL"
	WorkStatusApproved        = "APPROVED"
	WorkStatusClosed          = "CLOSED"
	WorkStatusCancelled       = "CANCELLED"
)

// workTransitions is the closed transition table for the Work lifecycle.
// CANCELLED is reachable from every non-terminal-of-cancellation state;
// rejection is the PENDING_APPROVAL -> DRAFT edge, not a stored status.
var workTransitions = map[string][]string{
	WorkStatusDraft:           {WorkStatusPendingApproval, WorkStatusCancelled},
	WorkStatusPendingApproval: {WorkStatusApproved, WorkStatusDraft, WorkStatusCancelled},
	WorkStatusApproved:        {WorkStatusClosed, WorkStatusCancelled},
	WorkStatusClosed:          {WorkStatusCancelled},
	WorkStatusCancelled:       {},
}

// CanTransition reports whether the lifecycle allows moving from one status
// to another. Unknown statuses never transition anywhere.
func CanTransition(from, to string) bool {
	for _, allowed := range workTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Work is a record of agricultural or livestock activity with cost-bearing
// line items, progressing through the approval lifecycle. Content is mutable
// only while DRAFT; after that only the status and its audit fields change.
type Work struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Kind string    `gorm:"type:varchar(20);not null;index" json:"kind"` // AGRICULTURAL, LIVESTOCK

	// Location references are opaque foreign keys validated upstream.
	FirmID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"firm_id"`
	PremiseID uuid.UUID  `gorm:"type:uuid;not null" json:"premise_id"`
	LotID     *uuid.UUID `gorm:"type:uuid" json:"lot_id"`  // agricultural works
	HerdID    *uuid.UUID `gorm:"type:uuid" json:"herd_id"` // livestock works

	Status string `gorm:"type:varchar(30);not null;default:'DRAFT';index" json:"status"`

	// Cost attribution. CostCenterID may be empty while DRAFT but is
	// mandatory before the work can leave DRAFT.
	CostCenterID *uuid.UUID `gorm:"type:uuid;index" json:"cost_center_id"`
	CampaignID   *uuid.UUID `gorm:"type:uuid;index" json:"campaign_id"`

	WorkDate    time.Time       `gorm:"type:date;not null" json:"work_date"`
	Description string          `gorm:"type:text" json:"description"`
	OtherCosts  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"other_costs"`

	// Version guards concurrent transitions of the same work.
	Version int `gorm:"not null;default:1" json:"version"`

	SubmittedBy        *uuid.UUID `gorm:"type:uuid" json:"submitted_by"`
	SubmittedAt        *time.Time `json:"submitted_at"`
	ApprovedBy         *uuid.UUID `gorm:"type:uuid" json:"approved_by"`
	ApprovedAt         *time.Time `json:"approved_at"`
	CancelledBy        *uuid.UUID `gorm:"type:uuid" json:"cancelled_by"`
	CancelledAt        *time.Time `json:"cancelled_at"`
	CancellationReason string     `gorm:"type:text" json:"cancellation_reason"`
	RejectionReason    string     `gorm:"type:text" json:"rejection_reason"`

	InputLines     []WorkInputLine     `gorm:"foreignKey:WorkID;constraint:OnDelete:CASCADE" json:"input_lines"`
	MachineryLines []WorkMachineryLine `gorm:"foreignKey:WorkID;constraint:OnDelete:CASCADE" json:"machinery_lines"`
	LaborLines     []WorkLaborLine     `gorm:"foreignKey:WorkID;constraint:OnDelete:CASCADE" json:"labor_lines"`

	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// WorkInputLine is an applied consumable: the quantities here drive the
// stock deduction at approval and the reversal at cancellation.
type WorkInputLine struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	WorkID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"work_id"`
	InputID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"input_id"`
	Unit            string          `gorm:"type:varchar(20)" json:"unit"`
	QuantityApplied decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity_applied"`
	CostPerUnit     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"cost_per_unit"`
}

type WorkMachineryLine struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	WorkID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"work_id"`
	MachineryID uuid.UUID       `gorm:"type:uuid;not null;index" json:"machinery_id"`
	HoursUsed   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"hours_used"`
	CostPerHour decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"cost_per_hour"`
}

type WorkLaborLine struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	WorkID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"work_id"`
	WorkerName  string          `gorm:"type:varchar(255);not null" json:"worker_name"`
	HoursWorked decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"hours_worked"`
	CostPerHour decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"cost_per_hour"`
}

// InputCost sums quantity * cost_per_unit over the input lines.
func (w *Work) InputCost() decimal.Decimal {
	total := decimal.Zero
	for _, l := range w.InputLines {
		total = total.Add(l.QuantityApplied.Mul(l.CostPerUnit))
	}
	return total
}

// MachineryCost sums hours * cost_per_hour over the machinery lines.
func (w *Work) MachineryCost() decimal.Decimal {
	total := decimal.Zero
	for _, l := range w.MachineryLines {
		total = total.Add(l.HoursUsed.Mul(l.CostPerHour))
	}
	return total
}

// LaborCost sums hours * cost_per_hour over the labor lines.
func (w *Work) LaborCost() decimal.Decimal {
	total := decimal.Zero
	for _, l := range w.LaborLines {
		total = total.Add(l.HoursWorked.Mul(l.CostPerHour))
	}
	return total
}

// TotalCost is always recomputed from the lines, never stored.
func (w *Work) TotalCost() decimal.Decimal {
	return w.InputCost().Add(w.MachineryCost()).Add(w.LaborCost()).Add(w.OtherCosts)
}
