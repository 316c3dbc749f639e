package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"farmops/internal/apperror"
	"farmops/internal/model"
	"farmops/internal/repository"
	ws "farmops/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type InputLineRequest struct {
	InputID         string          `json:"input_id" binding:"required"`
	Unit            string          `json:"unit"`
	QuantityApplied decimal.Decimal `json:"quantity_applied" binding:"required"`
	CostPerUnit     decimal.Decimal `json:"cost_per_unit"`
}

type MachineryLineRequest struct {
	MachineryID string          `json:"machinery_id" binding:"required"`
	HoursUsed   decimal.Decimal `json:"hours_used" binding:"required"`
	CostPerHour decimal.Decimal `json:"cost_per_hour"`
}

type LaborLineRequest struct {
	WorkerName  string          `json:"worker_name" binding:"required"`
	HoursWorked decimal.Decimal `json:"hours_worked" binding:"required"`
	CostPerHour decimal.Decimal `json:"cost_per_hour"`
}

type CreateWorkRequest struct {
	Kind           string                 `json:"kind" binding:"required,oneof=AGRICULTURAL LIVESTOCK"`
	FirmID         string                 `json:"firm_id" binding:"required"`
	PremiseID      string                 `json:"premise_id" binding:"required"`
	LotID          string                 `json:"lot_id"`  // agricultural works
	HerdID         string                 `json:"herd_id"` // livestock works
	CostCenterID   string                 `json:"cost_center_id"`
	CampaignID     string                 `json:"campaign_id"`
	WorkDate       string                 `json:"work_date"` // YYYY-MM-DD, defaults to today
	Description    string                 `json:"description"`
	OtherCosts     decimal.Decimal        `json:"other_costs"`
	InputLines     []InputLineRequest     `json:"input_lines" binding:"dive"`
	MachineryLines []MachineryLineRequest `json:"machinery_lines" binding:"dive"`
	LaborLines     []LaborLineRequest     `json:"labor_lines" binding:"dive"`
}

// UpdateWorkRequest replaces the work's content wholesale; line collections
// are never diffed against what is stored.
type UpdateWorkRequest struct {
	CostCenterID   string                 `json:"cost_center_id"`
	CampaignID     string                 `json:"campaign_id"`
	WorkDate       string                 `json:"work_date"`
	Description    string                 `json:"description"`
	OtherCosts     decimal.Decimal        `json:"other_costs"`
	InputLines     []InputLineRequest     `json:"input_lines" binding:"dive"`
	MachineryLines []MachineryLineRequest `json:"machinery_lines" binding:"dive"`
	LaborLines     []LaborLineRequest     `json:"labor_lines" binding:"dive"`
}

type ReasonRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type WorkCosts struct {
	Inputs    decimal.Decimal `json:"inputs"`
	Machinery decimal.Decimal `json:"machinery"`
	Labor     decimal.Decimal `json:"labor"`
	Other     decimal.Decimal `json:"other"`
	Total     decimal.Decimal `json:"total"`
}

type InputLineResponse struct {
	InputID         string          `json:"input_id"`
	Unit            string          `json:"unit"`
	QuantityApplied decimal.Decimal `json:"quantity_applied"`
	CostPerUnit     decimal.Decimal `json:"cost_per_unit"`
	LineCost        decimal.Decimal `json:"line_cost"`
}

type MachineryLineResponse struct {
	MachineryID string          `json:"machinery_id"`
	HoursUsed   decimal.Decimal `json:"hours_used"`
	CostPerHour decimal.Decimal `json:"cost_per_hour"`
	LineCost    decimal.Decimal `json:"line_cost"`
}

type LaborLineResponse struct {
	WorkerName  string          `json:"worker_name"`
	HoursWorked decimal.Decimal `json:"hours_worked"`
	CostPerHour decimal.Decimal `json:"cost_per_hour"`
	LineCost    decimal.Decimal `json:"line_cost"`
}

type WorkResponse struct {
	ID                 string                  `json:"id"`
	Kind               string                  `json:"kind"`
	Status             string                  `json:"status"`
	FirmID             string                  `json:"firm_id"`
	PremiseID          string                  `json:"premise_id"`
	LotID              *string                 `json:"lot_id,omitempty"`
	HerdID             *string                 `json:"herd_id,omitempty"`
	CostCenterID       *string                 `json:"cost_center_id,omitempty"`
	CampaignID         *string                 `json:"campaign_id,omitempty"`
	WorkDate           string                  `json:"work_date"`
	Description        string                  `json:"description"`
	Version            int                     `json:"version"`
	Costs              WorkCosts               `json:"costs"`
	InputLines         []InputLineResponse     `json:"input_lines"`
	MachineryLines     []MachineryLineResponse `json:"machinery_lines"`
	LaborLines         []LaborLineResponse     `json:"labor_lines"`
	SubmittedBy        *string                 `json:"submitted_by,omitempty"`
	SubmittedAt        *string                 `json:"submitted_at,omitempty"`
	ApprovedBy         *string                 `json:"approved_by,omitempty"`
	ApprovedAt         *string                 `json:"approved_at,omitempty"`
	CancelledBy        *string                 `json:"cancelled_by,omitempty"`
	CancelledAt        *string                 `json:"cancelled_at,omitempty"`
	CancellationReason string                  `json:"cancellation_reason,omitempty"`
	RejectionReason    string                  `json:"rejection_reason,omitempty"`
	CreatedAt          string                  `json:"created_at"`
}

// --- Interface ---

// WorkService is the work transition engine: the only component allowed to
// trigger ledger writes on behalf of a work.
type WorkService interface {
	CreateWork(ctx context.Context, userID string, req CreateWorkRequest) (WorkResponse, error)
	UpdateWork(ctx context.Context, userID, id string, req UpdateWorkRequest) (WorkResponse, error)
	SubmitWork(ctx context.Context, userID, id string) (WorkResponse, error)
	ApproveWork(ctx context.Context, userID, id string) (WorkResponse, error)
	RejectWork(ctx context.Context, userID, id, reason string) (WorkResponse, error)
	CloseWork(ctx context.Context, userID, id string) (WorkResponse, error)
	CancelWork(ctx context.Context, userID, id, reason string) (WorkResponse, error)
	GetWork(ctx context.Context, id string) (WorkResponse, error)
	ListWorks(ctx context.Context, filter repository.WorkFilter) ([]WorkResponse, int64, error)
}

type workService struct {
	workRepo  repository.WorkRepository
	inputRepo repository.InputRepository
	refRepo   repository.ReferenceRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	ledger    LedgerService
	checker   AvailabilityChecker
	hub       *ws.Hub
}

func NewWorkService(
	workRepo repository.WorkRepository,
	inputRepo repository.InputRepository,
	refRepo repository.ReferenceRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	ledger LedgerService,
	checker AvailabilityChecker,
	hub *ws.Hub,
) WorkService {
	return &workService{
		workRepo:  workRepo,
		inputRepo: inputRepo,
		refRepo:   refRepo,
		auditRepo: auditRepo,
		txManager: txManager,
		ledger:    ledger,
		checker:   checker,
		hub:       hub,
	}
}

// --- Implementation ---

func (s *workService) CreateWork(ctx context.Context, userID string, req CreateWorkRequest) (WorkResponse, error) {
	firmID, err := uuid.Parse(req.FirmID)
	if err != nil {
		return WorkResponse{}, apperror.NewValidation("firm_id", "invalid id")
	}
	premiseID, err := uuid.Parse(req.PremiseID)
	if err != nil {
		return WorkResponse{}, apperror.NewValidation("premise_id", "invalid id")
	}

	var lotID, herdID *uuid.UUID
	switch req.Kind {
	case model.WorkKindAgricultural:
		if lotID, err = parseOptionalID(req.LotID); err != nil || lotID == nil {
			return WorkResponse{}, apperror.NewValidation("lot_id", "agricultural work requires a lot")
		}
	case model.WorkKindLivestock:
		if herdID, err = parseOptionalID(req.HerdID); err != nil || herdID == nil {
			return WorkResponse{}, apperror.NewValidation("herd_id", "livestock work requires a herd")
		}
	}

	costCenterID, err := parseOptionalID(req.CostCenterID)
	if err != nil {
		return WorkResponse{}, apperror.NewValidation("cost_center_id", "invalid id")
	}
	campaignID, err := parseOptionalID(req.CampaignID)
	if err != nil {
		return WorkResponse{}, apperror.NewValidation("campaign_id", "invalid id")
	}

	workDate := time.Now()
	if req.WorkDate != "" {
		parsed, parseErr := time.Parse("2006-01-02", req.WorkDate)
		if parseErr != nil {
			return WorkResponse{}, apperror.NewValidation("work_date", "expected YYYY-MM-DD")
		}
		workDate = parsed
	}

	inputLines, machineryLines, laborLines, err := buildLines(req.InputLines, req.MachineryLines, req.LaborLines)
	if err != nil {
		return WorkResponse{}, err
	}

	uid := parseActor(userID)
	work := model.Work{
		Kind:           req.Kind,
		Status:         model.WorkStatusDraft,
		FirmID:         firmID,
		PremiseID:      premiseID,
		LotID:          lotID,
		HerdID:         herdID,
		CostCenterID:   costCenterID,
		CampaignID:     campaignID,
		WorkDate:       workDate,
		Description:    req.Description,
		OtherCosts:     req.OtherCosts,
		Version:        1,
		InputLines:     inputLines,
		MachineryLines: machineryLines,
		LaborLines:     laborLines,
		CreatedBy:      uid,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.workRepo.Create(txCtx, &work); err != nil {
			return fmt.Errorf("failed to create work: %w", err)
		}
		return s.audit(txCtx, uid, model.ActionWorkCreated, &work, map[string]interface{}{
			"kind":        work.Kind,
			"input_lines": len(work.InputLines),
		})
	})
	if err != nil {
		return WorkResponse{}, err
	}

	return toWorkResponse(&work), nil
}

func (s *workService) UpdateWork(ctx context.Context, userID, id string, req UpdateWorkRequest) (WorkResponse, error) {
	workID, err := uuid.Parse(id)
	if err != nil {
		return WorkResponse{}, apperror.NewValidation("id", "invalid work id")
	}

	costCenterID, err := parseOptionalID(req.CostCenterID)
	if err != nil {
		return WorkResponse{}, apperror.NewValidation("cost_center_id", "invalid id")
	}
	campaignID, err := parseOptionalID(req.CampaignID)
	if err != nil {
		return WorkResponse{}, apperror.NewValidation("campaign_id", "invalid id")
	}

	inputLines, machineryLines, laborLines, err := buildLines(req.InputLines, req.MachineryLines, req.LaborLines)
	if err != nil {
		return WorkResponse{}, err
	}

	uid := parseActor(userID)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		work, lockErr := s.workRepo.FindByIDForUpdate(txCtx, workID)
		if lockErr != nil {
			return lockErr
		}
		if work.Status != model.WorkStatusDraft {
			return apperror.NewState("work", work.Status, "update")
		}

		updates := map[string]interface{}{
			"cost_center_id": costCenterID,
			"campaign_id":    campaignID,
			"description":    req.Description,
			"other_costs":    req.OtherCosts,
		}
		if req.WorkDate != "" {
			parsed, parseErr := time.Parse("2006-01-02", req.WorkDate)
			if parseErr != nil {
				return apperror.NewValidation("work_date", "expected YYYY-MM-DD")
			}
			updates["work_date"] = parsed
		}

		work.InputLines = inputLines
		work.MachineryLines = machineryLines
		work.LaborLines = laborLines
		if err := s.workRepo.ReplaceLines(txCtx, work); err != nil {
			return fmt.Errorf("failed to replace line items: %w", err)
		}
		if err := s.workRepo.UpdateVersioned(txCtx, workID, work.Version, updates); err != nil {
			return err
		}

		return s.audit(txCtx, uid, model.ActionWorkUpdated, work, map[string]interface{}{
			"input_lines":     len(inputLines),
			"machinery_lines": len(machineryLines),
			"labor_lines":     len(laborLines),
		})
	})
	if err != nil {
		return WorkResponse{}, err
	}

	return s.GetWork(ctx, id)
}

func (s *workService) SubmitWork(ctx context.Context, userID, id string) (WorkResponse, error) {
	workID, err := uuid.Parse(id)
	if err != nil {
		return WorkResponse{}, apperror.NewValidation("id", "invalid work id")
	}

	uid := parseActor(userID)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		work, lockErr := s.workRepo.FindByIDForUpdate(txCtx, workID)
		if lockErr != nil {
			return lockErr
		}
		if work.Status != model.WorkStatusDraft {
			return apperror.NewState("work", work.Status, "submit")
		}
		if work.CostCenterID == nil {
			return apperror.NewValidation("cost_center_id", "required before submitting")
		}
		if len(work.InputLines) == 0 {
			return apperror.NewValidation("input_lines", "at least one input line is required")
		}

		cc, ccErr := s.refRepo.FindCostCenter(txCtx, *work.CostCenterID)
		if ccErr != nil {
			return ccErr
		}
		if !cc.IsActive {
			return apperror.NewValidation("cost_center_id", "cost center "+cc.Code+" is inactive")
		}

		now := time.Now()
		if err := s.workRepo.UpdateVersioned(txCtx, workID, work.Version, map[string]interface{}{
			"status":           model.WorkStatusPendingApproval,
			"submitted_by":     uid,
			"submitted_at":     now,
			"rejection_reason": "",
		}); err != nil {
			return err
		}

		return s.audit(txCtx, uid, model.ActionWorkSubmitted, work, map[string]interface{}{
			"cost_center": cc.Code,
		})
	})
	if err != nil {
		return WorkResponse{}, err
	}

	s.notify(id, model.WorkStatusPendingApproval)
	return s.GetWork(ctx, id)
}

// ApproveWork deducts stock and flips the status in one transaction. The
// availability check and the deductions run against input rows locked FOR
// UPDATE in ascending id order, so concurrent approvals competing for the
// same inputs are serialized and can never jointly over-deduct.
func (s *workService) ApproveWork(ctx context.Context, userID, id string) (WorkResponse, error) {
	workID, err := uuid.Parse(id)
	if err != nil {
		return WorkResponse{}, apperror.NewValidation("id", "invalid work id")
	}

	uid := parseActor(userID)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		work, lockErr := s.workRepo.FindByIDForUpdate(txCtx, workID)
		if lockErr != nil {
			return lockErr
		}
		if work.Status != model.WorkStatusPendingApproval {
			return apperror.NewState("work", work.Status, "approve")
		}
		if work.CostCenterID == nil {
			return apperror.NewValidation("cost_center_id", "required before approving")
		}

		ids := make([]uuid.UUID, 0, len(work.InputLines))
		demands := make([]Demand, 0, len(work.InputLines))
		for _, line := range work.InputLines {
			ids = append(ids, line.InputID)
			demands = append(demands, Demand{InputID: line.InputID, Quantity: line.QuantityApplied})
		}

		if _, lockErr := s.inputRepo.LockByIDs(txCtx, ids); lockErr != nil {
			return lockErr
		}

		shortfalls, checkErr := s.checker.CheckAll(txCtx, demands)
		if checkErr != nil {
			return checkErr
		}
		if len(shortfalls) > 0 {
			// All-or-nothing: no movement is posted for any line.
			return &apperror.InsufficientStockError{Shortfalls: shortfalls}
		}

		now := time.Now()
		for _, line := range work.InputLines {
			mv := &model.StockMovement{
				InputID:      line.InputID,
				WorkID:       &work.ID,
				Type:         model.MovementExit,
				Quantity:     line.QuantityApplied,
				UnitCost:     line.CostPerUnit,
				MovementDate: now,
				Note:         "work approval",
				CreatedBy:    uid,
			}
			if _, postErr := s.ledger.Post(txCtx, mv); postErr != nil {
				return postErr
			}
		}

		if err := s.workRepo.UpdateVersioned(txCtx, workID, work.Version, map[string]interface{}{
			"status":      model.WorkStatusApproved,
			"approved_by": uid,
			"approved_at": now,
		}); err != nil {
			return err
		}

		return s.audit(txCtx, uid, model.ActionWorkApproved, work, map[string]interface{}{
			"input_lines": len(work.InputLines),
		})
	})
	if err != nil {
		return WorkResponse{}, err
	}

	s.notify(id, model.WorkStatusApproved)
	return s.GetWork(ctx, id)
}

func (s *workService) RejectWork(ctx context.Context, userID, id, reason string) (WorkResponse, error) {
	workID, err := uuid.Parse(id)
	if err != nil {
		return WorkResponse{}, apperror.NewValidation("id", "invalid work id")
	}
	if reason == "" {
		return WorkResponse{}, apperror.NewValidation("reason", "required")
	}

	uid := parseActor(userID)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		work, lockErr := s.workRepo.FindByIDForUpdate(txCtx, workID)
		if lockErr != nil {
			return lockErr
		}
		if work.Status != model.WorkStatusPendingApproval {
			return apperror.NewState("work", work.Status, "reject")
		}

		if err := s.workRepo.UpdateVersioned(txCtx, workID, work.Version, map[string]interface{}{
			"status":           model.WorkStatusDraft,
			"rejection_reason": reason,
		}); err != nil {
			return err
		}

		return s.audit(txCtx, uid, model.ActionWorkRejected, work, map[string]interface{}{
			"reason": reason,
		})
	})
	if err != nil {
		return WorkResponse{}, err
	}

	s.notify(id, model.WorkStatusDraft)
	return s.GetWork(ctx, id)
}

func (s *workService) CloseWork(ctx context.Context, userID, id string) (WorkResponse, error) {
	workID, err := uuid.Parse(id)
	if err != nil {
		return WorkResponse{}, apperror.NewValidation("id", "invalid work id")
	}

	uid := parseActor(userID)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		work, lockErr := s.workRepo.FindByIDForUpdate(txCtx, workID)
		if lockErr != nil {
			return lockErr
		}
		if work.Status != model.WorkStatusApproved {
			return apperror.NewState("work", work.Status, "close")
		}

		if err := s.workRepo.UpdateVersioned(txCtx, workID, work.Version, map[string]interface{}{
			"status": model.WorkStatusClosed,
		}); err != nil {
			return err
		}

		return s.audit(txCtx, uid, model.ActionWorkClosed, work, nil)
	})
	if err != nil {
		return WorkResponse{}, err
	}

	s.notify(id, model.WorkStatusClosed)
	return s.GetWork(ctx, id)
}

// CancelWork reverses exactly what approval deducted, exactly once. The
// reversal quantities come from the work's own stored input lines, and the
// status guard is the idempotency fence: a second cancel of the same work
// fails before any reversal is attempted.
func (s *workService) CancelWork(ctx context.Context, userID, id, reason string) (WorkResponse, error) {
	workID, err := uuid.Parse(id)
	if err != nil {
		return WorkResponse{}, apperror.NewValidation("id", "invalid work id")
	}
	if reason == "" {
		return WorkResponse{}, apperror.NewValidation("reason", "required")
	}

	uid := parseActor(userID)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		work, lockErr := s.workRepo.FindByIDForUpdate(txCtx, workID)
		if lockErr != nil {
			return lockErr
		}
		if !model.CanTransition(work.Status, model.WorkStatusCancelled) {
			return apperror.NewState("work", work.Status, "cancel")
		}

		priorStatus := work.Status
		reversed := priorStatus == model.WorkStatusApproved || priorStatus == model.WorkStatusClosed

		if reversed {
			ids := make([]uuid.UUID, 0, len(work.InputLines))
			for _, line := range work.InputLines {
				ids = append(ids, line.InputID)
			}
			if _, lockErr := s.inputRepo.LockByIDs(txCtx, ids); lockErr != nil {
				return lockErr
			}

			now := time.Now()
			for _, line := range work.InputLines {
				mv := &model.StockMovement{
					InputID:      line.InputID,
					WorkID:       &work.ID,
					Type:         model.MovementEntry,
					Quantity:     line.QuantityApplied,
					UnitCost:     line.CostPerUnit,
					MovementDate: now,
					Note:         "cancellation reversal",
					CreatedBy:    uid,
				}
				if _, postErr := s.ledger.Post(txCtx, mv); postErr != nil {
					return postErr
				}
			}
		}

		now := time.Now()
		if err := s.workRepo.UpdateVersioned(txCtx, workID, work.Version, map[string]interface{}{
			"status":              model.WorkStatusCancelled,
			"cancelled_by":        uid,
			"cancelled_at":        now,
			"cancellation_reason": reason,
		}); err != nil {
			return err
		}

		return s.audit(txCtx, uid, model.ActionWorkCancelled, work, map[string]interface{}{
			"reason":       reason,
			"prior_status": priorStatus,
			"reversed":     reversed,
		})
	})
	if err != nil {
		return WorkResponse{}, err
	}

	s.notify(id, model.WorkStatusCancelled)
	return s.GetWork(ctx, id)
}

func (s *workService) GetWork(ctx context.Context, id string) (WorkResponse, error) {
	workID, err := uuid.Parse(id)
	if err != nil {
		return WorkResponse{}, apperror.NewValidation("id", "invalid work id")
	}
	work, err := s.workRepo.FindByID(ctx, workID)
	if err != nil {
		return WorkResponse{}, err
	}
	return toWorkResponse(work), nil
}

func (s *workService) ListWorks(ctx context.Context, filter repository.WorkFilter) ([]WorkResponse, int64, error) {
	works, total, err := s.workRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	res := make([]WorkResponse, 0, len(works))
	for i := range works {
		res = append(res, toWorkResponse(&works[i]))
	}
	return res, total, nil
}

// --- Helpers ---

func (s *workService) audit(ctx context.Context, uid *uuid.UUID, action string, work *model.Work, extra map[string]interface{}) error {
	if extra == nil {
		extra = map[string]interface{}{}
	}
	extra["kind"] = work.Kind
	details, _ := json.Marshal(extra)
	entry := &model.AuditLog{
		UserID:     uid,
		Action:     action,
		EntityID:   work.ID.String(),
		EntityName: work.Kind,
		Details:    string(details),
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func (s *workService) notify(workID, status string) {
	broadcast(s.hub, "work_status_changed", map[string]interface{}{
		"work_id": workID,
		"status":  status,
	})
}

func parseOptionalID(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func buildLines(
	inputs []InputLineRequest,
	machinery []MachineryLineRequest,
	labor []LaborLineRequest,
) ([]model.WorkInputLine, []model.WorkMachineryLine, []model.WorkLaborLine, error) {
	inputLines := make([]model.WorkInputLine, 0, len(inputs))
	for _, l := range inputs {
		inputID, err := uuid.Parse(l.InputID)
		if err != nil {
			return nil, nil, nil, apperror.NewValidation("input_lines", "invalid input_id "+l.InputID)
		}
		if !l.QuantityApplied.IsPositive() {
			return nil, nil, nil, apperror.NewValidation("input_lines", "quantity_applied must be greater than zero")
		}
		inputLines = append(inputLines, model.WorkInputLine{
			InputID:         inputID,
			Unit:            l.Unit,
			QuantityApplied: l.QuantityApplied,
			CostPerUnit:     l.CostPerUnit,
		})
	}

	machineryLines := make([]model.WorkMachineryLine, 0, len(machinery))
	for _, l := range machinery {
		machineryID, err := uuid.Parse(l.MachineryID)
		if err != nil {
			return nil, nil, nil, apperror.NewValidation("machinery_lines", "invalid machinery_id "+l.MachineryID)
		}
		machineryLines = append(machineryLines, model.WorkMachineryLine{
			MachineryID: machineryID,
			HoursUsed:   l.HoursUsed,
			CostPerHour: l.CostPerHour,
		})
	}

	laborLines := make([]model.WorkLaborLine, 0, len(labor))
	for _, l := range labor {
		laborLines = append(laborLines, model.WorkLaborLine{
			WorkerName:  l.WorkerName,
			HoursWorked: l.HoursWorked,
			CostPerHour: l.CostPerHour,
		})
	}

	return inputLines, machineryLines, laborLines, nil
}

func toWorkResponse(w *model.Work) WorkResponse {
	resp := WorkResponse{
		ID:                 w.ID.String(),
		Kind:               w.Kind,
		Status:             w.Status,
		FirmID:             w.FirmID.String(),
		PremiseID:          w.PremiseID.String(),
		WorkDate:           w.WorkDate.Format("2006-01-02"),
		Description:        w.Description,
		Version:            w.Version,
		CancellationReason: w.CancellationReason,
		RejectionReason:    w.RejectionReason,
		CreatedAt:          w.CreatedAt.Format(time.RFC3339),
		Costs: WorkCosts{
			Inputs:    w.InputCost(),
			Machinery: w.MachineryCost(),
			Labor:     w.LaborCost(),
			Other:     w.OtherCosts,
			Total:     w.TotalCost(),
		},
	}

	resp.LotID = uuidPtrString(w.LotID)
	resp.HerdID = uuidPtrString(w.HerdID)
	resp.CostCenterID = uuidPtrString(w.CostCenterID)
	resp.CampaignID = uuidPtrString(w.CampaignID)
	resp.SubmittedBy = uuidPtrString(w.SubmittedBy)
	resp.ApprovedBy = uuidPtrString(w.ApprovedBy)
	resp.CancelledBy = uuidPtrString(w.CancelledBy)
	resp.SubmittedAt = timePtrString(w.SubmittedAt)
	resp.ApprovedAt = timePtrString(w.ApprovedAt)
	resp.CancelledAt = timePtrString(w.CancelledAt)

	resp.InputLines = make([]InputLineResponse, 0, len(w.InputLines))
	for _, l := range w.InputLines {
		resp.InputLines = append(resp.InputLines, InputLineResponse{
			InputID:         l.InputID.String(),
			Unit:            l.Unit,
			QuantityApplied: l.QuantityApplied,
			CostPerUnit:     l.CostPerUnit,
			LineCost:        l.QuantityApplied.Mul(l.CostPerUnit),
		})
	}
	resp.MachineryLines = make([]MachineryLineResponse, 0, len(w.MachineryLines))
	for _, l := range w.MachineryLines {
		resp.MachineryLines = append(resp.MachineryLines, MachineryLineResponse{
			MachineryID: l.MachineryID.String(),
			HoursUsed:   l.HoursUsed,
			CostPerHour: l.CostPerHour,
			LineCost:    l.HoursUsed.Mul(l.CostPerHour),
		})
	}
	resp.LaborLines = make([]LaborLineResponse, 0, len(w.LaborLines))
	for _, l := range w.LaborLines {
		resp.LaborLines = append(resp.LaborLines, LaborLineResponse{
			WorkerName:  l.WorkerName,
			HoursWorked: l.HoursWorked,
			CostPerHour: l.CostPerHour,
			LineCost:    l.HoursWorked.Mul(l.CostPerHour),
		})
	}

	return resp
}

func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func timePtrString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
