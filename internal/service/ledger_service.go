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

type CreateInputRequest struct {
	Code         string          `json:"code" binding:"required"`
	Name         string          `json:"name" binding:"required"`
	Unit         string          `json:"unit" binding:"required"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	OpeningStock decimal.Decimal `json:"opening_stock"` // posted as an ENTRY movement, never written directly
}

type PostMovementRequest struct {
	Type         string          `json:"type" binding:"required,oneof=ENTRY EXIT ADJUSTMENT TRANSFER"`
	Direction    string          `json:"direction" binding:"omitempty,oneof=IN OUT"` // ADJUSTMENT only
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	MovementDate string          `json:"movement_date"` // YYYY-MM-DD, defaults to today
	Note         string          `json:"note"`
}

type InputResponse struct {
	ID           string          `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
}

type MovementResponse struct {
	ID           string          `json:"id"`
	InputID      string          `json:"input_id"`
	WorkID       *string         `json:"work_id,omitempty"`
	Type         string          `json:"type"`
	Direction    string          `json:"direction,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	MovementDate string          `json:"movement_date"`
	Note         string          `json:"note,omitempty"`
	CreatedAt    string          `json:"created_at"`
}

// StockEvent is the websocket payload pushed after ledger changes.
type StockEvent struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

// --- Interface ---

type LedgerService interface {
	CreateInput(ctx context.Context, userID string, req CreateInputRequest) (InputResponse, error)
	GetInputs(ctx context.Context, page, limit int, search string) ([]InputResponse, int64, error)
	GetInput(ctx context.Context, id string) (InputResponse, error)
	PostMovement(ctx context.Context, userID, inputID string, req PostMovementRequest) (MovementResponse, error)
	// Recompute replays the input's full movement history and rewrites the
	// cached balance. Exposed for operational self-healing.
	Recompute(ctx context.Context, inputID string) (decimal.Decimal, error)
	Kardex(ctx context.Context, inputID string, page, limit int) ([]MovementResponse, int64, error)

	// Post appends one movement within the ambient transaction context and
	// replays the history to refresh the balance. The caller must hold the
	// input row lock. Used by the work transition engine for approval
	// deductions and cancellation reversals.
	Post(ctx context.Context, mv *model.StockMovement) (decimal.Decimal, error)
}

type ledgerService struct {
	inputRepo    repository.InputRepository
	movementRepo repository.MovementRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	checker      AvailabilityChecker
	hub          *ws.Hub
}

func NewLedgerService(
	inputRepo repository.InputRepository,
	movementRepo repository.MovementRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	checker AvailabilityChecker,
	hub *ws.Hub,
) LedgerService {
	return &ledgerService{
		inputRepo:    inputRepo,
		movementRepo: movementRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		checker:      checker,
		hub:          hub,
	}
}

// broadcast pushes an event to connected clients. Best effort only: a full
// or absent hub never blocks a committed transaction's response.
func broadcast(hub *ws.Hub, event string, data map[string]interface{}) {
	if hub == nil {
		return
	}
	payload, err := json.Marshal(StockEvent{Event: event, Data: data})
	if err != nil {
		return
	}
	select {
	case hub.Broadcast <- payload:
	default:
	}
}

// foldMovements derives a balance from a movement history in insertion
// order. This is the single source of truth for current_stock.
func foldMovements(movements []model.StockMovement) decimal.Decimal {
	balance := decimal.Zero
	for i := range movements {
		balance = balance.Add(movements[i].SignedQuantity())
	}
	return balance
}

// --- Implementation ---

func (s *ledgerService) Post(ctx context.Context, mv *model.StockMovement) (decimal.Decimal, error) {
	if !mv.Quantity.IsPositive() {
		return decimal.Zero, apperror.NewValidation("quantity", "must be greater than zero")
	}
	switch mv.Type {
	case model.MovementEntry, model.MovementExit, model.MovementTransfer:
	case model.MovementAdjustment:
		if mv.Direction == "" {
			mv.Direction = model.AdjustmentIn
		}
	default:
		return decimal.Zero, apperror.NewValidation("type", "unknown movement type "+mv.Type)
	}

	if mv.Outbound() {
		shortfalls, err := s.checker.CheckAll(ctx, []Demand{{InputID: mv.InputID, Quantity: mv.Quantity}})
		if err != nil {
			return decimal.Zero, err
		}
		if len(shortfalls) > 0 {
			return decimal.Zero, &apperror.InsufficientStockError{Shortfalls: shortfalls}
		}
	}

	// Full replay rather than an increment: a missed or duplicated movement
	// self-heals on the next recompute instead of compounding drift.
	history, err := s.movementRepo.ListByInput(ctx, mv.InputID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load movement history: %w", err)
	}
	balance := foldMovements(history).Add(mv.SignedQuantity())

	mv.BalanceAfter = balance
	if err := s.movementRepo.Create(ctx, mv); err != nil {
		return decimal.Zero, fmt.Errorf("failed to append movement: %w", err)
	}
	if err := s.inputRepo.UpdateStock(ctx, mv.InputID, balance); err != nil {
		return decimal.Zero, fmt.Errorf("failed to update stock projection: %w", err)
	}

	return balance, nil
}

func (s *ledgerService) CreateInput(ctx context.Context, userID string, req CreateInputRequest) (InputResponse, error) {
	if req.OpeningStock.IsNegative() {
		return InputResponse{}, apperror.NewValidation("opening_stock", "must not be negative")
	}

	input := model.Input{
		Code:        req.Code,
		Name:        req.Name,
		Unit:        req.Unit,
		CostPerUnit: req.CostPerUnit,
	}

	uid := parseActor(userID)
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.inputRepo.Create(txCtx, &input); err != nil {
			return fmt.Errorf("failed to create input: %w", err)
		}

		if req.OpeningStock.IsPositive() {
			mv := &model.StockMovement{
				InputID:      input.ID,
				Type:         model.MovementEntry,
				Quantity:     req.OpeningStock,
				UnitCost:     req.CostPerUnit,
				MovementDate: time.Now(),
				Note:         "opening stock",
				CreatedBy:    uid,
			}
			balance, err := s.Post(txCtx, mv)
			if err != nil {
				return err
			}
			input.CurrentStock = balance
		}

		details, _ := json.Marshal(map[string]interface{}{
			"code":          req.Code,
			"unit":          req.Unit,
			"opening_stock": req.OpeningStock.String(),
		})
		audit := &model.AuditLog{
			UserID:     uid,
			Action:     model.ActionInputCreated,
			EntityID:   input.ID.String(),
			EntityName: input.Name,
			Details:    string(details),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return InputResponse{}, err
	}

	return toInputResponse(&input), nil
}

func (s *ledgerService) GetInputs(ctx context.Context, page, limit int, search string) ([]InputResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	inputs, total, err := s.inputRepo.List(ctx, page, limit, search)
	if err != nil {
		return nil, 0, err
	}

	res := make([]InputResponse, 0, len(inputs))
	for i := range inputs {
		res = append(res, toInputResponse(&inputs[i]))
	}
	return res, total, nil
}

func (s *ledgerService) GetInput(ctx context.Context, id string) (InputResponse, error) {
	inputID, err := uuid.Parse(id)
	if err != nil {
		return InputResponse{}, apperror.NewValidation("id", "invalid input id")
	}
	input, err := s.inputRepo.FindByID(ctx, inputID)
	if err != nil {
		return InputResponse{}, err
	}
	return toInputResponse(input), nil
}

func (s *ledgerService) PostMovement(ctx context.Context, userID, inputID string, req PostMovementRequest) (MovementResponse, error) {
	id, err := uuid.Parse(inputID)
	if err != nil {
		return MovementResponse{}, apperror.NewValidation("input_id", "invalid input id")
	}

	movementDate := time.Now()
	if req.MovementDate != "" {
		parsed, parseErr := time.Parse("2006-01-02", req.MovementDate)
		if parseErr != nil {
			return MovementResponse{}, apperror.NewValidation("movement_date", "expected YYYY-MM-DD")
		}
		movementDate = parsed
	}

	uid := parseActor(userID)
	mv := model.StockMovement{
		InputID:      id,
		Type:         req.Type,
		Direction:    req.Direction,
		Quantity:     req.Quantity,
		UnitCost:     req.UnitCost,
		MovementDate: movementDate,
		Note:         req.Note,
		CreatedBy:    uid,
	}

	var balance decimal.Decimal
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		input, lockErr := s.inputRepo.FindByIDForUpdate(txCtx, id)
		if lockErr != nil {
			return lockErr
		}

		var postErr error
		balance, postErr = s.Post(txCtx, &mv)
		if postErr != nil {
			return postErr
		}

		details, _ := json.Marshal(map[string]interface{}{
			"type":          mv.Type,
			"quantity":      mv.Quantity.String(),
			"balance_after": balance.String(),
		})
		audit := &model.AuditLog{
			UserID:     uid,
			Action:     model.ActionMovementPosted,
			EntityID:   input.ID.String(),
			EntityName: input.Name,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return MovementResponse{}, err
	}

	broadcast(s.hub, "stock_changed", map[string]interface{}{
		"input_id":      id.String(),
		"current_stock": balance.String(),
	})

	return toMovementResponse(&mv), nil
}

func (s *ledgerService) Recompute(ctx context.Context, inputID string) (decimal.Decimal, error) {
	id, err := uuid.Parse(inputID)
	if err != nil {
		return decimal.Zero, apperror.NewValidation("input_id", "invalid input id")
	}

	var balance decimal.Decimal
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		input, lockErr := s.inputRepo.FindByIDForUpdate(txCtx, id)
		if lockErr != nil {
			return lockErr
		}

		history, histErr := s.movementRepo.ListByInput(txCtx, id)
		if histErr != nil {
			return fmt.Errorf("failed to load movement history: %w", histErr)
		}
		balance = foldMovements(history)

		if err := s.inputRepo.UpdateStock(txCtx, id, balance); err != nil {
			return fmt.Errorf("failed to update stock projection: %w", err)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"movements":     len(history),
			"current_stock": balance.String(),
		})
		audit := &model.AuditLog{
			Action:     model.ActionStockRecomputed,
			EntityID:   input.ID.String(),
			EntityName: input.Name,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	broadcast(s.hub, "stock_changed", map[string]interface{}{
		"input_id":      id.String(),
		"current_stock": balance.String(),
	})

	return balance, nil
}

func (s *ledgerService) Kardex(ctx context.Context, inputID string, page, limit int) ([]MovementResponse, int64, error) {
	id, err := uuid.Parse(inputID)
	if err != nil {
		return nil, 0, apperror.NewValidation("input_id", "invalid input id")
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}

	if _, err := s.inputRepo.FindByID(ctx, id); err != nil {
		return nil, 0, err
	}

	movements, total, err := s.movementRepo.ListByInputPaged(ctx, id, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]MovementResponse, 0, len(movements))
	for i := range movements {
		res = append(res, toMovementResponse(&movements[i]))
	}
	return res, total, nil
}

// --- Helpers ---

// parseActor converts the gin-context user id into a nullable uuid; blank or
// malformed ids degrade to a system entry rather than failing the operation.
func parseActor(userID string) *uuid.UUID {
	if userID == "" {
		return nil
	}
	parsed, err := uuid.Parse(userID)
	if err != nil {
		return nil
	}
	return &parsed
}

func toInputResponse(in *model.Input) InputResponse {
	return InputResponse{
		ID:           in.ID.String(),
		Code:         in.Code,
		Name:         in.Name,
		Unit:         in.Unit,
		CurrentStock: in.CurrentStock,
		CostPerUnit:  in.CostPerUnit,
	}
}

func toMovementResponse(mv *model.StockMovement) MovementResponse {
	resp := MovementResponse{
		ID:           mv.ID.String(),
		InputID:      mv.InputID.String(),
		Type:         mv.Type,
		Direction:    mv.Direction,
		Quantity:     mv.Quantity,
		UnitCost:     mv.UnitCost,
		BalanceAfter: mv.BalanceAfter,
		MovementDate: mv.MovementDate.Format("2006-01-02"),
		Note:         mv.Note,
		CreatedAt:    mv.CreatedAt.Format(time.RFC3339),
	}
	if mv.WorkID != nil {
		s := mv.WorkID.String()
		resp.WorkID = &s
	}
	return resp
}
