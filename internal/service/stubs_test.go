package service

import (
	"context"
	"sync"
	"time"

	"farmops/internal/apperror"
	"farmops/internal/model"
	"farmops/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// memStore backs the stub repositories with plain maps. A single data mutex
// guards every access; transaction semantics come from memTxManager, which
// serializes whole transactions and restores a snapshot on rollback.
type memStore struct {
	mu sync.Mutex

	works       map[uuid.UUID]*model.Work
	inputs      map[uuid.UUID]*model.Input
	movements   []model.StockMovement
	audits      []model.AuditLog
	costCenters map[uuid.UUID]*model.CostCenter
	campaigns   map[uuid.UUID]*model.Campaign
	machinery   map[uuid.UUID]*model.Machinery

	seq int64 // drives insertion-ordered created_at timestamps
}

func newMemStore() *memStore {
	return &memStore{
		works:       make(map[uuid.UUID]*model.Work),
		inputs:      make(map[uuid.UUID]*model.Input),
		costCenters: make(map[uuid.UUID]*model.CostCenter),
		campaigns:   make(map[uuid.UUID]*model.Campaign),
		machinery:   make(map[uuid.UUID]*model.Machinery),
	}
}

func (s *memStore) nextTime() time.Time {
	s.seq++
	return time.Unix(0, s.seq)
}

func cloneWork(w *model.Work) *model.Work {
	cp := *w
	cp.InputLines = append([]model.WorkInputLine(nil), w.InputLines...)
	cp.MachineryLines = append([]model.WorkMachineryLine(nil), w.MachineryLines...)
	cp.LaborLines = append([]model.WorkLaborLine(nil), w.LaborLines...)
	return &cp
}

func cloneInput(in *model.Input) *model.Input {
	cp := *in
	return &cp
}

type snapshot struct {
	works     map[uuid.UUID]*model.Work
	inputs    map[uuid.UUID]*model.Input
	movements []model.StockMovement
	audits    []model.AuditLog
}

func (s *memStore) snapshot() snapshot {
	snap := snapshot{
		works:     make(map[uuid.UUID]*model.Work, len(s.works)),
		inputs:    make(map[uuid.UUID]*model.Input, len(s.inputs)),
		movements: append([]model.StockMovement(nil), s.movements...),
		audits:    append([]model.AuditLog(nil), s.audits...),
	}
	for id, w := range s.works {
		snap.works[id] = cloneWork(w)
	}
	for id, in := range s.inputs {
		snap.inputs[id] = cloneInput(in)
	}
	return snap
}

func (s *memStore) restore(snap snapshot) {
	s.works = snap.works
	s.inputs = snap.inputs
	s.movements = snap.movements
	s.audits = snap.audits
}

// memTxManager serializes transactions with its own mutex and rolls the
// store back to the pre-transaction snapshot when fn returns an error.
type memTxManager struct {
	txMu  sync.Mutex
	store *memStore
}

func (t *memTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	t.txMu.Lock()
	defer t.txMu.Unlock()

	t.store.mu.Lock()
	snap := t.store.snapshot()
	t.store.mu.Unlock()

	if err := fn(ctx); err != nil {
		t.store.mu.Lock()
		t.store.restore(snap)
		t.store.mu.Unlock()
		return err
	}
	return nil
}

// --- Work repository stub ---

type memWorkRepo struct {
	store *memStore
}

func (r *memWorkRepo) Create(ctx context.Context, work *model.Work) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if work.ID == uuid.Nil {
		work.ID = uuid.New()
	}
	work.CreatedAt = r.store.nextTime()
	for i := range work.InputLines {
		work.InputLines[i].ID = uuid.New()
		work.InputLines[i].WorkID = work.ID
	}
	for i := range work.MachineryLines {
		work.MachineryLines[i].ID = uuid.New()
		work.MachineryLines[i].WorkID = work.ID
	}
	for i := range work.LaborLines {
		work.LaborLines[i].ID = uuid.New()
		work.LaborLines[i].WorkID = work.ID
	}
	r.store.works[work.ID] = cloneWork(work)
	return nil
}

func (r *memWorkRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Work, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	w, ok := r.store.works[id]
	if !ok {
		return nil, apperror.NewNotFound("work", id.String())
	}
	return cloneWork(w), nil
}

func (r *memWorkRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Work, error) {
	return r.FindByID(ctx, id)
}

func (r *memWorkRepo) ReplaceLines(ctx context.Context, work *model.Work) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.works[work.ID]
	if !ok {
		return apperror.NewNotFound("work", work.ID.String())
	}
	stored.InputLines = nil
	stored.MachineryLines = nil
	stored.LaborLines = nil
	for _, l := range work.InputLines {
		l.ID = uuid.New()
		l.WorkID = work.ID
		stored.InputLines = append(stored.InputLines, l)
	}
	for _, l := range work.MachineryLines {
		l.ID = uuid.New()
		l.WorkID = work.ID
		stored.MachineryLines = append(stored.MachineryLines, l)
	}
	for _, l := range work.LaborLines {
		l.ID = uuid.New()
		l.WorkID = work.ID
		stored.LaborLines = append(stored.LaborLines, l)
	}
	return nil
}

func (r *memWorkRepo) UpdateVersioned(ctx context.Context, id uuid.UUID, version int, updates map[string]interface{}) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	w, ok := r.store.works[id]
	if !ok || w.Version != version {
		return apperror.NewConflict("work was modified concurrently")
	}

	for key, value := range updates {
		switch key {
		case "status":
			w.Status = value.(string)
		case "submitted_by":
			w.SubmittedBy = value.(*uuid.UUID)
		case "submitted_at":
			t := value.(time.Time)
			w.SubmittedAt = &t
		case "approved_by":
			w.ApprovedBy = value.(*uuid.UUID)
		case "approved_at":
			t := value.(time.Time)
			w.ApprovedAt = &t
		case "cancelled_by":
			w.CancelledBy = value.(*uuid.UUID)
		case "cancelled_at":
			t := value.(time.Time)
			w.CancelledAt = &t
		case "cancellation_reason":
			w.CancellationReason = value.(string)
		case "rejection_reason":
			w.RejectionReason = value.(string)
		case "cost_center_id":
			w.CostCenterID = value.(*uuid.UUID)
		case "campaign_id":
			w.CampaignID = value.(*uuid.UUID)
		case "description":
			w.Description = value.(string)
		case "other_costs":
			w.OtherCosts = value.(decimal.Decimal)
		case "work_date":
			w.WorkDate = value.(time.Time)
		}
	}
	w.Version = version + 1
	return nil
}

func (r *memWorkRepo) List(ctx context.Context, filter repository.WorkFilter) ([]model.Work, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var works []model.Work
	for _, w := range r.store.works {
		if filter.Status != "" && w.Status != filter.Status {
			continue
		}
		if filter.Kind != "" && w.Kind != filter.Kind {
			continue
		}
		works = append(works, *cloneWork(w))
	}
	return works, int64(len(works)), nil
}

// --- Input repository stub ---

type memInputRepo struct {
	store *memStore
}

func (r *memInputRepo) Create(ctx context.Context, input *model.Input) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if input.ID == uuid.Nil {
		input.ID = uuid.New()
	}
	input.CreatedAt = r.store.nextTime()
	r.store.inputs[input.ID] = cloneInput(input)
	return nil
}

func (r *memInputRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Input, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	in, ok := r.store.inputs[id]
	if !ok {
		return nil, apperror.NewNotFound("input", id.String())
	}
	return cloneInput(in), nil
}

func (r *memInputRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Input, error) {
	return r.FindByID(ctx, id)
}

func (r *memInputRepo) LockByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Input, error) {
	inputs := make([]model.Input, 0, len(ids))
	for _, id := range ids {
		in, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, *in)
	}
	return inputs, nil
}

func (r *memInputRepo) List(ctx context.Context, page, limit int, search string) ([]model.Input, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var inputs []model.Input
	for _, in := range r.store.inputs {
		inputs = append(inputs, *cloneInput(in))
	}
	return inputs, int64(len(inputs)), nil
}

func (r *memInputRepo) UpdateStock(ctx context.Context, id uuid.UUID, stock decimal.Decimal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	in, ok := r.store.inputs[id]
	if !ok {
		return apperror.NewNotFound("input", id.String())
	}
	in.CurrentStock = stock
	return nil
}

// --- Movement repository stub ---

type memMovementRepo struct {
	store *memStore
}

func (r *memMovementRepo) Create(ctx context.Context, mv *model.StockMovement) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if mv.ID == uuid.Nil {
		mv.ID = uuid.New()
	}
	mv.CreatedAt = r.store.nextTime()
	r.store.movements = append(r.store.movements, *mv)
	return nil
}

func (r *memMovementRepo) ListByInput(ctx context.Context, inputID uuid.UUID) ([]model.StockMovement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var movements []model.StockMovement
	for _, mv := range r.store.movements {
		if mv.InputID == inputID {
			movements = append(movements, mv)
		}
	}
	return movements, nil
}

func (r *memMovementRepo) ListByInputPaged(ctx context.Context, inputID uuid.UUID, page, limit int) ([]model.StockMovement, int64, error) {
	all, err := r.ListByInput(ctx, inputID)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(all))

	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *memMovementRepo) ListByWork(ctx context.Context, workID uuid.UUID) ([]model.StockMovement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var movements []model.StockMovement
	for _, mv := range r.store.movements {
		if mv.WorkID != nil && *mv.WorkID == workID {
			movements = append(movements, mv)
		}
	}
	return movements, nil
}

// --- Audit repository stub ---

type memAuditRepo struct {
	store *memStore
}

func (r *memAuditRepo) Log(ctx context.Context, entry *model.AuditLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = r.store.nextTime()
	r.store.audits = append(r.store.audits, *entry)
	return nil
}

func (r *memAuditRepo) List(ctx context.Context, page, limit int) ([]model.AuditLog, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	logs := append([]model.AuditLog(nil), r.store.audits...)
	// newest first
	for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
		logs[i], logs[j] = logs[j], logs[i]
	}
	return logs, int64(len(logs)), nil
}

func (r *memAuditRepo) ListByEntity(ctx context.Context, entityID string) ([]model.AuditLog, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var logs []model.AuditLog
	for _, entry := range r.store.audits {
		if entry.EntityID == entityID {
			logs = append(logs, entry)
		}
	}
	return logs, nil
}

// --- Reference repository stub ---

type memReferenceRepo struct {
	store *memStore
}

func (r *memReferenceRepo) FindCostCenter(ctx context.Context, id uuid.UUID) (*model.CostCenter, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cc, ok := r.store.costCenters[id]
	if !ok {
		return nil, apperror.NewNotFound("cost center", id.String())
	}
	cp := *cc
	return &cp, nil
}

func (r *memReferenceRepo) ListCostCenters(ctx context.Context) ([]model.CostCenter, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var ccs []model.CostCenter
	for _, cc := range r.store.costCenters {
		ccs = append(ccs, *cc)
	}
	return ccs, nil
}

func (r *memReferenceRepo) FindCampaign(ctx context.Context, id uuid.UUID) (*model.Campaign, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, ok := r.store.campaigns[id]
	if !ok {
		return nil, apperror.NewNotFound("campaign", id.String())
	}
	cp := *c
	return &cp, nil
}

func (r *memReferenceRepo) ListCampaigns(ctx context.Context) ([]model.Campaign, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var cs []model.Campaign
	for _, c := range r.store.campaigns {
		cs = append(cs, *c)
	}
	return cs, nil
}

func (r *memReferenceRepo) FindMachinery(ctx context.Context, id uuid.UUID) (*model.Machinery, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	m, ok := r.store.machinery[id]
	if !ok {
		return nil, apperror.NewNotFound("machinery", id.String())
	}
	cp := *m
	return &cp, nil
}

func (r *memReferenceRepo) ListMachinery(ctx context.Context) ([]model.Machinery, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var ms []model.Machinery
	for _, m := range r.store.machinery {
		ms = append(ms, *m)
	}
	return ms, nil
}

// --- Test environment ---

type testEnv struct {
	store     *memStore
	workRepo  *memWorkRepo
	inputRepo *memInputRepo
	refRepo   *memReferenceRepo
	auditRepo *memAuditRepo
	ledger    LedgerService
	works     WorkService
}

func newTestEnv() *testEnv {
	store := newMemStore()
	workRepo := &memWorkRepo{store: store}
	inputRepo := &memInputRepo{store: store}
	movementRepo := &memMovementRepo{store: store}
	auditRepo := &memAuditRepo{store: store}
	refRepo := &memReferenceRepo{store: store}
	txManager := &memTxManager{store: store}

	checker := NewAvailabilityChecker(inputRepo)
	ledger := NewLedgerService(inputRepo, movementRepo, auditRepo, txManager, checker, nil)
	works := NewWorkService(workRepo, inputRepo, refRepo, auditRepo, txManager, ledger, checker, nil)

	return &testEnv{
		store:     store,
		workRepo:  workRepo,
		inputRepo: inputRepo,
		refRepo:   refRepo,
		auditRepo: auditRepo,
		ledger:    ledger,
		works:     works,
	}
}

func (e *testEnv) seedInput(name string, stock, cost decimal.Decimal) *model.Input {
	input := &model.Input{
		ID:           uuid.New(),
		Code:         "IN-" + uuid.NewString()[:8],
		Name:         name,
		Unit:         "kg",
		CurrentStock: stock,
		CostPerUnit:  cost,
	}
	e.store.mu.Lock()
	e.store.inputs[input.ID] = input
	e.store.mu.Unlock()

	if stock.IsPositive() {
		e.store.mu.Lock()
		e.store.movements = append(e.store.movements, model.StockMovement{
			ID:           uuid.New(),
			InputID:      input.ID,
			Type:         model.MovementEntry,
			Quantity:     stock,
			BalanceAfter: stock,
			MovementDate: time.Now(),
			Note:         "opening stock",
			CreatedAt:    e.store.nextTime(),
		})
		e.store.mu.Unlock()
	}
	return cloneInput(input)
}

func (e *testEnv) seedCostCenter(active bool) *model.CostCenter {
	cc := &model.CostCenter{
		ID:       uuid.New(),
		Code:     "CC-" + uuid.NewString()[:8],
		Name:     "Field operations",
		IsActive: active,
	}
	e.store.mu.Lock()
	e.store.costCenters[cc.ID] = cc
	e.store.mu.Unlock()
	return cc
}

func (e *testEnv) auditActions(entityID string) []string {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	var actions []string
	for _, entry := range e.store.audits {
		if entry.EntityID == entityID {
			actions = append(actions, entry.Action)
		}
	}
	return actions
}

func (e *testEnv) stockOf(id uuid.UUID) decimal.Decimal {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	return e.store.inputs[id].CurrentStock
}
