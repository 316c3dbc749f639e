package service

import (
	"context"
	"testing"

	"farmops/internal/apperror"
	"farmops/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInputPostsOpeningStockAsEntry(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	input, err := env.ledger.CreateInput(ctx, testActor, CreateInputRequest{
		Code:         "FERT-001",
		Name:         "ammonium nitrate",
		Unit:         "kg",
		CostPerUnit:  dec("1.1"),
		OpeningStock: dec("250"),
	})
	require.NoError(t, err)
	assert.True(t, input.CurrentStock.Equal(dec("250")))

	movements, total, err := env.ledger.Kardex(ctx, input.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, movements, 1)
	assert.Equal(t, model.MovementEntry, movements[0].Type)
	assert.True(t, movements[0].BalanceAfter.Equal(dec("250")))

	_, err = env.ledger.CreateInput(ctx, testActor, CreateInputRequest{
		Code:         "FERT-002",
		Name:         "urea",
		Unit:         "kg",
		OpeningStock: dec("-5"),
	})
	var vErr *apperror.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestPostMovementRejectsNonPositiveQuantity(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	input := env.seedInput("molasses", dec("50"), dec("0.9"))

	for _, qty := range []string{"0", "-3"} {
		_, err := env.ledger.PostMovement(ctx, testActor, input.ID.String(), PostMovementRequest{
			Type:     model.MovementEntry,
			Quantity: dec(qty),
		})
		var vErr *apperror.ValidationError
		require.ErrorAs(t, err, &vErr, "quantity %s must be rejected", qty)
	}
	assert.True(t, env.stockOf(input.ID).Equal(dec("50")))
}

func TestPostMovementBlocksOverdraw(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	input := env.seedInput("silage film", dec("10"), dec("6"))

	_, err := env.ledger.PostMovement(ctx, testActor, input.ID.String(), PostMovementRequest{
		Type:     model.MovementExit,
		Quantity: dec("11"),
	})
	var stockErr *apperror.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Shortfalls, 1)
	assert.True(t, stockErr.Shortfalls[0].Available.Equal(dec("10")))
	assert.True(t, env.stockOf(input.ID).Equal(dec("10")))

	// An outbound adjustment is held to the same check.
	_, err = env.ledger.PostMovement(ctx, testActor, input.ID.String(), PostMovementRequest{
		Type:      model.MovementAdjustment,
		Direction: model.AdjustmentOut,
		Quantity:  dec("12"),
	})
	require.ErrorAs(t, err, &stockErr)
}

func TestReplayFoldCoversAllMovementTypes(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	input := env.seedInput("mineral salt", dec("0"), dec("2"))

	steps := []struct {
		req  PostMovementRequest
		want string
	}{
		{PostMovementRequest{Type: model.MovementEntry, Quantity: dec("100")}, "100"},
		{PostMovementRequest{Type: model.MovementExit, Quantity: dec("30")}, "70"},
		{PostMovementRequest{Type: model.MovementTransfer, Quantity: dec("15")}, "55"},
		{PostMovementRequest{Type: model.MovementAdjustment, Direction: model.AdjustmentOut, Quantity: dec("5")}, "50"},
		{PostMovementRequest{Type: model.MovementAdjustment, Direction: model.AdjustmentIn, Quantity: dec("2.5")}, "52.5"},
	}

	for _, step := range steps {
		mv, err := env.ledger.PostMovement(ctx, testActor, input.ID.String(), step.req)
		require.NoError(t, err, "posting %s", step.req.Type)
		assert.True(t, mv.BalanceAfter.Equal(dec(step.want)),
			"%s should leave balance %s, got %s", step.req.Type, step.want, mv.BalanceAfter)
		assert.True(t, env.stockOf(input.ID).Equal(dec(step.want)))
	}
}

func TestAdjustmentDefaultsToInbound(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	input := env.seedInput("rodenticide", dec("20"), dec("9"))

	mv, err := env.ledger.PostMovement(ctx, testActor, input.ID.String(), PostMovementRequest{
		Type:     model.MovementAdjustment,
		Quantity: dec("4"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.AdjustmentIn, mv.Direction)
	assert.True(t, mv.BalanceAfter.Equal(dec("24")))
}

func TestRecomputeHealsDriftedProjection(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	input := env.seedInput("wire", dec("100"), dec("1"))

	_, err := env.ledger.PostMovement(ctx, testActor, input.ID.String(), PostMovementRequest{
		Type:     model.MovementExit,
		Quantity: dec("40"),
	})
	require.NoError(t, err)

	// Corrupt the cached projection behind the ledger's back.
	env.store.mu.Lock()
	env.store.inputs[input.ID].CurrentStock = dec("9999")
	env.store.mu.Unlock()

	balance, err := env.ledger.Recompute(ctx, input.ID.String())
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("60")))
	assert.True(t, env.stockOf(input.ID).Equal(dec("60")))

	env.store.mu.Lock()
	var recomputed bool
	for _, entry := range env.store.audits {
		if entry.Action == model.ActionStockRecomputed && entry.EntityID == input.ID.String() {
			recomputed = true
		}
	}
	env.store.mu.Unlock()
	assert.True(t, recomputed, "recompute must leave an audit entry")
}

func TestKardexPaginatesOldestFirst(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	input := env.seedInput("gloves", dec("0"), dec("0.5"))

	for i := 0; i < 5; i++ {
		_, err := env.ledger.PostMovement(ctx, testActor, input.ID.String(), PostMovementRequest{
			Type:     model.MovementEntry,
			Quantity: dec("10"),
		})
		require.NoError(t, err)
	}

	page1, total, err := env.ledger.Kardex(ctx, input.ID.String(), 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page1, 3)
	assert.True(t, page1[0].BalanceAfter.Equal(dec("10")), "kardex starts at the oldest movement")

	page2, _, err := env.ledger.Kardex(ctx, input.ID.String(), 2, 3)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.True(t, page2[1].BalanceAfter.Equal(dec("50")))
}

func TestKardexUnknownInput(t *testing.T) {
	env := newTestEnv()

	_, _, err := env.ledger.Kardex(context.Background(), "not-a-uuid", 1, 10)
	var vErr *apperror.ValidationError
	require.ErrorAs(t, err, &vErr)
}
