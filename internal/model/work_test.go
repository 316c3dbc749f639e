package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{WorkStatusDraft, WorkStatusPendingApproval, true},
		{WorkStatusDraft, WorkStatusCancelled, true},
		{WorkStatusDraft, WorkStatusApproved, false},
		{WorkStatusDraft, WorkStatusClosed, false},
		{WorkStatusPendingApproval, WorkStatusApproved, true},
		{WorkStatusPendingApproval, WorkStatusDraft, true}, // rejection
		{WorkStatusPendingApproval, WorkStatusCancelled, true},
		{WorkStatusPendingApproval, WorkStatusClosed, false},
		{WorkStatusApproved, WorkStatusClosed, true},
		{WorkStatusApproved, WorkStatusCancelled, true},
		{WorkStatusApproved, WorkStatusDraft, false},
		{WorkStatusApproved, WorkStatusPendingApproval, false},
		{WorkStatusClosed, WorkStatusCancelled, true},
		{WorkStatusClosed, WorkStatusApproved, false},
		{WorkStatusCancelled, WorkStatusDraft, false},
		{WorkStatusCancelled, WorkStatusCancelled, false},
		{"BOGUS", WorkStatusDraft, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestWorkCostDerivation(t *testing.T) {
	d := decimal.RequireFromString

	w := Work{
		OtherCosts: d("5"),
		InputLines: []WorkInputLine{
			{QuantityApplied: d("10"), CostPerUnit: d("2.5")},
			{QuantityApplied: d("4"), CostPerUnit: d("0.75")},
		},
		MachineryLines: []WorkMachineryLine{
			{HoursUsed: d("2"), CostPerHour: d("35")},
		},
		LaborLines: []WorkLaborLine{
			{HoursWorked: d("8"), CostPerHour: d("11")},
		},
	}

	assert.True(t, w.InputCost().Equal(d("28")))
	assert.True(t, w.MachineryCost().Equal(d("70")))
	assert.True(t, w.LaborCost().Equal(d("88")))
	assert.True(t, w.TotalCost().Equal(d("191")))
}

func TestSignedQuantity(t *testing.T) {
	d := decimal.RequireFromString

	cases := []struct {
		mv   StockMovement
		want string
	}{
		{StockMovement{Type: MovementEntry, Quantity: d("10")}, "10"},
		{StockMovement{Type: MovementExit, Quantity: d("10")}, "-10"},
		{StockMovement{Type: MovementTransfer, Quantity: d("3")}, "-3"},
		{StockMovement{Type: MovementAdjustment, Direction: AdjustmentIn, Quantity: d("2")}, "2"},
		{StockMovement{Type: MovementAdjustment, Direction: AdjustmentOut, Quantity: d("2")}, "-2"},
		{StockMovement{Type: MovementAdjustment, Quantity: d("2")}, "2"}, // direction defaults inbound
		{StockMovement{Type: "UNKNOWN", Quantity: d("9")}, "0"},
	}

	for _, tc := range cases {
		assert.True(t, tc.mv.SignedQuantity().Equal(d(tc.want)),
			"%s/%s", tc.mv.Type, tc.mv.Direction)
	}

	outbound := StockMovement{Type: MovementExit, Quantity: d("1")}
	inbound := StockMovement{Type: MovementEntry, Quantity: d("1")}
	assert.True(t, outbound.Outbound())
	assert.False(t, inbound.Outbound())
}
