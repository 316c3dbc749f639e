package service

import (
	"bytes"
	"context"
	"slices"

	"farmops/internal/apperror"
	"farmops/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Demand is one (input, quantity) requirement to be checked against stock.
type Demand struct {
	InputID  uuid.UUID
	Quantity decimal.Decimal
}

// AvailabilityChecker validates a set of demands against current balances.
// It reads the cached stock projection and mutates nothing; deduction only
// happens after the transition engine has decided to proceed, inside the
// same transaction.
type AvailabilityChecker interface {
	// CheckAll evaluates every demand, never short-circuiting, so the caller
	// can report all shortfalls at once. An empty slice means all demands
	// are satisfiable.
	CheckAll(ctx context.Context, demands []Demand) ([]apperror.Shortfall, error)
}

type availabilityChecker struct {
	inputRepo repository.InputRepository
}

func NewAvailabilityChecker(inputRepo repository.InputRepository) AvailabilityChecker {
	return &availabilityChecker{inputRepo: inputRepo}
}

func (c *availabilityChecker) CheckAll(ctx context.Context, demands []Demand) ([]apperror.Shortfall, error) {
	// Two lines demanding the same input must be satisfiable together.
	required := make(map[uuid.UUID]decimal.Decimal, len(demands))
	for _, d := range demands {
		required[d.InputID] = required[d.InputID].Add(d.Quantity)
	}

	ids := make([]uuid.UUID, 0, len(required))
	for id := range required {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})

	var shortfalls []apperror.Shortfall
	for _, id := range ids {
		input, err := c.inputRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if input.CurrentStock.LessThan(required[id]) {
			shortfalls = append(shortfalls, apperror.Shortfall{
				InputID:   id,
				InputName: input.Name,
				Required:  required[id],
				Available: input.CurrentStock,
			})
		}
	}

	return shortfalls, nil
}
