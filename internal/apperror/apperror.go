// Package apperror defines the business error taxonomy returned by services.
// Handlers match these types with errors.As and map them to HTTP status codes,
// so internal details (SQL errors, stack traces) never leak to clients.
package apperror

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValidationError signals a missing or invalid required field.
type ValidationError struct {
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
	}
	return "validation failed: " + e.Reason
}

func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// StateError signals a lifecycle transition that is not allowed from the
// entity's current status. Status guards double as idempotency fences, so
// retried calls land here instead of producing duplicate side effects.
type StateError struct {
	Entity string `json:"entity"`
	From   string `json:"from"`
	Action string `json:"action"`
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s %s in status %s", e.Action, e.Entity, e.From)
}

func NewState(entity, from, action string) *StateError {
	return &StateError{Entity: entity, From: from, Action: action}
}

// Shortfall describes one input line that failed its availability check.
type Shortfall struct {
	InputID   uuid.UUID       `json:"input_id"`
	InputName string          `json:"input_name,omitempty"`
	Required  decimal.Decimal `json:"required"`
	Available decimal.Decimal `json:"available"`
}

// InsufficientStockError carries every failing line of an approval, not just
// the first, so the caller can render all problems in one pass.
type InsufficientStockError struct {
	Shortfalls []Shortfall `json:"shortfalls"`
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		name := s.InputName
		if name == "" {
			name = s.InputID.String()
		}
		parts = append(parts, fmt.Sprintf("%s (required %s, available %s)",
			name, s.Required.String(), s.Available.String()))
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}

// NotFoundError signals an unknown entity id.
type NotFoundError struct {
	Entity string `json:"entity"`
	ID     string `json:"id"`
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

func NewNotFound(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError signals an optimistic version mismatch or lock contention.
type ConflictError struct {
	Message string `json:"message"`
}

func (e *ConflictError) Error() string { return e.Message }

func NewConflict(msg string) *ConflictError {
	return &ConflictError{Message: msg}
}
