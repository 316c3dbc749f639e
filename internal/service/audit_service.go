package service

import (
	"context"

	"farmops/internal/model"
	"farmops/internal/repository"

	"github.com/google/uuid"
)

type AuditLogResponse struct {
	ID         uuid.UUID `json:"id"`
	UserID     string    `json:"user_id,omitempty"`
	Username   string    `json:"username,omitempty"`
	Action     string    `json:"action"`
	EntityID   string    `json:"entity_id"`
	EntityName string    `json:"entity_name,omitempty"`
	Details    string    `json:"details"`
	CreatedAt  string    `json:"created_at"`
}

// AuditService exposes the read side of the audit trail. Writes happen
// inside the services that own the transitions, never here.
type AuditService interface {
	GetAuditLogs(ctx context.Context, page, limit int) ([]AuditLogResponse, int64, error)
	GetWorkTrail(ctx context.Context, workID string) ([]AuditLogResponse, error)
}

type auditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) GetAuditLogs(ctx context.Context, page, limit int) ([]AuditLogResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	logs, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]AuditLogResponse, 0, len(logs))
	for i := range logs {
		responses = append(responses, toAuditResponse(&logs[i]))
	}
	return responses, total, nil
}

func (s *auditService) GetWorkTrail(ctx context.Context, workID string) ([]AuditLogResponse, error) {
	logs, err := s.repo.ListByEntity(ctx, workID)
	if err != nil {
		return nil, err
	}

	responses := make([]AuditLogResponse, 0, len(logs))
	for i := range logs {
		responses = append(responses, toAuditResponse(&logs[i]))
	}
	return responses, nil
}

func toAuditResponse(entry *model.AuditLog) AuditLogResponse {
	resp := AuditLogResponse{
		ID:         entry.ID,
		Action:     entry.Action,
		EntityID:   entry.EntityID,
		EntityName: entry.EntityName,
		Details:    entry.Details,
		CreatedAt:  entry.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if entry.UserID != nil {
		resp.UserID = entry.UserID.String()
	}
	if entry.User != nil {
		resp.Username = entry.User.Username
	}
	return resp
}
