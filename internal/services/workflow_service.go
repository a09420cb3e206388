package services

import (
	"context"
	"fmt"
	"time"

	"github.com/you/hrflowsvc/domain"
	"github.com/you/hrflowsvc/internal/obs"
)

// WorkflowServiceImpl implements domain.WorkflowService: the state machine
// that drives a request through the ordered approval stages.
type WorkflowServiceImpl struct {
	requestRepo domain.RequestRepository
	audit       domain.AuditLogger
}

// NewWorkflowService creates a new workflow service
func NewWorkflowService(requestRepo domain.RequestRepository, audit domain.AuditLogger) domain.WorkflowService {
	return &WorkflowServiceImpl{
		requestRepo: requestRepo,
		audit:       audit,
	}
}

// Create implements domain.WorkflowService. A new request starts Pending
// with the Submission stage already completed by the requester and Review
// pending as the current stage.
func (s *WorkflowServiceImpl) Create(ctx context.Context, request *domain.Request) (*domain.Request, error) {
	request.Status = domain.StatusPending

	now := time.Now()
	requester := request.RequesterID
	stages := []domain.WorkflowStage{
		{
			Name:        domain.StageSubmission,
			Status:      domain.StageCompleted,
			HandlerID:   &requester,
			Comments:    "Request submitted",
			CompletedAt: &now,
		},
		{
			Name:   domain.StageReview,
			Status: domain.StagePending,
		},
	}

	if err := s.requestRepo.Create(ctx, request, stages); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.RequestCreatedEvent, request.RequesterID).
		WithMetadata("request_id", request.ID))
	return request, nil
}

// ChangeStatus implements domain.WorkflowService. The status update, the
// completion of the current Pending stage, and the insertion of the next
// stage commit as one transaction. A request with no current Pending stage
// is tolerated: the status still updates and no stage is created.
func (s *WorkflowServiceImpl) ChangeStatus(ctx context.Context, requestID uint, newStatus domain.RequestStatus, handlerID uint, comments string) (*domain.StatusChange, error) {
	request, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if request.Status == newStatus {
		return &domain.StatusChange{Request: request, Changed: false}, nil
	}

	transition := &domain.StageTransition{
		RequestID:   requestID,
		NewStatus:   newStatus,
		HandlerID:   handlerID,
		Comments:    comments,
		CompletedAt: time.Now(),
	}

	if current := request.CurrentStage(); current != nil {
		transition.CompleteStageID = current.ID
		if !newStatus.Terminal() {
			transition.NextStage = &domain.WorkflowStage{
				Name:   current.Name.Next(),
				Status: domain.StagePending,
			}
		}
	}

	if err := s.requestRepo.ApplyTransition(ctx, transition); err != nil {
		return nil, err
	}

	updated, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.StatusChangedEvent, handlerID).
		WithMetadata("request_id", requestID).
		WithMetadata("from", string(request.Status)).
		WithMetadata("to", string(newStatus)))
	obs.ObserveTransition(string(newStatus))

	return &domain.StatusChange{Request: updated, Changed: true}, nil
}

// GetByID implements domain.WorkflowService
func (s *WorkflowServiceImpl) GetByID(ctx context.Context, id uint) (*domain.Request, error) {
	return s.requestRepo.FindByID(ctx, id)
}

// List implements domain.WorkflowService
func (s *WorkflowServiceImpl) List(ctx context.Context, filter domain.RequestFilter) ([]*domain.Request, error) {
	return s.requestRepo.List(ctx, filter)
}
