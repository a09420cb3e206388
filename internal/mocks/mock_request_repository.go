package mocks

import (
	"context"

	"github.com/you/hrflowsvc/domain"
)

// MockRequestRepository implements domain.RequestRepository for testing
type MockRequestRepository struct {
	CreateFunc          func(ctx context.Context, request *domain.Request, stages []domain.WorkflowStage) error
	FindByIDFunc        func(ctx context.Context, id uint) (*domain.Request, error)
	ListFunc            func(ctx context.Context, filter domain.RequestFilter) ([]*domain.Request, error)
	ApplyTransitionFunc func(ctx context.Context, t *domain.StageTransition) error
}

// NewMockRequestRepository creates a new MockRequestRepository with default behaviors
func NewMockRequestRepository() *MockRequestRepository {
	return &MockRequestRepository{}
}

// Create persists a request with its initial stages
func (m *MockRequestRepository) Create(ctx context.Context, request *domain.Request, stages []domain.WorkflowStage) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, request, stages)
	}
	request.Stages = stages
	return nil
}

// FindByID finds a request with its stage history
func (m *MockRequestRepository) FindByID(ctx context.Context, id uint) (*domain.Request, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrRequestNotFound
}

// List returns requests matching the filter
func (m *MockRequestRepository) List(ctx context.Context, filter domain.RequestFilter) ([]*domain.Request, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

// ApplyTransition applies a workflow transition atomically
func (m *MockRequestRepository) ApplyTransition(ctx context.Context, t *domain.StageTransition) error {
	if m.ApplyTransitionFunc != nil {
		return m.ApplyTransitionFunc(ctx, t)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.RequestRepository = (*MockRequestRepository)(nil)
