package mocks

import (
	"context"

	"github.com/you/hrflowsvc/domain"
)

// MockSessionService implements domain.SessionService for testing
type MockSessionService struct {
	AuthenticateFunc func(ctx context.Context, email, password, ip string) (*domain.AuthResult, error)
	RefreshFunc      func(ctx context.Context, refreshToken, ip string) (*domain.AuthResult, error)
	RevokeFunc       func(ctx context.Context, refreshToken, ip string) error
}

// NewMockSessionService creates a new MockSessionService
func NewMockSessionService() *MockSessionService {
	return &MockSessionService{}
}

// Authenticate performs credential login
func (m *MockSessionService) Authenticate(ctx context.Context, email, password, ip string) (*domain.AuthResult, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, email, password, ip)
	}
	return nil, domain.ErrInvalidCredentials
}

// Refresh rotates a refresh token
func (m *MockSessionService) Refresh(ctx context.Context, refreshToken, ip string) (*domain.AuthResult, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken, ip)
	}
	return nil, domain.ErrTokenInvalid
}

// Revoke invalidates a refresh token
func (m *MockSessionService) Revoke(ctx context.Context, refreshToken, ip string) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, refreshToken, ip)
	}
	return nil
}

// MockAccountService implements domain.AccountService for testing
type MockAccountService struct {
	RegisterFunc           func(ctx context.Context, params domain.RegisterParams, origin string) error
	VerifyEmailFunc        func(ctx context.Context, token string) error
	ForgotPasswordFunc     func(ctx context.Context, email, origin string) error
	ValidateResetTokenFunc func(ctx context.Context, token string) error
	ResetPasswordFunc      func(ctx context.Context, token, password string) error
	ListFunc               func(ctx context.Context) ([]*domain.Account, error)
	GetByIDFunc            func(ctx context.Context, id uint) (*domain.Account, error)
	CreateFunc             func(ctx context.Context, params domain.RegisterParams, role domain.Role) (*domain.Account, error)
	UpdateFunc             func(ctx context.Context, id uint, params domain.UpdateAccountParams) (*domain.Account, error)
	DeleteFunc             func(ctx context.Context, id uint) error
}

// NewMockAccountService creates a new MockAccountService
func NewMockAccountService() *MockAccountService {
	return &MockAccountService{}
}

// Register handles self registration
func (m *MockAccountService) Register(ctx context.Context, params domain.RegisterParams, origin string) error {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, params, origin)
	}
	return nil
}

// VerifyEmail verifies an email token
func (m *MockAccountService) VerifyEmail(ctx context.Context, token string) error {
	if m.VerifyEmailFunc != nil {
		return m.VerifyEmailFunc(ctx, token)
	}
	return nil
}

// ForgotPassword initiates a reset
func (m *MockAccountService) ForgotPassword(ctx context.Context, email, origin string) error {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, email, origin)
	}
	return nil
}

// ValidateResetToken checks a reset token
func (m *MockAccountService) ValidateResetToken(ctx context.Context, token string) error {
	if m.ValidateResetTokenFunc != nil {
		return m.ValidateResetTokenFunc(ctx, token)
	}
	return nil
}

// ResetPassword completes a reset
func (m *MockAccountService) ResetPassword(ctx context.Context, token, password string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, token, password)
	}
	return nil
}

// List returns all accounts
func (m *MockAccountService) List(ctx context.Context) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

// GetByID returns one account
func (m *MockAccountService) GetByID(ctx context.Context, id uint) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrAccountNotFound
}

// Create handles admin account creation
func (m *MockAccountService) Create(ctx context.Context, params domain.RegisterParams, role domain.Role) (*domain.Account, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params, role)
	}
	return nil, nil
}

// Update applies account updates
func (m *MockAccountService) Update(ctx context.Context, id uint, params domain.UpdateAccountParams) (*domain.Account, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return nil, domain.ErrAccountNotFound
}

// Delete removes an account
func (m *MockAccountService) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockWorkflowService implements domain.WorkflowService for testing
type MockWorkflowService struct {
	CreateFunc       func(ctx context.Context, request *domain.Request) (*domain.Request, error)
	ChangeStatusFunc func(ctx context.Context, requestID uint, newStatus domain.RequestStatus, handlerID uint, comments string) (*domain.StatusChange, error)
	GetByIDFunc      func(ctx context.Context, id uint) (*domain.Request, error)
	ListFunc         func(ctx context.Context, filter domain.RequestFilter) ([]*domain.Request, error)
}

// NewMockWorkflowService creates a new MockWorkflowService
func NewMockWorkflowService() *MockWorkflowService {
	return &MockWorkflowService{}
}

// Create submits a new request
func (m *MockWorkflowService) Create(ctx context.Context, request *domain.Request) (*domain.Request, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, request)
	}
	return request, nil
}

// ChangeStatus advances the workflow
func (m *MockWorkflowService) ChangeStatus(ctx context.Context, requestID uint, newStatus domain.RequestStatus, handlerID uint, comments string) (*domain.StatusChange, error) {
	if m.ChangeStatusFunc != nil {
		return m.ChangeStatusFunc(ctx, requestID, newStatus, handlerID, comments)
	}
	return nil, domain.ErrRequestNotFound
}

// GetByID returns one request
func (m *MockWorkflowService) GetByID(ctx context.Context, id uint) (*domain.Request, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrRequestNotFound
}

// List returns requests matching the filter
func (m *MockWorkflowService) List(ctx context.Context, filter domain.RequestFilter) ([]*domain.Request, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

// Compile-time interface compliance verification
var (
	_ domain.SessionService  = (*MockSessionService)(nil)
	_ domain.AccountService  = (*MockAccountService)(nil)
	_ domain.WorkflowService = (*MockWorkflowService)(nil)
)
