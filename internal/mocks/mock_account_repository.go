package mocks

import (
	"context"

	"github.com/you/hrflowsvc/domain"
)

// MockAccountRepository implements domain.AccountRepository for testing
type MockAccountRepository struct {
	CreateFunc                  func(ctx context.Context, account *domain.Account) error
	FindByEmailFunc             func(ctx context.Context, email string) (*domain.Account, error)
	FindByIDFunc                func(ctx context.Context, id uint) (*domain.Account, error)
	FindByVerificationTokenFunc func(ctx context.Context, token string) (*domain.Account, error)
	FindByResetTokenFunc        func(ctx context.Context, token string) (*domain.Account, error)
	ListFunc                    func(ctx context.Context) ([]*domain.Account, error)
	CountFunc                   func(ctx context.Context) (int64, error)
	UpdateFunc                  func(ctx context.Context, account *domain.Account) error
	DeleteFunc                  func(ctx context.Context, id uint) error
}

// NewMockAccountRepository creates a new MockAccountRepository with default behaviors
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{}
}

// Create creates a new account
func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	return nil
}

// FindByEmail finds an account by email
func (m *MockAccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, domain.ErrAccountNotFound
}

// FindByID finds an account by ID
func (m *MockAccountRepository) FindByID(ctx context.Context, id uint) (*domain.Account, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrAccountNotFound
}

// FindByVerificationToken finds an account by its verification token
func (m *MockAccountRepository) FindByVerificationToken(ctx context.Context, token string) (*domain.Account, error) {
	if m.FindByVerificationTokenFunc != nil {
		return m.FindByVerificationTokenFunc(ctx, token)
	}
	return nil, domain.ErrAccountNotFound
}

// FindByResetToken finds an account by its reset token
func (m *MockAccountRepository) FindByResetToken(ctx context.Context, token string) (*domain.Account, error) {
	if m.FindByResetTokenFunc != nil {
		return m.FindByResetTokenFunc(ctx, token)
	}
	return nil, domain.ErrAccountNotFound
}

// List returns all accounts
func (m *MockAccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

// Count returns the number of accounts
func (m *MockAccountRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

// Update updates an existing account
func (m *MockAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, account)
	}
	return nil
}

// Delete removes an account
func (m *MockAccountRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.AccountRepository = (*MockAccountRepository)(nil)
