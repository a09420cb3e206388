package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/you/hrflowsvc/domain"
)

// MockRefreshTokenRepository implements domain.RefreshTokenRepository for testing
type MockRefreshTokenRepository struct {
	CreateFunc              func(ctx context.Context, token *domain.RefreshToken) error
	FindByTokenFunc         func(ctx context.Context, token string) (*domain.RefreshToken, error)
	FindByAccountFunc       func(ctx context.Context, accountID uint) ([]*domain.RefreshToken, error)
	RevokeFunc              func(ctx context.Context, token, byIP string) error
	RevokeAllForAccountFunc func(ctx context.Context, accountID uint, byIP string) error
	RotateFunc              func(ctx context.Context, oldToken string, replacement *domain.RefreshToken, byIP string) error
}

// NewMockRefreshTokenRepository creates a new MockRefreshTokenRepository with default behaviors
func NewMockRefreshTokenRepository() *MockRefreshTokenRepository {
	return &MockRefreshTokenRepository{}
}

// Create persists a refresh token
func (m *MockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, token)
	}
	return nil
}

// FindByToken finds a refresh token by its opaque value
func (m *MockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	if m.FindByTokenFunc != nil {
		return m.FindByTokenFunc(ctx, token)
	}
	return nil, domain.ErrTokenNotFound
}

// FindByAccount returns the account's refresh tokens
func (m *MockRefreshTokenRepository) FindByAccount(ctx context.Context, accountID uint) ([]*domain.RefreshToken, error) {
	if m.FindByAccountFunc != nil {
		return m.FindByAccountFunc(ctx, accountID)
	}
	return nil, nil
}

// Revoke marks a token revoked
func (m *MockRefreshTokenRepository) Revoke(ctx context.Context, token, byIP string) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, token, byIP)
	}
	return nil
}

// RevokeAllForAccount revokes every active token of an account
func (m *MockRefreshTokenRepository) RevokeAllForAccount(ctx context.Context, accountID uint, byIP string) error {
	if m.RevokeAllForAccountFunc != nil {
		return m.RevokeAllForAccountFunc(ctx, accountID, byIP)
	}
	return nil
}

// Rotate atomically revokes oldToken and persists its replacement
func (m *MockRefreshTokenRepository) Rotate(ctx context.Context, oldToken string, replacement *domain.RefreshToken, byIP string) error {
	if m.RotateFunc != nil {
		return m.RotateFunc(ctx, oldToken, replacement, byIP)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.RefreshTokenRepository = (*MockRefreshTokenRepository)(nil)

// InMemoryRefreshTokenStore is a thread-safe in-memory implementation of
// domain.RefreshTokenRepository. Rotation uses the same compare-and-set
// semantics as the database repository, so concurrency tests can race real
// goroutines against it.
type InMemoryRefreshTokenStore struct {
	mu     sync.Mutex
	nextID uint
	rows   map[string]*domain.RefreshToken
}

// NewInMemoryRefreshTokenStore creates an empty store
func NewInMemoryRefreshTokenStore() *InMemoryRefreshTokenStore {
	return &InMemoryRefreshTokenStore{rows: make(map[string]*domain.RefreshToken)}
}

func (s *InMemoryRefreshTokenStore) Create(ctx context.Context, token *domain.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked(token)
}

func (s *InMemoryRefreshTokenStore) createLocked(token *domain.RefreshToken) error {
	s.nextID++
	token.ID = s.nextID
	token.CreatedAt = time.Now()
	clone := *token
	s.rows[token.Token] = &clone
	return nil
}

func (s *InMemoryRefreshTokenStore) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[token]
	if !ok {
		return nil, domain.ErrTokenNotFound
	}
	clone := *row
	return &clone, nil
}

func (s *InMemoryRefreshTokenStore) FindByAccount(ctx context.Context, accountID uint) ([]*domain.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var tokens []*domain.RefreshToken
	for _, row := range s.rows {
		if row.AccountID == accountID {
			clone := *row
			tokens = append(tokens, &clone)
		}
	}
	return tokens, nil
}

func (s *InMemoryRefreshTokenStore) revokeLocked(token *domain.RefreshToken, byIP string, now time.Time) bool {
	if !token.Active(now) {
		return false
	}
	token.RevokedAt = &now
	token.RevokedByIP = byIP
	return true
}

func (s *InMemoryRefreshTokenStore) Revoke(ctx context.Context, token, byIP string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.rows[token]; ok {
		s.revokeLocked(row, byIP, time.Now())
	}
	return nil
}

func (s *InMemoryRefreshTokenStore) RevokeAllForAccount(ctx context.Context, accountID uint, byIP string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for _, row := range s.rows {
		if row.AccountID == accountID {
			s.revokeLocked(row, byIP, now)
		}
	}
	return nil
}

func (s *InMemoryRefreshTokenStore) Rotate(ctx context.Context, oldToken string, replacement *domain.RefreshToken, byIP string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[oldToken]
	if !ok || !s.revokeLocked(row, byIP, time.Now()) {
		return domain.ErrTokenInvalid
	}
	return s.createLocked(replacement)
}

// Compile-time interface compliance verification
var _ domain.RefreshTokenRepository = (*InMemoryRefreshTokenStore)(nil)
