package mocks

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/you/hrflowsvc/domain"
)

// MockTokenService implements domain.TokenService for testing
type MockTokenService struct {
	IssueAccessTokenFunc  func(accountID uint, role domain.Role) (string, error)
	VerifyAccessTokenFunc func(token string) (*domain.AccessClaims, error)

	issued atomic.Int64
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// IssueAccessToken returns a deterministic unique token by default
func (m *MockTokenService) IssueAccessToken(accountID uint, role domain.Role) (string, error) {
	if m.IssueAccessTokenFunc != nil {
		return m.IssueAccessTokenFunc(accountID, role)
	}
	n := m.issued.Add(1)
	return fmt.Sprintf("access-%d-%s-%d", accountID, role, n), nil
}

// VerifyAccessToken fails with ErrTokenInvalid by default
func (m *MockTokenService) VerifyAccessToken(token string) (*domain.AccessClaims, error) {
	if m.VerifyAccessTokenFunc != nil {
		return m.VerifyAccessTokenFunc(token)
	}
	return nil, domain.ErrTokenInvalid
}

var _ domain.TokenService = (*MockTokenService)(nil)

// MockPasswordService implements domain.PasswordService for testing
type MockPasswordService struct {
	HashFunc   func(password string) (string, error)
	VerifyFunc func(hashedPassword, password string) bool
}

// NewMockPasswordService creates a new MockPasswordService with default behaviors
func NewMockPasswordService() *MockPasswordService {
	return &MockPasswordService{}
}

// Hash prefixes the password by default so tests can assert on it
func (m *MockPasswordService) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hashed_" + password, nil
}

// Verify matches the default Hash scheme by default
func (m *MockPasswordService) Verify(hashedPassword, password string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(hashedPassword, password)
	}
	return hashedPassword == "hashed_"+password
}

var _ domain.PasswordService = (*MockPasswordService)(nil)

// MockMailer implements domain.Mailer for testing, recording sent emails
type MockMailer struct {
	SendFunc func(ctx context.Context, email domain.Email) error

	Sent []domain.Email
}

// NewMockMailer creates a new MockMailer with default behaviors
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

// Send records the email and succeeds by default
func (m *MockMailer) Send(ctx context.Context, email domain.Email) error {
	m.Sent = append(m.Sent, email)
	if m.SendFunc != nil {
		return m.SendFunc(ctx, email)
	}
	return nil
}

var _ domain.Mailer = (*MockMailer)(nil)

// MockLoginLimiter implements domain.LoginLimiter for testing
type MockLoginLimiter struct {
	AllowFunc         func(ctx context.Context, email, ip string) error
	RecordFailureFunc func(ctx context.Context, email, ip string) error
	ResetFunc         func(ctx context.Context, email, ip string) error

	Failures int
	Resets   int
}

// NewMockLoginLimiter creates a new MockLoginLimiter with default behaviors
func NewMockLoginLimiter() *MockLoginLimiter {
	return &MockLoginLimiter{}
}

// Allow permits the attempt by default
func (m *MockLoginLimiter) Allow(ctx context.Context, email, ip string) error {
	if m.AllowFunc != nil {
		return m.AllowFunc(ctx, email, ip)
	}
	return nil
}

// RecordFailure counts the failure and succeeds by default
func (m *MockLoginLimiter) RecordFailure(ctx context.Context, email, ip string) error {
	m.Failures++
	if m.RecordFailureFunc != nil {
		return m.RecordFailureFunc(ctx, email, ip)
	}
	return nil
}

// Reset counts the reset and succeeds by default
func (m *MockLoginLimiter) Reset(ctx context.Context, email, ip string) error {
	m.Resets++
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, email, ip)
	}
	return nil
}

var _ domain.LoginLimiter = (*MockLoginLimiter)(nil)

// MockAuditLogger implements domain.AuditLogger for testing, recording
// events. Safe for concurrent use so races in concurrency tests stay in the
// code under test.
type MockAuditLogger struct {
	mu     sync.Mutex
	events []*domain.AuditEvent
}

// NewMockAuditLogger creates a new MockAuditLogger
func NewMockAuditLogger() *MockAuditLogger {
	return &MockAuditLogger{}
}

// LogEvent records the event
func (m *MockAuditLogger) LogEvent(_ context.Context, event *domain.AuditEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

// Events returns a snapshot of the recorded events
func (m *MockAuditLogger) Events() []*domain.AuditEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.AuditEvent(nil), m.events...)
}

var _ domain.AuditLogger = (*MockAuditLogger)(nil)
