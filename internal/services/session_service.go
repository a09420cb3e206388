package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/you/hrflowsvc/domain"
	"github.com/you/hrflowsvc/internal/obs"
)

const refreshTokenBytes = 40

// SessionConfig carries the session lifecycle knobs.
type SessionConfig struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// SessionServiceImpl implements domain.SessionService. It owns the session
// state machine: Anonymous -> Authenticated -> Rotated -> Revoked, with at
// most one active refresh token per account at any time.
type SessionServiceImpl struct {
	accountRepo domain.AccountRepository
	tokenRepo   domain.RefreshTokenRepository
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	limiter     domain.LoginLimiter
	audit       domain.AuditLogger
	config      SessionConfig
}

// NewSessionService creates a new session service
func NewSessionService(
	accountRepo domain.AccountRepository,
	tokenRepo domain.RefreshTokenRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	limiter domain.LoginLimiter,
	audit domain.AuditLogger,
	config SessionConfig,
) domain.SessionService {
	return &SessionServiceImpl{
		accountRepo: accountRepo,
		tokenRepo:   tokenRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		limiter:     limiter,
		audit:       audit,
		config:      config,
	}
}

// Authenticate implements domain.SessionService. On success every refresh
// token previously issued to the account is revoked before the new one is
// minted (single-session-lineage policy).
func (s *SessionServiceImpl) Authenticate(ctx context.Context, email, password, ip string) (*domain.AuthResult, error) {
	if err := s.limiter.Allow(ctx, email, ip); err != nil {
		obs.ObserveLogin("throttled")
		return nil, err
	}

	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, s.failLogin(ctx, email, ip, &domain.InvalidCredentialsError{Field: "email"})
		}
		return nil, err
	}

	if !account.Verified() {
		return nil, s.failLogin(ctx, email, ip, domain.ErrAccountUnverified)
	}
	if account.Status != domain.AccountActive {
		return nil, s.failLogin(ctx, email, ip, domain.ErrAccountInactive)
	}
	if !s.passwordSvc.Verify(account.PasswordHash, password) {
		return nil, s.failLogin(ctx, email, ip, &domain.InvalidCredentialsError{Field: "password"})
	}

	if err := s.tokenRepo.RevokeAllForAccount(ctx, account.ID, ip); err != nil {
		return nil, fmt.Errorf("failed to revoke prior tokens: %w", err)
	}

	result, err := s.issueTokenPair(ctx, account, ip)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Reset(ctx, email, ip); err != nil {
		// Throttle bookkeeping must not fail a valid login.
		s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.LoginEvent, account.ID).
			WithEmail(email).WithIP(ip).WithMetadata("limiter_reset_error", err.Error()))
	} else {
		s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.LoginEvent, account.ID).
			WithEmail(email).WithIP(ip))
	}
	obs.ObserveLogin("success")
	return result, nil
}

func (s *SessionServiceImpl) failLogin(ctx context.Context, email, ip string, cause error) error {
	if err := s.limiter.RecordFailure(ctx, email, ip); err != nil {
		cause = fmt.Errorf("%w (limiter: %v)", cause, err)
	}
	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.LoginFailureEvent, 0).
		WithEmail(email).WithIP(ip).WithError(cause))
	obs.ObserveLogin("failure")
	return cause
}

// Refresh implements domain.SessionService. Rotation is revoke-then-issue as
// one logical step: the repository's Rotate commits both in one transaction,
// so no window exists where old and new tokens are simultaneously active. A
// presented token that was already rotated loses the compare-and-set and
// fails with ErrTokenInvalid, which clients must treat as a forced
// re-authentication (possible theft signal).
func (s *SessionServiceImpl) Refresh(ctx context.Context, refreshToken, ip string) (*domain.AuthResult, error) {
	current, err := s.tokenRepo.FindByToken(ctx, refreshToken)
	if err != nil {
		obs.ObserveRefresh("not_found")
		return nil, err
	}
	if !current.Active(time.Now()) {
		obs.ObserveRefresh("inactive")
		return nil, domain.ErrTokenInvalid
	}

	account, err := s.accountRepo.FindByID(ctx, current.AccountID)
	if err != nil {
		obs.ObserveRefresh("orphaned")
		return nil, err
	}
	if account.Status != domain.AccountActive {
		obs.ObserveRefresh("inactive_account")
		return nil, domain.ErrAccountInactive
	}

	replacement, err := s.newRefreshToken(account.ID, ip)
	if err != nil {
		return nil, err
	}
	if err := s.tokenRepo.Rotate(ctx, refreshToken, replacement, ip); err != nil {
		obs.ObserveRefresh("lost_race")
		return nil, err
	}

	accessToken, err := s.tokenSvc.IssueAccessToken(account.ID, account.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenGeneration, err)
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.TokenRotatedEvent, account.ID).WithIP(ip))
	obs.ObserveRefresh("success")
	return &domain.AuthResult{
		Account:      account,
		AccessToken:  accessToken,
		RefreshToken: replacement.Token,
		ExpiresIn:    int64(s.config.AccessTTL.Seconds()),
	}, nil
}

// Revoke implements domain.SessionService. Idempotent for already-revoked
// tokens and scoped to the one presented token; the account's other tokens
// are untouched.
func (s *SessionServiceImpl) Revoke(ctx context.Context, refreshToken, ip string) error {
	current, err := s.tokenRepo.FindByToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	if err := s.tokenRepo.Revoke(ctx, refreshToken, ip); err != nil {
		return err
	}
	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.TokenRevokedEvent, current.AccountID).WithIP(ip))
	return nil
}

func (s *SessionServiceImpl) issueTokenPair(ctx context.Context, account *domain.Account, ip string) (*domain.AuthResult, error) {
	refresh, err := s.newRefreshToken(account.ID, ip)
	if err != nil {
		return nil, err
	}
	if err := s.tokenRepo.Create(ctx, refresh); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenGeneration, err)
	}

	accessToken, err := s.tokenSvc.IssueAccessToken(account.ID, account.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenGeneration, err)
	}

	return &domain.AuthResult{
		Account:      account,
		AccessToken:  accessToken,
		RefreshToken: refresh.Token,
		ExpiresIn:    int64(s.config.AccessTTL.Seconds()),
	}, nil
}

func (s *SessionServiceImpl) newRefreshToken(accountID uint, ip string) (*domain.RefreshToken, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenGeneration, err)
	}
	return &domain.RefreshToken{
		AccountID:   accountID,
		Token:       hex.EncodeToString(buf),
		ExpiresAt:   time.Now().Add(s.config.RefreshTTL),
		CreatedByIP: ip,
	}, nil
}
