package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/you/hrflowsvc/domain"
)

const resetTokenTTL = 24 * time.Hour

// AccountServiceImpl implements domain.AccountService
type AccountServiceImpl struct {
	accountRepo domain.AccountRepository
	passwordSvc domain.PasswordService
	mailer      domain.Mailer
	audit       domain.AuditLogger
}

// NewAccountService creates a new account service
func NewAccountService(
	accountRepo domain.AccountRepository,
	passwordSvc domain.PasswordService,
	mailer domain.Mailer,
	audit domain.AuditLogger,
) domain.AccountService {
	return &AccountServiceImpl{
		accountRepo: accountRepo,
		passwordSvc: passwordSvc,
		mailer:      mailer,
		audit:       audit,
	}
}

// Register implements domain.AccountService. Registration never reveals
// whether the email was already taken: an existing address gets an
// "already registered" email and the call still reports success.
func (s *AccountServiceImpl) Register(ctx context.Context, params domain.RegisterParams, origin string) error {
	if existing, err := s.accountRepo.FindByEmail(ctx, params.Email); err == nil && existing != nil {
		s.sendEmail(ctx, domain.Email{
			To:      params.Email,
			Subject: "Email Already Registered",
			HTML: fmt.Sprintf(`<p>Your email <strong>%s</strong> is already registered.</p>
<p>If you don't know your password please visit the <a href="%s/forgot-password">forgot password</a> page.</p>`,
				params.Email, origin),
		})
		return nil
	}

	hash, err := s.passwordSvc.Hash(params.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	token, err := randomToken()
	if err != nil {
		return err
	}

	// The first registered account gets the Admin role.
	count, err := s.accountRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count accounts: %w", err)
	}
	role := domain.RoleUser
	if count == 0 {
		role = domain.RoleAdmin
	}

	account := &domain.Account{
		Email:             params.Email,
		PasswordHash:      hash,
		Title:             params.Title,
		FirstName:         params.FirstName,
		LastName:          params.LastName,
		Role:              role,
		Status:            domain.AccountActive,
		AcceptTerms:       params.AcceptTerms,
		VerificationToken: token,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	s.sendEmail(ctx, domain.Email{
		To:      params.Email,
		Subject: "Verify Your Email",
		HTML: fmt.Sprintf(`<p>Thanks for registering!</p>
<p>Please click the below link to verify your email address:</p>
<p><a href="%s/verify-email?token=%s">verify email</a></p>`, origin, token),
	})

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.AccountRegisteredEvent, account.ID).
		WithEmail(account.Email))
	return nil
}

// VerifyEmail implements domain.AccountService
func (s *AccountServiceImpl) VerifyEmail(ctx context.Context, token string) error {
	account, err := s.accountRepo.FindByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.ErrTokenInvalid
		}
		return err
	}

	now := time.Now()
	account.VerifiedAt = &now
	account.VerificationToken = ""
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return fmt.Errorf("failed to verify account: %w", err)
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.AccountVerifiedEvent, account.ID).
		WithEmail(account.Email))
	return nil
}

// ForgotPassword implements domain.AccountService. Always reports success so
// callers cannot probe for registered addresses.
func (s *AccountServiceImpl) ForgotPassword(ctx context.Context, email, origin string) error {
	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil
		}
		return err
	}

	token, err := randomToken()
	if err != nil {
		return err
	}
	expires := time.Now().Add(resetTokenTTL)
	account.ResetToken = token
	account.ResetTokenExpires = &expires
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	s.sendEmail(ctx, domain.Email{
		To:      email,
		Subject: "Reset Your Password",
		HTML: fmt.Sprintf(`<p>Please click the below link to reset your password, the link will be valid for 1 day:</p>
<p><a href="%s/reset-password?token=%s">reset password</a></p>`, origin, token),
	})
	return nil
}

func (s *AccountServiceImpl) findByValidResetToken(ctx context.Context, token string) (*domain.Account, error) {
	account, err := s.accountRepo.FindByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}
	if account.ResetTokenExpires == nil || account.ResetTokenExpires.Before(time.Now()) {
		return nil, domain.ErrTokenInvalid
	}
	return account, nil
}

// ValidateResetToken implements domain.AccountService
func (s *AccountServiceImpl) ValidateResetToken(ctx context.Context, token string) error {
	_, err := s.findByValidResetToken(ctx, token)
	return err
}

// ResetPassword implements domain.AccountService. A successful reset also
// verifies the account: the reset email proves control of the address.
func (s *AccountServiceImpl) ResetPassword(ctx context.Context, token, password string) error {
	account, err := s.findByValidResetToken(ctx, token)
	if err != nil {
		return err
	}

	hash, err := s.passwordSvc.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	account.PasswordHash = hash
	account.ResetToken = ""
	account.ResetTokenExpires = nil
	if account.VerifiedAt == nil {
		account.VerifiedAt = &now
	}
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.PasswordResetEvent, account.ID).
		WithEmail(account.Email))
	return nil
}

// List implements domain.AccountService
func (s *AccountServiceImpl) List(ctx context.Context) ([]*domain.Account, error) {
	return s.accountRepo.List(ctx)
}

// GetByID implements domain.AccountService
func (s *AccountServiceImpl) GetByID(ctx context.Context, id uint) (*domain.Account, error) {
	return s.accountRepo.FindByID(ctx, id)
}

// Create implements domain.AccountService: the admin creation path. Unlike
// self registration, created accounts skip email verification and duplicate
// emails are reported to the caller.
func (s *AccountServiceImpl) Create(ctx context.Context, params domain.RegisterParams, role domain.Role) (*domain.Account, error) {
	if existing, err := s.accountRepo.FindByEmail(ctx, params.Email); err == nil && existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := s.passwordSvc.Hash(params.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	account := &domain.Account{
		Email:        params.Email,
		PasswordHash: hash,
		Title:        params.Title,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Role:         role,
		Status:       domain.AccountActive,
		AcceptTerms:  params.AcceptTerms,
		VerifiedAt:   &now,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return account, nil
}

// Update implements domain.AccountService; nil params fields are left as-is.
func (s *AccountServiceImpl) Update(ctx context.Context, id uint, params domain.UpdateAccountParams) (*domain.Account, error) {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Email != nil && *params.Email != account.Email {
		if existing, err := s.accountRepo.FindByEmail(ctx, *params.Email); err == nil && existing != nil {
			return nil, domain.ErrEmailTaken
		}
		account.Email = *params.Email
	}
	if params.Title != nil {
		account.Title = *params.Title
	}
	if params.FirstName != nil {
		account.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		account.LastName = *params.LastName
	}
	if params.Role != nil {
		account.Role = *params.Role
	}
	if params.Status != nil {
		account.Status = *params.Status
	}
	if params.Password != nil {
		hash, err := s.passwordSvc.Hash(*params.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		account.PasswordHash = hash
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}

// Delete implements domain.AccountService; the account's refresh tokens go
// with it.
func (s *AccountServiceImpl) Delete(ctx context.Context, id uint) error {
	return s.accountRepo.Delete(ctx, id)
}

// sendEmail delivers fire-and-forget: a mail failure is logged, never
// surfaced, so registration flows cannot leak address existence through
// error behavior.
func (s *AccountServiceImpl) sendEmail(ctx context.Context, email domain.Email) {
	if err := s.mailer.Send(ctx, email); err != nil {
		log.Printf("EMAIL_SEND_FAILED: to=%s subject=%q error=%v", email.To, email.Subject, err)
	}
}

func randomToken() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTokenGeneration, err)
	}
	return hex.EncodeToString(buf), nil
}
