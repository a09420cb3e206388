package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/you/hrflowsvc/domain"
	"github.com/you/hrflowsvc/internal/mocks"
)

// accountStore is a tiny in-memory account repository for the flows that
// need real create/lookup/update round trips.
type accountStore struct {
	*mocks.MockAccountRepository
	accounts map[string]*domain.Account
	nextID   uint
}

func newAccountStore() *accountStore {
	store := &accountStore{
		MockAccountRepository: mocks.NewMockAccountRepository(),
		accounts:              make(map[string]*domain.Account),
	}
	store.CreateFunc = func(ctx context.Context, account *domain.Account) error {
		store.nextID++
		account.ID = store.nextID
		store.accounts[account.Email] = account
		return nil
	}
	store.FindByEmailFunc = func(ctx context.Context, email string) (*domain.Account, error) {
		if account, ok := store.accounts[email]; ok {
			return account, nil
		}
		return nil, domain.ErrAccountNotFound
	}
	store.FindByIDFunc = func(ctx context.Context, id uint) (*domain.Account, error) {
		for _, account := range store.accounts {
			if account.ID == id {
				return account, nil
			}
		}
		return nil, domain.ErrAccountNotFound
	}
	store.FindByVerificationTokenFunc = func(ctx context.Context, token string) (*domain.Account, error) {
		for _, account := range store.accounts {
			if token != "" && account.VerificationToken == token {
				return account, nil
			}
		}
		return nil, domain.ErrAccountNotFound
	}
	store.FindByResetTokenFunc = func(ctx context.Context, token string) (*domain.Account, error) {
		for _, account := range store.accounts {
			if token != "" && account.ResetToken == token {
				return account, nil
			}
		}
		return nil, domain.ErrAccountNotFound
	}
	store.CountFunc = func(ctx context.Context) (int64, error) {
		return int64(len(store.accounts)), nil
	}
	store.UpdateFunc = func(ctx context.Context, account *domain.Account) error {
		store.accounts[account.Email] = account
		return nil
	}
	return store
}

func newAccountService(store *accountStore, mailer *mocks.MockMailer) domain.AccountService {
	return NewAccountService(store, mocks.NewMockPasswordService(), mailer, mocks.NewMockAuditLogger())
}

func registerParams(email string) domain.RegisterParams {
	return domain.RegisterParams{
		Email:       email,
		Password:    "sup3rsecret",
		Title:       "Mr",
		FirstName:   "Jan",
		LastName:    "Kowalski",
		AcceptTerms: true,
	}
}

func TestAccountServiceImpl_Register_FirstAccountIsAdmin(t *testing.T) {
	store := newAccountStore()
	mailer := mocks.NewMockMailer()
	svc := newAccountService(store, mailer)
	ctx := context.Background()

	if err := svc.Register(ctx, registerParams("first@example.com"), "http://app.local"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.Register(ctx, registerParams("second@example.com"), "http://app.local"); err != nil {
		t.Fatalf("register: %v", err)
	}

	first := store.accounts["first@example.com"]
	if first.Role != domain.RoleAdmin {
		t.Errorf("expected first account to be Admin, got %s", first.Role)
	}
	second := store.accounts["second@example.com"]
	if second.Role != domain.RoleUser {
		t.Errorf("expected second account to be User, got %s", second.Role)
	}

	if first.PasswordHash != "hashed_sup3rsecret" {
		t.Errorf("expected hashed password stored, got %q", first.PasswordHash)
	}
	if first.Verified() {
		t.Error("expected new account to be unverified")
	}
	if first.VerificationToken == "" {
		t.Error("expected verification token assigned")
	}

	if len(mailer.Sent) != 2 {
		t.Fatalf("expected 2 verification emails, got %d", len(mailer.Sent))
	}
	if mailer.Sent[0].Subject != "Verify Your Email" {
		t.Errorf("unexpected subject %q", mailer.Sent[0].Subject)
	}
	if !strings.Contains(mailer.Sent[0].HTML, first.VerificationToken) {
		t.Error("expected verification token in email body")
	}
}

func TestAccountServiceImpl_Register_ExistingEmailStaysHidden(t *testing.T) {
	store := newAccountStore()
	mailer := mocks.NewMockMailer()
	svc := newAccountService(store, mailer)
	ctx := context.Background()

	if err := svc.Register(ctx, registerParams("dup@example.com"), "http://app.local"); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Second registration with the same address must succeed to the caller
	// but send an "already registered" email instead of creating anything.
	if err := svc.Register(ctx, registerParams("dup@example.com"), "http://app.local"); err != nil {
		t.Fatalf("duplicate register should not error, got %v", err)
	}

	if len(store.accounts) != 1 {
		t.Errorf("expected 1 account, got %d", len(store.accounts))
	}
	if len(mailer.Sent) != 2 {
		t.Fatalf("expected 2 emails, got %d", len(mailer.Sent))
	}
	if mailer.Sent[1].Subject != "Email Already Registered" {
		t.Errorf("unexpected subject %q", mailer.Sent[1].Subject)
	}
}

func TestAccountServiceImpl_Register_MailerFailureIsSwallowed(t *testing.T) {
	store := newAccountStore()
	mailer := mocks.NewMockMailer()
	mailer.SendFunc = func(ctx context.Context, email domain.Email) error {
		return errors.New("smtp down")
	}
	svc := newAccountService(store, mailer)

	if err := svc.Register(context.Background(), registerParams("quiet@example.com"), "http://app.local"); err != nil {
		t.Fatalf("register should not surface mail errors, got %v", err)
	}
	if len(store.accounts) != 1 {
		t.Errorf("expected account created despite mailer failure")
	}
}

func TestAccountServiceImpl_VerifyEmail(t *testing.T) {
	store := newAccountStore()
	mailer := mocks.NewMockMailer()
	svc := newAccountService(store, mailer)
	ctx := context.Background()

	if err := svc.Register(ctx, registerParams("verify@example.com"), "http://app.local"); err != nil {
		t.Fatalf("register: %v", err)
	}
	token := store.accounts["verify@example.com"].VerificationToken

	if err := svc.VerifyEmail(ctx, token); err != nil {
		t.Fatalf("verify: %v", err)
	}

	account := store.accounts["verify@example.com"]
	if !account.Verified() {
		t.Error("expected account verified")
	}
	if account.VerificationToken != "" {
		t.Error("expected verification token cleared")
	}

	// Token is single use.
	if err := svc.VerifyEmail(ctx, token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid on reuse, got %v", err)
	}
}

func TestAccountServiceImpl_VerifyEmail_UnknownToken(t *testing.T) {
	svc := newAccountService(newAccountStore(), mocks.NewMockMailer())

	err := svc.VerifyEmail(context.Background(), "deadbeef")
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestAccountServiceImpl_ForgotPassword(t *testing.T) {
	store := newAccountStore()
	mailer := mocks.NewMockMailer()
	svc := newAccountService(store, mailer)
	ctx := context.Background()

	if err := svc.Register(ctx, registerParams("reset@example.com"), "http://app.local"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.ForgotPassword(ctx, "reset@example.com", "http://app.local"); err != nil {
		t.Fatalf("forgot password: %v", err)
	}

	account := store.accounts["reset@example.com"]
	if account.ResetToken == "" {
		t.Fatal("expected reset token stored")
	}
	if account.ResetTokenExpires == nil || !account.ResetTokenExpires.After(time.Now()) {
		t.Error("expected future reset token expiry")
	}

	last := mailer.Sent[len(mailer.Sent)-1]
	if last.Subject != "Reset Your Password" {
		t.Errorf("unexpected subject %q", last.Subject)
	}
	if !strings.Contains(last.HTML, account.ResetToken) {
		t.Error("expected reset token in email body")
	}
}

func TestAccountServiceImpl_ForgotPassword_UnknownEmailIsSilent(t *testing.T) {
	mailer := mocks.NewMockMailer()
	svc := newAccountService(newAccountStore(), mailer)

	if err := svc.ForgotPassword(context.Background(), "ghost@example.com", "http://app.local"); err != nil {
		t.Fatalf("expected silent success for unknown email, got %v", err)
	}
	if len(mailer.Sent) != 0 {
		t.Errorf("expected no email sent, got %d", len(mailer.Sent))
	}
}

func TestAccountServiceImpl_ResetPassword(t *testing.T) {
	store := newAccountStore()
	svc := newAccountService(store, mocks.NewMockMailer())
	ctx := context.Background()

	if err := svc.Register(ctx, registerParams("newpass@example.com"), "http://app.local"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.ForgotPassword(ctx, "newpass@example.com", "http://app.local"); err != nil {
		t.Fatalf("forgot password: %v", err)
	}
	token := store.accounts["newpass@example.com"].ResetToken

	if err := svc.ValidateResetToken(ctx, token); err != nil {
		t.Fatalf("validate reset token: %v", err)
	}

	if err := svc.ResetPassword(ctx, token, "brandNewPass1"); err != nil {
		t.Fatalf("reset password: %v", err)
	}

	account := store.accounts["newpass@example.com"]
	if account.PasswordHash != "hashed_brandNewPass1" {
		t.Errorf("expected new password hash, got %q", account.PasswordHash)
	}
	if account.ResetToken != "" || account.ResetTokenExpires != nil {
		t.Error("expected reset token cleared")
	}
	// Proving control of the mailbox verifies the account too.
	if !account.Verified() {
		t.Error("expected account verified after reset")
	}

	if err := svc.ResetPassword(ctx, token, "again"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid on reuse, got %v", err)
	}
}

func TestAccountServiceImpl_ResetPassword_ExpiredToken(t *testing.T) {
	store := newAccountStore()
	svc := newAccountService(store, mocks.NewMockMailer())
	ctx := context.Background()

	expired := time.Now().Add(-time.Minute)
	store.accounts["stale@example.com"] = &domain.Account{
		ID:                1,
		Email:             "stale@example.com",
		ResetToken:        "stale-token",
		ResetTokenExpires: &expired,
	}

	if err := svc.ValidateResetToken(ctx, "stale-token"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for expired token, got %v", err)
	}
	if err := svc.ResetPassword(ctx, "stale-token", "whatever"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for expired token, got %v", err)
	}
}

func TestAccountServiceImpl_Create(t *testing.T) {
	store := newAccountStore()
	mailer := mocks.NewMockMailer()
	svc := newAccountService(store, mailer)
	ctx := context.Background()

	account, err := svc.Create(ctx, registerParams("admin-made@example.com"), domain.RoleModerator)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if account.Role != domain.RoleModerator {
		t.Errorf("expected Moderator, got %s", account.Role)
	}
	// Admin-created accounts skip email verification.
	if !account.Verified() {
		t.Error("expected account pre-verified")
	}
	if len(mailer.Sent) != 0 {
		t.Errorf("expected no email for admin creation, got %d", len(mailer.Sent))
	}

	if _, err := svc.Create(ctx, registerParams("admin-made@example.com"), domain.RoleUser); !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAccountServiceImpl_Update(t *testing.T) {
	store := newAccountStore()
	svc := newAccountService(store, mocks.NewMockMailer())
	ctx := context.Background()

	created, err := svc.Create(ctx, registerParams("update-me@example.com"), domain.RoleUser)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, registerParams("taken@example.com"), domain.RoleUser); err != nil {
		t.Fatalf("create: %v", err)
	}

	firstName := "Anna"
	role := domain.RoleModerator
	status := domain.AccountInactive
	password := "rotated"
	updated, err := svc.Update(ctx, created.ID, domain.UpdateAccountParams{
		FirstName: &firstName,
		Role:      &role,
		Status:    &status,
		Password:  &password,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.FirstName != "Anna" || updated.Role != domain.RoleModerator || updated.Status != domain.AccountInactive {
		t.Errorf("unexpected updated account: %+v", updated)
	}
	if updated.PasswordHash != "hashed_rotated" {
		t.Errorf("expected rehashed password, got %q", updated.PasswordHash)
	}
	// Untouched fields survive.
	if updated.LastName != "Kowalski" {
		t.Errorf("expected last name preserved, got %q", updated.LastName)
	}

	taken := "taken@example.com"
	if _, err := svc.Update(ctx, created.ID, domain.UpdateAccountParams{Email: &taken}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken on collision, got %v", err)
	}

	if _, err := svc.Update(ctx, 999, domain.UpdateAccountParams{}); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}
