package domain

import (
	"context"
	"time"
)

// AccountRepository defines account data access operations
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id uint) (*Account, error)
	FindByVerificationToken(ctx context.Context, token string) (*Account, error)
	FindByResetToken(ctx context.Context, token string) (*Account, error)
	List(ctx context.Context) ([]*Account, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, account *Account) error
	Delete(ctx context.Context, id uint) error
}

// RefreshTokenRepository defines refresh token data access operations.
// Rotate is the per-account serialization point: its revoke of the presented
// token is a compare-and-set guarded on the token still being active, so of
// two racing rotations exactly one commits.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *RefreshToken) error
	FindByToken(ctx context.Context, token string) (*RefreshToken, error)
	FindByAccount(ctx context.Context, accountID uint) ([]*RefreshToken, error)
	Revoke(ctx context.Context, token, byIP string) error
	RevokeAllForAccount(ctx context.Context, accountID uint, byIP string) error
	Rotate(ctx context.Context, oldToken string, replacement *RefreshToken, byIP string) error
}

// RequestFilter scopes request listing. AccountID zero means no scoping;
// otherwise only requests authored by or assigned to the account match.
type RequestFilter struct {
	AccountID uint
}

// StageTransition is one workflow step applied atomically: the request's
// status update, completion of the current Pending stage, and insertion of
// the next Pending stage share a single transaction.
type StageTransition struct {
	RequestID       uint
	NewStatus       RequestStatus
	CompleteStageID uint // zero when the request has no Pending stage
	HandlerID       uint
	Comments        string
	CompletedAt     time.Time
	NextStage       *WorkflowStage // nil for terminal statuses
}

// RequestRepository defines request and workflow stage data access.
type RequestRepository interface {
	Create(ctx context.Context, request *Request, stages []WorkflowStage) error
	FindByID(ctx context.Context, id uint) (*Request, error)
	List(ctx context.Context, filter RequestFilter) ([]*Request, error)
	ApplyTransition(ctx context.Context, t *StageTransition) error
}

// SessionService orchestrates the authentication session lifecycle:
// authenticate, refresh (token rotation) and revoke.
type SessionService interface {
	Authenticate(ctx context.Context, email, password, ip string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken, ip string) (*AuthResult, error)
	Revoke(ctx context.Context, refreshToken, ip string) error
}

// AccountService covers registration, email verification, password reset
// and the admin account CRUD surface.
type AccountService interface {
	Register(ctx context.Context, params RegisterParams, origin string) error
	VerifyEmail(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, email, origin string) error
	ValidateResetToken(ctx context.Context, token string) error
	ResetPassword(ctx context.Context, token, password string) error
	List(ctx context.Context) ([]*Account, error)
	GetByID(ctx context.Context, id uint) (*Account, error)
	Create(ctx context.Context, params RegisterParams, role Role) (*Account, error)
	Update(ctx context.Context, id uint, params UpdateAccountParams) (*Account, error)
	Delete(ctx context.Context, id uint) error
}

// RegisterParams is the registration/creation input.
type RegisterParams struct {
	Title       string
	FirstName   string
	LastName    string
	Email       string
	Password    string
	AcceptTerms bool
}

// UpdateAccountParams carries optional account updates; nil fields are left
// untouched.
type UpdateAccountParams struct {
	Title     *string
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	Role      *Role
	Status    *AccountStatus
}

// WorkflowService drives a request through the ordered approval stages.
type WorkflowService interface {
	Create(ctx context.Context, request *Request) (*Request, error)
	ChangeStatus(ctx context.Context, requestID uint, newStatus RequestStatus, handlerID uint, comments string) (*StatusChange, error)
	GetByID(ctx context.Context, id uint) (*Request, error)
	List(ctx context.Context, filter RequestFilter) ([]*Request, error)
}

// TokenService defines access token codec operations
type TokenService interface {
	IssueAccessToken(accountID uint, role Role) (string, error)
	VerifyAccessToken(token string) (*AccessClaims, error)
}

// PasswordService defines password hashing operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// Email is an outbound message handed to the Mailer.
type Email struct {
	To      string
	Subject string
	HTML    string
}

// Mailer defines email delivery. Sends are fire-and-forget from the caller's
// perspective: registration flows log failures instead of surfacing them.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// LoginLimiter throttles failed authentication attempts per email and
// source IP.
type LoginLimiter interface {
	Allow(ctx context.Context, email, ip string) error
	RecordFailure(ctx context.Context, email, ip string) error
	Reset(ctx context.Context, email, ip string) error
}

// CasbinEnforcer is the subset of the Casbin enforcer the service uses.
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
