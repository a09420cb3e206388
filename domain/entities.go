package domain

import "time"

// Role is the access level assigned to an account.
type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleModerator Role = "Moderator"
	RoleUser      Role = "User"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	}
	return false
}

// AccountStatus gates authentication together with email verification.
type AccountStatus string

const (
	AccountActive   AccountStatus = "Active"
	AccountInactive AccountStatus = "Inactive"
)

// Account represents an identity in the system
type Account struct {
	ID                uint
	Email             string
	PasswordHash      string
	Title             string
	FirstName         string
	LastName          string
	Role              Role
	Status            AccountStatus
	AcceptTerms       bool
	VerificationToken string
	VerifiedAt        *time.Time
	ResetToken        string
	ResetTokenExpires *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Verified reports whether the account completed email verification.
func (a *Account) Verified() bool {
	return a.VerifiedAt != nil
}

// RefreshToken is a persisted single-use opaque token owned by one account.
// Revoked on logout and on rotation, never hard-deleted except when the
// owning account is deleted.
type RefreshToken struct {
	ID          uint
	AccountID   uint
	Token       string
	ExpiresAt   time.Time
	CreatedAt   time.Time
	CreatedByIP string
	RevokedAt   *time.Time
	RevokedByIP string
}

// Expired reports whether the token's validity window has passed.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// Active reports whether the token can still be presented: not revoked and
// not expired.
func (t *RefreshToken) Active(now time.Time) bool {
	return t.RevokedAt == nil && !t.Expired(now)
}

// AuthResult represents a successful authenticate or refresh outcome.
type AuthResult struct {
	Account      *Account
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// AccessClaims are the verified claims of an access token. Verification is
// signature and expiry only; account existence is the caller's concern.
type AccessClaims struct {
	AccountID uint
	Role      Role
	IssuedAt  int64
	ExpiresAt int64
}

// Identity is the resolved caller attached to the request context by the
// auth middleware. OwnsToken checks a value against the account's refresh
// tokens so controllers can restrict revocation to the caller's own tokens.
type Identity struct {
	AccountID uint
	Role      Role
	OwnsToken func(token string) bool
}

// IsAdmin reports whether the identity carries the Admin role.
func (i *Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Elevated reports whether the identity may act on requests it does not own.
func (i *Identity) Elevated() bool {
	return i.Role == RoleAdmin || i.Role == RoleModerator
}
