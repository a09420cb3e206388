package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/you/hrflowsvc/domain"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret-key", "hrflowsvc", 15*time.Minute)

	token, err := svc.IssueAccessToken(42, domain.RoleModerator)
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}

	claims, err := svc.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken failed: %v", err)
	}
	if claims.AccountID != 42 {
		t.Errorf("expected account id 42, got %d", claims.AccountID)
	}
	if claims.Role != domain.RoleModerator {
		t.Errorf("expected role Moderator, got %q", claims.Role)
	}
	if claims.ExpiresAt-claims.IssuedAt != int64((15 * time.Minute).Seconds()) {
		t.Errorf("expected 15 minute validity window, got %d seconds", claims.ExpiresAt-claims.IssuedAt)
	}
}

func TestJWTService_ConsecutiveTokensDiffer(t *testing.T) {
	svc := NewJWTService("test-secret-key", "hrflowsvc", 15*time.Minute)

	first, err := svc.IssueAccessToken(1, domain.RoleUser)
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}
	second, err := svc.IssueAccessToken(1, domain.RoleUser)
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}
	if first == second {
		t.Error("expected consecutive tokens for the same subject to differ")
	}
}

func TestJWTService_VerifyFailuresAreUniform(t *testing.T) {
	svc := NewJWTService("test-secret-key", "hrflowsvc", 15*time.Minute)
	other := NewJWTService("other-secret-key", "hrflowsvc", 15*time.Minute)

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name:  "malformed token",
			token: func(t *testing.T) string { return "not.a.jwt" },
		},
		{
			name:  "empty token",
			token: func(t *testing.T) string { return "" },
		},
		{
			name: "wrong signing key",
			token: func(t *testing.T) string {
				tok, err := other.IssueAccessToken(1, domain.RoleUser)
				if err != nil {
					t.Fatalf("issue: %v", err)
				}
				return tok
			},
		},
		{
			name: "expired token",
			token: func(t *testing.T) string {
				expired := NewJWTService("test-secret-key", "hrflowsvc", -time.Minute)
				tok, err := expired.IssueAccessToken(1, domain.RoleUser)
				if err != nil {
					t.Fatalf("issue: %v", err)
				}
				return tok
			},
		},
		{
			name: "unexpected signing method",
			token: func(t *testing.T) string {
				tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
					"sub": 1, "role": "User",
					"iat": time.Now().Unix(), "exp": time.Now().Add(time.Hour).Unix(),
				})
				signed, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
				if err != nil {
					t.Fatalf("sign: %v", err)
				}
				return signed
			},
		},
		{
			name: "missing role claim",
			token: func(t *testing.T) string {
				tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
					"sub": 1,
					"iat": time.Now().Unix(), "exp": time.Now().Add(time.Hour).Unix(),
				})
				signed, err := tok.SignedString([]byte("test-secret-key"))
				if err != nil {
					t.Fatalf("sign: %v", err)
				}
				return signed
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.VerifyAccessToken(tt.token(t))
			if err != domain.ErrTokenInvalid {
				t.Errorf("expected ErrTokenInvalid, got %v", err)
			}
		})
	}
}
