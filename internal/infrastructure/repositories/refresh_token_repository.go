package repositories

import (
	"context"
	"time"

	"github.com/you/hrflowsvc/domain"
	"gorm.io/gorm"
)

// RefreshTokenRepositoryImpl implements domain.RefreshTokenRepository using GORM
type RefreshTokenRepositoryImpl struct {
	db *gorm.DB
}

// DBRefreshToken represents the database model for RefreshToken
type DBRefreshToken struct {
	ID          uint   `gorm:"primaryKey"`
	AccountID   uint   `gorm:"index;not null"`
	Token       string `gorm:"uniqueIndex;size:160;not null"`
	ExpiresAt   time.Time
	CreatedAt   time.Time
	CreatedByIP string `gorm:"size:64"`
	RevokedAt   *time.Time
	RevokedByIP string `gorm:"size:64"`
}

// TableName returns the table name for GORM
func (DBRefreshToken) TableName() string {
	return "refresh_tokens"
}

// NewRefreshTokenRepository creates a new refresh token repository
func NewRefreshTokenRepository(db *gorm.DB) domain.RefreshTokenRepository {
	return &RefreshTokenRepositoryImpl{db: db}
}

// Create implements domain.RefreshTokenRepository
func (r *RefreshTokenRepositoryImpl) Create(ctx context.Context, token *domain.RefreshToken) error {
	dbToken := tokenToDB(token)
	if err := r.db.WithContext(ctx).Create(dbToken).Error; err != nil {
		return err
	}
	token.ID = dbToken.ID
	token.CreatedAt = dbToken.CreatedAt
	return nil
}

// FindByToken implements domain.RefreshTokenRepository. Revoked and expired
// rows are still returned; activity is the caller's judgement via Active.
func (r *RefreshTokenRepositoryImpl) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	var dbToken DBRefreshToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&dbToken).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrTokenNotFound
		}
		return nil, err
	}
	return tokenToDomain(&dbToken), nil
}

// FindByAccount implements domain.RefreshTokenRepository
func (r *RefreshTokenRepositoryImpl) FindByAccount(ctx context.Context, accountID uint) ([]*domain.RefreshToken, error) {
	var dbTokens []DBRefreshToken
	err := r.db.WithContext(ctx).Where("account_id = ?", accountID).Order("id").Find(&dbTokens).Error
	if err != nil {
		return nil, err
	}
	tokens := make([]*domain.RefreshToken, 0, len(dbTokens))
	for i := range dbTokens {
		tokens = append(tokens, tokenToDomain(&dbTokens[i]))
	}
	return tokens, nil
}

// revokeActive is a compare-and-set: the UPDATE only lands while the row is
// still unrevoked and unexpired, so concurrent consumers race for a single
// winner. Returns the number of rows revoked.
func revokeActive(tx *gorm.DB, now time.Time, byIP string, query string, args ...interface{}) (int64, error) {
	result := tx.Model(&DBRefreshToken{}).
		Where(query, args...).
		Where("revoked_at IS NULL AND expires_at > ?", now).
		Updates(map[string]interface{}{
			"revoked_at":    now,
			"revoked_by_ip": byIP,
		})
	return result.RowsAffected, result.Error
}

// Revoke implements domain.RefreshTokenRepository. Idempotent: revoking an
// already-revoked token affects zero rows and reports no error.
func (r *RefreshTokenRepositoryImpl) Revoke(ctx context.Context, token, byIP string) error {
	_, err := revokeActive(r.db.WithContext(ctx), time.Now(), byIP, "token = ?", token)
	return err
}

// RevokeAllForAccount implements domain.RefreshTokenRepository
func (r *RefreshTokenRepositoryImpl) RevokeAllForAccount(ctx context.Context, accountID uint, byIP string) error {
	_, err := revokeActive(r.db.WithContext(ctx), time.Now(), byIP, "account_id = ?", accountID)
	return err
}

// Rotate implements domain.RefreshTokenRepository. Revoke-then-insert runs
// as one transaction; losing the compare-and-set on the presented token
// means it was consumed concurrently (or expired meanwhile) and the rotation
// fails with ErrTokenInvalid, leaving no replacement behind.
func (r *RefreshTokenRepositoryImpl) Rotate(ctx context.Context, oldToken string, replacement *domain.RefreshToken, byIP string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		revoked, err := revokeActive(tx, time.Now(), byIP, "token = ?", oldToken)
		if err != nil {
			return err
		}
		if revoked == 0 {
			return domain.ErrTokenInvalid
		}

		dbToken := tokenToDB(replacement)
		if err := tx.Create(dbToken).Error; err != nil {
			return err
		}
		replacement.ID = dbToken.ID
		replacement.CreatedAt = dbToken.CreatedAt
		return nil
	})
}

// tokenToDB converts a domain refresh token to the database model
func tokenToDB(token *domain.RefreshToken) *DBRefreshToken {
	return &DBRefreshToken{
		ID:          token.ID,
		AccountID:   token.AccountID,
		Token:       token.Token,
		ExpiresAt:   token.ExpiresAt,
		CreatedByIP: token.CreatedByIP,
		RevokedAt:   token.RevokedAt,
		RevokedByIP: token.RevokedByIP,
	}
}

// tokenToDomain converts a database refresh token to the domain model
func tokenToDomain(dbToken *DBRefreshToken) *domain.RefreshToken {
	return &domain.RefreshToken{
		ID:          dbToken.ID,
		AccountID:   dbToken.AccountID,
		Token:       dbToken.Token,
		ExpiresAt:   dbToken.ExpiresAt,
		CreatedAt:   dbToken.CreatedAt,
		CreatedByIP: dbToken.CreatedByIP,
		RevokedAt:   dbToken.RevokedAt,
		RevokedByIP: dbToken.RevokedByIP,
	}
}
