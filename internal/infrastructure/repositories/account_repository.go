package repositories

import (
	"context"
	"time"

	"github.com/you/hrflowsvc/domain"
	"gorm.io/gorm"
)

// AccountRepositoryImpl implements domain.AccountRepository using GORM
type AccountRepositoryImpl struct {
	db *gorm.DB
}

// DBAccount represents the database model for Account (with GORM tags)
type DBAccount struct {
	ID                uint       `gorm:"primaryKey"`
	Email             string     `gorm:"uniqueIndex;size:255"`
	PasswordHash      string     `gorm:"column:password"`
	Title             string     `gorm:"size:32"`
	FirstName         string     `gorm:"size:128"`
	LastName          string     `gorm:"size:128"`
	Role              string     `gorm:"index;size:32"`
	Status            string     `gorm:"index;size:32"`
	AcceptTerms       bool
	VerificationToken string     `gorm:"index;size:128"`
	VerifiedAt        *time.Time
	ResetToken        string     `gorm:"index;size:128"`
	ResetTokenExpires *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         gorm.DeletedAt `gorm:"index"`

	// Owned rows removed together with the account.
	RefreshTokens []DBRefreshToken `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (DBAccount) TableName() string {
	return "accounts"
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) domain.AccountRepository {
	return &AccountRepositoryImpl{db: db}
}

// Create implements domain.AccountRepository
func (r *AccountRepositoryImpl) Create(ctx context.Context, account *domain.Account) error {
	dbAccount := accountToDB(account)
	if err := r.db.WithContext(ctx).Create(dbAccount).Error; err != nil {
		return err
	}
	account.ID = dbAccount.ID
	account.CreatedAt = dbAccount.CreatedAt
	account.UpdatedAt = dbAccount.UpdatedAt
	return nil
}

// FindByEmail implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, "email = ?", email)
}

// FindByID implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Account, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByVerificationToken implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindByVerificationToken(ctx context.Context, token string) (*domain.Account, error) {
	if token == "" {
		return nil, domain.ErrAccountNotFound
	}
	return r.findOne(ctx, "verification_token = ?", token)
}

// FindByResetToken implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindByResetToken(ctx context.Context, token string) (*domain.Account, error) {
	if token == "" {
		return nil, domain.ErrAccountNotFound
	}
	return r.findOne(ctx, "reset_token = ?", token)
}

func (r *AccountRepositoryImpl) findOne(ctx context.Context, query string, args ...interface{}) (*domain.Account, error) {
	var dbAccount DBAccount
	err := r.db.WithContext(ctx).Where(query, args...).First(&dbAccount).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return accountToDomain(&dbAccount), nil
}

// List implements domain.AccountRepository
func (r *AccountRepositoryImpl) List(ctx context.Context) ([]*domain.Account, error) {
	var dbAccounts []DBAccount
	if err := r.db.WithContext(ctx).Order("id").Find(&dbAccounts).Error; err != nil {
		return nil, err
	}
	accounts := make([]*domain.Account, 0, len(dbAccounts))
	for i := range dbAccounts {
		accounts = append(accounts, accountToDomain(&dbAccounts[i]))
	}
	return accounts, nil
}

// Count implements domain.AccountRepository
func (r *AccountRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBAccount{}).Count(&count).Error
	return count, err
}

// Update implements domain.AccountRepository. Zero-valued columns such as a
// cleared verification token must be written too, so the update is explicit
// per column rather than a partial save.
func (r *AccountRepositoryImpl) Update(ctx context.Context, account *domain.Account) error {
	return r.db.WithContext(ctx).Model(&DBAccount{}).Where("id = ?", account.ID).
		Updates(map[string]interface{}{
			"email":               account.Email,
			"password":            account.PasswordHash,
			"title":               account.Title,
			"first_name":          account.FirstName,
			"last_name":           account.LastName,
			"role":                string(account.Role),
			"status":              string(account.Status),
			"accept_terms":        account.AcceptTerms,
			"verification_token":  account.VerificationToken,
			"verified_at":         account.VerifiedAt,
			"reset_token":         account.ResetToken,
			"reset_token_expires": account.ResetTokenExpires,
		}).Error
}

// Delete implements domain.AccountRepository. Refresh tokens are removed in
// the same transaction; the soft-deleted account row would otherwise keep
// them reachable.
func (r *AccountRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", id).Delete(&DBRefreshToken{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&DBAccount{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrAccountNotFound
		}
		return nil
	})
}

// accountToDB converts a domain account to the database model
func accountToDB(account *domain.Account) *DBAccount {
	return &DBAccount{
		ID:                account.ID,
		Email:             account.Email,
		PasswordHash:      account.PasswordHash,
		Title:             account.Title,
		FirstName:         account.FirstName,
		LastName:          account.LastName,
		Role:              string(account.Role),
		Status:            string(account.Status),
		AcceptTerms:       account.AcceptTerms,
		VerificationToken: account.VerificationToken,
		VerifiedAt:        account.VerifiedAt,
		ResetToken:        account.ResetToken,
		ResetTokenExpires: account.ResetTokenExpires,
	}
}

// accountToDomain converts a database account to the domain model
func accountToDomain(dbAccount *DBAccount) *domain.Account {
	return &domain.Account{
		ID:                dbAccount.ID,
		Email:             dbAccount.Email,
		PasswordHash:      dbAccount.PasswordHash,
		Title:             dbAccount.Title,
		FirstName:         dbAccount.FirstName,
		LastName:          dbAccount.LastName,
		Role:              domain.Role(dbAccount.Role),
		Status:            domain.AccountStatus(dbAccount.Status),
		AcceptTerms:       dbAccount.AcceptTerms,
		VerificationToken: dbAccount.VerificationToken,
		VerifiedAt:        dbAccount.VerifiedAt,
		ResetToken:        dbAccount.ResetToken,
		ResetTokenExpires: dbAccount.ResetTokenExpires,
		CreatedAt:         dbAccount.CreatedAt,
		UpdatedAt:         dbAccount.UpdatedAt,
	}
}
