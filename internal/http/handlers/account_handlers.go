package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/you/hrflowsvc/domain"
	"github.com/you/hrflowsvc/internal/http/middleware"
)

// AccountHandlers handles registration, email verification, password reset
// and the admin account CRUD surface.
type AccountHandlers struct {
	accountSvc domain.AccountService
	appOrigin  string
}

// NewAccountHandlers creates new account handlers
func NewAccountHandlers(accountSvc domain.AccountService, appOrigin string) *AccountHandlers {
	return &AccountHandlers{
		accountSvc: accountSvc,
		appOrigin:  appOrigin,
	}
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Title       string `json:"title"`
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	AcceptTerms bool   `json:"accept_terms" binding:"required"`
}

// VerifyEmailRequest represents an email verification request
type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// ForgotPasswordRequest represents a password reset initiation request
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest represents a password reset completion request
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// CreateAccountRequest represents the admin account creation request
type CreateAccountRequest struct {
	Title     string `json:"title"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Role      string `json:"role" binding:"required"`
}

// UpdateAccountRequest represents the account update request
type UpdateAccountRequest struct {
	Title     *string `json:"title"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	Role      *string `json:"role"`
	Status    *string `json:"status"`
}

// Register handles self registration. The response never reveals whether the
// email was already registered.
func (h *AccountHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.accountSvc.Register(c.Request.Context(), domain.RegisterParams{
		Title:       req.Title,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
		AcceptTerms: req.AcceptTerms,
	}, h.appOrigin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "Registration successful, please check your email for verification instructions"},
	})
}

// VerifyEmail handles email verification
func (h *AccountHandlers) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accountSvc.VerifyEmail(c.Request.Context(), req.Token); err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Verification failed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "Verification successful, you can now login"},
	})
}

// ForgotPassword initiates a password reset. Always reports success.
func (h *AccountHandlers) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accountSvc.ForgotPassword(c.Request.Context(), req.Email, h.appOrigin); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Request failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "Please check your email for password reset instructions"},
	})
}

// ValidateResetToken checks a reset token without consuming it
func (h *AccountHandlers) ValidateResetToken(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accountSvc.ValidateResetToken(c.Request.Context(), req.Token); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "Token is valid"},
	})
}

// ResetPassword completes a password reset
func (h *AccountHandlers) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accountSvc.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Password reset failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "Password reset successful, you can now login"},
	})
}

// List returns all accounts (admin only, enforced by route policy)
func (h *AccountHandlers) List(c *gin.Context) {
	accounts, err := h.accountSvc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list accounts"})
		return
	}

	out := make([]gin.H, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, accountJSON(account))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// GetByID returns one account. Non-admins may only fetch their own.
func (h *AccountHandlers) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	identity, _ := middleware.IdentityFrom(c)
	if identity == nil || (!identity.IsAdmin() && identity.AccountID != id) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access Denied"})
		return
	}

	account, err := h.accountSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": accountJSON(account)})
}

// Create handles admin account creation
func (h *AccountHandlers) Create(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := domain.Role(req.Role)
	if !role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	account, err := h.accountSvc.Create(c.Request.Context(), domain.RegisterParams{
		Title:       req.Title,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
		AcceptTerms: true,
	}, role)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email is already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": accountJSON(account)})
}

// Update handles account updates. Non-admins may only change their own
// profile fields; role and status changes are admin-only.
func (h *AccountHandlers) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity, _ := middleware.IdentityFrom(c)
	if identity == nil || (!identity.IsAdmin() && identity.AccountID != id) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access Denied"})
		return
	}
	if !identity.IsAdmin() && (req.Role != nil || req.Status != nil) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access Denied"})
		return
	}

	params := domain.UpdateAccountParams{
		Title:     req.Title,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		if !role.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
		params.Role = &role
	}
	if req.Status != nil {
		status := domain.AccountStatus(*req.Status)
		params.Status = &status
	}

	account, err := h.accountSvc.Update(c.Request.Context(), id, params)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		case errors.Is(err, domain.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "Email is already registered"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update account"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": accountJSON(account)})
}

// Delete removes an account and its refresh tokens
func (h *AccountHandlers) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	identity, _ := middleware.IdentityFrom(c)
	if identity == nil || (!identity.IsAdmin() && identity.AccountID != id) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access Denied"})
		return
	}

	if err := h.accountSvc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "Account deleted"},
	})
}

func accountJSON(account *domain.Account) gin.H {
	return gin.H{
		"id":         account.ID,
		"title":      account.Title,
		"first_name": account.FirstName,
		"last_name":  account.LastName,
		"email":      account.Email,
		"role":       account.Role,
		"status":     account.Status,
		"verified":   account.Verified(),
		"created_at": account.CreatedAt,
		"updated_at": account.UpdatedAt,
	}
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}
