package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/you/hrflowsvc/domain"
	"github.com/you/hrflowsvc/internal/http/middleware"
)

// RequestHandlers handles the request workflow HTTP surface.
type RequestHandlers struct {
	workflowSvc domain.WorkflowService
}

// NewRequestHandlers creates new request handlers
func NewRequestHandlers(workflowSvc domain.WorkflowService) *RequestHandlers {
	return &RequestHandlers{workflowSvc: workflowSvc}
}

// CreateRequestRequest represents a request creation payload
type CreateRequestRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Type        string     `json:"type" binding:"required"`
	Priority    string     `json:"priority"`
	AssigneeID  *uint      `json:"assignee_id"`
	DueDate     *time.Time `json:"due_date"`
}

// ChangeStatusRequest represents a workflow status change payload
type ChangeStatusRequest struct {
	Status   string `json:"status" binding:"required"`
	Comments string `json:"comments"`
}

// Create submits a new request on behalf of the authenticated account
func (h *RequestHandlers) Create(c *gin.Context) {
	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	request, err := h.workflowSvc.Create(c.Request.Context(), &domain.Request{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Priority:    req.Priority,
		RequesterID: identity.AccountID,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create request"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": requestJSON(request)})
}

// List returns requests visible to the caller: everything for Admins and
// Moderators, own and assigned requests for everyone else.
func (h *RequestHandlers) List(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	filter := domain.RequestFilter{}
	if !identity.Elevated() {
		filter.AccountID = identity.AccountID
	}

	requests, err := h.workflowSvc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list requests"})
		return
	}

	out := make([]gin.H, 0, len(requests))
	for _, request := range requests {
		out = append(out, requestJSON(request))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// GetByID returns one request with its full stage history
func (h *RequestHandlers) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	identity, _ := middleware.IdentityFrom(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	request, err := h.workflowSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrRequestNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get request"})
		return
	}

	if !identity.Elevated() && !involvedIn(identity.AccountID, request) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access Denied"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": requestJSON(request)})
}

// ChangeStatus advances the request workflow. Users may only cancel their
// own requests; any other transition needs the assignee or an elevated role.
func (h *RequestHandlers) ChangeStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := domain.RequestStatus(req.Status)
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	identity, _ := middleware.IdentityFrom(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	request, err := h.workflowSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrRequestNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get request"})
		return
	}

	if !canTransition(identity, request, status) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access Denied"})
		return
	}

	change, err := h.workflowSvc.ChangeStatus(c.Request.Context(), id, status, identity.AccountID, req.Comments)
	if err != nil {
		if errors.Is(err, domain.ErrRequestNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"changed": change.Changed,
			"request": requestJSON(change.Request),
		},
	})
}

func canTransition(identity *domain.Identity, request *domain.Request, status domain.RequestStatus) bool {
	if identity.Elevated() {
		return true
	}
	if request.AssigneeID != nil && *request.AssigneeID == identity.AccountID {
		return true
	}
	// A requester may cancel their own request, nothing else.
	return request.RequesterID == identity.AccountID && status == domain.StatusCancelled
}

func involvedIn(accountID uint, request *domain.Request) bool {
	if request.RequesterID == accountID {
		return true
	}
	return request.AssigneeID != nil && *request.AssigneeID == accountID
}

func requestJSON(request *domain.Request) gin.H {
	stages := make([]gin.H, 0, len(request.Stages))
	for _, stage := range request.Stages {
		stages = append(stages, gin.H{
			"id":           stage.ID,
			"name":         stage.Name,
			"status":       stage.Status,
			"handler_id":   stage.HandlerID,
			"comments":     stage.Comments,
			"created_at":   stage.CreatedAt,
			"completed_at": stage.CompletedAt,
		})
	}
	return gin.H{
		"id":           request.ID,
		"title":        request.Title,
		"description":  request.Description,
		"type":         request.Type,
		"priority":     request.Priority,
		"status":       request.Status,
		"requester_id": request.RequesterID,
		"assignee_id":  request.AssigneeID,
		"due_date":     request.DueDate,
		"created_at":   request.CreatedAt,
		"updated_at":   request.UpdatedAt,
		"stages":       stages,
	}
}
