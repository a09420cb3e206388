package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/you/hrflowsvc/domain"
	"github.com/you/hrflowsvc/internal/mocks"
)

func requestRouter(identity *domain.Identity, svc *mocks.MockWorkflowService) *gin.Engine {
	r := gin.New()
	h := NewRequestHandlers(svc)
	group := r.Group("/", identityStub(identity))
	group.POST("/requests", h.Create)
	group.GET("/requests", h.List)
	group.GET("/requests/:id", h.GetByID)
	group.PUT("/requests/:id/status", h.ChangeStatus)
	return r
}

func TestRequestHandlers_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := mocks.NewMockWorkflowService()
	var created *domain.Request
	svc.CreateFunc = func(ctx context.Context, request *domain.Request) (*domain.Request, error) {
		request.ID = 7
		request.Status = domain.StatusPending
		created = request
		return request, nil
	}
	identity := &domain.Identity{AccountID: 3, Role: domain.RoleUser}

	w := performJSON(t, requestRouter(identity, svc), http.MethodPost, "/requests",
		CreateRequestRequest{Title: "New laptop", Type: "Equipment", Priority: "High"})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	// The requester always comes from the token, never the payload.
	if created.RequesterID != 3 {
		t.Errorf("expected requester from identity, got %d", created.RequesterID)
	}

	out := decodeJSON(t, w)
	data := out["data"].(map[string]interface{})
	if data["status"] != string(domain.StatusPending) {
		t.Errorf("expected Pending status, got %v", data["status"])
	}
}

func TestRequestHandlers_List_ScopesByRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		identity       *domain.Identity
		expectedFilter domain.RequestFilter
	}{
		{
			name:           "user sees own and assigned only",
			identity:       &domain.Identity{AccountID: 3, Role: domain.RoleUser},
			expectedFilter: domain.RequestFilter{AccountID: 3},
		},
		{
			name:           "moderator sees everything",
			identity:       &domain.Identity{AccountID: 4, Role: domain.RoleModerator},
			expectedFilter: domain.RequestFilter{},
		},
		{
			name:           "admin sees everything",
			identity:       &domain.Identity{AccountID: 5, Role: domain.RoleAdmin},
			expectedFilter: domain.RequestFilter{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockWorkflowService()
			var gotFilter domain.RequestFilter
			svc.ListFunc = func(ctx context.Context, filter domain.RequestFilter) ([]*domain.Request, error) {
				gotFilter = filter
				return nil, nil
			}

			w := performJSON(t, requestRouter(tt.identity, svc), http.MethodGet, "/requests", nil)

			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			if gotFilter != tt.expectedFilter {
				t.Errorf("expected filter %+v, got %+v", tt.expectedFilter, gotFilter)
			}
		})
	}
}

func TestRequestHandlers_GetByID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	assignee := uint(4)
	stored := &domain.Request{
		ID:          7,
		Title:       "Transfer",
		RequesterID: 3,
		AssigneeID:  &assignee,
		Status:      domain.StatusPending,
	}
	svc := mocks.NewMockWorkflowService()
	svc.GetByIDFunc = func(ctx context.Context, id uint) (*domain.Request, error) {
		if id == 7 {
			return stored, nil
		}
		return nil, domain.ErrRequestNotFound
	}

	tests := []struct {
		name           string
		identity       *domain.Identity
		path           string
		expectedStatus int
	}{
		{"requester reads own", &domain.Identity{AccountID: 3, Role: domain.RoleUser}, "/requests/7", http.StatusOK},
		{"assignee reads assigned", &domain.Identity{AccountID: 4, Role: domain.RoleUser}, "/requests/7", http.StatusOK},
		{"stranger denied", &domain.Identity{AccountID: 5, Role: domain.RoleUser}, "/requests/7", http.StatusForbidden},
		{"moderator reads any", &domain.Identity{AccountID: 5, Role: domain.RoleModerator}, "/requests/7", http.StatusOK},
		{"missing request", &domain.Identity{AccountID: 3, Role: domain.RoleUser}, "/requests/999", http.StatusNotFound},
		{"bad id", &domain.Identity{AccountID: 3, Role: domain.RoleUser}, "/requests/abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(t, requestRouter(tt.identity, svc), http.MethodGet, tt.path, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestRequestHandlers_ChangeStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	assignee := uint(4)
	stored := &domain.Request{
		ID:          7,
		RequesterID: 3,
		AssigneeID:  &assignee,
		Status:      domain.StatusPending,
	}

	newSvc := func() *mocks.MockWorkflowService {
		svc := mocks.NewMockWorkflowService()
		svc.GetByIDFunc = func(ctx context.Context, id uint) (*domain.Request, error) {
			if id == 7 {
				return stored, nil
			}
			return nil, domain.ErrRequestNotFound
		}
		svc.ChangeStatusFunc = func(ctx context.Context, requestID uint, newStatus domain.RequestStatus, handlerID uint, comments string) (*domain.StatusChange, error) {
			updated := *stored
			updated.Status = newStatus
			return &domain.StatusChange{Request: &updated, Changed: true}, nil
		}
		return svc
	}

	tests := []struct {
		name           string
		identity       *domain.Identity
		status         domain.RequestStatus
		expectedStatus int
	}{
		{"requester cancels own", &domain.Identity{AccountID: 3, Role: domain.RoleUser}, domain.StatusCancelled, http.StatusOK},
		{"requester cannot approve own", &domain.Identity{AccountID: 3, Role: domain.RoleUser}, domain.StatusApproved, http.StatusForbidden},
		{"assignee advances", &domain.Identity{AccountID: 4, Role: domain.RoleUser}, domain.StatusInProgress, http.StatusOK},
		{"stranger denied", &domain.Identity{AccountID: 9, Role: domain.RoleUser}, domain.StatusCancelled, http.StatusForbidden},
		{"moderator advances any", &domain.Identity{AccountID: 9, Role: domain.RoleModerator}, domain.StatusApproved, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(t, requestRouter(tt.identity, newSvc()), http.MethodPut, "/requests/7/status",
				ChangeStatusRequest{Status: string(tt.status), Comments: "note"})
			if w.Code != tt.expectedStatus {
				t.Errorf("expected %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}

	t.Run("invalid status rejected", func(t *testing.T) {
		identity := &domain.Identity{AccountID: 9, Role: domain.RoleAdmin}
		w := performJSON(t, requestRouter(identity, newSvc()), http.MethodPut, "/requests/7/status",
			ChangeStatusRequest{Status: "Bogus"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("reports changed=false round trip", func(t *testing.T) {
		svc := newSvc()
		svc.ChangeStatusFunc = func(ctx context.Context, requestID uint, newStatus domain.RequestStatus, handlerID uint, comments string) (*domain.StatusChange, error) {
			return &domain.StatusChange{Request: stored, Changed: false}, nil
		}
		identity := &domain.Identity{AccountID: 9, Role: domain.RoleAdmin}

		w := performJSON(t, requestRouter(identity, svc), http.MethodPut, "/requests/7/status",
			ChangeStatusRequest{Status: string(domain.StatusPending)})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		out := decodeJSON(t, w)
		data := out["data"].(map[string]interface{})
		if data["changed"] != false {
			t.Errorf("expected changed=false, got %v", data["changed"])
		}
	})
}
