package repositories

import (
	"context"
	"time"

	"github.com/you/hrflowsvc/domain"
	"gorm.io/gorm"
)

// RequestRepositoryImpl implements domain.RequestRepository using GORM
type RequestRepositoryImpl struct {
	db *gorm.DB
}

// DBRequest represents the database model for Request
type DBRequest struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`
	Type        string `gorm:"index;size:64"`
	RequesterID uint   `gorm:"index;not null"`
	AssigneeID  *uint  `gorm:"index"`
	Status      string `gorm:"index;size:32"`
	Priority    string `gorm:"size:32"`
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Stages []DBWorkflowStage `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (DBRequest) TableName() string {
	return "requests"
}

// DBWorkflowStage represents the database model for WorkflowStage
type DBWorkflowStage struct {
	ID          uint   `gorm:"primaryKey"`
	RequestID   uint   `gorm:"index;not null"`
	Name        string `gorm:"size:32;not null"`
	Status      string `gorm:"index;size:32;not null"`
	HandlerID   *uint  `gorm:"index"`
	Comments    string `gorm:"type:text"`
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// TableName returns the table name for GORM
func (DBWorkflowStage) TableName() string {
	return "workflow_stages"
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *gorm.DB) domain.RequestRepository {
	return &RequestRepositoryImpl{db: db}
}

// Create implements domain.RequestRepository. The request row and its
// initial stage history are written in one transaction.
func (r *RequestRepositoryImpl) Create(ctx context.Context, request *domain.Request, stages []domain.WorkflowStage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbRequest := requestToDB(request)
		if err := tx.Create(dbRequest).Error; err != nil {
			return err
		}
		request.ID = dbRequest.ID
		request.CreatedAt = dbRequest.CreatedAt
		request.UpdatedAt = dbRequest.UpdatedAt

		for i := range stages {
			stages[i].RequestID = dbRequest.ID
			dbStage := stageToDB(&stages[i])
			if err := tx.Create(dbStage).Error; err != nil {
				return err
			}
			stages[i].ID = dbStage.ID
			stages[i].CreatedAt = dbStage.CreatedAt
		}
		request.Stages = stages
		return nil
	})
}

// FindByID implements domain.RequestRepository; stage history is loaded in
// creation order.
func (r *RequestRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Request, error) {
	var dbRequest DBRequest
	err := r.db.WithContext(ctx).
		Preload("Stages", func(db *gorm.DB) *gorm.DB { return db.Order("workflow_stages.id") }).
		First(&dbRequest, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return requestToDomain(&dbRequest), nil
}

// List implements domain.RequestRepository. A zero filter account lists all
// requests; otherwise only requests authored by or assigned to the account.
func (r *RequestRepositoryImpl) List(ctx context.Context, filter domain.RequestFilter) ([]*domain.Request, error) {
	query := r.db.WithContext(ctx).
		Preload("Stages", func(db *gorm.DB) *gorm.DB { return db.Order("workflow_stages.id") }).
		Order("requests.id")
	if filter.AccountID != 0 {
		query = query.Where("requester_id = ? OR assignee_id = ?", filter.AccountID, filter.AccountID)
	}

	var dbRequests []DBRequest
	if err := query.Find(&dbRequests).Error; err != nil {
		return nil, err
	}
	requests := make([]*domain.Request, 0, len(dbRequests))
	for i := range dbRequests {
		requests = append(requests, requestToDomain(&dbRequests[i]))
	}
	return requests, nil
}

// ApplyTransition implements domain.RequestRepository. Status update, stage
// completion and next-stage insertion commit or roll back together, so no
// observable state has the status changed without its stage record.
func (r *RequestRepositoryImpl) ApplyTransition(ctx context.Context, t *domain.StageTransition) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&DBRequest{}).Where("id = ?", t.RequestID).
			Update("status", string(t.NewStatus))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrRequestNotFound
		}

		if t.CompleteStageID != 0 {
			err := tx.Model(&DBWorkflowStage{}).Where("id = ?", t.CompleteStageID).
				Updates(map[string]interface{}{
					"status":       string(domain.StageCompleted),
					"handler_id":   t.HandlerID,
					"comments":     t.Comments,
					"completed_at": t.CompletedAt,
				}).Error
			if err != nil {
				return err
			}
		}

		if t.NextStage != nil {
			dbStage := stageToDB(t.NextStage)
			dbStage.RequestID = t.RequestID
			if err := tx.Create(dbStage).Error; err != nil {
				return err
			}
			t.NextStage.ID = dbStage.ID
			t.NextStage.RequestID = dbStage.RequestID
			t.NextStage.CreatedAt = dbStage.CreatedAt
		}
		return nil
	})
}

func requestToDB(request *domain.Request) *DBRequest {
	return &DBRequest{
		ID:          request.ID,
		Title:       request.Title,
		Description: request.Description,
		Type:        request.Type,
		RequesterID: request.RequesterID,
		AssigneeID:  request.AssigneeID,
		Status:      string(request.Status),
		Priority:    request.Priority,
		DueDate:     request.DueDate,
	}
}

func requestToDomain(dbRequest *DBRequest) *domain.Request {
	stages := make([]domain.WorkflowStage, 0, len(dbRequest.Stages))
	for i := range dbRequest.Stages {
		stages = append(stages, *stageToDomain(&dbRequest.Stages[i]))
	}
	return &domain.Request{
		ID:          dbRequest.ID,
		Title:       dbRequest.Title,
		Description: dbRequest.Description,
		Type:        dbRequest.Type,
		RequesterID: dbRequest.RequesterID,
		AssigneeID:  dbRequest.AssigneeID,
		Status:      domain.RequestStatus(dbRequest.Status),
		Priority:    dbRequest.Priority,
		DueDate:     dbRequest.DueDate,
		CreatedAt:   dbRequest.CreatedAt,
		UpdatedAt:   dbRequest.UpdatedAt,
		Stages:      stages,
	}
}

func stageToDB(stage *domain.WorkflowStage) *DBWorkflowStage {
	return &DBWorkflowStage{
		ID:          stage.ID,
		RequestID:   stage.RequestID,
		Name:        string(stage.Name),
		Status:      string(stage.Status),
		HandlerID:   stage.HandlerID,
		Comments:    stage.Comments,
		CompletedAt: stage.CompletedAt,
	}
}

func stageToDomain(dbStage *DBWorkflowStage) *domain.WorkflowStage {
	return &domain.WorkflowStage{
		ID:          dbStage.ID,
		RequestID:   dbStage.RequestID,
		Name:        domain.StageName(dbStage.Name),
		Status:      domain.StageStatus(dbStage.Status),
		HandlerID:   dbStage.HandlerID,
		Comments:    dbStage.Comments,
		CreatedAt:   dbStage.CreatedAt,
		CompletedAt: dbStage.CompletedAt,
	}
}
