package domain

import "time"

// RequestStatus is the lifecycle status of a request. Status changes only
// happen through the workflow service, never by direct field mutation.
type RequestStatus string

const (
	StatusPending     RequestStatus = "Pending"
	StatusInProgress  RequestStatus = "In Progress"
	StatusUnderReview RequestStatus = "Under Review"
	StatusApproved    RequestStatus = "Approved"
	StatusRejected    RequestStatus = "Rejected"
	StatusCompleted   RequestStatus = "Completed"
	StatusCancelled   RequestStatus = "Cancelled"
)

// Valid reports whether s is one of the known request statuses.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusUnderReview, StatusApproved,
		StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether s ends the workflow: no further stage is created
// once a request reaches a terminal status.
func (s RequestStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// StageName identifies one step of the fixed approval pipeline.
type StageName string

const (
	StageSubmission     StageName = "Submission"
	StageReview         StageName = "Review"
	StageProcessing     StageName = "Processing"
	StageApproval       StageName = "Approval"
	StageImplementation StageName = "Implementation"
	StageVerification   StageName = "Verification"
	StageCompletion     StageName = "Completion"
)

// stageOrder is the linear pipeline every request advances through.
var stageOrder = []StageName{
	StageSubmission,
	StageReview,
	StageProcessing,
	StageApproval,
	StageImplementation,
	StageVerification,
	StageCompletion,
}

// Next returns the stage following n in the pipeline. An unrecognized name
// and the final stage both map to Completion, so an out-of-band stage record
// cannot derail the pipeline.
func (n StageName) Next() StageName {
	for i, name := range stageOrder {
		if name == n && i+1 < len(stageOrder) {
			return stageOrder[i+1]
		}
	}
	return StageCompletion
}

// StageStatus is the status of a single traversed stage.
type StageStatus string

const (
	StagePending   StageStatus = "Pending"
	StageCompleted StageStatus = "Completed"
	StageSkipped   StageStatus = "Skipped"
	StageFailed    StageStatus = "Failed"
)

// Request is a unit of work submitted by an employee.
type Request struct {
	ID          uint
	Title       string
	Description string
	Type        string
	RequesterID uint
	AssigneeID  *uint
	Status      RequestStatus
	Priority    string
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Stages      []WorkflowStage
}

// CurrentStage returns the single Pending stage of the request, or nil when
// none exists (terminal requests, or history interrupted mid-transition).
func (r *Request) CurrentStage() *WorkflowStage {
	for i := range r.Stages {
		if r.Stages[i].Status == StagePending {
			return &r.Stages[i]
		}
	}
	return nil
}

// WorkflowStage is one record of a request's append-only stage history.
type WorkflowStage struct {
	ID          uint
	RequestID   uint
	Name        StageName
	Status      StageStatus
	HandlerID   *uint
	Comments    string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// StatusChange is the outcome of a workflow transition. Changed is false
// when the requested status equals the prior one; no stage history is
// written in that case.
type StatusChange struct {
	Request *Request
	Changed bool
}
