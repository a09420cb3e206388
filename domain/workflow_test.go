package domain

import (
	"testing"
	"time"
)

func TestStageName_Next(t *testing.T) {
	tests := []struct {
		name     string
		stage    StageName
		expected StageName
	}{
		{"submission advances to review", StageSubmission, StageReview},
		{"review advances to processing", StageReview, StageProcessing},
		{"processing advances to approval", StageProcessing, StageApproval},
		{"approval advances to implementation", StageApproval, StageImplementation},
		{"implementation advances to verification", StageImplementation, StageVerification},
		{"verification advances to completion", StageVerification, StageCompletion},
		{"completion stays at completion", StageCompletion, StageCompletion},
		{"unrecognized stage defaults to completion", StageName("Escalation"), StageCompletion},
		{"empty stage defaults to completion", StageName(""), StageCompletion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stage.Next(); got != tt.expected {
				t.Errorf("Next() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestRequestStatus_Terminal(t *testing.T) {
	terminal := []RequestStatus{StatusCompleted, StatusRejected, StatusCancelled}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("expected %q to be terminal", s)
		}
	}

	open := []RequestStatus{StatusPending, StatusInProgress, StatusUnderReview, StatusApproved}
	for _, s := range open {
		if s.Terminal() {
			t.Errorf("expected %q to not be terminal", s)
		}
	}
}

func TestRequestStatus_Valid(t *testing.T) {
	if !StatusUnderReview.Valid() {
		t.Error("expected Under Review to be a valid status")
	}
	if RequestStatus("Archived").Valid() {
		t.Error("expected unknown status to be invalid")
	}
}

func TestRequest_CurrentStage(t *testing.T) {
	now := time.Now()

	t.Run("returns the single pending stage", func(t *testing.T) {
		req := &Request{
			Stages: []WorkflowStage{
				{ID: 1, Name: StageSubmission, Status: StageCompleted, CompletedAt: &now},
				{ID: 2, Name: StageReview, Status: StagePending},
			},
		}
		stage := req.CurrentStage()
		if stage == nil {
			t.Fatal("expected a current stage")
		}
		if stage.Name != StageReview {
			t.Errorf("expected Review, got %q", stage.Name)
		}
	})

	t.Run("returns nil when no stage is pending", func(t *testing.T) {
		req := &Request{
			Stages: []WorkflowStage{
				{ID: 1, Name: StageSubmission, Status: StageCompleted, CompletedAt: &now},
				{ID: 2, Name: StageReview, Status: StageCompleted, CompletedAt: &now},
			},
		}
		if stage := req.CurrentStage(); stage != nil {
			t.Errorf("expected nil current stage, got %q", stage.Name)
		}
	})

	t.Run("returns nil for empty history", func(t *testing.T) {
		req := &Request{}
		if stage := req.CurrentStage(); stage != nil {
			t.Errorf("expected nil current stage, got %q", stage.Name)
		}
	})
}
