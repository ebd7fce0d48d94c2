package models

import (
	"time"

	"github.com/google/uuid"
)

type EvaluationStatus string

const (
	EvaluationDraft     EvaluationStatus = "draft"
	EvaluationSubmitted EvaluationStatus = "submitted"
	EvaluationFinal     EvaluationStatus = "final"
)

// Criterion names, in the order they are scored and reported.
const (
	CriterionCourage        = "courage"
	CriterionInnovation     = "innovation"
	CriterionImplementation = "implementation"
	CriterionRelevance      = "relevance"
	CriterionVisibility     = "visibility"
)

// Evaluation is one jury member's scoring of one candidate. At most one row
// exists per (jury_member_id, candidate_id) pair; resubmissions update it.
// TotalScore is the arithmetic mean of the five criteria and is what the
// ranking aggregates.
type Evaluation struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	JuryMemberID   uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_evaluations_pair,priority:1" json:"jury_member_id"`
	CandidateID    uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_evaluations_pair,priority:2" json:"candidate_id"`
	Round          int              `gorm:"not null" json:"round"`
	Courage        float64          `gorm:"not null" json:"courage"`
	Innovation     float64          `gorm:"not null" json:"innovation"`
	Implementation float64          `gorm:"not null" json:"implementation"`
	Relevance      float64          `gorm:"not null" json:"relevance"`
	Visibility     float64          `gorm:"not null" json:"visibility"`
	TotalScore     float64          `gorm:"not null" json:"total_score"`
	Comments       string           `gorm:"type:text" json:"comments"`
	Status         EvaluationStatus `gorm:"not null;default:'draft'" json:"status"`
	CreatedAt      time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}

// CountsTowardRanking reports whether this evaluation participates in
// aggregation. Drafts never do.
func (e *Evaluation) CountsTowardRanking() bool {
	return e.Status == EvaluationSubmitted || e.Status == EvaluationFinal
}

// Locked reports whether further edits require the allow-edit-submitted
// policy flag.
func (e *Evaluation) Locked() bool {
	return e.Status == EvaluationSubmitted || e.Status == EvaluationFinal
}
