package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CandidateRequest struct {
	Name                string         `json:"name" validate:"required"`
	Organization        string         `json:"organization"`
	Position            string         `json:"position"`
	Category            string         `json:"category" validate:"required,oneof=start-up established-company governance-politics research-institution"`
	DescriptionSections datatypes.JSON `json:"description_sections"`
}

type JuryMemberRequest struct {
	UserID      string `json:"user_id" validate:"required,uuid"`
	DisplayName string `json:"display_name" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
}

type DistributeRequest struct {
	Round   int    `json:"round" validate:"required,min=1"`
	Quota   int    `json:"quota" validate:"omitempty,min=1"`
	Seed    *int64 `json:"seed"`
	Preview bool   `json:"preview"`
}

// JuryAllocation reports what one jury member received from a distribution
// run, including the degraded case where the pool ran out before quota.
type JuryAllocation struct {
	JuryMemberID  uuid.UUID   `json:"jury_member_id"`
	DisplayName   string      `json:"display_name"`
	ExistingCount int         `json:"existing_count"`
	AssignedCount int         `json:"assigned_count"`
	CandidateIDs  []uuid.UUID `json:"candidate_ids"`
}

type DistributeResponse struct {
	Round         int              `json:"round"`
	Quota         int              `json:"quota"`
	Seed          int64            `json:"seed"`
	Preview       bool             `json:"preview"`
	TotalAssigned int              `json:"total_assigned"`
	Allocations   []JuryAllocation `json:"allocations"`
}

type EvaluationRequest struct {
	CandidateID    string  `json:"candidate_id" validate:"required,uuid"`
	Courage        float64 `json:"courage"`
	Innovation     float64 `json:"innovation"`
	Implementation float64 `json:"implementation"`
	Relevance      float64 `json:"relevance"`
	Visibility     float64 `json:"visibility"`
	Comments       string  `json:"comments"`
	Status         string  `json:"status" validate:"required,oneof=draft submitted"`
}

type EvaluationResponse struct {
	ID         string  `json:"id"`
	Status     string  `json:"status"`
	TotalScore float64 `json:"total_score"`
}

// RankingEntry is one row of the ranked list. Candidates without submitted
// evaluations never appear here.
type RankingEntry struct {
	Rank            int       `json:"rank"`
	CandidateID     uuid.UUID `json:"candidate_id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	AverageScore    float64   `json:"average_score"`
	EvaluationCount int64     `json:"evaluation_count"`
}

type JuryProgress struct {
	JuryMemberID     uuid.UUID `json:"jury_member_id"`
	DisplayName      string    `json:"display_name"`
	TotalAssignments int64     `json:"total_assignments"`
	Completed        int64     `json:"completed"`
	Drafts           int64     `json:"drafts"`
	Pending          int64     `json:"pending"`
	CompletionRate   int       `json:"completion_rate"`
}

type ResetRequest struct {
	Scope        string `json:"scope" validate:"required,oneof=individual bulk_user bulk_candidate phase full"`
	JuryMemberID string `json:"jury_member_id" validate:"omitempty,uuid"`
	CandidateID  string `json:"candidate_id" validate:"omitempty,uuid"`
	Round        int    `json:"round" validate:"omitempty,min=1"`
	Reason       string `json:"reason" validate:"required"`
}

type ResetResponse struct {
	BackupID     uuid.UUID `json:"backup_id"`
	AffectedRows int64     `json:"affected_rows"`
	Flagged      bool      `json:"flagged"`
}

type RestoreResponse struct {
	BackupID     uuid.UUID `json:"backup_id"`
	RestoredRows int64     `json:"restored_rows"`
}
