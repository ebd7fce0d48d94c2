package models

import (
	"time"

	"github.com/google/uuid"
)

type AssignmentStatus string

const (
	AssignmentPending    AssignmentStatus = "pending"
	AssignmentInProgress AssignmentStatus = "in_progress"
	AssignmentCompleted  AssignmentStatus = "completed"
)

// Assignment pairs a jury member with a candidate for one round. The
// composite unique index is the storage-level defence against double
// assignment when two distribution requests race.
type Assignment struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	JuryMemberID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_assignments_pair_round,priority:1" json:"jury_member_id"`
	CandidateID  uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_assignments_pair_round,priority:2" json:"candidate_id"`
	Round        int              `gorm:"not null;uniqueIndex:idx_assignments_pair_round,priority:3" json:"round"`
	Status       AssignmentStatus `gorm:"not null;default:'pending'" json:"status"`
	AssignedAt   time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"assigned_at"`

	// Relations
	JuryMember JuryMember `gorm:"foreignKey:JuryMemberID" json:"-"`
	Candidate  Candidate  `gorm:"foreignKey:CandidateID" json:"-"`
}

func (Assignment) TableName() string {
	return "assignments"
}
