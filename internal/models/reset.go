package models

import (
	"time"

	"github.com/google/uuid"
)

type ResetAction string

const (
	ResetActionReset   ResetAction = "reset"
	ResetActionRestore ResetAction = "restore"
)

type ResetScope string

const (
	ScopeIndividual    ResetScope = "individual"
	ScopeBulkUser      ResetScope = "bulk_user"
	ScopeBulkCandidate ResetScope = "bulk_candidate"
	ScopePhase         ResetScope = "phase"
	ScopeFull          ResetScope = "full"
)

// ResetLog is the append-only audit trail of reset and restore operations.
// Rows are never updated; the only deletion path is the retention purge.
type ResetLog struct {
	ID            uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	Action        ResetAction `gorm:"type:text;not null" json:"action"`
	Scope         ResetScope  `gorm:"type:text;not null" json:"scope"`
	InitiatedBy   uuid.UUID   `gorm:"type:uuid;not null;index" json:"initiated_by"`
	InitiatorRole string      `gorm:"type:text" json:"initiator_role"`
	AffectedRows  int64       `gorm:"not null" json:"affected_rows"`
	BackupID      uuid.UUID   `gorm:"type:uuid;index" json:"backup_id"`
	Reason        string      `gorm:"type:text;not null" json:"reason"`
	IPAddress     string      `gorm:"type:text" json:"ip_address"`
	UserAgent     string      `gorm:"type:text" json:"user_agent"`
	CreatedAt     time.Time   `gorm:"default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

func (ResetLog) TableName() string {
	return "reset_logs"
}

// EvaluationBackup is a verbatim point-in-time copy of an evaluation row,
// written inside the reset transaction before the live row is deleted.
// Restore re-inserts the row under its original identity.
type EvaluationBackup struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	BackupID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"backup_id"`
	OriginalID     uuid.UUID        `gorm:"type:uuid;not null" json:"original_id"`
	JuryMemberID   uuid.UUID        `gorm:"type:uuid;not null" json:"jury_member_id"`
	CandidateID    uuid.UUID        `gorm:"type:uuid;not null" json:"candidate_id"`
	Round          int              `gorm:"not null" json:"round"`
	Courage        float64          `gorm:"not null" json:"courage"`
	Innovation     float64          `gorm:"not null" json:"innovation"`
	Implementation float64          `gorm:"not null" json:"implementation"`
	Relevance      float64          `gorm:"not null" json:"relevance"`
	Visibility     float64          `gorm:"not null" json:"visibility"`
	TotalScore     float64          `gorm:"not null" json:"total_score"`
	Comments       string           `gorm:"type:text" json:"comments"`
	Status         EvaluationStatus `gorm:"not null" json:"status"`
	EvaluatedAt    time.Time        `json:"evaluated_at"`
	Reason         string           `gorm:"type:text" json:"reason"`
	BackupAt       time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"backup_at"`
}

func (EvaluationBackup) TableName() string {
	return "evaluation_backups"
}

// NewEvaluationBackup copies ev verbatim under the given backup id.
func NewEvaluationBackup(ev *Evaluation, backupID uuid.UUID, reason string, now time.Time) EvaluationBackup {
	return EvaluationBackup{
		ID:             uuid.New(),
		BackupID:       backupID,
		OriginalID:     ev.ID,
		JuryMemberID:   ev.JuryMemberID,
		CandidateID:    ev.CandidateID,
		Round:          ev.Round,
		Courage:        ev.Courage,
		Innovation:     ev.Innovation,
		Implementation: ev.Implementation,
		Relevance:      ev.Relevance,
		Visibility:     ev.Visibility,
		TotalScore:     ev.TotalScore,
		Comments:       ev.Comments,
		Status:         ev.Status,
		EvaluatedAt:    ev.UpdatedAt,
		Reason:         reason,
		BackupAt:       now,
	}
}

// ToEvaluation rebuilds the original evaluation row from the backup copy.
func (b *EvaluationBackup) ToEvaluation() Evaluation {
	return Evaluation{
		ID:             b.OriginalID,
		JuryMemberID:   b.JuryMemberID,
		CandidateID:    b.CandidateID,
		Round:          b.Round,
		Courage:        b.Courage,
		Innovation:     b.Innovation,
		Implementation: b.Implementation,
		Relevance:      b.Relevance,
		Visibility:     b.Visibility,
		TotalScore:     b.TotalScore,
		Comments:       b.Comments,
		Status:         b.Status,
		UpdatedAt:      b.EvaluatedAt,
	}
}
