package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/apperr"
	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/models"
	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/repositories"
)

// ResetService removes or rolls back evaluation data behind a mandatory
// backup and an append-only audit trail. Backup, delete and log run inside a
// single transaction: a failure at any step leaves the live table untouched.
type ResetService interface {
	Reset(ctx context.Context, input ResetInput) (*models.ResetResponse, error)
	Restore(ctx context.Context, input RestoreInput) (*models.RestoreResponse, error)
	History(limit, offset int) ([]models.ResetLog, error)
	// PurgeExpiredLogs applies the retention policy to the audit trail.
	PurgeExpiredLogs() (int64, error)
}

type ResetInput struct {
	Scope        models.ResetScope
	JuryMemberID *uuid.UUID
	CandidateID  *uuid.UUID
	Round        *int
	Reason       string

	InitiatedBy   uuid.UUID
	InitiatorRole string
	IPAddress     string
	UserAgent     string
}

type RestoreInput struct {
	BackupID uuid.UUID
	Reason   string

	InitiatedBy   uuid.UUID
	InitiatorRole string
	IPAddress     string
	UserAgent     string
}

type resetService struct {
	db            *gorm.DB
	evalRepo      repositories.EvaluationRepository
	auditRepo     repositories.AuditRepository
	guard         ActivityGuard
	retentionDays int
}

func NewResetService(
	db *gorm.DB,
	evalRepo repositories.EvaluationRepository,
	auditRepo repositories.AuditRepository,
	guard ActivityGuard,
	retentionDays int,
) ResetService {
	return &resetService{
		db:            db,
		evalRepo:      evalRepo,
		auditRepo:     auditRepo,
		guard:         guard,
		retentionDays: retentionDays,
	}
}

func (s *resetService) Reset(ctx context.Context, input ResetInput) (*models.ResetResponse, error) {
	scope, err := scopeFilter(input)
	if err != nil {
		return nil, err
	}
	if input.Reason == "" {
		return nil, apperr.Validationf("a reason is required for every reset")
	}

	backupID := uuid.New()
	var affected int64

	err = s.db.Transaction(func(tx *gorm.DB) error {
		evalRepo := s.evalRepo.WithTx(tx)
		auditRepo := s.auditRepo.WithTx(tx)

		evals, err := evalRepo.FindByScope(scope)
		if err != nil {
			return err
		}

		// Backup strictly before delete. A backup failure aborts the whole
		// operation before any row is touched.
		now := time.Now()
		backups := make([]models.EvaluationBackup, len(evals))
		ids := make([]uuid.UUID, len(evals))
		for i := range evals {
			backups[i] = models.NewEvaluationBackup(&evals[i], backupID, input.Reason, now)
			ids[i] = evals[i].ID
		}
		if err := auditRepo.CreateBackups(backups); err != nil {
			return err
		}

		deleted, err := evalRepo.DeleteByIDs(ids)
		if err != nil {
			return err
		}
		if deleted != int64(len(ids)) {
			return fmt.Errorf("reset row count mismatch: backed up %d rows but deleted %d", len(ids), deleted)
		}
		affected = deleted

		// A zero-row reset still gets its audit entry.
		return auditRepo.CreateLog(&models.ResetLog{
			ID:            uuid.New(),
			Action:        models.ResetActionReset,
			Scope:         input.Scope,
			InitiatedBy:   input.InitiatedBy,
			InitiatorRole: input.InitiatorRole,
			AffectedRows:  affected,
			BackupID:      backupID,
			Reason:        input.Reason,
			IPAddress:     input.IPAddress,
			UserAgent:     input.UserAgent,
			CreatedAt:     now,
		})
	})
	if err != nil {
		if apperr.KindOf(err) != apperr.KindUnknown {
			return nil, err
		}
		return nil, apperr.Storage("reset aborted, no data was changed", err)
	}

	// Observation only: guard failures and flags never undo a completed
	// reset.
	flagged, count, err := s.guard.RecordReset(ctx, input.InitiatedBy)
	if err != nil {
		log.Printf("⚠️  Reset activity guard unavailable: %v\n", err)
	} else if flagged {
		log.Printf("⚠️  Excessive reset activity: initiator %s ran %d resets within the window\n",
			input.InitiatedBy, count)
	}

	return &models.ResetResponse{
		BackupID:     backupID,
		AffectedRows: affected,
		Flagged:      flagged,
	}, nil
}

func (s *resetService) Restore(ctx context.Context, input RestoreInput) (*models.RestoreResponse, error) {
	backups, err := s.auditRepo.FindBackupsByBackupID(input.BackupID)
	if err != nil {
		return nil, apperr.Storage("could not load backup", err)
	}
	if len(backups) == 0 {
		return nil, apperr.NotFoundf("no backup found for id %s", input.BackupID)
	}

	originalLog, err := s.auditRepo.FindLogByBackupID(input.BackupID)
	if err != nil {
		return nil, apperr.Storage("could not load reset log", err)
	}
	scope := models.ScopeFull
	if originalLog != nil {
		scope = originalLog.Scope
	}

	var restored int64
	err = s.db.Transaction(func(tx *gorm.DB) error {
		evalRepo := s.evalRepo.WithTx(tx)
		auditRepo := s.auditRepo.WithTx(tx)

		evals := make([]models.Evaluation, len(backups))
		for i := range backups {
			evals[i] = backups[i].ToEvaluation()
		}

		restored, err = evalRepo.InsertRestored(evals)
		if err != nil {
			return err
		}

		return auditRepo.CreateLog(&models.ResetLog{
			ID:            uuid.New(),
			Action:        models.ResetActionRestore,
			Scope:         scope,
			InitiatedBy:   input.InitiatedBy,
			InitiatorRole: input.InitiatorRole,
			AffectedRows:  restored,
			BackupID:      input.BackupID,
			Reason:        input.Reason,
			IPAddress:     input.IPAddress,
			UserAgent:     input.UserAgent,
			CreatedAt:     time.Now(),
		})
	})
	if err != nil {
		return nil, apperr.Storage("restore aborted, no data was changed", err)
	}

	return &models.RestoreResponse{
		BackupID:     input.BackupID,
		RestoredRows: restored,
	}, nil
}

func (s *resetService) History(limit, offset int) ([]models.ResetLog, error) {
	entries, err := s.auditRepo.ListLogs(limit, offset)
	if err != nil {
		return nil, apperr.Storage("could not load reset history", err)
	}
	return entries, nil
}

func (s *resetService) PurgeExpiredLogs() (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	purged, err := s.auditRepo.PurgeLogsBefore(cutoff)
	if err != nil {
		return 0, apperr.Storage("could not purge reset logs", err)
	}
	return purged, nil
}

// scopeFilter validates that the request carries the identifiers its scope
// needs and translates it into a repository filter.
func scopeFilter(input ResetInput) (repositories.EvaluationScope, error) {
	var scope repositories.EvaluationScope

	switch input.Scope {
	case models.ScopeIndividual:
		if input.JuryMemberID == nil || input.CandidateID == nil {
			return scope, apperr.Validationf("individual reset requires jury_member_id and candidate_id")
		}
		scope.JuryMemberID = input.JuryMemberID
		scope.CandidateID = input.CandidateID
	case models.ScopeBulkUser:
		if input.JuryMemberID == nil {
			return scope, apperr.Validationf("bulk_user reset requires jury_member_id")
		}
		scope.JuryMemberID = input.JuryMemberID
	case models.ScopeBulkCandidate:
		if input.CandidateID == nil {
			return scope, apperr.Validationf("bulk_candidate reset requires candidate_id")
		}
		scope.CandidateID = input.CandidateID
	case models.ScopePhase:
		if input.Round == nil {
			return scope, apperr.Validationf("phase reset requires a round")
		}
		scope.Round = input.Round
	case models.ScopeFull:
		// Matches everything.
	default:
		return scope, apperr.Validationf("unknown reset scope %q", input.Scope)
	}

	return scope, nil
}
