package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/models"
)

// AuditRepository owns the append-only tables of the reset subsystem: the
// reset log and the evaluation backup copies.
type AuditRepository interface {
	WithTx(tx *gorm.DB) AuditRepository

	CreateLog(entry *models.ResetLog) error
	ListLogs(limit, offset int) ([]models.ResetLog, error)
	FindLogByBackupID(backupID uuid.UUID) (*models.ResetLog, error)
	// PurgeLogsBefore applies the retention policy and returns the number of
	// log entries removed.
	PurgeLogsBefore(cutoff time.Time) (int64, error)

	CreateBackups(backups []models.EvaluationBackup) error
	FindBackupsByBackupID(backupID uuid.UUID) ([]models.EvaluationBackup, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) WithTx(tx *gorm.DB) AuditRepository {
	return &auditRepository{db: tx}
}

func (r *auditRepository) CreateLog(entry *models.ResetLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create reset log: %w", err)
	}
	return nil
}

func (r *auditRepository) ListLogs(limit, offset int) ([]models.ResetLog, error) {
	if limit <= 0 {
		limit = 50
	}

	var entries []models.ResetLog
	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reset logs: %w", err)
	}
	return entries, nil
}

func (r *auditRepository) FindLogByBackupID(backupID uuid.UUID) (*models.ResetLog, error) {
	var entry models.ResetLog
	err := r.db.
		Where("backup_id = ? AND action = ?", backupID, models.ResetActionReset).
		First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find reset log: %w", err)
	}
	return &entry, nil
}

func (r *auditRepository) PurgeLogsBefore(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", cutoff).Delete(&models.ResetLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge reset logs: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *auditRepository) CreateBackups(backups []models.EvaluationBackup) error {
	if len(backups) == 0 {
		return nil
	}
	if err := r.db.Create(&backups).Error; err != nil {
		return fmt.Errorf("failed to create evaluation backups: %w", err)
	}
	return nil
}

func (r *auditRepository) FindBackupsByBackupID(backupID uuid.UUID) ([]models.EvaluationBackup, error) {
	var backups []models.EvaluationBackup
	err := r.db.
		Where("backup_id = ?", backupID).
		Order("backup_at ASC").
		Find(&backups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find backups: %w", err)
	}
	return backups, nil
}
