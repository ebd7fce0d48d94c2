package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/models"
)

// EvaluationScope selects the evaluation rows a reset operates on. Nil
// fields are wildcards; an all-nil scope matches everything (full reset).
type EvaluationScope struct {
	JuryMemberID *uuid.UUID
	CandidateID  *uuid.UUID
	Round        *int
}

// CandidateAverage is one aggregation row: mean of total_score over the
// candidate's submitted and final evaluations.
type CandidateAverage struct {
	CandidateID     uuid.UUID
	AverageScore    float64
	EvaluationCount int64
}

// JuryStatusCount is one per-jury progress row, grouped by evaluation status.
type JuryStatusCount struct {
	JuryMemberID uuid.UUID
	Status       models.EvaluationStatus
	Count        int64
}

type EvaluationRepository interface {
	WithTx(tx *gorm.DB) EvaluationRepository

	Create(eval *models.Evaluation) error
	Save(eval *models.Evaluation) error
	// FindByPairForUpdate loads the pair's row under a row lock so a
	// concurrent resubmission cannot interleave with the upsert.
	FindByPairForUpdate(juryMemberID, candidateID uuid.UUID) (*models.Evaluation, error)
	FindByPair(juryMemberID, candidateID uuid.UUID) (*models.Evaluation, error)
	FindByScope(scope EvaluationScope) ([]models.Evaluation, error)
	// DeleteByIDs removes the given rows and returns the exact count deleted.
	DeleteByIDs(ids []uuid.UUID) (int64, error)
	InsertRestored(evals []models.Evaluation) (int64, error)
	CandidateAverages() ([]CandidateAverage, error)
	CountsByJuryAndStatus() ([]JuryStatusCount, error)
}

type evaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

func (r *evaluationRepository) WithTx(tx *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: tx}
}

func (r *evaluationRepository) Create(eval *models.Evaluation) error {
	if err := r.db.Create(eval).Error; err != nil {
		return fmt.Errorf("failed to create evaluation: %w", err)
	}
	return nil
}

func (r *evaluationRepository) Save(eval *models.Evaluation) error {
	eval.UpdatedAt = time.Now()
	if err := r.db.Save(eval).Error; err != nil {
		return fmt.Errorf("failed to save evaluation: %w", err)
	}
	return nil
}

func (r *evaluationRepository) FindByPairForUpdate(juryMemberID, candidateID uuid.UUID) (*models.Evaluation, error) {
	query := r.db
	// SELECT ... FOR UPDATE is a Postgres construct; sqlite serializes
	// writers on its own.
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var eval models.Evaluation
	err := query.
		Where("jury_member_id = ? AND candidate_id = ?", juryMemberID, candidateID).
		First(&eval).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock evaluation: %w", err)
	}
	return &eval, nil
}

func (r *evaluationRepository) FindByPair(juryMemberID, candidateID uuid.UUID) (*models.Evaluation, error) {
	var eval models.Evaluation
	err := r.db.
		Where("jury_member_id = ? AND candidate_id = ?", juryMemberID, candidateID).
		First(&eval).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find evaluation: %w", err)
	}
	return &eval, nil
}

func (r *evaluationRepository) FindByScope(scope EvaluationScope) ([]models.Evaluation, error) {
	var evals []models.Evaluation
	if err := r.scoped(scope).Order("created_at ASC").Find(&evals).Error; err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	return evals, nil
}

func (r *evaluationRepository) DeleteByIDs(ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Where("id IN ?", ids).Delete(&models.Evaluation{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete evaluations: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *evaluationRepository) InsertRestored(evals []models.Evaluation) (int64, error) {
	if len(evals) == 0 {
		return 0, nil
	}
	// Rows re-created by an evaluation that arrived after the reset keep
	// their live state; the backup does not overwrite them.
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&evals)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to restore evaluations: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *evaluationRepository) CandidateAverages() ([]CandidateAverage, error) {
	var rows []CandidateAverage
	err := r.db.Model(&models.Evaluation{}).
		Select("candidate_id, AVG(total_score) AS average_score, COUNT(*) AS evaluation_count").
		Where("status IN ?", []models.EvaluationStatus{models.EvaluationSubmitted, models.EvaluationFinal}).
		Group("candidate_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate evaluations: %w", err)
	}
	return rows, nil
}

func (r *evaluationRepository) CountsByJuryAndStatus() ([]JuryStatusCount, error) {
	var rows []JuryStatusCount
	err := r.db.Model(&models.Evaluation{}).
		Select("jury_member_id, status, COUNT(*) AS count").
		Group("jury_member_id, status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count evaluations: %w", err)
	}
	return rows, nil
}

func (r *evaluationRepository) scoped(scope EvaluationScope) *gorm.DB {
	query := r.db.Model(&models.Evaluation{})
	if scope.JuryMemberID != nil {
		query = query.Where("jury_member_id = ?", *scope.JuryMemberID)
	}
	if scope.CandidateID != nil {
		query = query.Where("candidate_id = ?", *scope.CandidateID)
	}
	if scope.Round != nil {
		query = query.Where("round = ?", *scope.Round)
	}
	return query
}
