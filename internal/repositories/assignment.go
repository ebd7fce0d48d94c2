package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/models"
)

type AssignmentRepository interface {
	// WithTx returns a copy of the repository bound to tx so callers can
	// compose multi-repository transactions.
	WithTx(tx *gorm.DB) AssignmentRepository

	CreateBatch(assignments []models.Assignment) error
	FindByPair(juryMemberID, candidateID uuid.UUID) (*models.Assignment, error)
	FindByFilter(juryMemberID *uuid.UUID, round *int) ([]models.Assignment, error)
	// ExistingPairsForRound returns, per jury member, the set of candidates
	// already assigned in the round. Used to keep distribution re-runs
	// duplicate-safe.
	ExistingPairsForRound(round int) (map[uuid.UUID]map[uuid.UUID]bool, error)
	SetStatus(id uuid.UUID, status models.AssignmentStatus) error
	CountByJury() (map[uuid.UUID]int64, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) WithTx(tx *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: tx}
}

func (r *assignmentRepository) CreateBatch(assignments []models.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	if err := r.db.Create(&assignments).Error; err != nil {
		return fmt.Errorf("failed to create assignments: %w", err)
	}
	return nil
}

func (r *assignmentRepository) FindByPair(juryMemberID, candidateID uuid.UUID) (*models.Assignment, error) {
	// The same pair can recur across rounds; the newest round is the one an
	// evaluation acts on.
	var assignment models.Assignment
	err := r.db.
		Where("jury_member_id = ? AND candidate_id = ?", juryMemberID, candidateID).
		Order("round DESC").
		First(&assignment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find assignment: %w", err)
	}
	return &assignment, nil
}

func (r *assignmentRepository) FindByFilter(juryMemberID *uuid.UUID, round *int) ([]models.Assignment, error) {
	query := r.db.Model(&models.Assignment{})
	if juryMemberID != nil {
		query = query.Where("jury_member_id = ?", *juryMemberID)
	}
	if round != nil {
		query = query.Where("round = ?", *round)
	}

	var assignments []models.Assignment
	if err := query.Order("assigned_at ASC").Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

func (r *assignmentRepository) ExistingPairsForRound(round int) (map[uuid.UUID]map[uuid.UUID]bool, error) {
	var assignments []models.Assignment
	err := r.db.
		Select("jury_member_id", "candidate_id").
		Where("round = ?", round).
		Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load existing assignments: %w", err)
	}

	pairs := make(map[uuid.UUID]map[uuid.UUID]bool)
	for _, a := range assignments {
		if pairs[a.JuryMemberID] == nil {
			pairs[a.JuryMemberID] = make(map[uuid.UUID]bool)
		}
		pairs[a.JuryMemberID][a.CandidateID] = true
	}
	return pairs, nil
}

func (r *assignmentRepository) SetStatus(id uuid.UUID, status models.AssignmentStatus) error {
	result := r.db.Model(&models.Assignment{}).
		Where("id = ?", id).
		Update("status", status)

	if result.Error != nil {
		return fmt.Errorf("failed to update assignment status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *assignmentRepository) CountByJury() (map[uuid.UUID]int64, error) {
	type row struct {
		JuryMemberID uuid.UUID
		Total        int64
	}

	var rows []row
	err := r.db.Model(&models.Assignment{}).
		Select("jury_member_id, COUNT(*) AS total").
		Group("jury_member_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count assignments: %w", err)
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, rw := range rows {
		counts[rw.JuryMemberID] = rw.Total
	}
	return counts, nil
}
