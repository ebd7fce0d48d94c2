package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/models"
)

type CandidateRepository interface {
	Create(candidate *models.Candidate) error
	FindByID(id uuid.UUID) (*models.Candidate, error)
	FindAll() ([]models.Candidate, error)
	// FindEligible returns candidates allowed into a distribution round:
	// non-empty name and category.
	FindEligible() ([]models.Candidate, error)
	FindByIDs(ids []uuid.UUID) ([]models.Candidate, error)
}

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) Create(candidate *models.Candidate) error {
	if err := r.db.Create(candidate).Error; err != nil {
		return fmt.Errorf("failed to create candidate: %w", err)
	}
	return nil
}

func (r *candidateRepository) FindByID(id uuid.UUID) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := r.db.Where("id = ?", id).First(&candidate).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find candidate: %w", err)
	}
	return &candidate, nil
}

func (r *candidateRepository) FindAll() ([]models.Candidate, error) {
	var candidates []models.Candidate
	if err := r.db.Order("name ASC").Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return candidates, nil
}

func (r *candidateRepository) FindEligible() ([]models.Candidate, error) {
	var candidates []models.Candidate
	err := r.db.
		Where("name <> '' AND category <> ''").
		Order("id ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible candidates: %w", err)
	}
	return candidates, nil
}

func (r *candidateRepository) FindByIDs(ids []uuid.UUID) ([]models.Candidate, error) {
	var candidates []models.Candidate
	if len(ids) == 0 {
		return candidates, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to find candidates: %w", err)
	}
	return candidates, nil
}
