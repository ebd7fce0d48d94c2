package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/models"
)

type JuryMemberRepository interface {
	Create(member *models.JuryMember) error
	FindByID(id uuid.UUID) (*models.JuryMember, error)
	FindByUserID(userID uuid.UUID) (*models.JuryMember, error)
	FindAll() ([]models.JuryMember, error)
	FindActive() ([]models.JuryMember, error)
	// Deactivate flips Active off. Jury members are never deleted.
	Deactivate(id uuid.UUID) error
}

type juryMemberRepository struct {
	db *gorm.DB
}

func NewJuryMemberRepository(db *gorm.DB) JuryMemberRepository {
	return &juryMemberRepository{db: db}
}

func (r *juryMemberRepository) Create(member *models.JuryMember) error {
	if err := r.db.Create(member).Error; err != nil {
		return fmt.Errorf("failed to create jury member: %w", err)
	}
	return nil
}

func (r *juryMemberRepository) FindByID(id uuid.UUID) (*models.JuryMember, error) {
	var member models.JuryMember
	if err := r.db.Where("id = ?", id).First(&member).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find jury member: %w", err)
	}
	return &member, nil
}

func (r *juryMemberRepository) FindByUserID(userID uuid.UUID) (*models.JuryMember, error) {
	var member models.JuryMember
	if err := r.db.Where("user_id = ?", userID).First(&member).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find jury member by user: %w", err)
	}
	return &member, nil
}

func (r *juryMemberRepository) FindAll() ([]models.JuryMember, error) {
	var members []models.JuryMember
	if err := r.db.Order("display_name ASC").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("failed to list jury members: %w", err)
	}
	return members, nil
}

func (r *juryMemberRepository) FindActive() ([]models.JuryMember, error) {
	var members []models.JuryMember
	err := r.db.
		Where("active = ?", true).
		Order("id ASC").
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active jury members: %w", err)
	}
	return members, nil
}

func (r *juryMemberRepository) Deactivate(id uuid.UUID) error {
	result := r.db.Model(&models.JuryMember{}).
		Where("id = ?", id).
		Update("active", false)

	if result.Error != nil {
		return fmt.Errorf("failed to deactivate jury member: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
