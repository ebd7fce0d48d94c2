package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/apperr"
	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/config"
	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/models"
	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/repositories"
)

// RecorderService validates and persists one jury member's scoring of one
// candidate.
type RecorderService interface {
	Submit(input SubmitInput) (*models.Evaluation, error)
}

type SubmitInput struct {
	JuryMemberID   uuid.UUID
	CandidateID    uuid.UUID
	Courage        float64
	Innovation     float64
	Implementation float64
	Relevance      float64
	Visibility     float64
	Comments       string
	Status         models.EvaluationStatus
}

// criteria returns the five scores with their names, in reporting order, so
// validation failures can name the offending criterion.
func (in SubmitInput) criteria() []struct {
	Name  string
	Value float64
} {
	return []struct {
		Name  string
		Value float64
	}{
		{models.CriterionCourage, in.Courage},
		{models.CriterionInnovation, in.Innovation},
		{models.CriterionImplementation, in.Implementation},
		{models.CriterionRelevance, in.Relevance},
		{models.CriterionVisibility, in.Visibility},
	}
}

type recorderService struct {
	db         *gorm.DB
	evalRepo   repositories.EvaluationRepository
	assignRepo repositories.AssignmentRepository
	juryRepo   repositories.JuryMemberRepository
	candRepo   repositories.CandidateRepository
	notifier   Notifier
	scoring    config.ScoringConfig
}

func NewRecorderService(
	db *gorm.DB,
	evalRepo repositories.EvaluationRepository,
	assignRepo repositories.AssignmentRepository,
	juryRepo repositories.JuryMemberRepository,
	candRepo repositories.CandidateRepository,
	notifier Notifier,
	scoring config.ScoringConfig,
) RecorderService {
	return &recorderService{
		db:         db,
		evalRepo:   evalRepo,
		assignRepo: assignRepo,
		juryRepo:   juryRepo,
		candRepo:   candRepo,
		notifier:   notifier,
		scoring:    scoring,
	}
}

func (s *recorderService) Submit(input SubmitInput) (*models.Evaluation, error) {
	if input.Status != models.EvaluationDraft && input.Status != models.EvaluationSubmitted {
		return nil, apperr.Validationf("status must be draft or submitted")
	}

	for _, c := range input.criteria() {
		if c.Value < s.scoring.MinScore || c.Value > s.scoring.MaxScore {
			return nil, apperr.Validationf(
				"%s score %v is outside the allowed range [%v, %v]",
				c.Name, c.Value, s.scoring.MinScore, s.scoring.MaxScore,
			)
		}
	}

	assignment, err := s.assignRepo.FindByPair(input.JuryMemberID, input.CandidateID)
	if err != nil {
		return nil, apperr.Storage("could not check assignment", err)
	}
	if assignment == nil {
		return nil, apperr.Preconditionf("not assigned: this candidate is not on your list")
	}

	total := (input.Courage + input.Innovation + input.Implementation +
		input.Relevance + input.Visibility) / 5

	var saved *models.Evaluation
	err = s.db.Transaction(func(tx *gorm.DB) error {
		evalRepo := s.evalRepo.WithTx(tx)
		assignRepo := s.assignRepo.WithTx(tx)

		existing, err := evalRepo.FindByPairForUpdate(input.JuryMemberID, input.CandidateID)
		if err != nil {
			return err
		}

		if existing != nil {
			if existing.Locked() && !s.scoring.AllowEditSubmitted {
				return apperr.Preconditionf("evaluation already submitted and locked against edits")
			}
			existing.Round = assignment.Round
			existing.Courage = input.Courage
			existing.Innovation = input.Innovation
			existing.Implementation = input.Implementation
			existing.Relevance = input.Relevance
			existing.Visibility = input.Visibility
			existing.TotalScore = total
			existing.Comments = input.Comments
			existing.Status = input.Status
			if err := evalRepo.Save(existing); err != nil {
				return err
			}
			saved = existing
		} else {
			now := time.Now()
			eval := &models.Evaluation{
				ID:             uuid.New(),
				JuryMemberID:   input.JuryMemberID,
				CandidateID:    input.CandidateID,
				Round:          assignment.Round,
				Courage:        input.Courage,
				Innovation:     input.Innovation,
				Implementation: input.Implementation,
				Relevance:      input.Relevance,
				Visibility:     input.Visibility,
				TotalScore:     total,
				Comments:       input.Comments,
				Status:         input.Status,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := evalRepo.Create(eval); err != nil {
				return err
			}
			saved = eval
		}

		// Submission completes the assignment; a first draft marks it as
		// being worked on.
		switch input.Status {
		case models.EvaluationSubmitted:
			return assignRepo.SetStatus(assignment.ID, models.AssignmentCompleted)
		case models.EvaluationDraft:
			if assignment.Status == models.AssignmentPending {
				return assignRepo.SetStatus(assignment.ID, models.AssignmentInProgress)
			}
		}
		return nil
	})
	if err != nil {
		if apperr.KindOf(err) != apperr.KindUnknown {
			return nil, err
		}
		return nil, apperr.Storage("could not save evaluation", err)
	}

	if input.Status == models.EvaluationSubmitted {
		s.notifySubmitted(input.JuryMemberID, input.CandidateID, saved.Round)
	}

	return saved, nil
}

func (s *recorderService) notifySubmitted(juryMemberID, candidateID uuid.UUID, round int) {
	n := Notification{Type: NotificationEvaluationSubmitted, Round: round}
	if member, err := s.juryRepo.FindByID(juryMemberID); err == nil && member != nil {
		n.JuryMemberName = member.DisplayName
		n.Email = member.Email
	}
	if candidate, err := s.candRepo.FindByID(candidateID); err == nil && candidate != nil {
		n.CandidateNames = []string{candidate.Name}
	}
	s.notifier.Notify(n)
}
