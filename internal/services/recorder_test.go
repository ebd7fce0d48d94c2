package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/apperr"
	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/config"
	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/models"
	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/repositories"
)

type recorderFixture struct {
	db         *gorm.DB
	svc        RecorderService
	evalRepo   repositories.EvaluationRepository
	assignRepo repositories.AssignmentRepository
	notifier   *stubNotifier
	member     *models.JuryMember
	candidate  *models.Candidate
	assignment *models.Assignment
}

func newRecorderFixture(t *testing.T, scoring config.ScoringConfig) *recorderFixture {
	t.Helper()

	db := setupTestDB(t)
	evalRepo := repositories.NewEvaluationRepository(db)
	assignRepo := repositories.NewAssignmentRepository(db)
	juryRepo := repositories.NewJuryMemberRepository(db)
	candRepo := repositories.NewCandidateRepository(db)
	notifier := &stubNotifier{}

	member := createJuryMember(t, db, "Nina")
	candidate := createCandidate(t, db, "Green Wheels GmbH")
	assignment := createAssignment(t, db, member.ID, candidate.ID, 1)

	return &recorderFixture{
		db:         db,
		svc:        NewRecorderService(db, evalRepo, assignRepo, juryRepo, candRepo, notifier, scoring),
		evalRepo:   evalRepo,
		assignRepo: assignRepo,
		notifier:   notifier,
		member:     member,
		candidate:  candidate,
		assignment: assignment,
	}
}

func defaultScoring() config.ScoringConfig {
	return config.ScoringConfig{MinScore: 0, MaxScore: 100, AllowEditSubmitted: false}
}

func validInput(f *recorderFixture, status models.EvaluationStatus) SubmitInput {
	return SubmitInput{
		JuryMemberID:   f.member.ID,
		CandidateID:    f.candidate.ID,
		Courage:        80,
		Innovation:     75,
		Implementation: 85,
		Relevance:      90,
		Visibility:     70,
		Comments:       "strong execution record",
		Status:         status,
	}
}

func TestRecorderSubmit(t *testing.T) {
	t.Run("valid submission completes the assignment", func(t *testing.T) {
		f := newRecorderFixture(t, defaultScoring())

		eval, err := f.svc.Submit(validInput(f, models.EvaluationSubmitted))
		require.NoError(t, err)

		// Mean of 80, 75, 85, 90, 70.
		assert.Equal(t, 80.0, eval.TotalScore)
		assert.Equal(t, models.EvaluationSubmitted, eval.Status)

		stored, err := f.assignRepo.FindByPair(f.member.ID, f.candidate.ID)
		require.NoError(t, err)
		assert.Equal(t, models.AssignmentCompleted, stored.Status)

		assert.Len(t, f.notifier.sentOfType(NotificationEvaluationSubmitted), 1)
	})

	t.Run("out-of-range score names the criterion", func(t *testing.T) {
		f := newRecorderFixture(t, defaultScoring())

		input := validInput(f, models.EvaluationSubmitted)
		input.Innovation = 101

		_, err := f.svc.Submit(input)
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		assert.Contains(t, err.Error(), "innovation")

		input = validInput(f, models.EvaluationSubmitted)
		input.Courage = -1

		_, err = f.svc.Submit(input)
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		assert.Contains(t, err.Error(), "courage")
	})

	t.Run("no assignment is a precondition failure", func(t *testing.T) {
		f := newRecorderFixture(t, defaultScoring())
		stranger := createCandidate(t, f.db, "Unassigned Candidate")

		input := validInput(f, models.EvaluationSubmitted)
		input.CandidateID = stranger.ID

		_, err := f.svc.Submit(input)
		require.Error(t, err)
		assert.Equal(t, apperr.KindPrecondition, apperr.KindOf(err))
		assert.Contains(t, err.Error(), "not assigned")
	})

	t.Run("locked evaluation rejects a second submission", func(t *testing.T) {
		f := newRecorderFixture(t, defaultScoring())

		first, err := f.svc.Submit(validInput(f, models.EvaluationSubmitted))
		require.NoError(t, err)

		retry := validInput(f, models.EvaluationSubmitted)
		retry.Courage = 10

		_, err = f.svc.Submit(retry)
		require.Error(t, err)
		assert.Equal(t, apperr.KindPrecondition, apperr.KindOf(err))

		// Original scores are untouched.
		stored, err := f.evalRepo.FindByPair(f.member.ID, f.candidate.ID)
		require.NoError(t, err)
		assert.Equal(t, first.Courage, stored.Courage)
		assert.Equal(t, first.TotalScore, stored.TotalScore)
	})

	t.Run("policy flag allows editing a submitted evaluation", func(t *testing.T) {
		scoring := defaultScoring()
		scoring.AllowEditSubmitted = true
		f := newRecorderFixture(t, scoring)

		_, err := f.svc.Submit(validInput(f, models.EvaluationSubmitted))
		require.NoError(t, err)

		revised := validInput(f, models.EvaluationSubmitted)
		revised.Visibility = 95

		eval, err := f.svc.Submit(revised)
		require.NoError(t, err)
		assert.Equal(t, 95.0, eval.Visibility)
	})

	t.Run("draft can be revised and then submitted", func(t *testing.T) {
		f := newRecorderFixture(t, defaultScoring())

		draft, err := f.svc.Submit(validInput(f, models.EvaluationDraft))
		require.NoError(t, err)
		assert.Equal(t, models.EvaluationDraft, draft.Status)

		stored, err := f.assignRepo.FindByPair(f.member.ID, f.candidate.ID)
		require.NoError(t, err)
		assert.Equal(t, models.AssignmentInProgress, stored.Status)
		assert.Empty(t, f.notifier.sentOfType(NotificationEvaluationSubmitted))

		final, err := f.svc.Submit(validInput(f, models.EvaluationSubmitted))
		require.NoError(t, err)
		assert.Equal(t, draft.ID, final.ID, "resubmission updates the same row")

		stored, err = f.assignRepo.FindByPair(f.member.ID, f.candidate.ID)
		require.NoError(t, err)
		assert.Equal(t, models.AssignmentCompleted, stored.Status)
	})

	t.Run("pair assigned across rounds acts on the newest round", func(t *testing.T) {
		f := newRecorderFixture(t, defaultScoring())
		createAssignment(t, f.db, f.member.ID, f.candidate.ID, 2)

		eval, err := f.svc.Submit(validInput(f, models.EvaluationSubmitted))
		require.NoError(t, err)
		assert.Equal(t, 2, eval.Round)

		round2 := 2
		newer, err := f.assignRepo.FindByFilter(&f.member.ID, &round2)
		require.NoError(t, err)
		require.Len(t, newer, 1)
		assert.Equal(t, models.AssignmentCompleted, newer[0].Status)

		round1 := 1
		older, err := f.assignRepo.FindByFilter(&f.member.ID, &round1)
		require.NoError(t, err)
		require.Len(t, older, 1)
		assert.Equal(t, models.AssignmentPending, older[0].Status)
	})

	t.Run("rejects unknown target status", func(t *testing.T) {
		f := newRecorderFixture(t, defaultScoring())

		input := validInput(f, models.EvaluationFinal)
		_, err := f.svc.Submit(input)
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}
