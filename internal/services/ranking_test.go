package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/models"
	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/repositories"
)

func newRankingService(db *gorm.DB) RankingService {
	return NewRankingService(
		repositories.NewEvaluationRepository(db),
		repositories.NewCandidateRepository(db),
		repositories.NewJuryMemberRepository(db),
		repositories.NewAssignmentRepository(db),
	)
}

func insertEvaluation(t *testing.T, db *gorm.DB, juryMemberID, candidateID uuid.UUID, total float64, status models.EvaluationStatus) {
	t.Helper()

	eval := &models.Evaluation{
		ID:           uuid.New(),
		JuryMemberID: juryMemberID,
		CandidateID:  candidateID,
		Round:        1,
		// The per-criterion breakdown is irrelevant for aggregation; only
		// the total feeds the average.
		Courage:        total,
		Innovation:     total,
		Implementation: total,
		Relevance:      total,
		Visibility:     total,
		TotalScore:     total,
		Status:         status,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	require.NoError(t, repositories.NewEvaluationRepository(db).Create(eval))
}

func TestRankings(t *testing.T) {
	t.Run("average over submitted evaluations only", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newRankingService(db)

		candidate := createCandidate(t, db, "Urban Mobility Labs")
		jurors := []*models.JuryMember{
			createJuryMember(t, db, "A"),
			createJuryMember(t, db, "B"),
			createJuryMember(t, db, "C"),
			createJuryMember(t, db, "D"),
		}

		insertEvaluation(t, db, jurors[0].ID, candidate.ID, 80, models.EvaluationSubmitted)
		insertEvaluation(t, db, jurors[1].ID, candidate.ID, 90, models.EvaluationSubmitted)
		insertEvaluation(t, db, jurors[2].ID, candidate.ID, 70, models.EvaluationFinal)
		// A draft must not move the average.
		insertEvaluation(t, db, jurors[3].ID, candidate.ID, 0, models.EvaluationDraft)

		entries, err := svc.Rankings(0)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, 80.0, entries[0].AverageScore)
		assert.Equal(t, int64(3), entries[0].EvaluationCount)
		assert.Equal(t, "Urban Mobility Labs", entries[0].Name)
	})

	t.Run("candidates without submitted evaluations are omitted", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newRankingService(db)

		scored := createCandidate(t, db, "Scored")
		unscored := createCandidate(t, db, "Unscored")
		drafted := createCandidate(t, db, "Drafted")
		juror := createJuryMember(t, db, "A")

		insertEvaluation(t, db, juror.ID, scored.ID, 0, models.EvaluationSubmitted)
		insertEvaluation(t, db, juror.ID, drafted.ID, 55, models.EvaluationDraft)

		entries, err := svc.Rankings(0)
		require.NoError(t, err)
		require.Len(t, entries, 1)

		// A genuine zero score still ranks; absence of data does not.
		assert.Equal(t, scored.ID, entries[0].CandidateID)
		assert.Equal(t, 0.0, entries[0].AverageScore)
		for _, e := range entries {
			assert.NotEqual(t, unscored.ID, e.CandidateID)
			assert.NotEqual(t, drafted.ID, e.CandidateID)
		}
	})

	t.Run("ties break by candidate id for a deterministic top-N", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newRankingService(db)

		juror := createJuryMember(t, db, "A")
		for i := 0; i < 3; i++ {
			c := createCandidate(t, db, "Tied")
			insertEvaluation(t, db, juror.ID, c.ID, 75, models.EvaluationSubmitted)
		}

		first, err := svc.Rankings(2)
		require.NoError(t, err)
		second, err := svc.Rankings(2)
		require.NoError(t, err)

		require.Len(t, first, 2)
		assert.Equal(t, first, second, "top-N must be stable for equal inputs")
		assert.True(t, first[0].CandidateID.String() < first[1].CandidateID.String())
	})

	t.Run("descending order with ranks", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newRankingService(db)

		juror := createJuryMember(t, db, "A")
		low := createCandidate(t, db, "Low")
		high := createCandidate(t, db, "High")

		insertEvaluation(t, db, juror.ID, low.ID, 40, models.EvaluationSubmitted)
		insertEvaluation(t, db, juror.ID, high.ID, 90, models.EvaluationSubmitted)

		entries, err := svc.Rankings(0)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, high.ID, entries[0].CandidateID)
		assert.Equal(t, 1, entries[0].Rank)
		assert.Equal(t, low.ID, entries[1].CandidateID)
		assert.Equal(t, 2, entries[1].Rank)
	})
}

func TestProgress(t *testing.T) {
	db := setupTestDB(t)
	svc := newRankingService(db)

	member := createJuryMember(t, db, "Nina")
	candidates := make([]*models.Candidate, 4)
	for i := range candidates {
		candidates[i] = createCandidate(t, db, "Candidate")
		createAssignment(t, db, member.ID, candidates[i].ID, 1)
	}

	insertEvaluation(t, db, member.ID, candidates[0].ID, 80, models.EvaluationSubmitted)
	insertEvaluation(t, db, member.ID, candidates[1].ID, 70, models.EvaluationFinal)
	insertEvaluation(t, db, member.ID, candidates[2].ID, 60, models.EvaluationDraft)

	progress, err := svc.Progress()
	require.NoError(t, err)
	require.Len(t, progress, 1)

	p := progress[0]
	assert.Equal(t, int64(4), p.TotalAssignments)
	assert.Equal(t, int64(2), p.Completed)
	assert.Equal(t, int64(1), p.Drafts)
	assert.Equal(t, int64(1), p.Pending)
	assert.Equal(t, 50, p.CompletionRate)
}

func TestProgressCompletionRateRounds(t *testing.T) {
	db := setupTestDB(t)
	svc := newRankingService(db)

	member := createJuryMember(t, db, "Nina")
	for i := 0; i < 3; i++ {
		c := createCandidate(t, db, "Candidate")
		createAssignment(t, db, member.ID, c.ID, 1)
		if i < 2 {
			insertEvaluation(t, db, member.ID, c.ID, 70, models.EvaluationSubmitted)
		}
	}

	progress, err := svc.Progress()
	require.NoError(t, err)
	require.Len(t, progress, 1)

	// 2 of 3 rounds to 67, not down to 66.
	assert.Equal(t, 67, progress[0].CompletionRate)
}
