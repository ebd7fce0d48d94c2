package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/repositories"
)

func makeIDs(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids
}

func TestDistribute(t *testing.T) {
	t.Run("three jury members, 25 candidates, quota 10", func(t *testing.T) {
		juryIDs := makeIDs(3)
		candidateIDs := makeIDs(25)

		batches := distribute(juryIDs, candidateIDs, nil, 10, 42)

		total := 0
		seen := make(map[uuid.UUID]bool)
		for _, juryID := range juryIDs {
			assert.LessOrEqual(t, len(batches[juryID]), 10)
			for _, candidateID := range batches[juryID] {
				assert.False(t, seen[candidateID], "candidate handed out twice in one run")
				seen[candidateID] = true
			}
			total += len(batches[juryID])
		}

		// Quota times jury count exceeds the pool, so every candidate is
		// assigned exactly once: 10 + 10 + 5.
		assert.Equal(t, 25, total)
		assert.Len(t, batches[juryIDs[0]], 10)
		assert.Len(t, batches[juryIDs[1]], 10)
		assert.Len(t, batches[juryIDs[2]], 5)
	})

	t.Run("same seed reproduces the same distribution", func(t *testing.T) {
		juryIDs := makeIDs(4)
		candidateIDs := makeIDs(30)

		first := distribute(juryIDs, candidateIDs, nil, 5, 1234)
		second := distribute(juryIDs, candidateIDs, nil, 5, 1234)

		assert.Equal(t, first, second)
	})

	t.Run("different seeds shuffle differently", func(t *testing.T) {
		juryIDs := makeIDs(2)
		candidateIDs := makeIDs(40)

		first := distribute(juryIDs, candidateIDs, nil, 10, 1)
		second := distribute(juryIDs, candidateIDs, nil, 10, 2)

		assert.NotEqual(t, first, second)
	})

	t.Run("existing assignments are skipped and count against quota", func(t *testing.T) {
		juryIDs := makeIDs(1)
		candidateIDs := makeIDs(10)

		existing := map[uuid.UUID]map[uuid.UUID]bool{
			juryIDs[0]: {
				candidateIDs[0]: true,
				candidateIDs[1]: true,
			},
		}

		batches := distribute(juryIDs, candidateIDs, existing, 5, 7)

		require.Len(t, batches[juryIDs[0]], 3)
		for _, candidateID := range batches[juryIDs[0]] {
			assert.NotEqual(t, candidateIDs[0], candidateID)
			assert.NotEqual(t, candidateIDs[1], candidateID)
		}
	})

	t.Run("jury member at quota receives nothing", func(t *testing.T) {
		juryIDs := makeIDs(1)
		candidateIDs := makeIDs(10)

		existing := map[uuid.UUID]map[uuid.UUID]bool{
			juryIDs[0]: {
				candidateIDs[0]: true,
				candidateIDs[1]: true,
				candidateIDs[2]: true,
			},
		}

		batches := distribute(juryIDs, candidateIDs, existing, 3, 7)
		assert.Empty(t, batches[juryIDs[0]])
	})

	t.Run("pool smaller than demand degrades instead of failing", func(t *testing.T) {
		juryIDs := makeIDs(5)
		candidateIDs := makeIDs(3)

		batches := distribute(juryIDs, candidateIDs, nil, 10, 99)

		total := 0
		for _, ids := range batches {
			total += len(ids)
		}
		assert.Equal(t, 3, total)
	})
}

func TestDistributorService(t *testing.T) {
	t.Run("preview persists nothing and commit matches it", func(t *testing.T) {
		db := setupTestDB(t)
		juryRepo := repositories.NewJuryMemberRepository(db)
		candRepo := repositories.NewCandidateRepository(db)
		assignRepo := repositories.NewAssignmentRepository(db)
		notifier := &stubNotifier{}
		svc := NewDistributorService(db, juryRepo, candRepo, assignRepo, notifier, 10)

		for i := 0; i < 3; i++ {
			createJuryMember(t, db, fmt.Sprintf("Juror %d", i))
		}
		for i := 0; i < 25; i++ {
			createCandidate(t, db, fmt.Sprintf("Candidate %d", i))
		}

		seed := int64(42)
		preview, err := svc.Distribute(DistributeInput{Round: 1, Seed: &seed, Preview: true})
		require.NoError(t, err)
		assert.Equal(t, 25, preview.TotalAssigned)

		persisted, err := assignRepo.FindByFilter(nil, nil)
		require.NoError(t, err)
		assert.Empty(t, persisted, "preview must not persist assignments")
		assert.Empty(t, notifier.sentOfType(NotificationAssignmentCreated))

		commit, err := svc.Distribute(DistributeInput{Round: 1, Seed: &seed, Preview: false})
		require.NoError(t, err)
		assert.Equal(t, preview.Allocations, commit.Allocations)

		persisted, err = assignRepo.FindByFilter(nil, nil)
		require.NoError(t, err)
		assert.Len(t, persisted, 25)
		assert.NotEmpty(t, notifier.sentOfType(NotificationAssignmentCreated))
	})

	t.Run("re-running a round never duplicates a pair", func(t *testing.T) {
		db := setupTestDB(t)
		assignRepo := repositories.NewAssignmentRepository(db)
		svc := NewDistributorService(
			db,
			repositories.NewJuryMemberRepository(db),
			repositories.NewCandidateRepository(db),
			assignRepo,
			&stubNotifier{},
			10,
		)

		for i := 0; i < 3; i++ {
			createJuryMember(t, db, fmt.Sprintf("Juror %d", i))
		}
		for i := 0; i < 25; i++ {
			createCandidate(t, db, fmt.Sprintf("Candidate %d", i))
		}

		seed := int64(7)
		_, err := svc.Distribute(DistributeInput{Round: 1, Seed: &seed})
		require.NoError(t, err)

		// Second run tops up remaining capacity but must not repeat a pair.
		_, err = svc.Distribute(DistributeInput{Round: 1, Seed: &seed})
		require.NoError(t, err)

		assignments, err := assignRepo.FindByFilter(nil, nil)
		require.NoError(t, err)

		pairs := make(map[string]bool)
		for _, a := range assignments {
			key := a.JuryMemberID.String() + "/" + a.CandidateID.String()
			assert.False(t, pairs[key], "duplicate assignment pair %s", key)
			pairs[key] = true
		}
	})

	t.Run("no active jury members fails closed", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewDistributorService(
			db,
			repositories.NewJuryMemberRepository(db),
			repositories.NewCandidateRepository(db),
			repositories.NewAssignmentRepository(db),
			&stubNotifier{},
			10,
		)

		createCandidate(t, db, "Lonely Candidate")

		_, err := svc.Distribute(DistributeInput{Round: 1})
		require.Error(t, err)
	})
}
