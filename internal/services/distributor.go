package services

import (
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/apperr"
	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/models"
	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/repositories"
)

// DistributorService spreads eligible candidates across active jury members
// for a round. Preview and commit share one seed-driven pure function, so a
// previewed distribution is exactly what a commit with the same seed writes.
type DistributorService interface {
	Distribute(input DistributeInput) (*models.DistributeResponse, error)
}

type DistributeInput struct {
	Round   int
	Quota   int
	Seed    *int64
	Preview bool
}

type distributorService struct {
	db         *gorm.DB
	juryRepo   repositories.JuryMemberRepository
	candRepo   repositories.CandidateRepository
	assignRepo repositories.AssignmentRepository
	notifier   Notifier
	quota      int
}

func NewDistributorService(
	db *gorm.DB,
	juryRepo repositories.JuryMemberRepository,
	candRepo repositories.CandidateRepository,
	assignRepo repositories.AssignmentRepository,
	notifier Notifier,
	defaultQuota int,
) DistributorService {
	return &distributorService{
		db:         db,
		juryRepo:   juryRepo,
		candRepo:   candRepo,
		assignRepo: assignRepo,
		notifier:   notifier,
		quota:      defaultQuota,
	}
}

func (s *distributorService) Distribute(input DistributeInput) (*models.DistributeResponse, error) {
	if input.Round < 1 {
		return nil, apperr.Validationf("round must be a positive number")
	}

	quota := input.Quota
	if quota <= 0 {
		quota = s.quota
	}

	members, err := s.juryRepo.FindActive()
	if err != nil {
		return nil, apperr.Storage("could not load jury members", err)
	}
	if len(members) == 0 {
		return nil, apperr.Preconditionf("no active jury members to assign candidates to")
	}

	candidates, err := s.candRepo.FindEligible()
	if err != nil {
		return nil, apperr.Storage("could not load candidates", err)
	}
	if len(candidates) == 0 {
		return nil, apperr.Preconditionf("no eligible candidates to distribute")
	}

	existing, err := s.assignRepo.ExistingPairsForRound(input.Round)
	if err != nil {
		return nil, apperr.Storage("could not load existing assignments", err)
	}

	seed := time.Now().UnixNano()
	if input.Seed != nil {
		seed = *input.Seed
	}

	juryIDs := make([]uuid.UUID, len(members))
	for i, m := range members {
		juryIDs[i] = m.ID
	}
	candidateIDs := make([]uuid.UUID, len(candidates))
	for i, c := range candidates {
		candidateIDs[i] = c.ID
	}

	batches := distribute(juryIDs, candidateIDs, existing, quota, seed)

	now := time.Now()
	var newAssignments []models.Assignment
	allocations := make([]models.JuryAllocation, 0, len(members))
	for _, m := range members {
		ids := batches[m.ID]
		for _, candidateID := range ids {
			newAssignments = append(newAssignments, models.Assignment{
				ID:           uuid.New(),
				JuryMemberID: m.ID,
				CandidateID:  candidateID,
				Round:        input.Round,
				Status:       models.AssignmentPending,
				AssignedAt:   now,
			})
		}
		allocations = append(allocations, models.JuryAllocation{
			JuryMemberID:  m.ID,
			DisplayName:   m.DisplayName,
			ExistingCount: len(existing[m.ID]),
			AssignedCount: len(ids),
			CandidateIDs:  ids,
		})
	}

	if !input.Preview {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			return s.assignRepo.WithTx(tx).CreateBatch(newAssignments)
		})
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, apperr.Conflictf("a concurrent distribution already assigned one of these pairs")
			}
			return nil, apperr.Storage("could not persist assignments", err)
		}

		s.notifyAssigned(candidates, members, batches, input.Round)
	}

	return &models.DistributeResponse{
		Round:         input.Round,
		Quota:         quota,
		Seed:          seed,
		Preview:       input.Preview,
		TotalAssigned: len(newAssignments),
		Allocations:   allocations,
	}, nil
}

func (s *distributorService) notifyAssigned(
	candidates []models.Candidate,
	members []models.JuryMember,
	batches map[uuid.UUID][]uuid.UUID,
	round int,
) {
	nameByID := make(map[uuid.UUID]string, len(candidates))
	for _, c := range candidates {
		nameByID[c.ID] = c.Name
	}

	for _, m := range members {
		ids := batches[m.ID]
		if len(ids) == 0 {
			continue
		}
		names := make([]string, 0, len(ids))
		for _, id := range ids {
			names = append(names, nameByID[id])
		}
		s.notifier.Notify(Notification{
			Type:           NotificationAssignmentCreated,
			JuryMemberName: m.DisplayName,
			Email:          m.Email,
			CandidateNames: names,
			Round:          round,
		})
	}
}

// distribute is the pure allocation step. Candidates are shuffled with the
// seeded source, then each jury member in turn pulls from the front of the
// shared remaining pool, skipping candidates already assigned to them in
// this round, until their remaining capacity (quota minus existing
// assignments) is met or the pool runs dry. A candidate is consumed by at
// most one jury member per run; a pool smaller than total demand simply
// yields smaller batches.
func distribute(
	juryIDs []uuid.UUID,
	candidateIDs []uuid.UUID,
	existing map[uuid.UUID]map[uuid.UUID]bool,
	quota int,
	seed int64,
) map[uuid.UUID][]uuid.UUID {
	pool := make([]uuid.UUID, len(candidateIDs))
	copy(pool, candidateIDs)

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	taken := make([]bool, len(pool))
	batches := make(map[uuid.UUID][]uuid.UUID, len(juryIDs))

	for _, juryID := range juryIDs {
		capacity := quota - len(existing[juryID])
		if capacity <= 0 {
			continue
		}

		for i := 0; i < len(pool) && capacity > 0; i++ {
			if taken[i] || existing[juryID][pool[i]] {
				continue
			}
			taken[i] = true
			batches[juryID] = append(batches[juryID], pool[i])
			capacity--
		}
	}

	return batches
}
