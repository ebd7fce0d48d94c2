package services

import (
	"sort"

	"github.com/google/uuid"

	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/apperr"
	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/models"
	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/repositories"
)

// RankingService aggregates submitted evaluations into candidate rankings
// and per-jury progress figures. Draft evaluations never count; candidates
// without submitted evaluations are omitted rather than ranked at zero.
type RankingService interface {
	Rankings(limit int) ([]models.RankingEntry, error)
	Progress() ([]models.JuryProgress, error)
}

type rankingService struct {
	evalRepo   repositories.EvaluationRepository
	candRepo   repositories.CandidateRepository
	juryRepo   repositories.JuryMemberRepository
	assignRepo repositories.AssignmentRepository
}

func NewRankingService(
	evalRepo repositories.EvaluationRepository,
	candRepo repositories.CandidateRepository,
	juryRepo repositories.JuryMemberRepository,
	assignRepo repositories.AssignmentRepository,
) RankingService {
	return &rankingService{
		evalRepo:   evalRepo,
		candRepo:   candRepo,
		juryRepo:   juryRepo,
		assignRepo: assignRepo,
	}
}

func (s *rankingService) Rankings(limit int) ([]models.RankingEntry, error) {
	averages, err := s.evalRepo.CandidateAverages()
	if err != nil {
		return nil, apperr.Storage("could not aggregate scores", err)
	}

	// Descending by average, ties broken by candidate id so equal inputs
	// always produce the same order and the same top-N cut.
	sort.SliceStable(averages, func(i, j int) bool {
		if averages[i].AverageScore != averages[j].AverageScore {
			return averages[i].AverageScore > averages[j].AverageScore
		}
		return averages[i].CandidateID.String() < averages[j].CandidateID.String()
	})

	if limit > 0 && limit < len(averages) {
		averages = averages[:limit]
	}

	ids := make([]uuid.UUID, len(averages))
	for i, a := range averages {
		ids[i] = a.CandidateID
	}
	candidates, err := s.candRepo.FindByIDs(ids)
	if err != nil {
		return nil, apperr.Storage("could not load candidates", err)
	}
	byID := make(map[uuid.UUID]models.Candidate, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}

	entries := make([]models.RankingEntry, 0, len(averages))
	for i, a := range averages {
		c := byID[a.CandidateID]
		entries = append(entries, models.RankingEntry{
			Rank:            i + 1,
			CandidateID:     a.CandidateID,
			Name:            c.Name,
			Category:        c.Category,
			AverageScore:    a.AverageScore,
			EvaluationCount: a.EvaluationCount,
		})
	}
	return entries, nil
}

func (s *rankingService) Progress() ([]models.JuryProgress, error) {
	members, err := s.juryRepo.FindAll()
	if err != nil {
		return nil, apperr.Storage("could not load jury members", err)
	}

	totals, err := s.assignRepo.CountByJury()
	if err != nil {
		return nil, apperr.Storage("could not count assignments", err)
	}

	statusCounts, err := s.evalRepo.CountsByJuryAndStatus()
	if err != nil {
		return nil, apperr.Storage("could not count evaluations", err)
	}

	completed := make(map[uuid.UUID]int64)
	drafts := make(map[uuid.UUID]int64)
	for _, sc := range statusCounts {
		switch sc.Status {
		case models.EvaluationSubmitted, models.EvaluationFinal:
			completed[sc.JuryMemberID] += sc.Count
		case models.EvaluationDraft:
			drafts[sc.JuryMemberID] += sc.Count
		}
	}

	progress := make([]models.JuryProgress, 0, len(members))
	for _, m := range members {
		total := totals[m.ID]
		p := models.JuryProgress{
			JuryMemberID:     m.ID,
			DisplayName:      m.DisplayName,
			TotalAssignments: total,
			Completed:        completed[m.ID],
			Drafts:           drafts[m.ID],
		}
		p.Pending = total - p.Completed - p.Drafts
		if p.Pending < 0 {
			p.Pending = 0
		}
		if total > 0 {
			// Rounded to the nearest percent, not truncated.
			p.CompletionRate = int((p.Completed*100 + total/2) / total)
		}
		progress = append(progress, p)
	}
	return progress, nil
}
