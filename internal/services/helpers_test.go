package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/models"
	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/repositories"
)

// setupTestDB opens a per-test in-memory sqlite database with the full
// schema migrated.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Candidate{},
		&models.JuryMember{},
		&models.Assignment{},
		&models.Evaluation{},
		&models.EvaluationBackup{},
		&models.ResetLog{},
	))

	return db
}

func createJuryMember(t *testing.T, db *gorm.DB, name string) *models.JuryMember {
	t.Helper()

	member := &models.JuryMember{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		DisplayName: name,
		Email:       strings.ToLower(name) + "@example.com",
		Active:      true,
	}
	require.NoError(t, repositories.NewJuryMemberRepository(db).Create(member))
	return member
}

func createCandidate(t *testing.T, db *gorm.DB, name string) *models.Candidate {
	t.Helper()

	candidate := &models.Candidate{
		ID:       uuid.New(),
		Name:     name,
		Category: models.CategoryStartup,
	}
	require.NoError(t, repositories.NewCandidateRepository(db).Create(candidate))
	return candidate
}

func createAssignment(t *testing.T, db *gorm.DB, juryMemberID, candidateID uuid.UUID, round int) *models.Assignment {
	t.Helper()

	assignment := &models.Assignment{
		ID:           uuid.New(),
		JuryMemberID: juryMemberID,
		CandidateID:  candidateID,
		Round:        round,
		Status:       models.AssignmentPending,
		AssignedAt:   time.Now(),
	}
	require.NoError(t, repositories.NewAssignmentRepository(db).CreateBatch([]models.Assignment{*assignment}))
	return assignment
}

// stubNotifier records notifications instead of dispatching them.
type stubNotifier struct {
	mu   sync.Mutex
	sent []Notification
}

func (s *stubNotifier) Start(context.Context) {}
func (s *stubNotifier) Stop()                 {}

func (s *stubNotifier) Notify(n Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
}

func (s *stubNotifier) sentOfType(kind string) []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Notification
	for _, n := range s.sent {
		if n.Type == kind {
			out = append(out, n)
		}
	}
	return out
}
