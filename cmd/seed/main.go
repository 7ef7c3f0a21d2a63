// Package main provides a tool to seed the database with test health data.
//
// It creates groups, supervisors, and participants when asked, then fills
// the past weeks with plausible daily metrics so the dashboard and ranking
// views have something to show.
//
// Usage:
//
//	DATA_PATH=~/VitalBoard/data go run ./cmd/seed
//	DATA_PATH=~/VitalBoard/data go run ./cmd/seed --create-users --days 28
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/vitalboard/vitalboard-server/internal/auth"
	"github.com/vitalboard/vitalboard-server/internal/domain"
	"github.com/vitalboard/vitalboard-server/internal/id"
	"github.com/vitalboard/vitalboard-server/internal/store/sqlite"
)

var (
	createUsers = flag.Bool("create-users", false, "Create test groups and participants first")
	days        = flag.Int("days", 28, "How many past days to fill with metrics")
)

// groupNames and participantNames feed --create-users.
var groupNames = []string{"Morning Crew", "Night Owls"}

var participantNames = []string{
	"Alex Rivera",
	"Jordan Chen",
	"Sam Taylor",
	"Casey Morgan",
	"Riley Kim",
	"Drew Park",
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/VitalBoard/data")
	}
	dbPath := filepath.Join(dataPath, "vitalboard.db")

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := sqlite.Open(dbPath, slog.Default())
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	if *createUsers {
		createTestRoster(ctx, s)
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		log.Fatalf("Failed to list users: %v", err)
	}

	var participants []*domain.User
	for _, u := range users {
		if u.Role == domain.RoleParticipant {
			participants = append(participants, u)
		}
	}
	if len(participants) == 0 {
		log.Fatal("No participants found. Run with --create-users first.")
	}

	fmt.Printf("Found %d participants\n", len(participants))

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now()

	for _, p := range participants {
		created := 0
		// Each participant gets their own adherence level, so rankings
		// come out uneven.
		adherence := 0.5 + rng.Float64()*0.5

		for day := *days - 1; day >= 0; day-- {
			if rng.Float64() > adherence {
				continue
			}

			date := now.AddDate(0, 0, -day)
			if err := s.UpsertMetric(ctx, randomMetric(rng, p.ID, date)); err != nil {
				log.Printf("Failed to store metric for %s: %v", p.ID, err)
				continue
			}
			created++
		}

		fmt.Printf("  %s: %d days with data (adherence %.0f%%)\n", p.DisplayName, created, adherence*100)
	}

	fmt.Println("\nSeeding complete!")
}

// randomMetric builds one plausible participant-day record.
func randomMetric(rng *rand.Rand, participantID string, date time.Time) *domain.DailyMetric {
	// Zone percentages taper off toward the high-intensity end.
	z1 := 30 + rng.Float64()*30
	z2 := 15 + rng.Float64()*20
	z3 := 10 + rng.Float64()*15
	z4 := 5 + rng.Float64()*10
	z5 := rng.Float64() * 5
	total := z1 + z2 + z3 + z4 + z5
	scale := 100 / total

	return &domain.DailyMetric{
		ParticipantID: participantID,
		Date:          date,
		RestingHR:     50 + rng.Float64()*25,
		MaxHR:         160 + rng.Float64()*35,
		SleepHours:    5.5 + rng.Float64()*3.5,
		HRVRest:       35 + rng.Float64()*50,
		Zone1Percent:  z1 * scale,
		Zone2Percent:  z2 * scale,
		Zone3Percent:  z3 * scale,
		Zone4Percent:  z4 * scale,
		Zone5Percent:  z5 * scale,
		// Most, but not all, data days come with a filled questionnaire.
		QuestionnaireCompleted: rng.Float64() < 0.75,
	}
}

// createTestRoster creates groups with a supervisor and participants each.
func createTestRoster(ctx context.Context, s *sqlite.Store) {
	fmt.Println("\n=== Creating Test Roster ===")

	passwordHash, err := auth.HashPassword("testpass123")
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		return
	}

	now := time.Now()
	perGroup := (len(participantNames) + len(groupNames) - 1) / len(groupNames)

	for gi, name := range groupNames {
		groupID := id.MustGenerate(id.PrefixGroup)
		if err := s.CreateGroup(ctx, &domain.Group{
			ID:        groupID,
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			log.Printf("  Failed to create group %s: %v", name, err)
			continue
		}
		fmt.Printf("  Created group: %s (%s)\n", name, groupID)

		supervisor := &domain.User{
			ID:           id.MustGenerate(id.PrefixUser),
			Email:        fmt.Sprintf("supervisor%d@example.com", gi+1),
			PasswordHash: passwordHash,
			DisplayName:  fmt.Sprintf("Supervisor %d", gi+1),
			Role:         domain.RoleSupervisor,
			GroupID:      groupID,
			Status:       domain.UserStatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.CreateUser(ctx, supervisor); err != nil {
			log.Printf("  Failed to create supervisor: %v", err)
		}

		for pi := gi * perGroup; pi < (gi+1)*perGroup && pi < len(participantNames); pi++ {
			email := fmt.Sprintf("participant%d@example.com", pi+1)
			if existing, _ := s.GetUserByEmail(ctx, email); existing != nil {
				fmt.Printf("  User %s already exists, skipping\n", email)
				continue
			}

			user := &domain.User{
				ID:           id.MustGenerate(id.PrefixUser),
				Email:        email,
				PasswordHash: passwordHash,
				DisplayName:  participantNames[pi],
				Role:         domain.RoleParticipant,
				GroupID:      groupID,
				Status:       domain.UserStatusActive,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := s.CreateUser(ctx, user); err != nil {
				log.Printf("  Failed to create user %s: %v", participantNames[pi], err)
				continue
			}
			fmt.Printf("  Created participant: %s (%s)\n", participantNames[pi], email)
		}
	}

	fmt.Println("=== Test Roster Created ===")
}
