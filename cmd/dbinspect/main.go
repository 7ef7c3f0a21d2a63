// Package main provides a read-only inspection tool for the VitalBoard
// database: roster layout, user counts, and per-participant data
// coverage for the last four weeks.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/vitalboard/vitalboard-server/internal/domain"
	"github.com/vitalboard/vitalboard-server/internal/store/sqlite"
)

func main() {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/VitalBoard/data")
	}
	dbPath := filepath.Join(dataPath, "vitalboard.db")

	s, err := sqlite.Open(dbPath, slog.New(slog.DiscardHandler))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	fmt.Println("=== Database Inspection ===")
	fmt.Printf("Path: %s\n\n", dbPath)

	users, err := s.ListUsers(ctx)
	if err != nil {
		log.Fatalf("Failed to list users: %v", err)
	}

	byRole := map[domain.Role]int{}
	for _, u := range users {
		byRole[u.Role]++
	}
	fmt.Printf("Users: %d (admins %d, supervisors %d, participants %d)\n\n",
		len(users), byRole[domain.RoleAdmin], byRole[domain.RoleSupervisor], byRole[domain.RoleParticipant])

	groups, err := s.ListGroups(ctx)
	if err != nil {
		log.Fatalf("Failed to list groups: %v", err)
	}

	end := time.Now()
	start := end.AddDate(0, 0, -27)

	for _, g := range groups {
		fmt.Printf("Group %s (%s)\n", g.Name, g.ID)

		participants, err := s.ListParticipants(ctx, g.ID)
		if err != nil {
			log.Printf("  Failed to list participants: %v", err)
			continue
		}

		entries, err := s.DaysWithData(ctx, g.ID, start, end)
		if err != nil {
			log.Printf("  Failed to query data coverage: %v", err)
			continue
		}
		coverage := make(map[string]float64, len(entries))
		for _, e := range entries {
			coverage[e.ParticipantID] = e.MetricValue
		}

		for _, p := range participants {
			fmt.Printf("  %-24s %s  %2.0f/28 days with data\n", p.DisplayName, p.ID, coverage[p.ID])
		}
		fmt.Println()
	}
}
