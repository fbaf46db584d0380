package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/questcoder/questcoder-backend/internal/db"
	"github.com/questcoder/questcoder-backend/internal/logger"
	"github.com/questcoder/questcoder-backend/internal/repos"
)

// Backfills the platform metadata key on old solve entries that predate
// platform tracking, resolving it from the problem's catalog row.
func main() {
	dryRun := flag.Bool("dry-run", false, "report what would change without writing")
	limit := flag.Int("limit", 0, "max entries to process (0 = all)")
	flag.Parse()

	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	theDB := pg.DB()

	activityRepo := repos.NewActivityLogRepo(theDB, log)
	problemRepo := repos.NewProblemRepo(theDB, log)

	ctx := context.Background()
	entries, err := activityRepo.GetMissingPlatform(ctx, nil, *limit)
	if err != nil {
		log.Fatal("Failed to list entries missing platform", "error", err)
	}
	log.Info("Found entries missing platform metadata", "count", len(entries))

	updated, skipped := 0, 0
	for _, entry := range entries {
		if entry.ProblemID == nil {
			skipped++
			continue
		}
		problem, err := problemRepo.GetByID(ctx, nil, *entry.ProblemID)
		if err != nil || problem.Platform == "" {
			log.Warn("Cannot resolve platform for entry", "entry_id", entry.ID, "problem_id", entry.ProblemID, "error", err)
			skipped++
			continue
		}

		meta := map[string]string{}
		if len(entry.Metadata) > 0 {
			if err := json.Unmarshal(entry.Metadata, &meta); err != nil {
				log.Warn("Entry metadata unreadable, rebuilding", "entry_id", entry.ID, "error", err)
				meta = map[string]string{}
			}
		}
		meta["platform"] = problem.Platform
		if meta["difficulty"] == "" && problem.Difficulty != "" {
			meta["difficulty"] = problem.Difficulty
		}
		raw, err := json.Marshal(meta)
		if err != nil {
			log.Warn("Failed to encode metadata", "entry_id", entry.ID, "error", err)
			skipped++
			continue
		}

		if *dryRun {
			log.Info("Would update entry", "entry_id", entry.ID, "platform", problem.Platform)
			updated++
			continue
		}
		if err := activityRepo.SetMetadata(ctx, nil, entry.ID, raw); err != nil {
			log.Warn("Failed to update entry", "entry_id", entry.ID, "error", err)
			skipped++
			continue
		}
		updated++
	}
	log.Info("Backfill complete", "updated", updated, "skipped", skipped, "dry_run", *dryRun)
}
