package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"stortingspuls/internal/analysis"
	"stortingspuls/internal/config"
	"stortingspuls/internal/db"
	"stortingspuls/internal/export"
	"stortingspuls/internal/snapshot"
	"stortingspuls/internal/storting"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	session := flag.String("session", cfg.SessionID, "parliamentary session id")
	limit := flag.Int("limit", cfg.CaseLimit, "max cases to analyze (<1 means all)")
	workers := flag.Int("workers", cfg.Workers, "concurrent case workers")
	outDir := flag.String("out", cfg.OutputDir, "output directory for CSV tables")
	flag.Parse()

	// SIGINT/SIGTERM cancels the run; in-flight fetches drain and the
	// partial aggregates are still exported.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := storting.NewClient(cfg.BaseURL, cfg.RequestTimeout)
	runner := analysis.NewRunner(client, *workers)

	log.Printf("Analyzing session %s (limit %d, %d workers)", *session, *limit, *workers)
	agg := runner.Run(ctx, *session, *limit)
	tables := analysis.BuildTables(agg)

	writer := export.NewWriter(*outDir)
	if err := writer.WriteAll(tables); err != nil {
		log.Fatalf("Failed to export tables: %v", err)
	}

	log.Println("All data exported:")
	for _, name := range export.TableNames {
		log.Printf("  - %s", export.Filename(name))
	}

	logInsights(analysis.ComputeInsights(tables))

	// Snapshot to Postgres is best-effort: the CSV contract above is the
	// deliverable, a database failure never fails the run.
	if cfg.DatabaseURL != "" {
		saveSnapshot(cfg, *session, *limit, agg, tables)
	}

	log.Printf("Run complete: %d cases, %d voting events, %d ballots, %d rebel votes",
		agg.CasesAnalyzed, agg.EventsAnalyzed, agg.BallotsCounted, len(tables.Rebels))
}

func logInsights(ins *analysis.Insights) {
	if ins.TopRebel != "" {
		log.Printf("Top rebel: %s (%d rebel votes)", ins.TopRebel, ins.TopRebelCount)
	}
	if ins.MostRebelliousParty != "" {
		log.Printf("Most rebellious party: %s (%d rebel votes)", ins.MostRebelliousParty, ins.MostRebelliousPartyCount)
	}
	if ins.StrongestAllianceA != "" {
		log.Printf("Strongest alliance: %s + %s (%.1f%%)", ins.StrongestAllianceA, ins.StrongestAllianceB, ins.StrongestAllianceRate)
		log.Printf("Weakest alliance: %s + %s (%.1f%%)", ins.WeakestAllianceA, ins.WeakestAllianceB, ins.WeakestAllianceRate)
	}
	log.Printf("Average controversy: %.3f", ins.AvgControversy)
	if ins.MostControversialTopic != "" {
		log.Printf("Most controversial topic: %s (%.3f)", ins.MostControversialTopic, ins.TopicAvgScore)
	}
}

func saveSnapshot(cfg *config.Config, session string, limit int, agg *analysis.Aggregates, tables *analysis.Tables) {
	// Snapshot persistence runs after the export step completed; use a
	// fresh context so a cancelled run can still record what it gathered.
	ctx := context.Background()

	database, err := db.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Printf("Warning: failed to connect to database, skipping snapshot: %v", err)
		return
	}
	defer database.Close()

	if err := db.RunMigrations(ctx, database.Pool()); err != nil {
		log.Printf("Warning: failed to run migrations, skipping snapshot: %v", err)
		return
	}

	store := snapshot.NewStore(database.Pool())
	runID, err := store.Save(ctx, snapshot.Run{
		SessionID:      session,
		CaseLimit:      limit,
		CasesAnalyzed:  agg.CasesAnalyzed,
		EventsAnalyzed: agg.EventsAnalyzed,
		BallotsCounted: agg.BallotsCounted,
	}, tables)
	if err != nil {
		log.Printf("Warning: failed to save snapshot: %v", err)
		return
	}

	log.Printf("Snapshot saved (run %d)", runID)
}
