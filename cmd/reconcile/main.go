// Command reconcile is a one-shot operations tool that replays pending
// approvals for a single operation UUID without starting the HTTP server.
// Grounded on the teacher's cmd/verify-tables one-shot DB tool pattern
// (godotenv load, construct the real client, print a result, exit),
// adapted from table verification to a single approval-reconciliation
// replay (spec §4.H: "Open Question... reconciliation does not issue new
// upstream calls", so a CLI can safely replay it against the stored verdict
// and approval log alone).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oceanic/riskscreen/internal/config"
	"github.com/oceanic/riskscreen/internal/reconciliation"
	"github.com/oceanic/riskscreen/internal/store"
)

func main() {
	uuid := flag.String("uuid", "", "operation UUID to reconcile")
	flag.Parse()

	if *uuid == "" {
		log.Fatal("reconcile: -uuid is required")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("reconcile: no .env file found, relying on process environment")
	}

	cfg := config.Get()
	if cfg.Database.DSN == "" {
		log.Fatal("reconcile: database.dsn is not configured")
	}

	verdictStore, err := store.Open(cfg.Database.DSN, cfg.Database.SanctionsSchema, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		log.Fatalf("reconcile: %v", err)
	}

	reconciler := reconciliation.New(verdictStore)

	verdict, appended, err := reconciler.Reconcile(context.Background(), *uuid)
	if err != nil {
		log.Fatalf("reconcile: %v", err)
	}

	fmt.Printf("operation %s: overall=%s vessel=%s stakeholder=%s revision=%d appended=%v\n",
		verdict.ID, verdict.Overall.OperationalStatus(), verdict.Vessel.Wire(), verdict.Stakeholder.Wire(),
		verdict.Revision, appended)
}
