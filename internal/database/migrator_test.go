package database

import (
	"context"
	"testing"

	"github.com/PhoenixWild29/secureai-deepfake-detection-sub007/internal/models"
)

func TestMigrations_Idempotent(t *testing.T) {
	db := setupTestDB(t)

	// setupTestDB already migrated once; every further run is a no-op.
	if err := db.RunMigrations(); err != nil {
		t.Fatalf("Second migration run failed: %v", err)
	}
	if err := db.RunMigrations(); err != nil {
		t.Fatalf("Third migration run failed: %v", err)
	}

	// The schema is usable after repeated runs: one insert, one point
	// lookup returning exactly one row.
	ctx := context.Background()
	run := models.NewRun("abc123", "")
	if err := NewRunRepo(db).Create(ctx, run); err != nil {
		t.Fatalf("Failed to create run: %v", err)
	}

	repo := NewAnalysisRepo(db)
	row := &models.AnalysisRow{RunID: run.ID, FrameOrdinal: 3, Score: 0.2, Label: "real"}
	if err := repo.Insert(ctx, row); err != nil {
		t.Fatalf("Failed to insert row: %v", err)
	}

	got, err := repo.GetFrame(ctx, run.ID, 3)
	if err != nil {
		t.Fatalf("Point lookup failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected exactly one row after idempotent migrations")
	}
}

func TestMigrations_TrackingTable(t *testing.T) {
	db := setupTestDB(t)

	migrator := NewMigrator(db.Conn(), "sqlite")
	applied, err := migrator.GetAppliedMigrations()
	if err != nil {
		t.Fatalf("Failed to read applied migrations: %v", err)
	}
	if !applied["001"] {
		t.Error("Expected migration 001 to be recorded as applied")
	}

	migrations, err := migrator.LoadMigrations()
	if err != nil {
		t.Fatalf("Failed to load embedded migrations: %v", err)
	}
	if len(migrations) == 0 {
		t.Fatal("Expected at least one embedded migration")
	}
	for i := 1; i < len(migrations); i++ {
		if migrations[i].Version <= migrations[i-1].Version {
			t.Errorf("Migrations not sorted: %s before %s", migrations[i-1].Version, migrations[i].Version)
		}
	}
}

func TestRunRepo_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRunRepo(db)
	ctx := context.Background()

	run := models.NewRun("abc123", "deepfake-effnet-b4")
	if err := repo.Create(ctx, run); err != nil {
		t.Fatalf("Failed to create run: %v", err)
	}

	got, err := repo.GetByID(ctx, run.ID)
	if err != nil {
		t.Fatalf("Failed to get run: %v", err)
	}
	if got == nil {
		t.Fatal("Expected run, got nil")
	}
	if got.Fingerprint != "abc123" || got.Model != "deepfake-effnet-b4" {
		t.Errorf("Run mismatch: %+v", got)
	}

	missing, err := repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	if err != nil {
		t.Errorf("Expected no error for missing run, got %v", err)
	}
	if missing != nil {
		t.Error("Expected nil for missing run")
	}
}
