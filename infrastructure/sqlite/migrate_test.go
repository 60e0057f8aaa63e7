package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/uptrace/bun"
)

func TestApplyEmbeddedMigrations(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "embedded.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := ApplyEmbeddedMigrations(context.Background(), db); err != nil {
		t.Fatalf("apply embedded migrations: %v", err)
	}

	for _, table := range []string{"locations", "occupancy", "import_runs", "audit_logs", "export_runs"} {
		var count int64
		err = db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
			return tx.NewRaw(
				`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
			).Scan(ctx, &count)
		})
		if err != nil {
			t.Fatalf("query sqlite_master: %v", err)
		}
		if count != 1 {
			t.Fatalf("expected %s table after embedded migrations, got %d", table, count)
		}
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	before, err := AppliedMigrations(context.Background(), db)
	if err != nil {
		t.Fatalf("list applied: %v", err)
	}
	if len(before) == 0 {
		t.Fatalf("expected recorded migrations")
	}

	if err := ApplyMigrations(context.Background(), db, migrationsDir(t)); err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if err := ApplyEmbeddedMigrations(context.Background(), db); err != nil {
		t.Fatalf("embedded apply after dir apply: %v", err)
	}

	after, err := AppliedMigrations(context.Background(), db)
	if err != nil {
		t.Fatalf("list applied: %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("expected no new migrations, before=%v after=%v", before, after)
	}
}
