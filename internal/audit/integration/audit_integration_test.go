package integration_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"testing"

	"bluemoon-portal/internal/audit"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func TestAuditRepository_LogAndCount(t *testing.T) {
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		t.Skip("PG_DSN not set")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	repo := audit.NewRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	_, _ = db.ExecContext(ctx, "DELETE FROM portal_audit_logs WHERE action = $1", audit.ActionLoginSubmit)

	meta, _ := json.Marshal(map[string]any{"authenticated": false})
	if err := repo.Log(ctx, audit.Entry{Actor: "resident-1", Role: "resident", Action: audit.ActionLoginSubmit, Metadata: meta}); err != nil {
		t.Fatalf("log: %v", err)
	}
	if err := repo.Log(ctx, audit.Entry{Actor: "resident-2", Role: "resident", Action: audit.ActionLoginSubmit}); err != nil {
		t.Fatalf("log without metadata: %v", err)
	}

	count, err := repo.CountByAction(ctx, audit.ActionLoginSubmit)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 entries, got %d", count)
	}
}
