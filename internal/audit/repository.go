package audit

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const schema = `
CREATE TABLE IF NOT EXISTS portal_audit_logs (
	id TEXT PRIMARY KEY,
	actor TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL DEFAULT '',
	action TEXT NOT NULL,
	resource_type TEXT NOT NULL DEFAULT '',
	resource_id TEXT NOT NULL DEFAULT '',
	metadata JSONB,
	payload_digest TEXT NOT NULL DEFAULT '',
	ip TEXT NOT NULL DEFAULT '',
	user_agent TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
)`

// Repository writes audit logs.
type Repository struct {
	db *sql.DB
}

// NewRepository constructs an audit repository.
func NewRepository(db *sql.DB) *Repository {
	if db == nil {
		return nil
	}
	return &Repository{db: db}
}

// EnsureSchema creates the audit table when missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if r == nil || r.db == nil {
		return errors.New("audit repo: nil db")
	}
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

// Log writes an audit entry.
func (r *Repository) Log(ctx context.Context, entry Entry) error {
	if r == nil || r.db == nil {
		return errors.New("audit repo: nil db")
	}
	if entry.ID == "" {
		entry.ID = NewID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.PayloadDigest == "" {
		entry.PayloadDigest = DigestJSON(entry.Metadata)
	}
	var metadata any
	if len(entry.Metadata) > 0 {
		metadata = []byte(entry.Metadata)
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO portal_audit_logs (
	id, actor, role, action, resource_type, resource_id,
	metadata, payload_digest, ip, user_agent, created_at
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11
)`, entry.ID, entry.Actor, entry.Role, entry.Action, entry.ResourceType, entry.ResourceID,
		metadata, entry.PayloadDigest, entry.IP, entry.UserAgent, entry.CreatedAt)
	return err
}

// CountByAction returns the number of entries recorded for action.
func (r *Repository) CountByAction(ctx context.Context, action string) (int64, error) {
	if r == nil || r.db == nil {
		return 0, errors.New("audit repo: nil db")
	}
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM portal_audit_logs WHERE action = $1`, action).Scan(&count)
	return count, err
}
