package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
)

const schemaLockID int64 = 2024060101

type AnalysisRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *AnalysisRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, schemaLockID); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS analyses (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	job_role TEXT NOT NULL DEFAULT '',
	use_llm BOOLEAN NOT NULL DEFAULT FALSE,
	status TEXT NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	result JSONB,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_status ON analyses(status);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *AnalysisRepository) Create(ctx context.Context, a *domain.Analysis) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO analyses (
	id, filename, mime_type, storage_path, job_role, use_llm, status, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`,
		a.ID, a.Filename, a.MimeType, a.StoragePath, a.JobRole, a.UseLLM,
		string(a.Status), a.Error, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

func (r *AnalysisRepository) GetByID(ctx context.Context, id string) (*domain.Analysis, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, filename, mime_type, storage_path, job_role, use_llm, status, error_message, result, created_at, updated_at
FROM analyses
WHERE id = $1
`, id)

	var (
		a         domain.Analysis
		status    string
		resultRaw []byte
	)
	err := row.Scan(
		&a.ID, &a.Filename, &a.MimeType, &a.StoragePath, &a.JobRole, &a.UseLLM,
		&status, &a.Error, &resultRaw, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrAnalysisNotFound, "get analysis", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("scan analysis: %w", err)
	}
	a.Status = domain.AnalysisStatus(status)

	if len(resultRaw) > 0 {
		var result domain.AnalysisResult
		if err := json.Unmarshal(resultRaw, &result); err != nil {
			return nil, fmt.Errorf("unmarshal analysis result: %w", err)
		}
		a.Result = &result
	}
	return &a, nil
}

func (r *AnalysisRepository) UpdateStatus(ctx context.Context, id string, status domain.AnalysisStatus, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE analyses
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, r.now())
	if err != nil {
		return fmt.Errorf("update analysis status: %w", err)
	}
	return ensureAffected(res, "update analysis status", id)
}

// SaveResult stores the result and marks the analysis ready in one write.
func (r *AnalysisRepository) SaveResult(ctx context.Context, id string, result *domain.AnalysisResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal analysis result: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
UPDATE analyses
SET result = $2, status = $3, error_message = '', updated_at = $4
WHERE id = $1
`, id, raw, string(domain.StatusReady), r.now())
	if err != nil {
		return fmt.Errorf("save analysis result: %w", err)
	}
	return ensureAffected(res, "save analysis result", id)
}

func ensureAffected(res sql.Result, op, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if n == 0 {
		return domain.WrapError(domain.ErrAnalysisNotFound, op, fmt.Errorf("id=%s", id))
	}
	return nil
}
