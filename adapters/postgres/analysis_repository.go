package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"statkit/domain/core"
	"statkit/domain/stats"
	"statkit/internal/errors"
	"statkit/ports"
)

// AnalysisRepositoryImpl implements AnalysisRepositoryPort for PostgreSQL.
// The full result document is stored as JSONB; the columns used for listing
// are lifted out so queries never touch the document.
type AnalysisRepositoryImpl struct {
	db *sqlx.DB
}

// NewAnalysisRepository creates a new PostgreSQL analysis repository
func NewAnalysisRepository(db *sqlx.DB) ports.AnalysisRepositoryPort {
	return &AnalysisRepositoryImpl{db: db}
}

// EnsureSchema creates the analyses table when missing
func (r *AnalysisRepositoryImpl) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS analyses (
			id UUID PRIMARY KEY,
			test_type TEXT NOT NULL,
			group_count INTEGER NOT NULL,
			result JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return errors.Wrap(err, "failed to create analyses table")
	}
	return nil
}

// Save stores one finished analysis result
func (r *AnalysisRepositoryImpl) Save(ctx context.Context, result *stats.AnalysisResult) error {
	id, err := uuid.Parse(string(result.ID))
	if err != nil {
		return errors.Wrapf(err, "invalid analysis id %q", result.ID)
	}

	document, err := json.Marshal(result)
	if err != nil {
		return errors.Wrap(err, "failed to encode analysis result")
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO analyses (id, test_type, group_count, result, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, id, result.Test.TestType, len(result.Descriptive), document, result.CreatedAt.Time())
	if err != nil {
		return errors.Wrap(err, "failed to save analysis")
	}
	return nil
}

// Get retrieves a stored analysis by ID
func (r *AnalysisRepositoryImpl) Get(ctx context.Context, id core.AnalysisID) (*stats.AnalysisResult, error) {
	parsed, err := core.ParseAnalysisID(string(id))
	if err != nil {
		return nil, err
	}

	var document []byte
	err = r.db.GetContext(ctx, &document, `
		SELECT result FROM analyses WHERE id = $1
	`, string(parsed))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound(fmt.Sprintf("analysis %s", id))
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load analysis")
	}

	var result stats.AnalysisResult
	if err := json.Unmarshal(document, &result); err != nil {
		return nil, errors.Wrap(err, "failed to decode analysis result")
	}
	return &result, nil
}

// List returns stored analysis summaries, newest first
func (r *AnalysisRepositoryImpl) List(ctx context.Context, filters ports.AnalysisFilters) ([]ports.AnalysisSummary, error) {
	query := `
		SELECT id, test_type, group_count, created_at
		FROM analyses`
	args := []interface{}{}

	if filters.TestType != nil {
		query += ` WHERE test_type = $1`
		args = append(args, *filters.TestType)
	}
	query += ` ORDER BY created_at DESC`

	limit := filters.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT %d OFFSET %d`, limit, max(filters.Offset, 0))

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list analyses")
	}
	defer rows.Close()

	var summaries []ports.AnalysisSummary
	for rows.Next() {
		var row struct {
			ID         uuid.UUID      `db:"id"`
			TestType   stats.TestType `db:"test_type"`
			GroupCount int            `db:"group_count"`
			CreatedAt  sql.NullTime   `db:"created_at"`
		}
		if err := rows.StructScan(&row); err != nil {
			return nil, errors.Wrap(err, "failed to scan analysis row")
		}
		summary := ports.AnalysisSummary{
			ID:         core.AnalysisID(row.ID.String()),
			TestType:   row.TestType,
			GroupCount: row.GroupCount,
		}
		if row.CreatedAt.Valid {
			summary.CreatedAt = core.NewTimestamp(row.CreatedAt.Time)
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}
