package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/ai-skill-screener/internal/domain"
)

const referenceTable = "reference_roles"

const schemaSQL = `CREATE TABLE IF NOT EXISTS reference_roles (
	id BIGSERIAL PRIMARY KEY,
	job_title TEXT NOT NULL,
	technical_skills TEXT NOT NULL DEFAULT '',
	soft_skills TEXT NOT NULL DEFAULT ''
)`

// PgxPool is a minimal subset of pgxpool used by the repo for easy testing.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

// ReferenceRepo implements domain.ReferenceSource over the reference_roles table.
type ReferenceRepo struct{ Pool PgxPool }

var _ domain.ReferenceSource = (*ReferenceRepo)(nil)

// NewReferenceRepo constructs a ReferenceRepo with the given pool.
func NewReferenceRepo(p PgxPool) *ReferenceRepo { return &ReferenceRepo{Pool: p} }

func startSpan(ctx context.Context, name, op string) (context.Context, func()) {
	ctx, span := otel.Tracer("repo.reference").Start(ctx, name)
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", op),
		attribute.String("db.sql.table", referenceTable),
	)
	return ctx, func() { span.End() }
}

// EnsureSchema creates the reference table when it does not exist.
func (r *ReferenceRepo) EnsureSchema(ctx context.Context) error {
	ctx, end := startSpan(ctx, "reference.EnsureSchema", "CREATE")
	defer end()
	if _, err := r.Pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("op=reference.ensure_schema: %w", err)
	}
	return nil
}

// Load reads every reference row in insertion order.
func (r *ReferenceRepo) Load(ctx domain.Context) (domain.ReferenceTable, error) {
	ctx, end := startSpan(ctx, "reference.Load", "SELECT")
	defer end()
	rows, err := r.Pool.Query(ctx, `SELECT job_title, technical_skills, soft_skills FROM reference_roles ORDER BY id`)
	if err != nil {
		return domain.ReferenceTable{}, fmt.Errorf("op=reference.load: %w: %w", domain.ErrData, err)
	}
	defer rows.Close()
	tbl := domain.ReferenceTable{Columns: append([]string(nil), domain.RequiredColumns...)}
	for rows.Next() {
		var row domain.ReferenceRow
		if err := rows.Scan(&row.RoleTitle, &row.TechnicalSkills, &row.SoftSkills); err != nil {
			return domain.ReferenceTable{}, fmt.Errorf("op=reference.load: %w: %w", domain.ErrData, err)
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return domain.ReferenceTable{}, fmt.Errorf("op=reference.load: %w: %w", domain.ErrData, err)
	}
	return tbl, nil
}

// Seed replaces the table contents with tbl in one transaction and returns
// the number of rows written.
func (r *ReferenceRepo) Seed(ctx context.Context, tbl domain.ReferenceTable) (int64, error) {
	ctx, end := startSpan(ctx, "reference.Seed", "COPY")
	defer end()
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("op=reference.seed: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `TRUNCATE reference_roles RESTART IDENTITY`); err != nil {
		return 0, fmt.Errorf("op=reference.seed: %w", err)
	}
	src := pgx.CopyFromSlice(len(tbl.Rows), func(i int) ([]any, error) {
		row := tbl.Rows[i]
		return []any{row.RoleTitle, row.TechnicalSkills, row.SoftSkills}, nil
	})
	n, err := tx.CopyFrom(ctx, pgx.Identifier{referenceTable}, []string{"job_title", "technical_skills", "soft_skills"}, src)
	if err != nil {
		return 0, fmt.Errorf("op=reference.seed: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("op=reference.seed: %w", err)
	}
	return n, nil
}

// Ping checks database connectivity.
func (r *ReferenceRepo) Ping(ctx context.Context) error { return r.Pool.Ping(ctx) }
