package patients

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/rehabtrack/rehabtrack/internal/telemetry/tracing"
)

var ErrPatientNotFound = errors.New("patient not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Get(ctx context.Context, id string) (_ *Patient, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.patients.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT p.id, p.user_id, p.created_at, u.id, u.email, u.name
			FROM patients p
			JOIN users u ON u.id = p.user_id
			WHERE p.id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	patients, err := rows2patients(rows)
	if err != nil {
		return nil, err
	}

	if len(patients) != 1 {
		return nil, ErrPatientNotFound
	}

	return &patients[0], nil
}

// List returns every patient with its user summary, newest first.
func (r *Repo) List(ctx context.Context) (_ []Patient, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.patients.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT p.id, p.user_id, p.created_at, u.id, u.email, u.name
			FROM patients p
			JOIN users u ON u.id = p.user_id
			ORDER BY p.created_at DESC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	patients, err := rows2patients(rows)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("patients.count", len(patients)))
	return patients, nil
}

func (r *Repo) Count(ctx context.Context) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.patients.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM patients;`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func rows2patients(rows pgx.Rows) ([]Patient, error) {
	patients := make([]Patient, 0)
	for rows.Next() {
		var p Patient
		if err := rows.Scan(&p.ID, &p.UserID, &p.CreatedAt, &p.User.ID, &p.User.Email, &p.User.Name); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		patients = append(patients, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return patients, nil
}
