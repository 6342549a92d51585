package sessions

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/rehabtrack/rehabtrack/internal/telemetry/tracing"
	"github.com/rehabtrack/rehabtrack/pkg"
)

var (
	ErrSessionNotFound       = errors.New("session not found")
	ErrPatientRecordNotFound = errors.New("patient record not found for user")
)

const sessionColumns = `s.id, s.patient_id, s.started_at, s.ended_at, s.duration_secs, s.rom_max_deg,
	s.exercise_id, s.phase_label, s.session_type, s.notes, s.created_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, session Session) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	span.SetAttributes(attribute.String("session.id", session.ID))
	span.SetAttributes(attribute.String("patient.id", session.PatientID))

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO sessions
				(id, patient_id, started_at, ended_at, duration_secs, rom_max_deg, exercise_id, phase_label, session_type, notes)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING created_at;`,
		session.ID, session.PatientID, session.StartedAt, session.EndedAt, session.DurationSecs, session.RomMaxDeg,
		session.ExerciseID, session.PhaseLabel, session.SessionType, session.Notes,
	).Scan(&session.CreatedAt)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrPatientRecordNotFound
		}
		return nil, fmt.Errorf("insert session: %w", err)
	}

	return &session, nil
}

func (r *Repo) Get(ctx context.Context, id string) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+sessionColumns+` FROM sessions s WHERE s.id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions, err := rows2sessions(rows)
	if err != nil {
		return nil, err
	}

	if len(sessions) != 1 {
		return nil, ErrSessionNotFound
	}

	return &sessions[0], nil
}

// List returns all sessions with the owning patient's user, newest first.
func (r *Repo) List(ctx context.Context) (_ []WithPatient, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT `+sessionColumns+`, u.name, u.email
			FROM sessions s
			JOIN patients p ON p.id = s.patient_id
			JOIN users u ON u.id = p.user_id
			ORDER BY s.started_at DESC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]WithPatient, 0)
	for rows.Next() {
		var s WithPatient
		if err := rows.Scan(
			&s.ID, &s.PatientID, &s.StartedAt, &s.EndedAt, &s.DurationSecs, &s.RomMaxDeg,
			&s.ExerciseID, &s.PhaseLabel, &s.SessionType, &s.Notes, &s.CreatedAt,
			&s.Patient.User.Name, &s.Patient.User.Email,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		s.Patient.ID = s.PatientID
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("sessions.count", len(result)))
	return result, nil
}

// ListAll returns the projection of every stored session.
func (r *Repo) ListAll(ctx context.Context) (_ []Projection, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT started_at, exercise_id, phase_label, session_type, rom_max_deg FROM sessions;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projections := make([]Projection, 0)
	for rows.Next() {
		var p Projection
		if err := rows.Scan(&p.StartedAt, &p.ExerciseID, &p.PhaseLabel, &p.SessionType, &p.RomMaxDeg); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		projections = append(projections, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("sessions.count", len(projections)))
	return projections, nil
}

// ListByPatient returns the patient's sessions, oldest first.
func (r *Repo) ListByPatient(ctx context.Context, patientID string) (_ []Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.listbypatient")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("patient.id", patientID))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+sessionColumns+` FROM sessions s WHERE s.patient_id = $1 ORDER BY s.started_at ASC;`,
		patientID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2sessions(rows)
}

func (r *Repo) Count(ctx context.Context) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM sessions;`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ListRomValues returns the non-null ROM values of an exercise, ascending.
// An empty PatientID in the filter selects every patient.
func (r *Repo) ListRomValues(ctx context.Context, filter RomFilter) (_ []float64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.listromvalues")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", filter.ExerciseID))
	span.SetAttributes(attribute.String("patient.id", filter.PatientID))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT rom_max_deg
			FROM sessions
			WHERE exercise_id = $1
				AND rom_max_deg IS NOT NULL
				AND ($2::text = '' OR patient_id = $2)
			ORDER BY rom_max_deg ASC;`,
		filter.ExerciseID, filter.PatientID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make([]float64, 0)
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		values = append(values, v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return values, nil
}

// PatientIDForUser resolves the patient record owned by the given user.
func (r *Repo) PatientIDForUser(ctx context.Context, userID string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.patientforuser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	var patientID string
	err = r.db.QueryRow(ctx, `SELECT id FROM patients WHERE user_id = $1;`, userID).Scan(&patientID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrPatientRecordNotFound
	}
	if err != nil {
		return "", err
	}

	return patientID, nil
}

func rows2sessions(rows pgx.Rows) ([]Session, error) {
	sessions := make([]Session, 0)
	for rows.Next() {
		var s Session
		if err := rows.Scan(
			&s.ID, &s.PatientID, &s.StartedAt, &s.EndedAt, &s.DurationSecs, &s.RomMaxDeg,
			&s.ExerciseID, &s.PhaseLabel, &s.SessionType, &s.Notes, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}
