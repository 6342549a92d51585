package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/rehabtrack/rehabtrack/internal/telemetry/tracing"
	"github.com/rehabtrack/rehabtrack/pkg"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

type UsersRepo struct {
	db *pgxpool.Pool
}

func NewUsersRepo(db *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{
		db: db,
	}
}

// Create stores the user; a patient user gets its patient record in the same transaction.
func (r *UsersRepo) Create(ctx context.Context, user User) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	span.SetAttributes(attribute.String("user.id", user.ID))
	span.SetAttributes(attribute.String("user.role", string(user.Role)))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.Errorf("create user, rollback: %s", rbErr)
		}
	}()

	err = tx.QueryRow(
		ctx,
		`INSERT INTO users (id, email, password_hash, name, role)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at;`,
		user.ID, user.Email, user.PasswordHash, user.Name, string(user.Role),
	).Scan(&user.CreatedAt)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	if user.Role == RolePatient {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO patients (id, user_id) VALUES ($1, $2);`,
			uuid.NewString(), user.ID,
		); err != nil {
			return nil, fmt.Errorf("insert patient: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &user, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getbyemail")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var user User
	var role string
	err = r.db.QueryRow(
		ctx,
		`SELECT id, email, password_hash, name, role, created_at FROM users WHERE email = $1;`,
		email,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name, &role, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	user.Role = Role(role)
	return &user, nil
}
