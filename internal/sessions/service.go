package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/rehabtrack/rehabtrack/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=sessions_test

var ErrInvalidSession = errors.New("invalid session")

type sessionsStore interface {
	Add(ctx context.Context, session Session) (*Session, error)
	PatientIDForUser(ctx context.Context, userID string) (string, error)
}

type Service struct {
	store sessionsStore
	// injectable for tests
	Now func() time.Time
}

func NewService(store sessionsStore) *Service {
	return &Service{
		store: store,
		Now:   time.Now,
	}
}

// CreateFromMobile stores a session recorded by the mobile app on behalf of the authenticated user.
func (s *Service) CreateFromMobile(ctx context.Context, userID string, req NewSessionRequest) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.createfrommobile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	durationSecs := 0
	if req.DurationSecs != nil {
		durationSecs = *req.DurationSecs
	}
	if durationSecs < 0 {
		return nil, fmt.Errorf("%w: negative duration %d", ErrInvalidSession, durationSecs)
	}

	patientID, err := s.store.PatientIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	startedAt := s.Now().UTC()
	if req.Date != nil {
		startedAt = req.Date.UTC()
	}

	added, err := s.store.Add(ctx, Session{
		PatientID:    patientID,
		StartedAt:    startedAt,
		EndedAt:      startedAt.Add(time.Duration(durationSecs) * time.Second),
		DurationSecs: &durationSecs,
		RomMaxDeg:    req.RomMaxDeg,
		ExerciseID:   req.ExerciseID,
		PhaseLabel:   req.PhaseLabel,
		SessionType:  req.SessionType,
		Notes:        req.Notes,
	})
	if err != nil {
		return nil, err
	}

	log.Debugf("session [%s] recorded for patient [%s]", added.ID, patientID)
	return added, nil
}
