package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/rehabtrack/rehabtrack/internal/auth"
	"github.com/rehabtrack/rehabtrack/internal/telemetry/metrics"
	"github.com/rehabtrack/rehabtrack/internal/telemetry/tracing"
	"github.com/rehabtrack/rehabtrack/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=sessions_test

type sessionCreator interface {
	CreateFromMobile(ctx context.Context, userID string, req NewSessionRequest) (*Session, error)
}

type sessionsReader interface {
	List(ctx context.Context) ([]WithPatient, error)
	Get(ctx context.Context, id string) (*Session, error)
}

type createdResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    *Session `json:"data"`
}

type Handler struct {
	creator        sessionCreator
	reader         sessionsReader
	metricsManager *metrics.Manager
}

func NewHandler(creator sessionCreator, reader sessionsReader, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		creator:        creator,
		reader:         reader,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/sessions", handler.HandleCreate).Methods("POST", "OPTIONS").Name("create-session")
	r.HandleFunc("/sessions", handler.HandleList).Methods("GET", "OPTIONS").Name("list-sessions")
	r.HandleFunc("/sessions/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-session")
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.create")
	defer span.End()

	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	span.SetAttributes(attribute.String("user.id", claims.Subject))

	var req NewSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("create session, unmarshal json params: %s", err)
		http.Error(w, "invalid session request", http.StatusBadRequest)
		return
	}

	session, err := handler.creator.CreateFromMobile(ctx, claims.Subject, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrPatientRecordNotFound):
			http.Error(w, "only patients can record sessions", http.StatusForbidden)
		case errors.Is(err, ErrInvalidSession):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Errorf("create session for user [%s]: %s", claims.Subject, err)
			http.Error(w, "failed to create session", http.StatusInternalServerError)
		}
		return
	}

	handler.metricsManager.CounterSessionsRecorded.Inc()

	respJson, err := json.Marshal(createdResponse{
		Success: true,
		Message: "Session created successfully",
		Data:    session,
	})
	if err != nil {
		log.Errorf("marshal created session: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.list")
	defer span.End()

	sessions, err := handler.reader.List(ctx)
	if err != nil {
		log.Errorf("list sessions: %s", err)
		http.Error(w, "failed to list sessions", http.StatusInternalServerError)
		return
	}

	sessionsJson, err := json.Marshal(sessions)
	if err != nil {
		log.Errorf("marshal sessions: %s", err)
		http.Error(w, "failed to list sessions", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, sessionsJson)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.get")
	defer span.End()

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("session.id", id))

	session, err := handler.reader.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		log.Errorf("get session %s: %s", id, err)
		http.Error(w, "failed to get session", http.StatusInternalServerError)
		return
	}

	sessionJson, err := json.Marshal(session)
	if err != nil {
		log.Errorf("marshal session %s: %s", id, err)
		http.Error(w, "failed to get session", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, sessionJson)
}
