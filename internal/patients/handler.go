package patients

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/rehabtrack/rehabtrack/internal/sessions"
	"github.com/rehabtrack/rehabtrack/internal/telemetry/tracing"
	"github.com/rehabtrack/rehabtrack/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=patients_test

type patientsRepo interface {
	Get(ctx context.Context, id string) (*Patient, error)
	List(ctx context.Context) ([]Patient, error)
}

type patientSessionsLister interface {
	ListByPatient(ctx context.Context, patientID string) ([]sessions.Session, error)
}

type Handler struct {
	repo     patientsRepo
	sessions patientSessionsLister
}

func NewHandler(repo patientsRepo, sessionsLister patientSessionsLister) *Handler {
	return &Handler{
		repo:     repo,
		sessions: sessionsLister,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/patients", handler.HandleList).Methods("GET", "OPTIONS").Name("list-patients")
	r.HandleFunc("/patients/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-patient")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.patients.list")
	defer span.End()

	patients, err := handler.repo.List(ctx)
	if err != nil {
		log.Errorf("list patients: %s", err)
		http.Error(w, "failed to list patients", http.StatusInternalServerError)
		return
	}

	patientsJson, err := json.Marshal(patients)
	if err != nil {
		log.Errorf("marshal patients: %s", err)
		http.Error(w, "failed to list patients", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, patientsJson)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.patients.get")
	defer span.End()

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("patient.id", id))

	patient, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}
		log.Errorf("get patient %s: %s", id, err)
		http.Error(w, "failed to get patient", http.StatusInternalServerError)
		return
	}

	patientSessions, err := handler.sessions.ListByPatient(ctx, id)
	if err != nil {
		log.Errorf("list sessions of patient %s: %s", id, err)
		http.Error(w, "failed to get patient", http.StatusInternalServerError)
		return
	}

	detailJson, err := json.Marshal(Detail{
		Patient:  *patient,
		Sessions: patientSessions,
	})
	if err != nil {
		log.Errorf("marshal patient %s: %s", id, err)
		http.Error(w, "failed to get patient", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, detailJson)
}
