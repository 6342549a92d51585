package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/rehabtrack/rehabtrack/internal/telemetry/metrics"
	"github.com/rehabtrack/rehabtrack/internal/telemetry/tracing"
	"github.com/rehabtrack/rehabtrack/pkg"
)

const (
	kindGlobal  = "global"
	kindPatient = "patient"
	kindSession = "session"
	kindExport  = "patient_export"
)

type Handler struct {
	analyzer       *Analyzer
	metricsManager *metrics.Manager
}

func NewHandler(
	patientsRepo patientsRepo,
	sessionsRepo sessionsRepo,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		analyzer:       NewAnalyzer(patientsRepo, sessionsRepo),
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	analysisRouter := mainRouter.PathPrefix("/analysis").Subrouter()
	analysisRouter.HandleFunc("/global", handler.HandleGlobal).Methods("GET", "OPTIONS").Name("analysis-global")
	analysisRouter.HandleFunc("/patient/{id}", handler.HandlePatient).Methods("GET", "OPTIONS").Name("analysis-patient")
	analysisRouter.HandleFunc("/patient/{id}/export", handler.HandlePatientExport).Methods("GET", "OPTIONS").Name("analysis-patient-export")
	analysisRouter.HandleFunc("/session/{id}", handler.HandleSession).Methods("GET", "OPTIONS").Name("analysis-session")
}

func (handler *Handler) HandleGlobal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analysis.global")
	defer span.End()

	start := time.Now()
	result, err := handler.analyzer.Global(ctx)
	handler.observe(kindGlobal, start, err)
	if err != nil {
		handler.writeError(w, kindGlobal, err)
		return
	}

	handler.writeJSON(w, kindGlobal, result)
}

func (handler *Handler) HandlePatient(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analysis.patient")
	defer span.End()

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("patient.id", id))

	start := time.Now()
	result, err := handler.analyzer.Patient(ctx, id)
	handler.observe(kindPatient, start, err)
	if err != nil {
		handler.writeError(w, kindPatient, err)
		return
	}

	handler.writeJSON(w, kindPatient, result)
}

func (handler *Handler) HandlePatientExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analysis.patient-export")
	defer span.End()

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("patient.id", id))

	start := time.Now()
	result, err := handler.analyzer.Patient(ctx, id)
	if err != nil {
		handler.observe(kindExport, start, err)
		handler.writeError(w, kindExport, err)
		return
	}

	var buf bytes.Buffer
	err = WritePatientWorkbook(&buf, result)
	handler.observe(kindExport, start, err)
	if err != nil {
		log.Errorf("analysis [%s], write workbook: %s", kindExport, err)
		http.Error(w, "failed to export analysis", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="patient-%s-analysis.xlsx"`, id))
	pkg.WriteResponseBytesOK(w, pkg.ContentType.XLSX, buf.Bytes())
}

func (handler *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analysis.session")
	defer span.End()

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("session.id", id))

	start := time.Now()
	result, err := handler.analyzer.Session(ctx, id)
	handler.observe(kindSession, start, err)
	if err != nil {
		handler.writeError(w, kindSession, err)
		return
	}

	handler.writeJSON(w, kindSession, result)
}

func (handler *Handler) observe(kind string, start time.Time, err error) {
	outcome := "ok"
	switch {
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	case errors.Is(err, ErrInvalidState):
		outcome = "invalid_state"
	case err != nil:
		outcome = "error"
	}
	handler.metricsManager.CounterAnalyses.WithLabelValues(kind, outcome).Inc()
	handler.metricsManager.HistAnalysisDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

func (handler *Handler) writeError(w http.ResponseWriter, kind string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidState):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Errorf("analysis [%s]: %s", kind, err)
		http.Error(w, "failed to compute analysis", http.StatusInternalServerError)
	}
}

func (handler *Handler) writeJSON(w http.ResponseWriter, kind string, result any) {
	resultJson, err := json.Marshal(result)
	if err != nil {
		log.Errorf("analysis [%s], marshal result: %s", kind, err)
		http.Error(w, "failed to compute analysis", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resultJson)
}
