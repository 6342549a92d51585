package misc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/rehabtrack/rehabtrack/internal/telemetry/tracing"
	"github.com/rehabtrack/rehabtrack/pkg"
)

const healthCheckTimeout = 3 * time.Second

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

type healthResponse struct {
	Healthy bool              `json:"healthy"`
	Checks  map[string]string `json:"checks"`
}

type Handler struct {
	versionInfo  string
	healthChecks map[string]HealthCheck
}

func NewHandler(versionInfo string, healthChecks map[string]HealthCheck) *Handler {
	return &Handler{
		versionInfo:  versionInfo,
		healthChecks: healthChecks,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "POST", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")
	mainRouter.HandleFunc("/health", handler.handleHealth).Methods("GET").Name("health")
	mainRouter.HandleFunc("/myip", handler.handleGetMyIp).Methods("GET").Name("myip")
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	if handler.versionInfo == "" {
		pkg.WriteTextResponseOK(w, "unknown")
		return
	}
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}

// handleHealth runs every dependency check in parallel and answers 503 if any fails.
func (handler *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.misc.health")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	resp := healthResponse{
		Healthy: true,
		Checks:  make(map[string]string, len(handler.healthChecks)),
	}
	var mu sync.Mutex

	names := make([]string, 0, len(handler.healthChecks))
	for name := range handler.healthChecks {
		names = append(names, name)
	}
	sort.Strings(names)

	var g errgroup.Group
	for _, name := range names {
		check := handler.healthChecks[name]
		g.Go(func() error {
			status := "ok"
			if err := check(ctx); err != nil {
				log.Warnf("health check [%s]: %s", name, err)
				status = err.Error()
			}

			mu.Lock()
			defer mu.Unlock()
			resp.Checks[name] = status
			if status != "ok" {
				resp.Healthy = false
			}
			return nil
		})
	}
	_ = g.Wait()

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal health response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if !resp.Healthy {
		status = http.StatusServiceUnavailable
		span.SetStatus(codes.Error, "unhealthy")
	}
	span.SetAttributes(attribute.Bool("healthy", resp.Healthy))
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, status)
}

func (handler *Handler) handleGetMyIp(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.misc.myip")
	defer span.End()

	ip, err := pkg.ReadUserIP(r)
	if err != nil {
		span.SetStatus(codes.Error, fmt.Sprintf("failed to get user IP address: %s", err))
		log.Errorf("failed to get user IP address: %s", err)
		http.Error(w, "failed to get IP", http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.String("user.ip", ip))
	pkg.WriteTextResponseOK(w, ip)
}
