package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/rehabtrack/rehabtrack/internal/telemetry/metrics"
	"github.com/rehabtrack/rehabtrack/internal/telemetry/tracing"
	"github.com/rehabtrack/rehabtrack/pkg"
)

type Handler struct {
	service        *Service
	metricsManager *metrics.Manager
}

func NewHandler(service *Service, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service:        service,
		metricsManager: metricsManager,
	}
}

// SetupRoutes registers the /auth routes and returns their subrouter,
// so the caller can attach rate limiting to it.
func (handler *Handler) SetupRoutes(mainRouter *mux.Router) *mux.Router {
	authRouter := mainRouter.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("/register", handler.HandleRegister).Methods("POST", "OPTIONS").Name("register")
	authRouter.HandleFunc("/login", handler.HandleLogin).Methods("POST", "OPTIONS").Name("login")
	authRouter.HandleFunc("/logout", handler.HandleLogout).Methods("POST", "OPTIONS").Name("logout")
	authRouter.HandleFunc("/me", handler.HandleMe).Methods("GET", "OPTIONS").Name("me")
	return authRouter
}

func (handler *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.register")
	defer span.End()

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("register, unmarshal json params: %s", err)
		http.Error(w, "invalid register request", http.StatusBadRequest)
		return
	}

	resp, err := handler.service.Register(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRequest):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrEmailTaken):
			http.Error(w, "email already registered", http.StatusConflict)
		default:
			log.Errorf("register user: %s", err)
			http.Error(w, "failed to register user", http.StatusInternalServerError)
		}
		return
	}

	handler.metricsManager.CounterAuthEvents.WithLabelValues("register").Inc()
	handler.writeTokenResponse(w, resp, http.StatusCreated)
}

func (handler *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.login")
	defer span.End()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("login, unmarshal json params: %s", err)
		http.Error(w, "invalid login request", http.StatusBadRequest)
		return
	}

	resp, err := handler.service.Login(ctx, req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			handler.metricsManager.CounterAuthEvents.WithLabelValues("login_failed").Inc()
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		log.Errorf("login: %s", err)
		http.Error(w, "failed to log in", http.StatusInternalServerError)
		return
	}

	handler.metricsManager.CounterAuthEvents.WithLabelValues("login").Inc()
	handler.writeTokenResponse(w, resp, http.StatusOK)
}

func (handler *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.logout")
	defer span.End()

	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if err := handler.service.Logout(ctx, claims); err != nil {
		log.Errorf("logout [%s]: %s", claims.Subject, err)
		http.Error(w, "failed to log out", http.StatusInternalServerError)
		return
	}

	handler.metricsManager.CounterAuthEvents.WithLabelValues("logout").Inc()
	pkg.WriteJSONResponseOK(w, `{"revoked":true}`)
}

func (handler *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.me")
	defer span.End()

	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	payloadJson, err := json.Marshal(claims.Payload())
	if err != nil {
		log.Errorf("marshal claims payload: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, payloadJson)
}

func (handler *Handler) writeTokenResponse(w http.ResponseWriter, resp *TokenResponse, status int) {
	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal token response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, status)
}
