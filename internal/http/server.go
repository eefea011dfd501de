package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ssshpaklevka/deliv-ad/internal/auth"
	"github.com/ssshpaklevka/deliv-ad/internal/cache"
	"github.com/ssshpaklevka/deliv-ad/internal/config"
	"github.com/ssshpaklevka/deliv-ad/internal/session"
	"github.com/ssshpaklevka/deliv-ad/internal/upstream"
)

const (
	sessionCookie = "console_token"
	deviceCookie  = "device_id"
)

type Server struct {
	cfg      config.Config
	sessions session.Store
	upstream *upstream.Client
	cache    *cache.Cache
}

func NewServer(cfg config.Config, sessions session.Store, client *upstream.Client, queryCache *cache.Cache) *Server {
	return &Server{
		cfg:      cfg,
		sessions: sessions,
		upstream: client,
		cache:    queryCache,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/auth/send-code", s.handleSendCode)
	r.Post("/auth/login", s.handleLogin)
	r.With(s.authMiddleware).Post("/auth/logout", s.handleLogout)
	r.With(s.authMiddleware).Get("/auth/me", s.handleMe)

	r.Route("/orders", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/assembly/{storeID}", s.handleAssemblyOrders)
		r.Get("/assembly/{storeID}/summary", s.handleAssemblySummary)
		r.Get("/assembly/order/{orderID}", s.handleAssemblyOrder)
		r.Post("/assembly/start", s.handleStartAssembly)
		r.Post("/assembly/order/{orderID}/stop", s.handleStopAssembly)

		r.Get("/delivery/{storeID}", s.handleDeliveryOrders)
		r.Get("/delivery/{storeID}/summary", s.handleDeliverySummary)
		r.Get("/delivery/order/{orderID}", s.handleDeliveryOrder)
		r.Post("/delivery/start", s.handleStartDelivery)
		r.Post("/delivery/order/{orderID}/expect", s.handleExpectDelivery)
		r.Post("/delivery/order/{orderID}/stop", s.handleStopDelivery)

		r.Post("/", s.handleCreateOrder)
		r.Patch("/{orderID}", s.handleUpdateOrder)
		r.Post("/{orderID}/products", s.handleAddOrderProducts)
		r.Patch("/{orderID}/products/reduce", s.handleReduceOrderProducts)
		r.Delete("/{orderID}/products", s.handleDeleteOrderProducts)
	})

	r.Route("/workers", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/", s.handleWorkers)
		r.Get("/summary", s.handleWorkersSummary)
		r.Post("/", s.handleCreateWorker)
		r.Delete("/{workerID}", s.handleDeleteWorker)
		r.Post("/{workerID}/block", s.handleBlockWorker)
		r.Post("/{workerID}/unblock", s.handleUnblockWorker)
	})

	r.Route("/shifts", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/", s.handleShifts)
		r.Post("/{shiftID}/close", s.handleCloseShift)
	})

	r.Route("/products", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/", s.handleProducts)
		r.Delete("/{productID}", s.handleDeleteProduct)
	})

	r.With(s.authMiddleware).Get("/stores", s.handleStores)

	return r
}

type contextKey string

const sessionContextKey contextKey = "console_session"

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing_token")
			return
		}
		claims, err := auth.ParseSessionToken(s.cfg.SessionSecret, token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		rec, err := s.sessions.Get(r.Context(), claims.SessionID)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				s.clearSessionCookie(w)
				writeError(w, http.StatusUnauthorized, "session_not_found")
				return
			}
			writeError(w, http.StatusInternalServerError, "server_error")
			return
		}
		ctx := context.WithValue(r.Context(), sessionContextKey, rec)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFromContext(ctx context.Context) *session.Record {
	rec, _ := ctx.Value(sessionContextKey).(*session.Record)
	return rec
}

func tokenFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// The device cookie outlives the session on purpose: logout ends the login
// but keeps the browser's device identity.
func (s *Server) setDeviceCookie(w http.ResponseWriter, deviceID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     deviceCookie,
		Value:    deviceID,
		Path:     "/",
		MaxAge:   int(s.cfg.DeviceCookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// writeUpstreamError maps pipeline errors onto the console's responses: a
// dead session forces a logout, business errors pass through verbatim,
// transport failures become a generic connectivity error.
func (s *Server) writeUpstreamError(w http.ResponseWriter, err error) {
	if errors.Is(err, upstream.ErrSessionExpired) || errors.Is(err, upstream.ErrNotAuthenticated) {
		s.clearSessionCookie(w)
		writeError(w, http.StatusUnauthorized, "session_expired")
		return
	}
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		writeJSON(w, apiErr.StatusCode, map[string]string{
			"error":   "upstream_error",
			"message": apiErr.Message(),
		})
		return
	}
	writeError(w, http.StatusBadGateway, "upstream_unreachable")
}

func urlID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func decodeJSON(r *http.Request, out interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
