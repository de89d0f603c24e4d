package httpapi

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/mediride/internal/apiclient"
	"github.com/example/mediride/internal/config"
	"github.com/example/mediride/internal/directory"
	"github.com/example/mediride/internal/events"
	"github.com/example/mediride/internal/payments"
	"github.com/example/mediride/internal/push"
)

// Server is the same-origin proxy in front of the MEDIRIDE backend. It
// owns no booking or bid state: every handler forwards to the backend,
// applies the shared presentation rules (ranking, labeled demo fallback)
// and re-fetches canonical state after mutations.
type Server struct {
	Backend   *apiclient.Client
	Directory *directory.Service
	Push      *push.Registry
	Events    *events.Producer       // nil when Kafka is not configured
	Payments  *payments.StripeClient // nil when Stripe is not configured

	demoFallback bool
	logger       *slog.Logger
	mux          *mux.Router

	// fare holds created on approval, consumed on complete/cancel
	fareHolds sync.Map // booking id -> payment intent id
}

func NewServer(cfg config.ServerConfig, logger *slog.Logger) *Server {
	backend := apiclient.New(cfg.BackendURL, cfg.BackendTimeout)

	var cache directory.Cache
	if cfg.RedisAddr != "" {
		cache = directory.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.DirectoryCacheTTL)
	} else {
		cache = directory.NewMemoryCache(cfg.DirectoryCacheTTL)
	}

	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	}

	var stripeClient *payments.StripeClient
	if payments.Enabled() {
		stripeClient = payments.NewStripeClient()
	}

	s := &Server{
		Backend:      backend,
		Directory:    &directory.Service{Backend: backend, Cache: cache},
		Push:         push.NewRegistry(logger),
		Events:       producer,
		Payments:     stripeClient,
		demoFallback: cfg.DemoFallback,
		logger:       logger,
		mux:          mux.NewRouter(),
	}
	s.registerMiddleware()
	s.routes()
	return s
}

func (s *Server) routes() {
	// booking lifecycle
	s.mux.HandleFunc("/api/bookings/instant/", s.handleCreateInstant).Methods("POST")
	s.mux.HandleFunc("/api/bookings/scheduled/", s.handleCreateScheduled).Methods("POST")
	s.mux.HandleFunc("/api/bookings/", s.handleListBookings).Methods("GET")
	s.mux.HandleFunc("/api/bookings/{id}/", s.handleGetBooking).Methods("GET")
	s.mux.HandleFunc("/api/bookings/{id}/accept/", s.handleDriverAccept).Methods("POST")
	s.mux.HandleFunc("/api/bookings/{id}/complete/", s.handleComplete).Methods("POST")
	s.mux.HandleFunc("/api/bookings/{id}/cancel/", s.handleCancel).Methods("POST")

	// bid lifecycle
	s.mux.HandleFunc("/api/bookings/{id}/bids/", s.handleBookingBids).Methods("GET")
	s.mux.HandleFunc("/api/bookings/bids/{bidId}/accept/", s.handleAcceptBid).Methods("POST")
	s.mux.HandleFunc("/api/bids/", s.handlePlaceBid).Methods("POST")
	s.mux.HandleFunc("/api/admin/approve-bid", s.handleApproveBid).Methods("POST")

	// auth passthrough
	s.mux.HandleFunc("/api/auth/login/", s.handleLogin).Methods("POST")
	s.mux.HandleFunc("/api/token/refresh/", s.handleTokenRefresh).Methods("POST")

	// directory catalogs
	s.mux.HandleFunc("/api/hospitals/", s.handleHospitals).Methods("GET")
	s.mux.HandleFunc("/api/doctors/", s.handleDoctors).Methods("GET")

	// live bid feed
	s.mux.HandleFunc("/ws/bookings/{id}", s.handleBidFeed)

	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) }).Methods("GET")
	s.mux.Handle("/metrics", promhttp.Handler())
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

// backendFor binds the backend client to the caller's own bearer token.
// The proxy never refreshes on the caller's behalf; an expired token is
// the caller's 401 to handle.
func (s *Server) backendFor(r *http.Request) *apiclient.Client {
	return s.Backend.WithToken(bearerToken(r))
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

func newID() string { b := make([]byte, 8); _, _ = rand.Read(b); return hex.EncodeToString(b) }
