package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Flexura/internal/auth"
	"Flexura/internal/calc/beam"
	"Flexura/internal/calc/chart"
	"Flexura/internal/calc/importer"
	"Flexura/internal/calc/report"
	"Flexura/internal/config"
	"Flexura/internal/metrics"
	"Flexura/internal/repo"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

func CORS(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
	})
}

// HandleList registers every route. users may be nil when no database is
// configured: accounts, stored checks and history are then left out and the
// remaining beam tools are served without a session.
func HandleList(router *mux.Router, cfg *config.Config, users repo.Repository, reg *prometheus.Registry) {
	m := metrics.New(reg)
	router.Use(m.Middleware)
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods("GET")

	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.Limits.RatePerSecond), cfg.Limits.Burst)
	api := router.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	beamH := &beam.Handler{
		Repo:     users,
		Metrics:  m,
		Workers:  cfg.Engine.Workers,
		MaxBatch: cfg.Engine.MaxBatch,
		Points:   cfg.Engine.ChartStations,
	}
	chartH := &chart.Handler{Metrics: m, Stations: cfg.Engine.ChartStations}
	importH := &importer.Handler{
		Repo:           users,
		Metrics:        m,
		Workers:        cfg.Engine.Workers,
		MaxBatch:       cfg.Engine.MaxBatch,
		MaxUploadBytes: cfg.Limits.MaxUploadBytes,
	}
	reportH := &report.Handler{Metrics: m, Workers: cfg.Engine.Workers, MaxBatch: cfg.Engine.MaxBatch}

	api.HandleFunc("/beam/check", beamH.Check).Methods("POST")

	tools := api.PathPrefix("/user/tools/beam").Subrouter()
	if users != nil {
		authEnv := &auth.Authenv{
			JWTkey:   []byte(cfg.Auth.TokenKey),
			TokenTTL: cfg.Auth.TokenTTL,
			Repo:     users,
			Insecure: !cfg.TLS(),
		}
		api.HandleFunc("/login", authEnv.LoginHandler).Methods("POST")
		api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")
		tools.Use(authEnv.AuthMiddleware)
		tools.HandleFunc("/check", beamH.CheckAndStore).Methods("POST")
		tools.HandleFunc("/history", beamH.History).Methods("GET")
	} else {
		log.Println("No database configured: accounts and history are disabled")
	}

	tools.HandleFunc("/sample", beamH.Sample).Methods("POST")
	tools.HandleFunc("/chart", chartH.Chart).Methods("POST")
	tools.HandleFunc("/import", importH.Beam).Methods("POST")
	tools.HandleFunc("/report", reportH.Generate).Methods("POST")
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(os.Getenv("FLEXURA_CONFIG"))
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	var users repo.Repository
	if cfg.Database.URL != "" {
		var db *sql.DB
		db, err = repo.Open(ctx, cfg.Database.URL, cfg.Database.MaxOpenConns, cfg.Database.ConnLifetime)
		if err != nil {
			log.Fatalf("Database error: %v", err)
		}
		defer db.Close()
		users = repo.NewPostgres(db)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	router := mux.NewRouter()
	HandleList(router, cfg, users, reg)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           CORS(cfg.Server.AllowOrigin, logRequests(router)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s (tls=%v)", cfg.Server.Addr, cfg.TLS())
		if cfg.TLS() {
			errc <- server.ListenAndServeTLS(cfg.Server.CertFile, cfg.Server.KeyFile)
		} else {
			errc <- server.ListenAndServe()
		}
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	case <-ctx.Done():
		log.Println("Shutdown signal received")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
