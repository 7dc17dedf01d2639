package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"myfinance/internal/core"
	"myfinance/internal/log"
	"myfinance/internal/middleware/ratelimit"
	"myfinance/internal/middleware/security"
	"myfinance/internal/middleware/trace"
	"myfinance/internal/services"
)

type Options struct {
	Addr               string
	RateLimitPerMinute int
	// Ready checks the backing store for /readyz; nil means always ready.
	Ready  func(ctx context.Context) error
	Logger *log.Logger
}

type Server struct {
	http.Server
	svc    *services.LedgerService
	ready  func(ctx context.Context) error
	logger *log.Logger
	access *log.StructuredLogger

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	started      time.Time
	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(svc *services.LedgerService, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.Config{Component: log.ComponentHTTP})
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		svc:      svc,
		ready:    opts.Ready,
		logger:   logger,
		access:   log.NewStructuredLogger(logger),
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector: security.NewDetector(logger),
		started:  time.Now(),
	}
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleAddExpense)
	mux.HandleFunc("PUT /api/expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)

	mux.HandleFunc("GET /api/investments", s.handleListInvestments)
	mux.HandleFunc("POST /api/investments", s.handleAddInvestment)
	mux.HandleFunc("PUT /api/investments/{id}", s.handleUpdateInvestment)
	mux.HandleFunc("DELETE /api/investments/{id}", s.handleDeleteInvestment)

	mux.HandleFunc("GET /api/categories/{key}", s.handleGetCategories)
	mux.HandleFunc("POST /api/categories/{key}", s.handleAddCategory)
	mux.HandleFunc("PUT /api/categories/{key}", s.handlePutCategories)

	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/breakdown/expenses", s.handleExpenseBreakdown)
	mux.HandleFunc("GET /api/breakdown/investments", s.handleInvestmentBreakdown)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limit := s.limiter.Middleware(s.mutationKey, func(w http.ResponseWriter, r *http.Request) {
		s.logger.WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldClientIP, s.detector.ExtractClientIP(r),
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path)
		ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded").Header("Retry-After", "60").Write(w)
	})

	var h http.Handler = mux
	h = log.Middleware(logger, trace.GetRequestID)(h)
	h = limit(h)
	h = headers.Middleware(h)
	h = s.detector.Middleware(h)
	h = s.tracer.Middleware(h)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// mutationKey limits writes per client; reads are not limited.
func (s *Server) mutationKey(r *http.Request) string {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ""
	}
	return s.detector.ExtractClientIP(r)
}

// Shutdown stops background work and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// requireAccount writes 401 and reports false when the header is missing.
func (s *Server) requireAccount(w http.ResponseWriter, r *http.Request) (core.AccountKey, bool) {
	account := accountFrom(r)
	if err := account.Validate(); err != nil {
		s.writeError(w, r, log.OpRead, err)
		return "", false
	}
	return account, true
}

// writeError maps err to a response. Server-side failures are logged with
// the operation that failed.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.access.LogError(r.Context(), "Request failed", err, log.ComponentHTTP, op,
			log.NewFields().WithRequestID(trace.GetRequestID(r.Context())))
	}
	ErrorResponse(status, msg).Write(w)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Data(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady checks the store and reports middleware state.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	checks := map[string]any{}

	if s.ready == nil {
		checks["store"] = "ok"
	} else if err := s.ready(ctx); err != nil {
		s.logger.WarnContext(ctx, "Readiness check failed", log.FieldError, err)
		checks["store"] = "failed"
		status, code = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["store"] = "ok"
	}

	rl := s.limiter.GetMetrics()
	checks["rate_limiter"] = map[string]any{"active_clients": rl.ClientCount, "rejected": rl.TotalHits}
	tm := s.tracer.GetMetrics()
	checks["requests"] = map[string]any{"total": tm.TotalRequests, "avg_response_us": tm.AverageResponseTime}
	sec := s.detector.GetMetrics()
	checks["security"] = map[string]any{"suspicious": sec.SuspiciousRequests, "rejected": sec.RejectedRequests}

	NewJSONResponse().Status(code).Data(map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}
