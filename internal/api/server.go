package api

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"dairyops/backend/internal/config"
	"dairyops/backend/internal/report"
	"dairyops/backend/internal/store"
)

type Server struct {
	db             *pgxpool.Pool
	store          *store.Store
	jwtSecret      []byte
	logger         zerolog.Logger
	company        string
	layout         report.Layout
	allowedOrigins map[string]struct{}
	allowAnyOrigin bool
	mail           *smtpMailer
	otps           *otpStore
	otpLimiter     *attemptLimiter
	newOTP         func() (string, error)
	now            func() time.Time
}

type authContextKey string

const userIDContextKey authContextKey = "user_id"
const userRoleContextKey authContextKey = "user_role"

func NewServer(pool *pgxpool.Pool, cfg config.Config, logger zerolog.Logger) *Server {
	origins := make(map[string]struct{}, len(cfg.CORSAllowedOrigins))
	allowAny := false
	for _, o := range cfg.CORSAllowedOrigins {
		if o == "*" {
			allowAny = true
			continue
		}
		origins[o] = struct{}{}
	}

	return &Server{
		db:             pool,
		store:          store.New(pool),
		jwtSecret:      []byte(cfg.JWTSecret),
		logger:         logger,
		company:        cfg.CompanyName,
		layout:         report.DefaultLayout,
		allowedOrigins: origins,
		allowAnyOrigin: allowAny,
		mail:           NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.FromName, cfg.FromEmail),
		otps:           newOTPStore(cfg.OTPTTL, time.Now),
		otpLimiter:     newAttemptLimiter(cfg.OTPRequestLimit, cfg.OTPTTL),
		newOTP:         randomOTP,
		now:            time.Now,
	}
}

func (s *Server) Mux() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /api/auth/request-otp", s.handleRequestOTP)
	mux.HandleFunc("POST /api/auth/verify-otp", s.handleVerifyOTP)
	mux.HandleFunc("POST /api/auth/refresh", s.handleRefreshToken)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	mux.Handle("GET /api/auth/me", s.authRequired(http.HandlerFunc(s.handleMe)))

	mux.Handle("POST /data/{category}/save", s.authRequired(http.HandlerFunc(s.handleSaveCategory)))
	mux.Handle("POST /data/{category}/submit", s.authRequired(http.HandlerFunc(s.handleSaveCategory)))
	mux.Handle("GET /data/{category}/{date}", s.authRequired(http.HandlerFunc(s.handleGetCategory)))

	mux.Handle("GET /data/daily-reports/{date}", s.authRequired(http.HandlerFunc(s.handleDailyReport)))
	mux.Handle("GET /data/daily-reports/{date}/csv", s.authRequired(http.HandlerFunc(s.handleDailyReportCSV)))
	mux.Handle("GET /data/daily-reports/{date}/print", s.authRequired(http.HandlerFunc(s.handleDailyReportPrint)))

	mux.Handle("GET /api/users", s.authRequired(s.roleRequired(http.HandlerFunc(s.handleUsers), "admin", "super_admin")))
	mux.Handle("POST /api/users", s.authRequired(s.roleRequired(http.HandlerFunc(s.handleCreateUser), "admin", "super_admin")))
	mux.Handle("PUT /api/users/{id}", s.authRequired(s.roleRequired(http.HandlerFunc(s.handleUpdateUser), "super_admin")))
	mux.Handle("DELETE /api/users/{id}", s.authRequired(s.roleRequired(http.HandlerFunc(s.handleDeleteUser), "super_admin")))

	return s.requestLogger(s.withCORS(mux))
}

// randomOTP draws a uniform 6-digit login code.
func randomOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("otp generation failed: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
