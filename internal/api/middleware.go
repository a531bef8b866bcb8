package api

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func (s *Server) authRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, errors.New("unexpected signing method")
			}
			return s.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		uid, err := parseTokenUserID(claims["sub"])
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid token subject")
			return
		}

		dbCtx, cancel := context.WithTimeout(r.Context(), 4*time.Second)
		defer cancel()

		role, err := s.loadUserRole(dbCtx, uid)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid user session")
			return
		}

		authCtx := context.WithValue(r.Context(), userIDContextKey, uid)
		authCtx = context.WithValue(authCtx, userRoleContextKey, role)
		next.ServeHTTP(w, r.WithContext(authCtx))
	})
}

func (s *Server) roleRequired(next http.Handler, roles ...string) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := r.Context().Value(userRoleContextKey).(string)
		if !ok {
			respondError(w, http.StatusForbidden, "missing role in auth context")
			return
		}
		if _, ok := allowed[role]; !ok {
			respondError(w, http.StatusForbidden, "insufficient permissions")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loadUserRole(ctx context.Context, userID int64) (string, error) {
	if userID <= 0 {
		return "", errors.New("invalid user")
	}

	var role, status string
	err := s.db.QueryRow(ctx, `SELECT role, status FROM users WHERE id = $1`, userID).Scan(&role, &status)
	if err != nil {
		return "", err
	}
	if strings.ToLower(strings.TrimSpace(status)) != "active" {
		return "", errors.New("inactive user")
	}
	return strings.ToLower(strings.TrimSpace(role)), nil
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			_, allowed := s.allowedOrigins[origin]
			if s.allowAnyOrigin || allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			}
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Accept, Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Max-Age", "600")

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

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		reqLogger := s.logger.With().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_ip", clientIP(r)).
			Logger()
		r = r.WithContext(reqLogger.WithContext(r.Context()))

		next.ServeHTTP(rec, r)

		reqLogger.Info().
			Int("status", rec.status).
			Dur("duration", s.now().Sub(start)).
			Msg("request")
	})
}

func parseTokenUserID(raw any) (int64, error) {
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, errors.New("non-integer subject")
		}
		return int64(v), nil
	case int64:
		return v, nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	default:
		return strconv.ParseInt(fmt.Sprint(raw), 10, 64)
	}
}

func clientIP(r *http.Request) string {
	forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
	if forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if candidate := strings.TrimSpace(parts[0]); candidate != "" {
			return candidate
		}
	}

	hostPort := strings.TrimSpace(r.RemoteAddr)
	if hostPort == "" {
		return "unknown"
	}
	if addr, err := netip.ParseAddrPort(hostPort); err == nil {
		return addr.Addr().String()
	}
	if addr, err := netip.ParseAddr(hostPort); err == nil {
		return addr.String()
	}
	return hostPort
}
