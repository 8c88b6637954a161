package middleware

import (
	"net/http"
	"strconv"

	"hospital-appointment/config"
)

const (
	corsAllowMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization"
)

type CORSMiddleware struct {
	anyOrigin bool
	origins   map[string]struct{}
	maxAge    string
}

func NewCORSMiddleware(cfg config.CORSConfig) *CORSMiddleware {
	m := &CORSMiddleware{origins: make(map[string]struct{}, len(cfg.AllowedOrigins))}
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			m.anyOrigin = true
			continue
		}
		m.origins[origin] = struct{}{}
	}
	if cfg.MaxAge > 0 {
		m.maxAge = strconv.Itoa(int(cfg.MaxAge.Seconds()))
	}
	return m
}

func (m *CORSMiddleware) allowed(origin string) bool {
	if m.anyOrigin {
		return true
	}
	_, ok := m.origins[origin]
	return ok
}

func (m *CORSMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		origin := req.Header.Get("Origin")
		if origin != "" && m.allowed(origin) {
			if m.anyOrigin {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)
			w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
			if m.maxAge != "" {
				w.Header().Set("Access-Control-Max-Age", m.maxAge)
			}
		}

		// Preflight never reaches the API handlers
		if req.Method == http.MethodOptions && req.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, req)
	})
}
