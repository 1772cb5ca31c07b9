package web

import (
	"net"
	"net/http"
	"net/url"
	"time"

	"microblog/internal/auth"
)

const CookieName = "session_id"

// withSession resolves the session cookie to an author identity and
// puts it on the request context. Anonymous requests pass through.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
			if userID, ok := s.auth.Authenticate(r.Context(), c.Value); ok {
				r = r.WithContext(auth.WithUserID(r.Context(), userID))
			}
		}

		next.ServeHTTP(w, r)
	})
}

// requireAuth gates the write endpoints: anonymous callers are sent
// to the login form with next pointing back at the original path.
func (s *Server) requireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.UserIDFrom(r.Context()); !ok {
			http.Redirect(w, r,
				"/auth/login/?next="+url.QueryEscape(r.URL.Path),
				http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.log.InfoContext(r.Context(), "Request is handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"durationMs", time.Since(start).Milliseconds())
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
