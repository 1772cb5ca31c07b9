package web

import (
	"errors"
	"net/http"
	"strings"

	"microblog/internal/auth"
	"microblog/internal/models"
)

func (s *Server) handleSignupForm(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "signup.html", http.StatusOK, map[string]any{
		"Username": "",
		"Error":    "",
		"Next":     r.URL.Query().Get("next"),
	})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow(clientIP(r)) {
		http.Error(w, "too many attempts", http.StatusTooManyRequests)

		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	if _, err := s.auth.Register(r.Context(), username, password); err != nil {
		if models.IsValidation(err) {
			s.renderPage(w, r, "signup.html", http.StatusOK, map[string]any{
				"Username": username,
				"Error":    validationMessage(err),
				"Next":     r.FormValue("next"),
			})

			return
		}

		s.handleError(w, r, err)

		return
	}

	s.completeLogin(w, r, username, password)
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "login.html", http.StatusOK, map[string]any{
		"Username": "",
		"Error":    "",
		"Next":     r.URL.Query().Get("next"),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow(clientIP(r)) {
		http.Error(w, "too many attempts", http.StatusTooManyRequests)

		return
	}

	s.completeLogin(w, r,
		strings.TrimSpace(r.FormValue("username")),
		r.FormValue("password"))
}

func (s *Server) completeLogin(w http.ResponseWriter, r *http.Request, username, password string) {
	sessionID, _, err := s.auth.Login(r.Context(), username, password)
	if errors.Is(err, auth.ErrInvalidLogin) {
		s.renderPage(w, r, "login.html", http.StatusOK, map[string]any{
			"Username": username,
			"Error":    "invalid username or password",
			"Next":     r.FormValue("next"),
		})

		return
	}
	if err != nil {
		s.handleError(w, r, err)

		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.cfg.SessionLifetime.Seconds()),
	})

	http.Redirect(w, r, safeNext(r.FormValue("next")), http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		if logoutErr := s.auth.Logout(r.Context(), c.Value); logoutErr != nil {
			s.log.ErrorContext(r.Context(), "Failed to close session",
				"error", logoutErr)
		}

		http.SetCookie(w, &http.Cookie{
			Name:   CookieName,
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// safeNext only ever sends the browser to a local path, never to
// another host smuggled through the next parameter.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}

	return next
}
