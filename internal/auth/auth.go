// Package auth is the identity boundary: it hands each request an
// optional authenticated author and nothing below it ever checks
// credentials.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"microblog/internal/database"
	"microblog/internal/models"
)

const minPasswordLength = 6

var ErrInvalidLogin = errors.New("invalid username or password")

type Service struct {
	db       *database.Database
	lifetime time.Duration
	log      *slog.Logger
}

func New(db *database.Database, lifetime time.Duration, log *slog.Logger) *Service {
	return &Service{db: db, lifetime: lifetime, log: log}
}

type ctxKeyUserID struct{}

func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, ctxKeyUserID{}, userID)
}

// UserIDFrom returns the authenticated user id, if any. A zero id is
// treated as anonymous.
func UserIDFrom(ctx context.Context) (int64, bool) {
	userID, _ := ctx.Value(ctxKeyUserID{}).(int64)
	return userID, userID != 0
}

func (s *Service) Register(ctx context.Context, username, password string) (int64, error) {
	if len(password) < minPasswordLength {
		return 0, models.NewValidationError("password",
			fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	userID, err := s.db.CreateUser(ctx, username, string(hash))
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}

	return userID, nil
}

// Login verifies the password and opens a fresh session. The returned
// session id goes into the cookie as-is.
func (s *Service) Login(ctx context.Context, username, password string) (string, int64, error) {
	userID, hash, err := s.db.GetCredentials(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		return "", 0, ErrInvalidLogin
	}
	if err != nil {
		return "", 0, fmt.Errorf("fetch credentials: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", 0, ErrInvalidLogin
	}

	sessionID := uuid.New().String()
	expiresAt := time.Now().Add(s.lifetime)

	if err = s.db.CreateSession(ctx, sessionID, userID, expiresAt); err != nil {
		return "", 0, fmt.Errorf("create session: %w", err)
	}

	s.log.InfoContext(ctx, "Session is opened",
		"userID", userID,
		"expiresAt", expiresAt)

	return sessionID, userID, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if err := s.db.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// Authenticate maps a session cookie value to a user id; an unknown
// or expired session is simply anonymous.
func (s *Service) Authenticate(ctx context.Context, sessionID string) (int64, bool) {
	if sessionID == "" {
		return 0, false
	}

	userID, expiresAt, err := s.db.GetSession(ctx, sessionID)
	if errors.Is(err, models.ErrNotFound) {
		return 0, false
	}
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to fetch session",
			"error", err)

		return 0, false
	}

	if !expiresAt.After(time.Now()) {
		return 0, false
	}

	return userID, true
}

// PruneExpired is called by the scheduler.
func (s *Service) PruneExpired(ctx context.Context) error {
	n, err := s.db.DeleteExpiredSessions(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("prune sessions: %w", err)
	}

	if n > 0 {
		s.log.InfoContext(ctx, "Expired sessions are pruned",
			"sessionCount", n)
	}

	return nil
}
