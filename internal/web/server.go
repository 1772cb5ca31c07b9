// Package web is the HTTP surface: thin handlers over the feed
// composer, the entity store and the listing cache.
package web

import (
	"log/slog"
	"net/http"

	"microblog/internal/auth"
	"microblog/internal/cache"
	"microblog/internal/config"
	"microblog/internal/database"
	"microblog/internal/feed"
	"microblog/internal/ratelimiter"
)

type Server struct {
	db       *database.Database
	composer *feed.Composer
	cache    cache.Cache
	auth     *auth.Service
	limiter  *ratelimiter.RateLimiter
	cfg      config.Config
	mux      *http.ServeMux
	log      *slog.Logger
}

func NewServer(
	db *database.Database,
	composer *feed.Composer,
	listingCache cache.Cache,
	authService *auth.Service,
	limiter *ratelimiter.RateLimiter,
	cfg config.Config,
	log *slog.Logger,
) *Server {
	s := &Server{
		db:       db,
		composer: composer,
		cache:    listingCache,
		auth:     authService,
		limiter:  limiter,
		cfg:      cfg,
		mux:      http.NewServeMux(),
		log:      log,
	}

	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /group/{slug}/{$}", s.handleGroup)
	s.mux.HandleFunc("GET /profile/{username}/{$}", s.handleProfile)
	s.mux.HandleFunc("GET /posts/{id}/{$}", s.handlePostDetail)

	s.mux.Handle("GET /create/{$}", s.requireAuth(s.handlePostCreateForm))
	s.mux.Handle("POST /create/{$}", s.requireAuth(s.handlePostCreate))
	s.mux.Handle("GET /posts/{id}/edit/{$}", s.requireAuth(s.handlePostEditForm))
	s.mux.Handle("POST /posts/{id}/edit/{$}", s.requireAuth(s.handlePostEdit))
	s.mux.Handle("POST /posts/{id}/delete/{$}", s.requireAuth(s.handlePostDelete))
	s.mux.Handle("POST /posts/{id}/comment/{$}", s.requireAuth(s.handleAddComment))

	s.mux.Handle("GET /follow/{$}", s.requireAuth(s.handleFollowIndex))
	s.mux.Handle("POST /profile/{username}/follow/{$}", s.requireAuth(s.handleFollow))
	s.mux.Handle("POST /profile/{username}/unfollow/{$}", s.requireAuth(s.handleUnfollow))

	s.mux.HandleFunc("GET /about/author/{$}", s.handleAboutAuthor)
	s.mux.HandleFunc("GET /about/tech/{$}", s.handleAboutTech)

	s.mux.HandleFunc("GET /auth/signup/{$}", s.handleSignupForm)
	s.mux.HandleFunc("POST /auth/signup/{$}", s.handleSignup)
	s.mux.HandleFunc("GET /auth/login/{$}", s.handleLoginForm)
	s.mux.HandleFunc("POST /auth/login/{$}", s.handleLogin)
	s.mux.HandleFunc("GET /auth/logout/{$}", s.handleLogout)

	// Everything unmatched is the 404 page.
	s.mux.HandleFunc("/", s.handleNotFound)

	return s
}

func (s *Server) Handler() http.Handler {
	return s.withAccessLog(s.withSession(s.mux))
}
