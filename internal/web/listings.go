package web

import (
	"net/http"
	"strconv"
	"time"

	"microblog/internal/auth"
	"microblog/internal/cache"
	"microblog/internal/paginate"
)

// serveCached answers from the listing cache when it can; on a miss
// it renders once, stores the exact payload with the view's TTL and
// serves those bytes. Writers never partially invalidate an entry:
// staleness is bounded by the TTL or an explicit InvalidateAll.
func (s *Server) serveCached(
	w http.ResponseWriter,
	r *http.Request,
	key string,
	ttl time.Duration,
	render func() ([]byte, error),
) {
	ctx := r.Context()

	if payload, ok := s.cache.Get(ctx, key); ok {
		s.writeHTML(w, http.StatusOK, payload)

		return
	}

	payload, err := render()
	if err != nil {
		s.handleError(w, r, err)

		return
	}

	s.cache.Put(ctx, key, payload, ttl)
	s.writeHTML(w, http.StatusOK, payload)
}

func pageNumber(r *http.Request) int {
	return paginate.ParsePageParam(r.URL.Query().Get("page"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := pageNumber(r)
	key := cache.Key("index", "page", strconv.Itoa(page))

	s.serveCached(w, r, key, s.cfg.IndexCacheTTL, func() ([]byte, error) {
		view, err := s.composer.Global(r.Context(), page)
		if err != nil {
			return nil, err
		}

		return renderBytes("index.html", map[string]any{"Page": view})
	})
}

func (s *Server) handleGroup(w http.ResponseWriter, r *http.Request) {
	view, err := s.composer.Group(r.Context(), r.PathValue("slug"), pageNumber(r))
	if err != nil {
		s.handleError(w, r, err)

		return
	}

	s.renderPage(w, r, "group_list.html", http.StatusOK, view)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := auth.UserIDFrom(r.Context())

	view, err := s.composer.Profile(r.Context(), r.PathValue("username"), viewerID, pageNumber(r))
	if err != nil {
		s.handleError(w, r, err)

		return
	}

	s.renderPage(w, r, "profile.html", http.StatusOK, map[string]any{
		"View":    view,
		"IsOwner": viewerID == view.Author.ID,
	})
}

func (s *Server) handlePostDetail(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.handleNotFound(w, r)

		return
	}

	key := cache.Key("post", "id", strconv.FormatInt(postID, 10))

	s.serveCached(w, r, key, s.cfg.PostCacheTTL, func() ([]byte, error) {
		view, renderErr := s.composer.PostDetail(r.Context(), postID)
		if renderErr != nil {
			return nil, renderErr
		}

		return renderBytes("post_detail.html", view)
	})
}

func (s *Server) handleFollowIndex(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := auth.UserIDFrom(r.Context())

	view, err := s.composer.Following(r.Context(), viewerID, pageNumber(r))
	if err != nil {
		s.handleError(w, r, err)

		return
	}

	s.renderPage(w, r, "follow.html", http.StatusOK, map[string]any{"Page": view})
}
