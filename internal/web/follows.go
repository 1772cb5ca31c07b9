package web

import (
	"net/http"

	"microblog/internal/auth"
	"microblog/internal/models"
)

// handleFollow creates the edge. A self-follow is rejected by the
// store; either way the caller lands back on the profile.
func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	viewerID, _ := auth.UserIDFrom(r.Context())

	author, err := s.db.GetAuthorByUsername(r.Context(), username)
	if err != nil {
		s.handleError(w, r, err)

		return
	}

	if err = s.db.Follow(r.Context(), viewerID, author.ID); err != nil {
		if !models.IsValidation(err) {
			s.handleError(w, r, err)

			return
		}

		s.log.InfoContext(r.Context(), "Follow is rejected",
			"error", err,
			"viewerID", viewerID,
			"authorID", author.ID)
	}

	http.Redirect(w, r, "/profile/"+username+"/", http.StatusSeeOther)
}

func (s *Server) handleUnfollow(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	viewerID, _ := auth.UserIDFrom(r.Context())

	author, err := s.db.GetAuthorByUsername(r.Context(), username)
	if err != nil {
		s.handleError(w, r, err)

		return
	}

	if err = s.db.Unfollow(r.Context(), viewerID, author.ID); err != nil {
		s.handleError(w, r, err)

		return
	}

	http.Redirect(w, r, "/profile/"+username+"/", http.StatusSeeOther)
}
