package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"microblog/internal/auth"
	"microblog/internal/models"
)

type postFormData struct {
	Text    string
	GroupID string
	Image   string
	Groups  []models.Group
	Error   string
	IsEdit  bool
	PostID  int64
}

func (s *Server) postForm(w http.ResponseWriter, r *http.Request, data postFormData) {
	groups, err := s.db.ListGroups(r.Context())
	if err != nil {
		s.handleError(w, r, err)

		return
	}

	data.Groups = groups
	s.renderPage(w, r, "create_post.html", http.StatusOK, data)
}

func (s *Server) handlePostCreateForm(w http.ResponseWriter, r *http.Request) {
	s.postForm(w, r, postFormData{})
}

func (s *Server) handlePostCreate(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := auth.UserIDFrom(r.Context())

	text := r.FormValue("text")
	groupStr := r.FormValue("group")
	image := strings.TrimSpace(r.FormValue("image"))

	groupID, err := s.resolveGroupID(r.Context(), groupStr)
	if err != nil {
		if models.IsValidation(err) {
			s.postForm(w, r, postFormData{Text: text, Image: image, Error: validationMessage(err)})

			return
		}

		s.handleError(w, r, err)

		return
	}

	if _, err = s.db.CreatePost(r.Context(), viewerID, text, groupID, image); err != nil {
		if models.IsValidation(err) {
			s.postForm(w, r, postFormData{
				Text:    text,
				GroupID: groupStr,
				Image:   image,
				Error:   validationMessage(err),
			})

			return
		}

		s.handleError(w, r, err)

		return
	}

	author, err := s.db.GetAuthorByID(r.Context(), viewerID)
	if err != nil {
		s.handleError(w, r, err)

		return
	}

	http.Redirect(w, r, "/profile/"+author.Username+"/", http.StatusSeeOther)
}

// resolveOwnPost loads the post and enforces that the viewer owns it.
func (s *Server) resolveOwnPost(r *http.Request) (models.Post, error) {
	postID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return models.Post{}, models.ErrNotFound
	}

	post, err := s.db.GetPost(r.Context(), postID)
	if err != nil {
		return models.Post{}, fmt.Errorf("resolve post: %w", err)
	}

	viewerID, _ := auth.UserIDFrom(r.Context())
	if post.AuthorID != viewerID {
		return post, models.ErrForbidden
	}

	return post, nil
}

func (s *Server) handlePostEditForm(w http.ResponseWriter, r *http.Request) {
	post, err := s.resolveOwnPost(r)
	if errors.Is(err, models.ErrForbidden) {
		// Not the author: back to the post, not an error page.
		http.Redirect(w, r, postPath(post.ID), http.StatusSeeOther)

		return
	}
	if err != nil {
		s.handleError(w, r, err)

		return
	}

	data := postFormData{
		Text:   post.Text,
		Image:  post.ImagePath,
		IsEdit: true,
		PostID: post.ID,
	}
	if post.GroupID != nil {
		data.GroupID = strconv.FormatInt(*post.GroupID, 10)
	}

	s.postForm(w, r, data)
}

func (s *Server) handlePostEdit(w http.ResponseWriter, r *http.Request) {
	post, err := s.resolveOwnPost(r)
	if errors.Is(err, models.ErrForbidden) {
		http.Redirect(w, r, postPath(post.ID), http.StatusSeeOther)

		return
	}
	if err != nil {
		s.handleError(w, r, err)

		return
	}

	text := r.FormValue("text")
	groupStr := r.FormValue("group")
	image := strings.TrimSpace(r.FormValue("image"))

	groupID, err := s.resolveGroupID(r.Context(), groupStr)
	if err != nil {
		if models.IsValidation(err) {
			s.postForm(w, r, postFormData{
				Text: text, Image: image, IsEdit: true, PostID: post.ID,
				Error: validationMessage(err),
			})

			return
		}

		s.handleError(w, r, err)

		return
	}

	if err = s.db.UpdatePost(r.Context(), post.ID, text, groupID, image); err != nil {
		if models.IsValidation(err) {
			s.postForm(w, r, postFormData{
				Text: text, GroupID: groupStr, Image: image,
				IsEdit: true, PostID: post.ID,
				Error: validationMessage(err),
			})

			return
		}

		s.handleError(w, r, err)

		return
	}

	http.Redirect(w, r, postPath(post.ID), http.StatusSeeOther)
}

func (s *Server) handlePostDelete(w http.ResponseWriter, r *http.Request) {
	post, err := s.resolveOwnPost(r)
	if errors.Is(err, models.ErrForbidden) {
		http.Redirect(w, r, postPath(post.ID), http.StatusSeeOther)

		return
	}
	if err != nil {
		s.handleError(w, r, err)

		return
	}

	// Comments go with the post; cached listings age out via TTL.
	if err = s.db.DeletePost(r.Context(), post.ID); err != nil {
		s.handleError(w, r, err)

		return
	}

	http.Redirect(w, r, "/profile/"+post.Author+"/", http.StatusSeeOther)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.handleNotFound(w, r)

		return
	}

	viewerID, _ := auth.UserIDFrom(r.Context())

	_, err = s.db.CreateComment(r.Context(), postID, viewerID, r.FormValue("text"))
	if err != nil && !models.IsValidation(err) {
		s.handleError(w, r, err)

		return
	}

	// An empty comment is dropped silently; either way back to the post.
	http.Redirect(w, r, postPath(postID), http.StatusSeeOther)
}

func postPath(id int64) string {
	return "/posts/" + strconv.FormatInt(id, 10) + "/"
}

// resolveGroupID parses and verifies the optional group field. A
// malformed or nonexistent id is a form error, not an insert that
// trips the foreign key.
func (s *Server) resolveGroupID(ctx context.Context, raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, models.NewValidationError("group", "is unknown")
	}

	if _, err = s.db.GetGroupByID(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewValidationError("group", "is unknown")
		}

		return nil, fmt.Errorf("resolve group: %w", err)
	}

	return &id, nil
}

func validationMessage(err error) string {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return ve.Field + " " + ve.Reason
	}

	return err.Error()
}
