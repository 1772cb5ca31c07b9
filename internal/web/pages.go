package web

import "net/http"

func (s *Server) handleAboutAuthor(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "about_author.html", http.StatusOK, nil)
}

func (s *Server) handleAboutTech(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "about_tech.html", http.StatusOK, nil)
}
