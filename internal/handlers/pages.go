package handlers

import "net/http"

// PageHandler serves the static informational pages.
type PageHandler struct{}

func NewPageHandler() *PageHandler { return &PageHandler{} }

func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	render(w, r, "home.html", nil)
}

func (h *PageHandler) MentionsLegales(w http.ResponseWriter, r *http.Request) {
	render(w, r, "mentions_legales.html", nil)
}

func (h *PageHandler) ClientIntroduction(w http.ResponseWriter, r *http.Request) {
	render(w, r, "client/introduction.html", nil)
}

