package dashboard

import (
	"embed"
	"net/http"
)

//go:embed assets
var assets embed.FS

// handleIndex serves the embedded single-page dashboard UI.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := assets.ReadFile("assets/index.html")
	if err != nil {
		http.Error(w, "dashboard UI not available", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}
