package routes

import (
	"encoding/json"
	"net/http"

	"farm-advisor/internal/infra/handlers"

	"github.com/gorilla/mux"
)

type Routes struct {
	Mux         *mux.Router
	HttpHandler *handlers.HttpHandlers
}

func NewRoutes(mux *mux.Router, HttpHandler *handlers.HttpHandlers) *Routes {
	return &Routes{mux, HttpHandler}
}

func (r *Routes) Init() {
	r.Mux.HandleFunc("/", r.HttpHandler.Index).Methods(http.MethodGet)
	r.Mux.HandleFunc("/query-image", r.HttpHandler.QueryImage).Methods(http.MethodPost)
	r.Mux.HandleFunc("/query-voice", r.HttpHandler.QueryVoice).Methods(http.MethodPost)

	r.Mux.HandleFunc("/healthCheck", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods(http.MethodGet)
}
