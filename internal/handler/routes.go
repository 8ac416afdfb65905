package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/vpetrenko/todo-service/internal/middleware"
	"github.com/vpetrenko/todo-service/internal/token"
)

// NewRouter wires all routes under /api. Auth routes for registration
// and login are public; everything else sits behind the auth gate.
func NewRouter(h *Handler, tokens *token.Manager, log *logrus.Logger) http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/healthcheck", h.HealthCheck).Methods("GET")
	api.HandleFunc("/auth/register", h.Register).Methods("POST")
	api.HandleFunc("/auth/login", h.Login).Methods("POST")

	protected := api.PathPrefix("/").Subrouter()
	protected.Use(middleware.AuthMiddleware(tokens, log))
	protected.HandleFunc("/auth/me", h.Me).Methods("GET")
	protected.HandleFunc("/todos", h.ListTodos).Methods("GET")
	protected.HandleFunc("/todos", h.CreateTodo).Methods("POST")
	protected.HandleFunc("/todos/{id}", h.UpdateTodo).Methods("PUT")
	protected.HandleFunc("/todos/{id}", h.DeleteTodo).Methods("DELETE")

	return r
}
