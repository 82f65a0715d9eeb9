package handlers

import (
    "github.com/gorilla/mux"

    "github.com/gopoly/gopoly-backend/middleware"
)

func NewRouter(gw *Gateway) *mux.Router {
    r := mux.NewRouter()

    // Public routes
    r.HandleFunc("/api/register", Register).Methods("POST")
    r.HandleFunc("/api/login", Login).Methods("POST")
    r.HandleFunc("/api/refresh/token", RefreshToken).Methods("POST")
    r.HandleFunc("/ws/{token}", gw.WsHandler)

    // Secured routes
    secured := r.PathPrefix("/api").Subrouter()
    secured.Use(middleware.JWTValidationMiddleware)
    secured.HandleFunc("/rooms/{room}/history", gw.RoomHistory).Methods("GET")
    secured.HandleFunc("/logout", Logout).Methods("POST")
    return r
}
