package main

import (
    "log"
    "net/http"

    "github.com/joho/godotenv"

    "github.com/gopoly/gopoly-backend/config"
    "github.com/gopoly/gopoly-backend/game"
    "github.com/gopoly/gopoly-backend/handlers"
    "github.com/gopoly/gopoly-backend/repository"
)

func main() {
    if err := godotenv.Load(); err != nil {
        log.Println("No .env file loaded:", err)
    }

    cfg := config.LoadConfig()
    repository.ConnectToPostgreSQL(cfg)
    repository.ConnectMongoDB(cfg)

    registry := game.NewRegistry()
    hub := handlers.NewHub()
    gateway := handlers.NewGateway(registry, hub)

    r := handlers.NewRouter(gateway)

    log.Printf("Server running on %s", cfg.ListenAddr)
    log.Fatal(http.ListenAndServe(cfg.ListenAddr, r))
}
