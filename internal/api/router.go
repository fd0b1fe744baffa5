package api

import (
	"database/sql"
	"net/http"

	"github.com/finditapp/findit/internal/registry"
	"github.com/finditapp/findit/internal/store"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	itemsHandler := &ItemsHandler{
		DB:       db,
		Pipeline: &registry.Pipeline{Repo: &store.Repo{DB: db}},
	}

	authMW := AuthMiddleware(jwtSecret, db)

	// Accounts and sessions.
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /api/auth/session", authMW(http.HandlerFunc(authHandler.Session)))

	// Reports: browsing and contact disclosure are public, reporting and
	// resolution require a signed-in reporter.
	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("GET /api/items/mine", authMW(http.HandlerFunc(itemsHandler.Mine)))
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)
	mux.HandleFunc("GET /api/items/{id}/contact", itemsHandler.Contact)
	mux.Handle("PUT /api/items/{id}/resolve", authMW(http.HandlerFunc(itemsHandler.Resolve)))

	return mux
}
