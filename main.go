package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"memopad/auth"
	"memopad/db"
	"memopad/handlers"
	appmw "memopad/middleware"
	"memopad/store"
)

func newRouter(authHandler *handlers.AuthHandler, notesHandler *handlers.NotesHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Post("/api/auth/login", authHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(appmw.RequireAuth)
		r.Post("/api/notes", notesHandler.CreateNote)
		r.Get("/api/notes", notesHandler.GetNotes)
		r.Get("/api/notes/{id}", notesHandler.GetNote)
		r.Put("/api/notes/bulk-delete", notesHandler.BulkDeleteNotes)
		r.Put("/api/notes/archive/{id}", notesHandler.ToggleArchiveNote)
		r.Put("/api/notes/{id}", notesHandler.UpdateNote)
		r.Delete("/api/notes/{id}", notesHandler.DeleteNote)
	})

	return r
}

func main() {

	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}

	db.ConnectDB()

	authHandler := &handlers.AuthHandler{
		Users:    &store.Users{DB: db.DB},
		Verifier: auth.PlaintextVerifier{},
	}
	notesHandler := &handlers.NotesHandler{
		Store: &store.Notes{DB: db.DB},
	}

	r := newRouter(authHandler, notesHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3002"
	}
	log.Println("Server running on http://localhost:" + port)
	http.ListenAndServe(":"+port, r)
}
