package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/contech-dc/contrack/internal/handler"
	"github.com/contech-dc/contrack/internal/middleware"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}))
	r.Use(s.rateLimiter.Middleware)

	healthHandler := handler.NewHealthHandler(s.store, s.clock)
	r.Get("/health", healthHandler.Health)

	authHandler := handler.NewAuthHandler(s.svc)
	userHandler := handler.NewUserHandler(s.svc)
	requestHandler := handler.NewRequestHandler(s.svc, s.auditLog)
	revisionHandler := handler.NewRevisionHandler(s.svc, s.auditLog)
	archiveHandler := handler.NewArchiveHandler(s.svc, s.auditLog)
	projectHandler := handler.NewProjectHandler(s.svc)
	descriptionHandler := handler.NewDescriptionHandler(s.svc)
	wordHandler := handler.NewWordHandler(s.svc, s.gen)

	r.Post("/login", authHandler.Login)

	r.Get("/users", userHandler.List)
	r.Post("/users", userHandler.Upsert)
	r.Delete("/users/{username}", userHandler.Delete)

	r.Get("/irs", requestHandler.List)
	r.Post("/irs", requestHandler.Create)
	r.Post("/irs/mark-done", requestHandler.MarkDone)
	r.Post("/irs/update-ir-number", requestHandler.Renumber)
	r.Post("/irs/delete", requestHandler.Delete)

	r.Get("/revs", revisionHandler.List)
	r.Post("/revs", revisionHandler.Create)
	r.Post("/revs/mark-done", revisionHandler.MarkDone)
	r.Post("/revs/delete", revisionHandler.Delete)

	r.Post("/archive", archiveHandler.Archive)
	r.Post("/unarchive", archiveHandler.Unarchive)
	r.Get("/archive/dc", archiveHandler.ListDC)
	r.Get("/archive/engineer", archiveHandler.ListEngineer)

	r.Get("/projects", projectHandler.List)
	r.Get("/locations", projectHandler.Locations)
	r.Get("/irs-by-user-and-dept", projectHandler.ByUserAndDept)

	r.Get("/general-descriptions", descriptionHandler.Get)

	r.Post("/generate-word", wordHandler.Generate)

	return r
}
