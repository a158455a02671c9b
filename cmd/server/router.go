package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/api/shared"
	apiMiddleware "github.com/MateusBorgesGuimaraes/blog-rest-api/internal/api/middleware"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/platform/logger"
)

// healthResponse is the body of GET /health.
type healthResponse struct {
	Status string `json:"status"`
}

// setupRouter registers middleware and every route on a chi router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	authenticate := app.authMiddleware.Authenticate

	r.Post("/auth", app.authHandler.Login)

	r.Route("/users", func(r chi.Router) {
		r.Post("/register", app.userHandler.Register)
		r.Get("/profile/{filename}", app.userHandler.ServeProfileImage)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/", app.userHandler.ListUsers)
			r.Get("/saved-posts", app.userHandler.ListSavedPosts)
			r.Post("/saved-posts/{postId}", app.userHandler.SavePost)
			r.Delete("/saved-posts/{postId}", app.userHandler.UnsavePost)
			r.Post("/upload-profile", app.userHandler.UploadProfileImage)
			r.Get("/blogger/posts", app.postHandler.ListMyPosts)
			r.Get("/{id}", app.userHandler.GetUser)
		})
	})

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", app.postHandler.ListPosts)
		r.Get("/cover/{filename}", app.postHandler.ServeCover)
		r.Get("/{id}", app.postHandler.GetPost)
		r.Get("/{id}/recommendations", app.postHandler.Recommendations)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/create", app.postHandler.CreatePost)
			r.Get("/user", app.postHandler.ListMyPosts)
			r.Patch("/{id}", app.postHandler.UpdatePost)
			r.Delete("/{id}", app.postHandler.DeletePost)
			r.Post("/upload-cover/{postId}", app.postHandler.UploadCover)
		})
	})

	r.Get("/health", app.health)

	return r
}

// health reports liveness and whether the database answers a ping.
func (app *application) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := app.db.PingContext(ctx); err != nil {
		logger.FromContextOrDefault(r.Context(), app.logger).Error("health check failed",
			slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, healthResponse{Status: "ok"})
}
