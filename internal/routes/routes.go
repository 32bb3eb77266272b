package routes

import (
	"net/http"

	"github.com/csshost/csshost/internal/app"
	"github.com/csshost/csshost/internal/handler"
	"github.com/csshost/csshost/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService)
	files := handler.NewFilesHandler(app.FileService, app.Cfg.MaxUploadSize)
	content := handler.NewContentHandler(app.ContentService)
	admin := handler.NewAdminHandler(app.AdminService, app.FileService)
	events := handler.NewEventsHandler(app.Feed)

	mux := http.NewServeMux()

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth()
	mux.HandleFunc("POST /api/auth/signup", rateLimiter(auth.Signup))
	mux.HandleFunc("POST /api/auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)

	// Files: anonymous sessions share the reserved owner namespace, so these
	// stay open; suspended accounts are blocked from mutating anything.
	mux.HandleFunc("POST /api/files", middleware.RejectSuspended(files.Upload))
	mux.HandleFunc("GET /api/files", files.List)
	mux.HandleFunc("GET /api/usage", files.Usage)
	mux.HandleFunc("DELETE /api/files/{id}", middleware.RejectSuspended(files.Delete))

	// Editor round-trip
	mux.HandleFunc("GET /api/files/{id}/content", content.Get)
	mux.HandleFunc("PUT /api/files/{id}/content", middleware.RejectSuspended(content.Update))

	// Live change feed
	mux.HandleFunc("GET /api/events", events.Stream)

	// Admin surface: authorization checked once here, not per handler
	mux.HandleFunc("GET /api/admin/users", middleware.RequireAdmin(admin.Users))
	mux.HandleFunc("GET /api/admin/files", middleware.RequireAdmin(admin.Files))
	mux.HandleFunc("GET /api/admin/stats", middleware.RequireAdmin(admin.Stats))
	mux.HandleFunc("PATCH /api/admin/users/{id}/suspended", middleware.RequireAdmin(admin.SetSuspended))
	mux.HandleFunc("DELETE /api/admin/files/{id}", middleware.RequireAdmin(files.Delete))

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.AuthService, app.UserService),
	)
}
