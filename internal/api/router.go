package api

import (
	"net/http"
	"time"

	"codeclub/internal/api/handler"
	"codeclub/internal/api/middleware"
	"codeclub/internal/app/service"
	"codeclub/internal/common/security"
	"codeclub/internal/platform/cache"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	userService *service.UserService,
	eventService *service.EventService,
	forumService *service.ForumService,
	resourceService *service.ResourceService,
	leaderboardService *service.LeaderboardService,
	tokens cache.TokenStore,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger) // Chi's logger
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies the bearer token when present and puts claims in context;
	// enforcement happens in the per-group Authenticator.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	authenticator := middleware.NewAuthenticator(tokens)

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(api chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		authHandler.RegisterPublicRoutes(api)

		userHandler := handler.NewUserHandler(userService)
		api.Group(func(pr chi.Router) {
			pr.Use(authenticator)
			authHandler.RegisterProtectedRoutes(pr)
			userHandler.RegisterRoutes(pr)
		})

		eventHandler := handler.NewEventHandler(eventService, leaderboardService)
		api.Route("/events", func(er chi.Router) {
			eventHandler.RegisterRoutes(er, authenticator)
		})

		forumHandler := handler.NewForumHandler(forumService)
		api.Route("/forum", func(fr chi.Router) {
			forumHandler.RegisterRoutes(fr, authenticator)
		})

		resourceHandler := handler.NewResourceHandler(resourceService)
		api.Route("/resources", func(rr chi.Router) {
			resourceHandler.RegisterRoutes(rr, authenticator)
		})

		leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService)
		api.Route("/leaderboard", func(lr chi.Router) {
			leaderboardHandler.RegisterRoutes(lr, authenticator)
		})
	})

	return r
}
