package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"moul.io/chizap"

	"github.com/gobindacb/navigatebd/internal/auth"
	"github.com/gobindacb/navigatebd/internal/booking"
	"github.com/gobindacb/navigatebd/internal/config"
	"github.com/gobindacb/navigatebd/internal/httpx"
	"github.com/gobindacb/navigatebd/internal/packages"
	"github.com/gobindacb/navigatebd/internal/story"
	"github.com/gobindacb/navigatebd/internal/user"
	"github.com/gobindacb/navigatebd/internal/wishlist"
)

// Handlers aggregates the per-entity HTTP handlers wired by the router.
type Handlers struct {
	Token    auth.TokenHandler
	User     *user.Handler
	Packages *packages.Handler
	Wishlist *wishlist.Handler
	Story    *story.Handler
	Booking  *booking.Handler
}

// NewRouter assembles the middleware stack and every route. Gates
// compose per route in a fixed order: verify token, then role check,
// then the handler.
func NewRouter(cfg *config.Config, client *mongo.Client, mw *auth.Middleware, h Handlers, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(chizap.New(logger, &chizap.Opts{
		WithReferer:   false,
		WithUserAgent: false,
	}))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSConfig.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	admin := func(next http.Handler) http.Handler {
		return mw.VerifyToken(mw.RequireRole(string(user.RoleAdmin))(next))
	}

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Hello from Navigate-BD server"))
	})
	r.Get("/healthz", healthHandler(client))

	r.With(httprate.LimitByIP(20, time.Minute)).Mount("/jwt", h.Token.Routes())

	r.Post("/users", h.User.Create)
	r.With(admin).Get("/users", h.User.List)
	r.With(admin).Patch("/users/admin/{id}", h.User.PromoteAdmin)
	r.With(mw.VerifyToken).Get("/users/admin/{id}", h.User.AdminStatus)
	r.Patch("/users/guide/{id}", h.User.PromoteGuide)
	r.With(admin).Delete("/users/{id}", h.User.Delete)
	r.Get("/user/guides", h.User.ListGuides)
	r.Get("/guides/{id}", h.User.GetGuide)

	r.With(admin).Post("/packages", h.Packages.Create)
	r.Get("/packages", h.Packages.List)
	r.Get("/packages/{id}", h.Packages.Get)
	r.With(admin).Patch("/packages/{id}", h.Packages.Update)
	r.With(admin).Delete("/packages/{id}", h.Packages.Delete)

	r.Post("/wish", h.Wishlist.Create)
	r.Get("/wish", h.Wishlist.List)
	r.Delete("/wish/{id}", h.Wishlist.Delete)

	r.Get("/stories", h.Story.List)
	r.Get("/story/{id}", h.Story.Get)

	r.Post("/bookings", h.Booking.Create)
	r.Get("/bookings", h.Booking.List)
	r.Delete("/bookings/{id}", h.Booking.Delete)

	return r
}

func healthHandler(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		code := http.StatusOK

		if client != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := client.Ping(ctx, nil); err != nil {
				status = err.Error()
				code = http.StatusServiceUnavailable
			}
		}
		httpx.WriteJSON(w, code, map[string]string{
			"mongo": status,
			"time":  time.Now().UTC().Format(time.RFC3339),
		})
	}
}
