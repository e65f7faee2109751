package server

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/gobindacb/navigatebd/internal/auth"
	"github.com/gobindacb/navigatebd/internal/booking"
	"github.com/gobindacb/navigatebd/internal/config"
	"github.com/gobindacb/navigatebd/internal/packages"
	"github.com/gobindacb/navigatebd/internal/story"
	"github.com/gobindacb/navigatebd/internal/user"
	"github.com/gobindacb/navigatebd/internal/wishlist"
)

// Server owns the HTTP listener and the wired application graph.
type Server struct {
	logger *zap.Logger
	http   *http.Server
}

// New builds repositories against the injected mongo client, wires
// services and handlers, and prepares the HTTP server.
func New(cfg *config.Config, client *mongo.Client, logger *zap.Logger) *Server {
	db := client.Database(cfg.MongoConfig.Database)

	userRepo := user.NewMongoRepository(db, logger)
	packageRepo := packages.NewMongoRepository(db, logger)
	wishRepo := wishlist.NewMongoRepository(db, logger)
	storyRepo := story.NewMongoRepository(db, logger)
	bookingRepo := booking.NewMongoRepository(db, logger)

	tokens := auth.NewTokenService(cfg.JWTConfig, logger)
	mw := auth.NewMiddleware(tokens, userRepo, logger)

	handlers := Handlers{
		Token:    auth.NewTokenHandler(tokens, logger),
		User:     user.NewHandler(userRepo, logger),
		Packages: packages.NewHandler(packageRepo, logger),
		Wishlist: wishlist.NewHandler(wishRepo, logger),
		Story:    story.NewHandler(storyRepo, logger),
		Booking:  booking.NewHandler(bookingRepo, logger),
	}

	router := NewRouter(cfg, client, mw, handlers, logger)

	return &Server{
		logger: logger,
		http: &http.Server{
			Addr:         cfg.AppConfig.Address(),
			Handler:      router,
			ReadTimeout:  cfg.AppConfig.ReadTimeout,
			WriteTimeout: cfg.AppConfig.WriteTimeout,
			IdleTimeout:  cfg.AppConfig.IdleTimeout,
		},
	}
}

// Start blocks serving requests until Shutdown or failure.
func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
