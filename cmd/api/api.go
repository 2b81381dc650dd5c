package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/KAsare1/liftlog-server/cmd/utils"
	"github.com/KAsare1/liftlog-server/config"
	"github.com/KAsare1/liftlog-server/service/access"
	"github.com/KAsare1/liftlog-server/service/comments"
	"github.com/KAsare1/liftlog-server/service/friends"
	"github.com/KAsare1/liftlog-server/service/likes"
	"github.com/KAsare1/liftlog-server/service/workout"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Store is everything the HTTP surface needs from persistence. Both
// db.Store and memstore.Store satisfy it.
type Store interface {
	access.FriendGraph
	workout.Store
	likes.Store
	comments.Store
	friends.Store
}

type APIServer struct {
	address   string
	cfg       *config.Config
	store     Store
	log       *slog.Logger
	accessLog io.Writer
}

func NewAPIServer(cfg *config.Config, store Store, log *slog.Logger) *APIServer {
	return &APIServer{
		address:   ":" + cfg.ServerPort,
		cfg:       cfg,
		store:     store,
		log:       log,
		accessLog: os.Stdout,
	}
}

// WithAccessLog redirects the combined access log.
func (s *APIServer) WithAccessLog(w io.Writer) *APIServer {
	s.accessLog = w
	return s
}

// Handler builds the full middleware chain and router.
func (s *APIServer) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/health", s.health).Methods("GET")

	subrouter := router.PathPrefix("/api/v1").Subrouter()
	subrouter.Use(utils.AuthMiddleware([]byte(s.cfg.SecretKey)))

	engine := access.NewEngine(s.store)

	workoutHandler := workout.NewWorkoutHandler(workout.NewService(s.store, engine, s.cfg.CalendarZone), s.log)
	workoutHandler.RegisterRoutes(subrouter)

	likeHandler := likes.NewLikeHandler(likes.NewService(s.store), s.log)
	likeHandler.RegisterRoutes(subrouter)

	commentHandler := comments.NewCommentHandler(comments.NewService(s.store), s.log)
	commentHandler.RegisterRoutes(subrouter)

	friendHandler := friends.NewFriendHandler(friends.NewService(s.store), s.log)
	friendHandler.RegisterRoutes(subrouter)

	cors := handlers.CORS(
		handlers.AllowedOrigins(s.cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(s.log.Handler(), slog.LevelError)),
	)

	return handlers.CombinedLoggingHandler(s.accessLog, recovery(cors(router)))
}

func (s *APIServer) health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *APIServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", "address", s.address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listening on %s: %w", s.address, err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
