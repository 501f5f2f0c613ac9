package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogplatform/app/config"
	"blogplatform/app/database"
	"blogplatform/app/mailer"
	"blogplatform/app/routes"
	"blogplatform/app/services"
)

const shutdownTimeout = 15 * time.Second

// RunAppServer starts the blog service and blocks until it is interrupted.
func RunAppServer(args []string) int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(stdout, "Failed to load configuration: %v\n", err)
		return 1
	}
	for i := 0; i < len(args); i++ {
		if args[i] == "--port" && i+1 < len(args) {
			cfg.Port = args[i+1]
			i++
		}
	}

	logger := newLogger(stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := database.Open(ctx, cfg.Database, cfg.RunMigrations, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return 1
	}
	defer store.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           BuildHandler(cfg, store, mailer.New(cfg.Mail, logger), logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		logger.Error("failed to listen", "addr", srv.Addr, "error", err)
		return 1
	}
	logger.Info("starting blog service", "addr", ln.Addr().String(), "database", store.Info().Database)

	if err := Serve(ctx, srv, ln, logger); err != nil {
		logger.Error("server error", "error", err)
		return 1
	}
	return 0
}

// BuildHandler wires services and controllers over an open store.
func BuildHandler(cfg config.Config, store *database.Store, m mailer.Mailer, logger *slog.Logger) http.Handler {
	notifications := services.NewNotificationService(store.Subscribers, store.Posts, m, cfg.SiteURL, logger)
	return routes.NewHandler(routes.Deps{
		Posts:          services.NewPostService(store.Posts, store.Comments, notifications, logger),
		Comments:       services.NewCommentService(store.Comments, store.Posts),
		Subscribers:    services.NewSubscriberService(store.Subscribers),
		Notifications:  notifications,
		Uploads:        services.NewUploadService(cfg.UploadDir, logger),
		Store:          store,
		StaticDir:      cfg.StaticDir,
		AllowedOrigins: cfg.CorsAllowedOrigins,
		Logger:         logger,
	})
}

// Serve runs srv on ln until ctx is cancelled, then drains in-flight
// requests.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
