package service

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"masterblog/app/config"
	"masterblog/app/controllers"
	"masterblog/app/routes"
	"masterblog/app/services"

	"github.com/pkg/errors"
)

// NewHandler builds the HTTP handler for the blog API over the configured
// store. The returned close func releases the store.
func NewHandler(cfg *config.Config, logger *slog.Logger) (http.Handler, func() error, error) {
	repo, closeRepo, err := OpenRepository(cfg)
	if err != nil {
		return nil, closeRepo, err
	}

	postController := controllers.NewPostController(services.NewPostService(repo), logger)
	router := routes.NewRouter(postController, routes.Options{
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
	})
	return router, closeRepo, nil
}

// RunAppServer serves the blog API until ctx is cancelled.
func RunAppServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	handler, closeRepo, err := NewHandler(cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("starting blog API", "addr", cfg.Addr, "store", cfg.Store, "data", dataPath(cfg))
	return runServer(ctx, srv)
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
