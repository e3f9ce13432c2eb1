package service

import (
	"io"
	"log/slog"
	"os"

	"masterblog/app/config"
	"masterblog/app/models"
	"masterblog/app/repositories"
)

var osExit = os.Exit

// backupDir is where backup writes its snapshots.
var backupDir = "data/backups"

// NewLogger builds the process logger at the configured level.
func NewLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel}))
}

// OpenRepository opens the storage backend selected by cfg. The returned
// close func releases it and is never nil.
func OpenRepository(cfg *config.Config) (repositories.PostRepository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store {
	case config.StoreMemory:
		var seed []models.Post
		if cfg.Seed {
			seed = models.SeedPosts()
		}
		return repositories.NewMemoryPostRepository(seed...), noop, nil
	case config.StoreBadger:
		db, err := repositories.OpenBadger(cfg.BadgerDir)
		if err != nil {
			return nil, noop, err
		}
		return repositories.NewBadgerPostRepository(db), db.Close, nil
	default:
		return repositories.NewFilePostRepository(cfg.DataFile), noop, nil
	}
}

// dataPath is the on-disk location of the configured store.
func dataPath(cfg *config.Config) string {
	if cfg.Store == config.StoreBadger {
		return cfg.BadgerDir
	}
	return cfg.DataFile
}
