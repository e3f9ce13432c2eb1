package service

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"masterblog/app/config"
	"masterblog/app/models"
	"masterblog/app/repositories"

	"github.com/pkg/errors"
)

// HandleCommand runs a blog subcommand and returns an exit code.
func HandleCommand(args []string, cfg *config.Config) int {
	if len(args) < 1 {
		printCommandHelp()
		osExit(1)
		return 1
	}

	cmd := args[0]
	switch cmd {
	case "serve":
		return serve(cfg)
	case "clean":
		return clean(cfg)
	case "init":
		return initData(cfg)
	case "backup":
		return backup(cfg)
	case "restore":
		if len(args) < 2 {
			fmt.Println("Error: backup file path required for restore")
			return 1
		}
		return restore(cfg, args[1])
	case "help":
		printCommandHelp()
		return 0
	default:
		fmt.Printf("Unknown command: %s\n\n", cmd)
		printCommandHelp()
		osExit(1)
		return 1
	}
}

// printCommandHelp prints help for blog subcommands.
func printCommandHelp() {
	helpText := `Usage: masterblog <command>

Commands:
  serve                           Run the blog API
  clean                           Remove the stored posts
  init                            Create the data store with the sample posts
  backup                          Create a backup of the stored posts
  restore [file]                  Restore posts from a backup
  help                            Display this help message

The store is selected with MASTERBLOG_STORE (file, memory, badger).
`
	fmt.Println(helpText)
}

// serve runs the API until SIGINT or SIGTERM.
func serve(cfg *config.Config) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := NewLogger(os.Stderr, cfg)
	if err := RunAppServer(ctx, cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		return 1
	}
	return 0
}

// clean removes the stored posts.
func clean(cfg *config.Config) int {
	if cfg.Store == config.StoreMemory {
		fmt.Println("Memory store keeps nothing on disk")
		return 0
	}

	path := dataPath(cfg)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println("Data store is already clean (does not exist)")
		return 0
	}

	fmt.Print("Are you sure you want to remove all posts? This cannot be undone. [y/N] ")
	var response string
	fmt.Scanln(&response)
	if response != "y" && response != "Y" {
		fmt.Println("Operation cancelled")
		return 0
	}

	if err := os.RemoveAll(path); err != nil {
		fmt.Printf("Failed to clean data store: %v\n", err)
		return 1
	}
	fmt.Println("Data store cleaned successfully")
	return 0
}

// initData creates the data store holding the sample posts.
func initData(cfg *config.Config) int {
	if cfg.Store == config.StoreMemory {
		fmt.Println("Memory store needs no initialization; set MASTERBLOG_SEED=true to start with sample posts")
		return 0
	}

	if _, err := os.Stat(dataPath(cfg)); err == nil {
		fmt.Println("Data store already exists. Use 'clean' first if you want to reinitialize.")
		return 0
	}

	repo, closeRepo, err := OpenRepository(cfg)
	if err != nil {
		fmt.Printf("Failed to open data store: %v\n", err)
		return 1
	}
	defer closeRepo()

	if err := repo.Save(models.SeedPosts()); err != nil {
		fmt.Printf("Failed to initialize data store: %v\n", err)
		return 1
	}

	fmt.Printf("Data store initialized successfully at %s\n", dataPath(cfg))
	return 0
}

// backup snapshots the data store into backupDir.
func backup(cfg *config.Config) int {
	if cfg.Store == config.StoreMemory {
		fmt.Println("Memory store has nothing to backup")
		return 1
	}

	if _, err := os.Stat(dataPath(cfg)); os.IsNotExist(err) {
		fmt.Println("No data store exists to backup")
		return 1
	}

	if err := os.MkdirAll(backupDir, 0755); err != nil {
		fmt.Printf("Failed to create backup directory: %v\n", err)
		return 1
	}

	var backupFile string
	var err error
	if cfg.Store == config.StoreBadger {
		backupFile, err = backupBadger(cfg)
	} else {
		backupFile, err = backupFileStore(cfg)
	}
	if err != nil {
		fmt.Printf("Failed to backup data store: %v\n", err)
		return 1
	}

	fmt.Printf("Data store backed up successfully to %s\n", backupFile)
	return 0
}

func backupFileStore(cfg *config.Config) (string, error) {
	posts, err := repositories.NewFilePostRepository(cfg.DataFile).Load()
	if err != nil {
		return "", err
	}

	backupFile := filepath.Join(backupDir, fmt.Sprintf("posts_%d.json", time.Now().UnixNano()))
	if err := repositories.NewFilePostRepository(backupFile).Save(posts); err != nil {
		return "", err
	}
	return backupFile, nil
}

func backupBadger(cfg *config.Config) (_ string, err error) {
	db, err := repositories.OpenBadger(cfg.BadgerDir)
	if err != nil {
		return "", err
	}
	defer db.Close()

	backupFile := filepath.Join(backupDir, fmt.Sprintf("backup_%d.db", time.Now().UnixNano()))
	f, err := os.Create(backupFile)
	if err != nil {
		return "", errors.Wrap(err, "failed to create backup file")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "failed to close %s", backupFile)
		}
		if err != nil {
			os.Remove(backupFile)
		}
	}()

	if _, err := db.Backup(f, 0); err != nil {
		return "", errors.Wrap(err, "badger backup failed")
	}
	return backupFile, nil
}

// restore replaces the data store with the contents of backupFile.
func restore(cfg *config.Config, backupFile string) int {
	if cfg.Store == config.StoreMemory {
		fmt.Println("Memory store cannot be restored")
		return 1
	}

	fi, err := os.Stat(backupFile)
	if os.IsNotExist(err) {
		fmt.Printf("Backup file does not exist: %s\n", backupFile)
		return 1
	}
	if err != nil {
		fmt.Printf("Failed to stat backup file: %v\n", err)
		return 1
	}
	if fi.Size() == 0 {
		fmt.Printf("Backup file is empty: %s\n", backupFile)
		return 1
	}

	path := dataPath(cfg)
	if _, err := os.Stat(path); err == nil {
		fmt.Print("Existing data store found. Do you want to replace it? [y/N] ")
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Operation cancelled")
			return 1
		}
	}

	if cfg.Store == config.StoreBadger {
		err = restoreBadger(cfg, backupFile)
	} else {
		err = restoreFileStore(cfg, backupFile)
	}
	if err != nil {
		fmt.Printf("Failed to restore data store: %v\n", err)
		return 1
	}

	fmt.Println("Data store restored successfully")
	return 0
}

func restoreFileStore(cfg *config.Config, backupFile string) error {
	posts, err := repositories.NewFilePostRepository(backupFile).Load()
	if err != nil {
		return err
	}
	if err := models.ValidatePosts(posts); err != nil {
		return errors.Wrapf(err, "invalid backup %s", backupFile)
	}
	return repositories.NewFilePostRepository(cfg.DataFile).Save(posts)
}

// restoreBadger loads the backup into a fresh directory next to BadgerDir and
// swaps it in only once the load succeeded.
func restoreBadger(cfg *config.Config, backupFile string) error {
	parent := filepath.Dir(cfg.BadgerDir)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return errors.Wrapf(err, "failed to create %s", parent)
	}

	stagingDir, err := os.MkdirTemp(parent, filepath.Base(cfg.BadgerDir)+".restore-*")
	if err != nil {
		return errors.Wrap(err, "failed to create staging directory")
	}
	defer os.RemoveAll(stagingDir)

	if err := loadBadgerBackup(stagingDir, backupFile); err != nil {
		return err
	}

	if err := os.RemoveAll(cfg.BadgerDir); err != nil {
		return errors.Wrapf(err, "failed to remove %s", cfg.BadgerDir)
	}
	if err := os.Rename(stagingDir, cfg.BadgerDir); err != nil {
		return errors.Wrapf(err, "failed to move restored data into %s", cfg.BadgerDir)
	}
	return nil
}

func loadBadgerBackup(dir, backupFile string) (err error) {
	db, err := repositories.OpenBadger(dir)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "failed to close restored database")
		}
	}()

	f, err := os.Open(backupFile)
	if err != nil {
		return errors.Wrap(err, "failed to open backup file")
	}
	defer f.Close()

	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic occurred during restore: %v", r)
		}
	}()
	return db.Load(f, 4)
}
