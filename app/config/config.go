package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Storage backends selectable with MASTERBLOG_STORE.
const (
	StoreFile   = "file"
	StoreMemory = "memory"
	StoreBadger = "badger"
)

// Config holds the runtime settings of the blog API.
type Config struct {
	Addr        string
	Store       string
	DataFile    string
	BadgerDir   string
	CORSOrigins []string
	LogLevel    slog.Level
	Seed        bool
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	addr, err := loadAddr()
	if err != nil {
		return nil, err
	}

	store := strings.ToLower(getEnvOrDefault("MASTERBLOG_STORE", StoreFile))
	switch store {
	case StoreFile, StoreMemory, StoreBadger:
	default:
		return nil, fmt.Errorf("invalid MASTERBLOG_STORE value %q: want file, memory or badger", store)
	}

	level, err := parseLevel(getEnvOrDefault("MASTERBLOG_LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	seed, err := parseBoolEnv("MASTERBLOG_SEED", false)
	if err != nil {
		return nil, err
	}

	return &Config{
		Addr:        addr,
		Store:       store,
		DataFile:    getEnvOrDefault("MASTERBLOG_DATA_FILE", "data/posts.json"),
		BadgerDir:   getEnvOrDefault("MASTERBLOG_BADGER_DIR", "data/badger"),
		CORSOrigins: splitList(getEnvOrDefault("MASTERBLOG_CORS_ORIGINS", "*")),
		LogLevel:    level,
		Seed:        seed,
	}, nil
}

// loadAddr resolves the listen address. MASTERBLOG_ADDR wins over PORT.
func loadAddr() (string, error) {
	if addr := strings.TrimSpace(os.Getenv("MASTERBLOG_ADDR")); addr != "" {
		return addr, nil
	}

	port := getEnvOrDefault("PORT", "5002")
	if strings.Contains(port, ":") {
		return port, nil
	}
	if _, err := strconv.Atoi(port); err != nil {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}
	return ":" + port, nil
}

func parseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return 0, fmt.Errorf("invalid MASTERBLOG_LOG_LEVEL value %q: %w", raw, err)
	}
	return level, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}
