package main

import (
	"fmt"
	"os"
	"strings"

	"masterblog/app/config"
	"masterblog/service"

	"github.com/joho/godotenv"
)

const CliVersion = "1.0.0"

var exit = os.Exit

func main() {
	RealMain()
}

// RealMain dispatches the command line. It is split from main so tests can
// drive it with their own os.Args.
func RealMain() {
	if len(os.Args) < 2 {
		printHelp()
		exit(1)
		return
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: failed to load .env: %v\n", err)
	}

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "help":
		printHelp()
	case "version":
		fmt.Printf("masterblog version %s\n", CliVersion)
	case "serve", "init", "clean", "backup", "restore":
		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			exit(1)
			return
		}
		if code := service.HandleCommand(os.Args[1:], cfg); code != 0 {
			exit(code)
		}
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printHelp()
		exit(1)
	}
}

func printHelp() {
	helpText := `Usage: masterblog <command> [options]
Commands:
  help                           Display this help message.
  version                        Show version information.
  serve                          Run the blog API (MASTERBLOG_ADDR or PORT, default :5002).
  init                           Create the data store with the sample posts.
  clean                          Remove the stored posts.
  backup                         Create a backup of the stored posts in data/backups.
  restore <file>                 Restore posts from a backup.
`
	fmt.Println(helpText)
}
