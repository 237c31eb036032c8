package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/smarthomes/backend/internal/infrastructure/config"
	"github.com/smarthomes/backend/internal/infrastructure/logger"
	"github.com/smarthomes/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	// Parse flags
	var (
		logLevel   string
		toDriver   string
		toDataDir  string
		toBoltPath string
		toSQLite   string
		overwrite  bool
	)

	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&toDriver, "to", "", "Target storage driver for copy: file, bolt, sqlite, postgres")
	flag.StringVar(&toDataDir, "to-data-dir", "", "Target directory for the file driver")
	flag.StringVar(&toBoltPath, "to-bolt-path", "", "Target database file for the bolt driver")
	flag.StringVar(&toSQLite, "to-sqlite-path", "", "Target database file for the sqlite driver")
	flag.BoolVar(&overwrite, "overwrite", false, "Replace documents that already exist in the target")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	// Load configuration; it selects the source store
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	src, err := persistence.OpenStore(cfg, log)
	if err != nil {
		log.Fatal("Failed to open source store", zap.Error(err))
	}
	defer func() {
		_ = src.Close()
	}()

	switch command {
	case "list":
		names, err := src.Names(ctx)
		if err != nil {
			log.Fatal("Failed to list documents", zap.Error(err))
		}
		for _, name := range names {
			fmt.Println(name)
		}

	case "seed":
		// Loading the catalog with defaults writes it when missing
		repo, err := persistence.NewCatalogRepository(src, true, persistence.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to prepare catalog", zap.Error(err))
		}
		if err := repo.Collection.Load(ctx); err != nil {
			log.Fatal("Failed to seed catalog", zap.Error(err))
		}
		log.Info("Catalog ready", zap.String("driver", src.Driver()))

	case "copy":
		if toDriver == "" {
			log.Fatal("Target driver required. Usage: migrate -to <driver> copy")
		}
		target := *cfg
		target.Storage.Driver = toDriver
		if toDataDir != "" {
			target.Storage.DataDir = toDataDir
		}
		if toBoltPath != "" {
			target.Storage.BoltPath = toBoltPath
		}
		if toSQLite != "" {
			target.Storage.SQLitePath = toSQLite
		}
		if target.Storage == cfg.Storage {
			log.Fatal("Source and target store are the same")
		}

		dst, err := persistence.OpenStore(&target, log)
		if err != nil {
			log.Fatal("Failed to open target store", zap.Error(err))
		}
		defer func() {
			_ = dst.Close()
		}()

		result, err := persistence.CopyDocuments(ctx, src, dst, overwrite)
		if err != nil {
			log.Fatal("Copy failed", zap.Error(err))
		}
		log.Info("Copy finished",
			zap.String("from", src.Driver()),
			zap.String("to", dst.Driver()),
			zap.Strings("copied", result.Copied),
			zap.Strings("skipped", result.Skipped),
		)

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`SmartHomes Document Store Tool

Usage:
  migrate [flags] <command>

Commands:
  list                  List the documents in the configured store
  seed                  Write the default product catalog if it is missing
  copy                  Copy every document into the store chosen by -to

Flags:
  -to string            Target driver: file, bolt, sqlite, postgres
  -to-data-dir string   Target directory for the file driver
  -to-bolt-path string  Target file for the bolt driver
  -to-sqlite-path string
                        Target file for the sqlite driver
  -overwrite            Replace documents that already exist in the target
  -log-level string     Log level: debug, info, warn, error (default: info)

Environment Variables:
  SHOP_STORAGE_DRIVER, SHOP_STORAGE_DATA_DIR, SHOP_DATABASE_HOST, ...

Examples:
  # Move the JSON files into SQLite
  migrate -to sqlite -to-sqlite-path ./data/smarthomes.sqlite copy

  # Show what the bolt store holds
  SHOP_STORAGE_DRIVER=bolt migrate list`)
}
