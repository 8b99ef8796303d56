// Command seed-dictionary loads a JSON dictionary file into PostgreSQL,
// replacing the stored dictionary. The file is validated exactly as the
// server would parse it before anything is written.
//
// Flags:
//
//	--file     path to the JSON dictionary (default: dictionary.path from config)
//	--migrate  apply migrations before writing (default: true)
//	--dry-run  validate the file without writing to DB
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/rucheng-dialect/internal/adapter/asset/fileasset"
	"github.com/heartmarshall/rucheng-dialect/internal/adapter/postgres"
	"github.com/heartmarshall/rucheng-dialect/internal/app"
	"github.com/heartmarshall/rucheng-dialect/internal/config"
	"github.com/heartmarshall/rucheng-dialect/internal/dictionary"
	"github.com/heartmarshall/rucheng-dialect/internal/domain"
)

func main() {
	fileFlag := flag.String("file", "", "path to the JSON dictionary (default: dictionary.path from config)")
	migrateFlag := flag.Bool("migrate", true, "apply migrations before writing")
	dryRunFlag := flag.Bool("dry-run", false, "validate the file without writing to DB")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load app config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	path := *fileFlag
	if path == "" {
		path = cfg.Dictionary.Path
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	payload, err := fileasset.NewSource(path, logger).Fetch(ctx)
	if err != nil {
		logger.Error("read dictionary", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store := dictionary.NewStore()
	if err := store.Load(payload); err != nil {
		logger.Error("validate dictionary", slog.String("path", path), slog.String("error", err.Error()))
		os.Exit(1)
	}

	entries := make([]domain.Entry, 0, store.Size())
	for key, recs := range store.Entries() {
		entries = append(entries, domain.Entry{Key: key, Records: recs})
	}

	logger.Info("dictionary validated", slog.String("path", path), slog.Int("entries", len(entries)))

	if *dryRunFlag {
		logger.Info("dry run: nothing written")
		return
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if *migrateFlag {
		if err := postgres.MigratePool(ctx, pool, logger); err != nil {
			logger.Error("migrate", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	repo := postgres.NewDictionaryRepo(pool, logger)
	if err := repo.ReplaceAll(ctx, path, entries); err != nil {
		logger.Error("replace dictionary", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("seed complete", slog.Int("entries", len(entries)))
}
