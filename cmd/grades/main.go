// Command grades attaches a registrar grade export to the catalog sections.
//
//	grades -file "Fall 2019.csv" -semester 19F
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/nebula-labs/catalog/internal/config"
	"github.com/nebula-labs/catalog/internal/db/dial"
	"github.com/nebula-labs/catalog/internal/domain/grade"
	domres "github.com/nebula-labs/catalog/internal/domain/resource"
	logpkg "github.com/nebula-labs/catalog/internal/logger"
	"github.com/nebula-labs/catalog/internal/usecase/grades"
	"github.com/nebula-labs/catalog/internal/version"
)

const logDir = "logs"

func main() {
	file := flag.String("file", "", "csv grade file to be parsed")
	semester := flag.String("semester", "", "semester of the grades, ex: 18U, 19F")
	flag.Parse()

	if *file == "" || *semester == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*file, *semester); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(path, session string) error {
	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := os.MkdirAll(logDir, 0o750); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	logFile := filepath.Join(logDir, filepath.Base(path)+".log")

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level, logFile)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting grade import",
		zap.String("version", version.String()),
		zap.String("file", path),
		zap.String("session", session),
	)

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("could not open file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	sheet, err := grade.Parse(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	for _, w := range sheet.Warnings {
		logger.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := dial.Open(ctx, cfg.Database, cfg.Storage)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}

	importer := grades.NewImporter(
		store.Collection(cfg.Storage.Collection(domres.Course)),
		store.Collection(cfg.Storage.Collection(domres.Section)),
		logger,
	)

	rep, err := importer.Import(ctx, sheet.Classes, session)
	logger.Info("Grade import finished",
		zap.Int("classes", len(sheet.Classes)),
		zap.Int("updated", rep.Updated),
		zap.Int("failed", len(rep.Failures)),
	)
	return err
}
