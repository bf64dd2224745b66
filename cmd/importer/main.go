package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"medistore/internal/config"
	"medistore/internal/db"
	"medistore/internal/importer"
	"medistore/internal/logging"
	medicinerepo "medistore/internal/repository/medicine"
)

type options struct {
	file   string
	format string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "importer",
		Short: "Load medicines or categories from a CSV or XLSX file",
		Long: `Upserts catalog rows keyed by SKU (medicines) or slug (categories).
The file kind is taken from its header row; a "sku" column means medicines.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "path to the catalog file")
	cmd.Flags().StringVar(&opts.format, "format", "", "csv or xlsx (default: from the file extension)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func run(ctx context.Context, opts *options) error {
	format, err := resolveFormat(opts.format, opts.file)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.AppEnv, "importer")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	pool, err := db.Connect(ctx, cfg.DBConnString, db.Options{}, logger)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer pool.Close()

	f, err := os.Open(opts.file)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	meds := medicinerepo.NewPostgres(pool, logger)
	var imp *importer.Importer
	switch format {
	case "xlsx":
		info, err := f.Stat()
		if err != nil {
			return fmt.Errorf("stat file: %w", err)
		}
		imp, err = importer.NewXLSXImporter(f, info.Size(), meds, meds)
		if err != nil {
			return err
		}
	default:
		imp = importer.NewCSVImporter(f, meds, meds)
	}

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Error("import failed", zap.String("file", opts.file), zap.Int("imported", count), zap.Error(err))
		return err
	}
	logger.Info("import finished",
		zap.String("file", opts.file),
		zap.Int("rows", count),
		zap.Duration("took", time.Since(start).Truncate(time.Millisecond)))
	return nil
}

func resolveFormat(flag, path string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(flag))
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch format {
	case "csv", "xlsx":
		return format, nil
	}
	return "", fmt.Errorf("unsupported format %q (want csv or xlsx)", format)
}
