// Command fetch-exports pulls the nightly SIS export files over SFTP into the
// raw data dir, and optionally snapshots the spreadsheet intake tabs beside
// them so a run can replay offline.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"cp-etl/internal/config"
	"cp-etl/internal/export"
	"cp-etl/internal/pipeline"
	"cp-etl/internal/sftpclient"
	"cp-etl/internal/sheetsclient"
	"cp-etl/internal/sources"
	"cp-etl/internal/table"
)

func main() {
	var (
		snapshot = flag.Bool("snapshot-sheets", false, "also save the spreadsheet intake tabs as raw CSVs")
		timeout  = flag.Duration("timeout", 30*time.Minute, "fetch deadline")
	)
	flag.Parse()

	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("config", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := sftpclient.DownloadFiles(ctx, sftpclient.Config{
		Host:      cfg.SFTP.Host,
		Port:      cfg.SFTP.Port,
		User:      cfg.SFTP.User,
		Pass:      cfg.SFTP.Pass,
		RemoteDir: cfg.SFTP.RemoteDir,
	}, cfg.RawDir, cfg.SFTP.Files); err != nil {
		log.Fatalw("fetch exports", "error", err)
	}
	log.Infow("exports fetched", "dir", cfg.RawDir, "files", len(cfg.SFTP.Files))

	if !*snapshot {
		return
	}
	if cfg.Sheets.CredentialsFile == "" {
		log.Fatalw("snapshot-sheets needs CP_SHEETS_CREDENTIALS_FILE")
	}
	sheetsCli, err := sheetsclient.New(ctx, cfg.Sheets.CredentialsFile)
	if err != nil {
		log.Fatalw("sheets client", "error", err)
	}
	for name, src := range pipeline.DefaultSources(cfg, sheetsCli) {
		if _, ok := src.(sources.Sheet); !ok {
			continue
		}
		t, err := src.Read(ctx, table.LoadOptions{})
		if err != nil {
			log.Fatalw("snapshot tab", "source", name, "error", err)
		}
		path, err := export.SaveInterim(cfg.RawDir, name+".csv", t)
		if err != nil {
			log.Fatalw("snapshot tab", "source", name, "error", err)
		}
		log.Infow("tab saved", "source", name, "path", path, "rows", t.Len())
	}
}
