// Command attendance runs only the session-attendance stage, for reprocessing
// a corrected intake tab without touching the coursework views.
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
	"cp-etl/internal/pipeline"
	"cp-etl/internal/sheetsclient"
)

func main() {
	timeout := flag.Duration("timeout", 30*time.Minute, "run deadline")
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

	var sheetsCli *sheetsclient.Client
	if cfg.Sheets.CredentialsFile != "" {
		sheetsCli, err = sheetsclient.New(ctx, cfg.Sheets.CredentialsFile)
		if err != nil {
			log.Fatalw("sheets client", "error", err)
		}
	}

	pctx := pipeline.NewContext(cfg, log, pipeline.DefaultSources(cfg, sheetsCli))
	wide, err := pctx.RunAttendance(ctx)
	if err != nil {
		log.Fatalw("attendance", "error", err)
	}

	fmt.Println(pctx.Report.Render())
	log.Infow("done", "students", wide.Len())
}
