// Command coursework rebuilds the course reconciliation and pathway views
// from the SIS exports already on disk.
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

	pctx := pipeline.NewContext(cfg, log, pipeline.DefaultSources(cfg, nil))
	res, err := pctx.RunCoursework(ctx)
	if err != nil {
		log.Fatalw("coursework", "error", err)
	}

	fmt.Println(pctx.Report.Render())
	log.Infow("done", "records", res.Records.Len(), "pathways", len(res.PathwayCols))
}
