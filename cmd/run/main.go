// Command run executes the full nightly pipeline: optional SIS export fetch,
// the attendance and coursework stages in parallel, the merged pathway view,
// publication, and the mailed run summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"cp-etl/internal/concurrency"
	"cp-etl/internal/config"
	"cp-etl/internal/notify"
	"cp-etl/internal/pipeline"
	"cp-etl/internal/s3client"
	"cp-etl/internal/sftpclient"
	"cp-etl/internal/sheetsclient"
	"cp-etl/internal/table"
)

type stage struct {
	name string
	run  func(context.Context) error
}

func main() {
	var (
		fetch   = flag.Bool("fetch", false, "pull SIS exports over SFTP before running")
		dryRun  = flag.Bool("dry-run", false, "build every table but skip sheet and S3 publication")
		timeout = flag.Duration("timeout", 2*time.Hour, "overall run deadline")
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	if *fetch {
		if err := sftpclient.DownloadFiles(ctx, sftpclient.Config{
			Host:      cfg.SFTP.Host,
			Port:      cfg.SFTP.Port,
			User:      cfg.SFTP.User,
			Pass:      cfg.SFTP.Pass,
			RemoteDir: cfg.SFTP.RemoteDir,
		}, cfg.RawDir, cfg.SFTP.Files); err != nil {
			log.Fatalw("fetch exports", "error", err)
		}
		log.Infow("exports fetched", "files", len(cfg.SFTP.Files))
	}

	var sheetsCli *sheetsclient.Client
	if cfg.Sheets.CredentialsFile != "" {
		sheetsCli, err = sheetsclient.New(ctx, cfg.Sheets.CredentialsFile)
		if err != nil {
			log.Fatalw("sheets client", "error", err)
		}
	}
	var s3Cli *s3client.Client
	if cfg.S3.Bucket != "" && !*dryRun {
		s3Cli, err = s3client.New(cfg.S3.Region, cfg.S3.Bucket)
		if err != nil {
			log.Fatalw("s3 client", "error", err)
		}
	}

	pctx := pipeline.NewContext(cfg, log, pipeline.DefaultSources(cfg, sheetsCli))

	// Attendance and coursework read disjoint sources, so they run side by
	// side. The final view needs the coursework result and runs after.
	var (
		attendanceWide table.Table
		courseResult   pipeline.CourseworkResult
	)
	stages := []stage{
		{"attendance", func(ctx context.Context) error {
			t, err := pctx.RunAttendance(ctx)
			attendanceWide = t
			return err
		}},
		{"coursework", func(ctx context.Context) error {
			r, err := pctx.RunCoursework(ctx)
			courseResult = r
			return err
		}},
	}
	_, errs := concurrency.ProcessParallel(ctx, stages, concurrency.Options{MaxWorkers: 2},
		func(ctx context.Context, _ int, s stage) (struct{}, error) {
			return struct{}{}, s.run(ctx)
		})
	for i, err := range errs {
		if err != nil {
			log.Fatalw("stage failed", "stage", stages[i].name, "error", err)
		}
	}

	view, err := pctx.RunFinalView(ctx, courseResult)
	if err != nil {
		log.Fatalw("final view", "error", err)
	}

	if *dryRun {
		log.Infow("dry run, skipping publication")
	} else {
		pub := pipeline.NewPublisher(pctx, sheetsCli, s3Cli)
		if err := pub.PublishAttendance(ctx, attendanceWide); err != nil {
			log.Fatalw("publish attendance", "error", err)
		}
		if err := pub.PublishFinalView(ctx, view.View); err != nil {
			log.Fatalw("publish final view", "error", err)
		}
	}

	summary := pctx.Report.Render()
	fmt.Println(summary)
	if err := notify.Send(cfg.SMTP, "career pathways run "+time.Now().Format("2006-01-02"), summary); err != nil {
		log.Errorw("mail summary", "error", err)
	}
	log.Infow("run complete", "students", view.View.Len())
}
