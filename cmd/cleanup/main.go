// Command cleanup removes the generated CSVs from the interim and processed
// dirs before a fresh run. Raw source exports are left alone.
package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"cp-etl/internal/config"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "list the files without deleting them")
	flag.Parse()

	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("config", "error", err)
	}

	removed := 0
	for _, dir := range []string{cfg.InterimDir, cfg.ProcessedDir} {
		matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
		if err != nil {
			log.Fatalw("glob", "dir", dir, "error", err)
		}
		for _, path := range matches {
			if *dryRun {
				log.Infow("would remove", "path", path)
				continue
			}
			if err := os.Remove(path); err != nil {
				log.Fatalw("remove", "path", path, "error", err)
			}
			log.Infow("removed", "path", path)
			removed++
		}
	}
	log.Infow("cleanup done", "removed", removed)
}
