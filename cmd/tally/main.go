package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/tally/internal/cli"
	"github.com/alexanderramin/tally/internal/config"
	"github.com/alexanderramin/tally/internal/db"
	"github.com/alexanderramin/tally/internal/repository"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine config path: env var or default ~/.config/tally/config.yaml
	cfgPath := os.Getenv("TALLY_CONFIG")
	if cfgPath == "" {
		var err error
		cfgPath, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}

	cfgSource, err := config.NewFileSource(cfgPath)
	if err != nil {
		return err
	}

	// Determine DB path: config, env var, or default ~/.tally/tally.db
	dbPath := cfgSource.Snapshot().DBPath
	if dbPath == "" {
		dbPath, err = config.DefaultDBPath()
		if err != nil {
			return err
		}
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	app := &cli.App{
		Counters:    repository.NewSQLiteCounterRepo(database),
		History:     repository.NewSQLiteProjectHistoryRepo(database),
		Submissions: repository.NewSQLiteSubmissionRepo(database),
		Config:      cfgSource,
		Out:         os.Stdout,
		LogWriter:   os.Stderr,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
