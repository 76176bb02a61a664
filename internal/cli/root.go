// Package cli implements zonectl, the command line front end for running
// schedules and maintaining the roster without the HTTP service.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/config"
	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/database"
	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/roster"
)

// App carries what every command needs. Store is opened from the database
// flags before a command runs unless it is already set.
type App struct {
	Config *config.Config
	Store  roster.Store
	Log    *logrus.Logger
	Out    io.Writer
}

// NewRootCmd builds the zonectl command tree around app
func NewRootCmd(app *App) *cobra.Command {
	var (
		logLevel    string
		dataPath    string
		databaseURL string
	)

	root := &cobra.Command{
		Use:           "zonectl",
		Short:         "Assign roster persons to daily zones",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logLevel != "" {
				level, err := logrus.ParseLevel(logLevel)
				if err != nil {
					return err
				}
				app.Log.SetLevel(level)
			}
			if app.Store != nil {
				return nil
			}
			db, err := database.InitDB(databaseURL, dataPath)
			if err != nil {
				return err
			}
			app.Store = roster.NewGormStore(db)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log", "", "Log level (trace, debug, info, warn, error)")
	root.PersistentFlags().StringVar(&dataPath, "db", app.Config.DataPath, "SQLite database file")
	root.PersistentFlags().StringVar(&databaseURL, "database-url", app.Config.DatabaseURL, "PostgreSQL connection URL; overrides --db")

	root.AddCommand(newRunCmd(app), newRosterCmd(app))
	return root
}

// Execute runs zonectl with settings from .env and the environment.
// Ctrl-C cancels a run between days.
func Execute() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := &App{Config: cfg, Log: log, Out: os.Stdout}
	if err := NewRootCmd(app).ExecuteContext(ctx); err != nil {
		log.Error(err)
		stop()
		os.Exit(1)
	}
}
