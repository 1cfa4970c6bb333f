package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/attendance-report/internal"
	"github.com/frahmantamala/attendance-report/internal/auth"
	authPostgres "github.com/frahmantamala/attendance-report/internal/auth/postgres"
	"github.com/frahmantamala/attendance-report/pkg/logger"
	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Session maintenance commands",
}

var purgeSessionsCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired sessions",
	Long:  `Delete expired sessions once, or every --interval until interrupted. Only the database session backend is stored outside the server process.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSessionPurge(cmd.Context())
	},
}

var purgeInterval time.Duration

func runSessionPurge(ctx context.Context) error {
	config, err := loadConfig(".")
	if err != nil {
		return err
	}
	if config.Security.SessionBackend != internal.SessionBackendDatabase {
		return errors.New("sessions purge needs the database session backend")
	}

	lg := logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)

	db, err := initDB(config.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	// identity lookups are not needed for purging
	sessions := auth.NewSessionManager(authPostgres.NewSessionStore(db), nil, config.Security.SessionTTL(), lg)

	purge := func() error {
		pctx, cancel := internal.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		n, err := sessions.PurgeExpired(pctx)
		if err != nil {
			return fmt.Errorf("purge sessions: %w", err)
		}
		lg.Info("session purge finished", "deleted", n)
		return nil
	}

	if purgeInterval <= 0 {
		return purge()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	lg.Info("session purge worker running. Press Ctrl+C to stop.", "interval", purgeInterval)
	for {
		if err := purge(); err != nil {
			lg.Error("session purge failed", "error", err)
		}
		select {
		case sig := <-sigChan:
			lg.Info("received signal, stopping session purge worker", "signal", sig)
			return nil
		case <-ticker.C:
		}
	}
}

func init() {
	purgeSessionsCmd.Flags().DurationVar(&purgeInterval, "interval", 0, "Repeat the purge at this interval (0 runs once)")

	sessionsCmd.AddCommand(purgeSessionsCmd)

	rootCmd.AddCommand(sessionsCmd)
}
