// Command certctl is the operator CLI for the certificates service. It reads
// the same environment as the server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/usapupgrade/certs/internal/certs/app"
	"github.com/usapupgrade/certs/internal/certs/store"
	"github.com/usapupgrade/certs/pkg/slogx"
)

var Version = "dev"

// errReported is returned after a command has already printed why it failed.
var errReported = errors.New("")

type env struct {
	cfg app.Config
}

func (e *env) openStore() (store.Store, error) {
	return app.OpenStore(e.cfg)
}

func (e *env) logger(w io.Writer) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "certctl",
		Version: Version,
		Env:     e.cfg.Env,
		Level:   e.cfg.LogLevel,
		Format:  "text",
		Output:  w,
	})
}

func (e *env) hashKey(logger *slog.Logger) ([]byte, error) {
	return app.InitHashKey(e.cfg, logger)
}

func newRootCmd(cfg app.Config) *cobra.Command {
	e := &env{cfg: cfg}

	rootCmd := &cobra.Command{
		Use:           "certctl",
		Short:         "Operator tooling for the certificates service",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&e.cfg.DatabaseDriver, "driver", cfg.DatabaseDriver, "database driver (sqlite, postgres)")
	rootCmd.PersistentFlags().StringVar(&e.cfg.DatabaseFile, "db", cfg.DatabaseFile, "SQLite database file")

	rootCmd.AddCommand(migrateCmd(e))
	rootCmd.AddCommand(verifyCmd(e))
	rootCmd.AddCommand(renderCmd(e))
	rootCmd.AddCommand(auditCmd(e))
	rootCmd.AddCommand(tierCmd(e))

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd(app.LoadConfig()).ExecuteContext(ctx)
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}
