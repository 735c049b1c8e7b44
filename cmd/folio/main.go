package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/folio/internal/config"
	folioerrors "github.com/vango-dev/folio/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
}

func newRootCmd(out io.Writer) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "folio",
		Short: "A server-driven personal portfolio page",
		Long: `folio serves a personal portfolio page whose interactivity runs on
the server: mobile menu, scroll spy, reveal animations, project details
and a contact form that keeps in-progress text across reloads.

Configuration is read from folio.yaml and FOLIO_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)
	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", config.DefaultFile, "Path to the config file")

	rootCmd.AddCommand(
		serveCmd(flags),
		storeCmd(flags),
		configCmd(flags),
		versionCmd(),
	)
	return rootCmd
}

// loadConfig loads and validates the configuration.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger from the log section.
func newLogger(w io.Writer, lc config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(lc.Level))); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if lc.Format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// printError prints coded errors in full and anything else on one line.
func printError(w io.Writer, err error) {
	var ferr *folioerrors.FolioError
	if stderrors.As(err, &ferr) {
		fmt.Fprint(w, ferr.Format())
		return
	}
	fmt.Fprintf(w, "\033[31mError:\033[0m %s\n", err)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
