// Package main provides the signaledit binary: an interactive, line-driven
// editor for the traffic signal plans of a map, plus tools to inspect,
// list, watch and render persisted edit sets.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/anggasct/signaledit/pkg/config"
	"github.com/anggasct/signaledit/pkg/signal"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "signaledit"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			var inv *signal.InvariantError
			if err, ok := r.(error); ok && errors.As(err, &inv) {
				_, _ = fmt.Fprintf(os.Stderr, "INVARIANT VIOLATED: %v\n", inv)
			}
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries what every subcommand needs once flags are parsed
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

func rootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Traffic signal cycle editor",
		Long: `signaledit edits the signal plan of one intersection at a time.

A plan is an ordered list of cycles; each cycle gives every turn through the
intersection a priority (Priority, Yield or Banned) for a number of seconds.
Edits are committed to a named edit set that can be saved, listed, watched
and published to a running simulation over NATS.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		editCmd(a),
		describeCmd(a),
		listCmd(a),
		watchCmd(a),
		dotCmd(a),
		versionCmd(),
	)

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}

// setup loads configuration and configures logging
func (a *app) setup() error {
	bootstrap := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg, err := config.NewLoader(bootstrap).Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)
	a.cfg = cfg
	return nil
}
