package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-git/go-billy/v5/helper/polyfill"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/agentic-research/restcli/internal/config"
	"github.com/agentic-research/restcli/internal/format"
	"github.com/agentic-research/restcli/internal/ingest"
	"github.com/agentic-research/restcli/internal/logging"
	"github.com/agentic-research/restcli/internal/rest"
	"github.com/agentic-research/restcli/internal/session"
)

var version = "0.1.0"

var (
	configPath string
	quiet      bool
	verbosity  int
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "f", config.DefaultPath, "Path to config file (.yaml, .json or .hcl)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Disable logging")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v debug, -vv trace)")
}

var rootCmd = &cobra.Command{
	Use:           "restcli",
	Short:         "Browse a REST API as a directory tree",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		slog.SetDefault(logging.New(os.Stderr, quiet, verbosity))
		return nil
	},
	RunE: runShell,
}

// openSession loads the config and resolves the initial snapshot.
func openSession(ctx context.Context) (*session.Session, error) {
	cfg, err := config.Load(polyfill.New(osfs.Default), configPath)
	if err != nil {
		return nil, err
	}
	slog.Debug("loaded config", "path", configPath, "url", cfg.BaseURL(), "apis", len(cfg.Schema.APIs))

	client := rest.NewClient(cfg.BaseURL(), cfg.Settings.Timeout, cfg.Settings.Headers)
	engine, err := ingest.NewEngine(&cfg.Schema, client)
	if err != nil {
		return nil, err
	}
	sess, err := session.New(ctx, engine, format.New(cfg.Settings.Display.Options()))
	if err != nil {
		return nil, fmt.Errorf("request backend failed: %w", err)
	}
	return sess, nil
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
