package main

import (
	"fmt"
	"os"

	"github.com/sandeepkv93/taskboard/internal/config"
	"github.com/sandeepkv93/taskboard/internal/logging"
	"github.com/sandeepkv93/taskboard/internal/storage"
	"github.com/spf13/cobra"
)

var Version = "dev"

// app carries state loaded once before any subcommand runs.
type app struct {
	configPath string
	cfg        config.Config
	logger     *logging.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "taskboard",
		Short:         "Kanban task board with a REST API and a terminal UI",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.logger.Close()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./"+config.DefaultFile+" when present)")

	root.AddCommand(serveCmd(a))
	root.AddCommand(boardCmd(a))
	root.AddCommand(migrateCmd(a))
	root.AddCommand(configCmd(a))
	return root
}

func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Path, logging.ParseLevel(cfg.Log.Level))
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) storageConfig() storage.Config {
	return storage.Config{
		Driver: a.cfg.Storage.Driver,
		Path:   a.cfg.Storage.Path,
		DSN:    a.cfg.Storage.DSN,
	}
}
