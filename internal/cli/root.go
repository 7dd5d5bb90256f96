// Package cli wires the configuration, storage, controller and hosts
// together behind the pomodoro command line.
package cli

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/adibhanna/pomodoro/internal/config"
	"github.com/adibhanna/pomodoro/internal/storage"
)

// app holds the state shared by the commands of one invocation.
type app struct {
	cfg config.Config

	configPath string
	overrides  config.Overrides
	debug      bool
}

// NewRootCmd builds the command tree. Running the root command starts the
// terminal UI.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "pomodoro",
		Short:         "A Pomodoro timer for the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/pomodoro/config.yaml)")
	flags.StringVar(&a.overrides.DataDir, "data-dir", "", "directory for settings and history")
	flags.StringVar(&a.overrides.Backend, "backend", "", "storage backend: file or sqlite")
	flags.BoolVar(&a.overrides.NoSound, "no-sound", false, "disable sound cues")
	flags.BoolVar(&a.debug, "debug", false, "write logs to debug.log in the data directory")

	root.AddCommand(
		newRunCmd(a),
		newSettingsCmd(a),
		newHistoryCmd(a),
	)
	return root
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pomodoro:", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the flags over it. A config
// file that cannot be parsed is logged and the defaults are used.
func (a *app) loadConfig() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		var perr *config.ParseError
		if !errors.As(err, &perr) {
			return fmt.Errorf("loading config: %w", err)
		}
		log.Printf("%v; using defaults", err)
	}

	cfg, err = config.Merge(cfg, a.overrides)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// openStorage opens the configured backend. The returned close function
// releases it.
func (a *app) openStorage() (*storage.Storage, *storage.SettingsStore, func(), error) {
	backend, err := storage.Open(a.cfg.Backend, a.cfg.DataDir)
	if err != nil {
		return nil, nil, nil, err
	}
	closeFn := func() {
		if err := backend.Close(); err != nil {
			log.Printf("closing storage: %v", err)
		}
	}
	return storage.New(backend), storage.NewSettingsStore(backend), closeFn, nil
}
