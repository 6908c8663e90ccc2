// Package cli implements the gospectre command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"gospectre"
)

// Execute runs the command tree and exits non-zero on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// NewRootCmd builds the gospectre root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gospectre",
		Short: "Drive the Cadence Spectre circuit simulator",
		Long: `gospectre launches Spectre over a netlist, drives its interactive
command loop and decodes the raw results it writes.

The simulator executable, its fixed arguments and the session timeouts
come from gospectre.yaml; see the config flag for the lookup order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("config", "", "config file (default: $GOSPECTRE_CONFIG, ./gospectre.yaml, XDG config dirs)")
	cmd.PersistentFlags().String("log-level", "warning", "log verbosity: trace, debug, info, warning or error")

	cmd.AddCommand(
		newRunCmd(),
		newListCmd(),
		newParamCmd(),
		newVersionCmd(),
	)
	return cmd
}

// sessionOptions turns the persistent flags into session options.
func sessionOptions(cmd *cobra.Command) ([]gospectre.Option, error) {
	var opts []gospectre.Option

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		opts = append(opts, gospectre.WithConfigPath(path))
	}

	levelName, _ := cmd.Flags().GetString("log-level")
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q", levelName)
	}
	log := logrus.New()
	log.SetOutput(cmd.ErrOrStderr())
	log.SetLevel(level)
	opts = append(opts, gospectre.WithLogger(log))

	return opts, nil
}
