package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "gh-bootstrap",
	Short: "A CLI for bootstrapping GitHub labels",
	Long: `gh-bootstrap replaces the issue labels of a GitHub repository with a
fixed set described in a label config file.

Commands:
  make-config   create a label config file interactively
  set-labels    set the labels for the provided repository

The label config file is JSON (or YAML when it ends in .yaml/.yml):

  {
    "labels": {
      "bug": "#d73a4a",
      "feature": "#a2eeef"
    }
  }

By default it is read from config.json next to the gh-bootstrap executable.`,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		logger = newLogger(logLevel, logFormat, cmd.ErrOrStderr())
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		_ = cmd.Help()
		return errors.New("a command is required")
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the label config file (default: config.json next to the executable)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
}
