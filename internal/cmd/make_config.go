package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"ghbootstrap/pkg/config"
	"ghbootstrap/pkg/prompt"
)

var makeConfigForce bool

var makeConfigCmd = &cobra.Command{
	Use:   "make-config",
	Short: "Create a label config file",
	Long: `Create a label config file by answering a few questions: how many labels
to configure, then a name and a hex color for each.

If the file already exists you are asked before it is overwritten.`,
	Args: cobra.NoArgs,
	RunE: runMakeConfig,
}

func init() {
	makeConfigCmd.Flags().BoolVarP(&makeConfigForce, "force", "f", false, "Overwrite an existing config file without asking")
	rootCmd.AddCommand(makeConfigCmd)
}

func runMakeConfig(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	path := configPath
	if path == "" {
		defaultPath, err := config.GetConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		path = defaultPath
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && !prompt.IsInteractive(f) {
		logger.Warn("stdin is not a terminal; reading answers from input", "config", path)
	}
	p := prompt.New(in, cmd.OutOrStdout())

	// Check if config already exists
	if _, err := os.Stat(path); err == nil && !makeConfigForce {
		name := filepath.Base(path)
		overwrite, err := p.Confirm(fmt.Sprintf("%s already exists. Would you like to proceed and override %s?", path, name), false)
		if err != nil {
			return err
		}
		if !overwrite {
			return fmt.Errorf("aborted: %s was left unchanged", path)
		}
	}

	cfg, err := prompt.Questionnaire(p)
	if err != nil {
		return fmt.Errorf("failed to gather labels: %w", err)
	}

	if err := cfg.SaveConfigToPath(path); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Successfully created a %s file!\n", path)
	return nil
}
