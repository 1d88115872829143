package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ghbootstrap/pkg/github"
)

var (
	labelsOwner   string
	labelsRepo    string
	labelsToken   string
	labelsTimeout time.Duration
	labelsAPIURL  string
)

var setLabelsCmd = &cobra.Command{
	Use:   "set-labels",
	Short: "Set the labels for the provided repository",
	Long: `Set the labels for the provided repository.

Every label currently on the repository is deleted, then each label from the
config file is created. Calls are made one at a time; deletion finishes before
creation starts. The first failed call stops the run and nothing already
changed is rolled back.

The access token needs the repo scope. When --token is not given it is read
from the GitHubAccessToken environment variable.

Examples:
  gh-bootstrap set-labels --owner acme --repo widgets --token $TOKEN
  GitHubAccessToken=$TOKEN gh-bootstrap set-labels -o acme -r widgets -c labels.yaml`,
	Args: cobra.NoArgs,
	RunE: runSetLabels,
}

func init() {
	setLabelsCmd.Flags().StringVarP(&labelsOwner, "owner", "o", "", "GitHub repository owner name")
	setLabelsCmd.Flags().StringVarP(&labelsRepo, "repo", "r", "", "GitHub repository name")
	setLabelsCmd.Flags().StringVarP(&labelsToken, "token", "t", "", "GitHub access token with repo scope")
	setLabelsCmd.Flags().DurationVar(&labelsTimeout, "timeout", 30*time.Second, "Timeout for each API call (0 disables)")
	setLabelsCmd.Flags().StringVar(&labelsAPIURL, "api-url", github.DefaultBaseURL, "GitHub API base URL")
	rootCmd.AddCommand(setLabelsCmd)
}

func runSetLabels(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	syncer := github.NewSyncer(github.SyncerOptions{
		ClientOptions: github.ClientOptions{
			BaseURL:     labelsAPIURL,
			Timeout:     labelsTimeout,
			RateLimiter: github.NewRateLimiter(nil),
		},
		Logger: logger,
	})

	result, err := syncer.Sync(cmd.Context(), github.Input{
		Owner:      labelsOwner,
		Repo:       labelsRepo,
		Token:      labelsToken,
		ConfigPath: configPath,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, result.Message)
	fmt.Fprintf(out, "Deleted %d and created %d labels on %s/%s\n", len(result.Deleted), len(result.Created), labelsOwner, labelsRepo)

	return nil
}
