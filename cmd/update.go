package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/naka-gawa/wuwu/internal/gateway"
	"github.com/naka-gawa/wuwu/internal/render"
	"github.com/naka-gawa/wuwu/internal/store"
	"github.com/naka-gawa/wuwu/internal/usecase"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetches GitHub activity, evolves the pet and rewrites the status files",
	Long: `Fetches today's push events, follower, star and repository counts for the
pet's owner, applies the daily rules to the pet state, saves the state file
and regenerates the Markdown document.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		token, err := conf.GitHubToken()
		if err != nil {
			return err
		}
		if repo, _ := cmd.Flags().GetString("repo"); repo != "" {
			conf.MainRepo = repo
		}
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		logger := newLogger(cmd)

		// Inject dependencies and run the main business logic.
		githubGateway, err := gateway.NewGitHubGateway(token, conf.GithubAPIURL, conf.HTTPTimeout, logger.WithField("component", "gateway"))
		if err != nil {
			return fmt.Errorf("failed to create GitHub gateway: %w", err)
		}
		caretaker := usecase.NewCaretaker(
			store.NewStateFile(conf.StateFile),
			usecase.NewActivityCollector(githubGateway, logger.WithField("component", "activity")),
			render.NewRenderer(conf.ReadmeFile, conf.AssetsDir, time.Local, logger.WithField("component", "render")),
			conf.MainRepo,
			time.Now,
			nil,
			logger.WithField("component", "caretaker"),
		)

		state, err := caretaker.Run(cmd.Context(), dryRun)
		if err != nil {
			return err
		}

		if dryRun {
			data, err := store.Marshal(state)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		}
		color.New(color.FgGreen, color.Bold).Fprintf(cmd.OutOrStdout(), "%s is %s", state.DisplayName(), state.Status.Mood)
		fmt.Fprintf(cmd.OutOrStdout(), " | Food %d%% | Health %d%% | Age %d months\n",
			state.Status.Food, state.Status.Health, state.Status.AgeMonths)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().StringP("repo", "r", "", "Main repository owner/name whose stars are counted (default $MAIN_REPO)")
	updateCmd.Flags().Bool("dry-run", false, "Print the evolved state without writing any file")
}
