// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"os"

	"github.com/naka-gawa/wuwu/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// dotenvFile is loaded from the working directory when present.
const dotenvFile = ".env"

var rootCmd = &cobra.Command{
	Use:   "wuwu",
	Short: "A GitHub-activity driven virtual pet.",
	Long: `wuwu keeps a small virtual pet alive on your GitHub profile.
Each run reads your public GitHub activity, updates the pet's stats
(food, health, intelligence, knowledge, mood, age) in a JSON state file,
and regenerates a Markdown status document.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("state", "", "Path of the pet state JSON file (default $WUWU_STATE_FILE or data/wuwu.json)")
	rootCmd.PersistentFlags().String("readme", "", "Path of the generated Markdown document (default $WUWU_README_FILE or README.md)")
	rootCmd.PersistentFlags().String("assets", "", "Directory of <mood>.svg images (default $WUWU_ASSETS_DIR or assets)")
}

// newLogger logs to standard error at info level, or debug level when verbose.
func newLogger(cmd *cobra.Command) *logrus.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	l := logrus.New()
	l.Out = os.Stderr
	l.Level = logrus.InfoLevel
	if verbose {
		l.Level = logrus.DebugLevel
	}
	return l
}

// loadConfig reads the environment and applies the path flags on top of it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	conf, err := config.Load(dotenvFile)
	if err != nil {
		return nil, err
	}
	overrides := map[string]*string{
		"state":  &conf.StateFile,
		"readme": &conf.ReadmeFile,
		"assets": &conf.AssetsDir,
	}
	for name, target := range overrides {
		if value, _ := cmd.Flags().GetString(name); value != "" {
			*target = value
		}
	}
	return conf, nil
}
