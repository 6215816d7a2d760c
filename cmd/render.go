package cmd

import (
	"errors"
	"time"

	"github.com/naka-gawa/wuwu/internal/render"
	"github.com/naka-gawa/wuwu/internal/store"
	"github.com/spf13/cobra"
)

// errRunInProgress is returned when an update holds the state file.
var errRunInProgress = errors.New("another run is in progress; try again once it finishes")

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Regenerates the Markdown document from the saved state",
	Long:  `Regenerates the Markdown document from the saved pet state without contacting GitHub. No token is required.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(cmd)

		stateFile := store.NewStateFile(conf.StateFile)
		unlock, ok, err := stateFile.TryLock()
		if err != nil {
			return err
		}
		if !ok {
			return errRunInProgress
		}
		defer unlock()

		state, err := stateFile.Load()
		if err != nil {
			return err
		}
		renderer := render.NewRenderer(conf.ReadmeFile, conf.AssetsDir, time.Local, logger.WithField("component", "render"))
		return renderer.Write(state)
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
}
