package cmd

import (
	"fmt"

	"github.com/naka-gawa/wuwu/internal/store"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Prints the saved pet state as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		state, err := store.NewStateFile(conf.StateFile).Load()
		if err != nil {
			return err
		}
		data, err := store.Marshal(state)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
