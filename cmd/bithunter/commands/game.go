package commands

import (
	"github.com/spf13/cobra"

	"github.com/youruser/bithunter/internal/apperr"
)

func init() {
	rootCmd.AddCommand(gameCmd)
}

var gameCmd = &cobra.Command{
	Use:   "game <id>",
	Short: "Processes every trophy of one game and exits.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gameID, err := parseGameID(args[0])
		if err != nil {
			return err
		}
		if gameID == "0" {
			return apperr.Validation("game id must be positive, use the consume command for local images", "gameID", args[0])
		}

		c, err := setup(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer func() { _ = c.Logger.Sync() }()

		return runGame(cmd.Context(), cmd.OutOrStdout(), c.Runner, gameID)
	},
}
