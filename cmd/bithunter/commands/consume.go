package commands

import "github.com/spf13/cobra"

func init() {
	rootCmd.AddCommand(consumeCmd)
}

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Frames the accepted images found in the consume folder and exits.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := setup(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer func() { _ = c.Logger.Sync() }()

		return runConsume(cmd.Context(), cmd.OutOrStdout(), c.Runner)
	},
}
