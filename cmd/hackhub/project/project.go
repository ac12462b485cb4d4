package project

import "github.com/spf13/cobra"

func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage team projects",
	}
	cmd.AddCommand(createCmd())
	cmd.AddCommand(stateCmd())
	cmd.AddCommand(progressCmd())
	cmd.AddCommand(feedbackCmd())
	cmd.AddCommand(getCmd())
	cmd.AddCommand(listCmd())
	return cmd
}
