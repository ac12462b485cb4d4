package team

import "github.com/spf13/cobra"

func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Manage hackathon teams",
	}
	cmd.AddCommand(createCmd())
	cmd.AddCommand(joinCmd())
	cmd.AddCommand(listCmd())
	cmd.AddCommand(getCmd())
	return cmd
}
