package mentor

import "github.com/spf13/cobra"

func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mentor",
		Short: "Manage mentors and their feedback",
	}
	cmd.AddCommand(registerCmd())
	cmd.AddCommand(feedbackCmd())
	cmd.AddCommand(listCmd())
	cmd.AddCommand(findCmd())
	return cmd
}
