package project

import (
	"fmt"

	"hackhub/cmd/hackhub/cmdutil"
	"hackhub/cmd/hackhub/ui"

	"github.com/spf13/cobra"
)

func feedbackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback <team> <mentor-name> <content>",
		Short: "Append feedback directly to the team's project",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cmdutil.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			p, err := s.Hub.AppendFeedback(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return err
			}
			fmt.Println(ui.SuccessMsg("feedback recorded for %q (%d entries)", p.TeamName, len(p.Feedback)))
			return nil
		},
	}
	return cmd
}
