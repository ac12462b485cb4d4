package mentor

import (
	"fmt"

	"hackhub/cmd/hackhub/cmdutil"
	"hackhub/cmd/hackhub/ui"

	"github.com/spf13/cobra"
)

func feedbackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback <mentor-id> <team> <content>",
		Short: "Send feedback from a mentor to a team's project",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cmdutil.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			m, err := s.Hub.SendFeedback(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				// The mentor side may have committed even when the
				// project append failed.
				if len(m.FeedbackGiven) > 0 {
					fmt.Println(ui.WarnMsg("feedback recorded for mentor %q but not on the project", m.Name))
				}
				return err
			}
			fmt.Println(ui.SuccessMsg("feedback from %q delivered to %q", m.Name, args[1]))
			return nil
		},
	}
	return cmd
}
