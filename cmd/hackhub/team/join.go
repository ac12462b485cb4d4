package team

import (
	"fmt"

	"hackhub/cmd/hackhub/cmdutil"
	"hackhub/cmd/hackhub/ui"

	"github.com/spf13/cobra"
)

func joinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "join <team> <name> <email>",
		Short: "Add a participant to a team",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cmdutil.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			t, err := s.Hub.AddParticipant(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return err
			}
			fmt.Println(ui.SuccessMsg("%s joined %q (%d participants)", args[1], t.Name, len(t.Participants)))
			return nil
		},
	}
	return cmd
}
