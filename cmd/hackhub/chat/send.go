package chat

import (
	"fmt"

	"hackhub/cmd/hackhub/cmdutil"
	"hackhub/cmd/hackhub/ui"

	"github.com/spf13/cobra"
)

func sendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send <room> <author> <message>",
		Short: "Send a message to a room",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cmdutil.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Hub.SendMessage(cmd.Context(), args[0], args[1], args[2]); err != nil {
				return err
			}
			// A send is fire-and-forget; reading history flushes it so
			// the message survives this short-lived process.
			if _, err := s.Hub.History(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println(ui.SuccessMsg("message sent to %q", args[0]))
			return nil
		},
	}
	return cmd
}
