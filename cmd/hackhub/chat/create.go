package chat

import (
	"fmt"

	"hackhub/cmd/hackhub/cmdutil"
	"hackhub/cmd/hackhub/ui"

	"github.com/spf13/cobra"
)

func createCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <room>",
		Short: "Create a chat room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cmdutil.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			name, err := s.Hub.CreateRoom(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(ui.SuccessMsg("room %q created", name))
			return nil
		},
	}
	return cmd
}
