package chat

import (
	"fmt"

	"hackhub/cmd/hackhub/cmdutil"
	"hackhub/cmd/hackhub/ui"

	"github.com/spf13/cobra"
)

func roomsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "List chat rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cmdutil.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			rooms, err := s.Hub.ListRooms(cmd.Context())
			if err != nil {
				return err
			}
			for _, room := range rooms {
				fmt.Println(ui.Accent("#") + room)
			}
			return nil
		},
	}
	return cmd
}
