package chat

import (
	"fmt"

	"hackhub/cmd/hackhub/cmdutil"
	"hackhub/cmd/hackhub/ui"

	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <room>",
		Short: "Show a room's messages, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cmdutil.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			history, err := s.Hub.History(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(history) == 0 {
				fmt.Println(ui.Muted("no messages yet"))
				return nil
			}
			for _, m := range history {
				fmt.Printf("%s %s %s\n",
					ui.Muted(m.Timestamp.Format("15:04:05")),
					ui.Accent(m.Author+":"),
					m.Content,
				)
			}
			return nil
		},
	}
	return cmd
}
