package chat

import (
	"fmt"

	"hackhub"
	"hackhub/cmd/hackhub/cmdutil"
	"hackhub/cmd/hackhub/ui"

	"github.com/spf13/cobra"
)

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <room>",
		Short: "Stream a room's messages live until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cmdutil.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			events, cancel, err := s.Hub.Subscribe(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer cancel()

			fmt.Println(ui.InfoMsg("watching #%s (ctrl-c to stop)", args[0]))
			for {
				select {
				case ev, ok := <-events:
					if !ok {
						return hackhub.ErrChatUnavailable
					}
					fmt.Printf("%s %s %s\n",
						ui.Muted(ev.Message.Timestamp.Format("15:04:05")),
						ui.Accent(ev.Message.Author+":"),
						ev.Message.Content,
					)
				case <-cmd.Context().Done():
					return nil
				}
			}
		},
	}
	return cmd
}
