package chat

import "github.com/spf13/cobra"

func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat rooms and messages",
	}
	cmd.AddCommand(createCmd())
	cmd.AddCommand(sendCmd())
	cmd.AddCommand(historyCmd())
	cmd.AddCommand(roomsCmd())
	cmd.AddCommand(watchCmd())
	return cmd
}
