package team

import (
	"fmt"

	"hackhub/cmd/hackhub/cmdutil"
	"hackhub/cmd/hackhub/ui"

	"github.com/spf13/cobra"
)

func getCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Show one team with its participants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cmdutil.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			t, err := s.Hub.GetTeam(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Print(ui.KeyValues("",
				ui.KV("id", t.ID),
				ui.KV("name", t.Name),
				ui.KV("topic", t.Topic),
				ui.KV("created", t.CreatedAt.Format("2006-01-02 15:04:05")),
			))
			if len(t.Participants) == 0 {
				fmt.Println(ui.Muted("no participants yet"))
				return nil
			}
			rows := make([][]string, len(t.Participants))
			for i, p := range t.Participants {
				rows[i] = []string{p.Name, p.Email}
			}
			fmt.Println(ui.Table([]string{"Name", "Email"}, rows))
			return nil
		},
	}
	return cmd
}
