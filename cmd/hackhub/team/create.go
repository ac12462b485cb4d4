package team

import (
	"fmt"

	"hackhub/cmd/hackhub/cmdutil"
	"hackhub/cmd/hackhub/ui"

	"github.com/spf13/cobra"
)

func createCmd() *cobra.Command {
	var topic string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Register a new team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cmdutil.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			t, err := s.Hub.CreateTeam(cmd.Context(), args[0], topic)
			if err != nil {
				return err
			}
			fmt.Println(ui.SuccessMsg("team %q created (id %s)", t.Name, t.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "", "Team topic")
	return cmd
}
