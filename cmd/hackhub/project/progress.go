package project

import (
	"fmt"

	"hackhub/cmd/hackhub/cmdutil"
	"hackhub/cmd/hackhub/ui"

	"github.com/spf13/cobra"
)

func progressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress <team> <note>",
		Short: "Append a progress note to the team's project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cmdutil.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			p, err := s.Hub.AppendProgress(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Println(ui.SuccessMsg("progress noted for %q (%d entries)", p.TeamName, len(p.Progress)))
			return nil
		},
	}
	return cmd
}
