package project

import (
	"fmt"

	"hackhub"
	"hackhub/cmd/hackhub/cmdutil"
	"hackhub/cmd/hackhub/ui"

	"github.com/spf13/cobra"
)

func stateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state <team> <state>",
		Short: "Move the project to iniciado, en_progreso or completado",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cmdutil.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			p, err := s.Hub.UpdateProjectState(cmd.Context(), args[0], hackhub.ProjectState(args[1]))
			if err != nil {
				return err
			}
			fmt.Println(ui.SuccessMsg("project for %q is now %s", p.TeamName, p.State))
			return nil
		},
	}
	return cmd
}
