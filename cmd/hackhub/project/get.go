package project

import (
	"fmt"

	"hackhub/cmd/hackhub/cmdutil"
	"hackhub/cmd/hackhub/ui"

	"github.com/spf13/cobra"
)

func getCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <team>",
		Short: "Show the team's project with progress and feedback",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cmdutil.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			p, err := s.Hub.GetProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Print(ui.KeyValues("",
				ui.KV("id", p.ID),
				ui.KV("team", p.TeamName),
				ui.KV("description", p.Description),
				ui.KV("category", string(p.Category)),
				ui.KV("state", string(p.State)),
			))
			for _, note := range p.Progress {
				fmt.Println(ui.Muted("  - " + note))
			}
			for _, fb := range p.Feedback {
				fmt.Println(ui.InfoMsg("%s: %s", fb.MentorName, fb.Content))
			}
			return nil
		},
	}
	return cmd
}
