package project

import (
	"fmt"

	"hackhub"
	"hackhub/cmd/hackhub/cmdutil"
	"hackhub/cmd/hackhub/ui"

	"github.com/spf13/cobra"
)

func createCmd() *cobra.Command {
	var description, category string

	cmd := &cobra.Command{
		Use:   "create <team>",
		Short: "Register the team's project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cmdutil.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			p, err := s.Hub.CreateProject(cmd.Context(), args[0], description, hackhub.ProjectCategory(category))
			if err != nil {
				return err
			}
			fmt.Println(ui.SuccessMsg("project for %q created (%s, %s)", p.TeamName, p.Category, p.State))
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	cmd.Flags().StringVar(&category, "category", string(hackhub.CategorySocial),
		"Category: social, ambiental or educativo")
	return cmd
}
