package project

import (
	"fmt"
	"strconv"

	"hackhub"
	"hackhub/cmd/hackhub/cmdutil"
	"hackhub/cmd/hackhub/ui"

	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	var category, state string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cmdutil.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			var projects []hackhub.Project
			switch {
			case category != "":
				projects, err = s.Hub.ListProjectsByCategory(cmd.Context(), hackhub.ProjectCategory(category))
			case state != "":
				projects, err = s.Hub.ListProjectsByState(cmd.Context(), hackhub.ProjectState(state))
			default:
				projects, err = s.Hub.ListProjects(cmd.Context())
			}
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Println(ui.Muted("no projects registered"))
				return nil
			}

			rows := make([][]string, len(projects))
			for i, p := range projects {
				rows[i] = []string{
					p.TeamName,
					string(p.Category),
					string(p.State),
					strconv.Itoa(len(p.Progress)),
					strconv.Itoa(len(p.Feedback)),
				}
			}
			fmt.Println(ui.Table(
				[]string{"Team", "Category", "State", "Progress", "Feedback"},
				rows,
			))
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&state, "state", "", "Filter by state")
	return cmd
}
