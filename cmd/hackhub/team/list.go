package team

import (
	"fmt"
	"strconv"

	"hackhub/cmd/hackhub/cmdutil"
	"hackhub/cmd/hackhub/ui"

	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered teams",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cmdutil.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			teams, err := s.Hub.ListTeams(cmd.Context())
			if err != nil {
				return err
			}
			if len(teams) == 0 {
				fmt.Println(ui.Muted("no teams registered"))
				return nil
			}

			rows := make([][]string, len(teams))
			for i, t := range teams {
				rows[i] = []string{
					t.ID,
					t.Name,
					t.Topic,
					strconv.Itoa(len(t.Participants)),
					t.CreatedAt.Format("2006-01-02 15:04"),
				}
			}
			fmt.Println(ui.Table(
				[]string{"ID", "Name", "Topic", "Members", "Created"},
				rows,
			))
			return nil
		},
	}
	return cmd
}
