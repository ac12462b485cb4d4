package mentor

import (
	"fmt"
	"strconv"

	"hackhub"
	"hackhub/cmd/hackhub/cmdutil"
	"hackhub/cmd/hackhub/ui"

	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered mentors",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cmdutil.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			mentors, err := s.Hub.ListMentors(cmd.Context())
			if err != nil {
				return err
			}
			printMentors(mentors)
			return nil
		},
	}
	return cmd
}

func printMentors(mentors []hackhub.Mentor) {
	if len(mentors) == 0 {
		fmt.Println(ui.Muted("no mentors registered"))
		return
	}
	rows := make([][]string, len(mentors))
	for i, m := range mentors {
		rows[i] = []string{m.ID, m.Name, m.Specialty, strconv.Itoa(len(m.FeedbackGiven))}
	}
	fmt.Println(ui.Table([]string{"ID", "Name", "Specialty", "Feedback"}, rows))
}
