package mentor

import (
	"hackhub/cmd/hackhub/cmdutil"

	"github.com/spf13/cobra"
)

func findCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find <specialty>",
		Short: "Find mentors by specialty (case-insensitive)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cmdutil.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			mentors, err := s.Hub.FindMentorsBySpecialty(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printMentors(mentors)
			return nil
		},
	}
	return cmd
}
