package mentor

import (
	"fmt"

	"hackhub/cmd/hackhub/cmdutil"
	"hackhub/cmd/hackhub/ui"

	"github.com/spf13/cobra"
)

func registerCmd() *cobra.Command {
	var specialty string

	cmd := &cobra.Command{
		Use:   "register <name>",
		Short: "Register a mentor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cmdutil.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			m, err := s.Hub.RegisterMentor(cmd.Context(), args[0], specialty)
			if err != nil {
				return err
			}
			fmt.Println(ui.SuccessMsg("mentor %q registered (id %s)", m.Name, m.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&specialty, "specialty", "", "Mentor specialty")
	return cmd
}
