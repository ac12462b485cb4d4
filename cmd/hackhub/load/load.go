// Package load runs the concurrent creation workload.
package load

import (
	"fmt"
	"strconv"

	"hackhub/cmd/hackhub/cmdutil"
	"hackhub/cmd/hackhub/ui"
	"hackhub/internal/loadgen"

	"github.com/spf13/cobra"
)

func Cmd() *cobra.Command {
	cfg := loadgen.DefaultConfig

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Drive a concurrent creation workload and report timings",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cmdutil.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			report, err := loadgen.Run(cmd.Context(), s.Hub, cfg)
			if err != nil {
				return err
			}

			rows := make([][]string, len(report.Phases))
			for i, p := range report.Phases {
				rows[i] = []string{
					p.Name,
					strconv.Itoa(p.Count),
					strconv.Itoa(p.Errors),
					p.Duration.Round(p.Duration / 100).String(),
				}
			}
			fmt.Println(ui.Table([]string{"Phase", "Count", "Errors", "Duration"}, rows))

			if errs := report.Errors(); errs > 0 {
				fmt.Println(ui.WarnMsg("%d tasks failed (total %s)", errs, report.Total.Round(report.Total/100)))
			} else {
				fmt.Println(ui.SuccessMsg("all phases clean in %s", report.Total.Round(report.Total/100)))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&cfg.Teams, "teams", cfg.Teams, "Teams to create")
	cmd.Flags().IntVar(&cfg.Participants, "participants", cfg.Participants, "Participants per team")
	cmd.Flags().IntVar(&cfg.Messages, "messages", cfg.Messages, "Messages per team room")
	return cmd
}
