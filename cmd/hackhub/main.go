package main

import (
	"fmt"
	"os"

	chatcmd "hackhub/cmd/hackhub/chat"
	"hackhub/cmd/hackhub/clustercmd"
	"hackhub/cmd/hackhub/cmdutil"
	loadcmd "hackhub/cmd/hackhub/load"
	mentorcmd "hackhub/cmd/hackhub/mentor"
	"hackhub/cmd/hackhub/persist"
	projectcmd "hackhub/cmd/hackhub/project"
	teamcmd "hackhub/cmd/hackhub/team"
	"hackhub/cmd/hackhub/ui"
	"hackhub/internal/logging"

	"github.com/spf13/cobra"
)

func main() {
	var debug bool

	if err := logging.Configure(logging.LevelWarn); err != nil {
		_, _ = os.Stderr.WriteString("configure logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:           "hackhub",
		Short:         "Hackathon collaboration backend",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := logging.LevelWarn
			if debug {
				level = logging.LevelDebug
			}
			return logging.Configure(level)
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	root.AddCommand(teamcmd.Cmd())
	root.AddCommand(projectcmd.Cmd())
	root.AddCommand(mentorcmd.Cmd())
	root.AddCommand(chatcmd.Cmd())
	root.AddCommand(persist.Cmd())
	root.AddCommand(clustercmd.Cmd())
	root.AddCommand(loadcmd.Cmd())
	root.AddCommand(resetCmd())

	if err := root.Execute(); err != nil {
		// Domain outcomes are normal: one styled line, exit zero.
		// Anything else (unknown command, daemon misconfig) is a real
		// failure.
		if msg, ok := cmdutil.DomainMessage(err); ok {
			fmt.Println(ui.WarnMsg("%s", msg))
			return
		}
		fmt.Fprintln(os.Stderr, ui.ErrorMsg("%v", err))
		fmt.Fprintln(os.Stderr, ui.Muted("run 'hackhub --help' for usage"))
		os.Exit(1)
	}
}

func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Wipe snapshots and every registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cmdutil.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Hub.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Println(ui.SuccessMsg("all registries reset"))
			return nil
		},
	}
}
