// Package persist exposes the snapshot aggregator commands.
package persist

import (
	"fmt"
	"strconv"

	"hackhub/cmd/hackhub/cmdutil"
	"hackhub/cmd/hackhub/ui"

	"github.com/spf13/cobra"
)

func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "persist",
		Short: "Manage on-disk snapshots",
	}
	cmd.AddCommand(saveCmd())
	cmd.AddCommand(infoCmd())
	cmd.AddCommand(clearCmd())
	return cmd
}

func saveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Snapshot every registry to disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cmdutil.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Hub.PersistState(cmd.Context()); err != nil {
				return err
			}
			fmt.Println(ui.SuccessMsg("snapshots written to %s", s.Config.DataDir))
			return nil
		},
	}
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show entry counts per snapshot file",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cmdutil.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			info := s.Hub.PersistInfo()
			fmt.Print(ui.KeyValues("",
				ui.KV("dir", s.Config.DataDir),
				ui.KV("teams", strconv.Itoa(info.Teams)),
				ui.KV("projects", strconv.Itoa(info.Projects)),
				ui.KV("mentors", strconv.Itoa(info.Mentors)),
				ui.KV("rooms", strconv.Itoa(info.Rooms)),
				ui.KV("messages", strconv.Itoa(info.Messages)),
			))
			return nil
		},
	}
}

func clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete and recreate the snapshot directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cmdutil.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Hub.ClearAll(); err != nil {
				return err
			}
			fmt.Println(ui.SuccessMsg("snapshot directory cleared"))
			return nil
		},
	}
}
