// Package clustercmd talks to a running daemon about cluster state.
package clustercmd

import (
	"fmt"
	"time"

	"hackhub/cmd/hackhub/cmdutil"
	"hackhub/cmd/hackhub/ui"
	"hackhub/config"

	"github.com/spf13/cobra"
)

func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Inspect the daemon cluster",
	}
	cmd.AddCommand(infoCmd())
	cmd.AddCommand(nodesCmd())
	cmd.AddCommand(pingCmd())
	cmd.AddCommand(connectCmd())
	return cmd
}

func connectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect <name> <addr>",
		Short: "Add a peer daemon to the configuration",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			for _, p := range cfg.Peers {
				if p.Name == args[0] {
					return fmt.Errorf("peer %q already configured (%s)", p.Name, p.Addr)
				}
			}
			cfg.Peers = append(cfg.Peers, config.Peer{Name: args[0], Addr: args[1]})
			if err := cfg.Save(); err != nil {
				return err
			}
			fmt.Println(ui.SuccessMsg("peer %q added at %s", args[0], args[1]))
			return nil
		},
	}
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the daemon's view of the cluster",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cmdutil.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			info, err := s.Client().ClusterInfo(cmd.Context())
			if err != nil {
				return err
			}
			holder := info.Holder
			if holder == "" {
				holder = "-"
			}
			fmt.Print(ui.KeyValues("",
				ui.KV("node", info.Self.Name),
				ui.KV("addr", info.Self.Addr),
				ui.KV("chat holder", holder),
				ui.KV("holds chat", fmt.Sprintf("%t", info.Local)),
				ui.KV("peers", fmt.Sprintf("%d", len(info.Nodes))),
			))
			return nil
		},
	}
}

func nodesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nodes",
		Short: "List peers and their last observed state",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cmdutil.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			info, err := s.Client().ClusterInfo(cmd.Context())
			if err != nil {
				return err
			}
			if len(info.Nodes) == 0 {
				fmt.Println(ui.Muted("no peers configured"))
				return nil
			}

			rows := make([][]string, len(info.Nodes))
			for i, n := range info.Nodes {
				lastSeen := "-"
				if !n.LastSeen.IsZero() {
					lastSeen = n.LastSeen.Format("15:04:05")
				}
				rows[i] = []string{n.Node.Name, n.Node.Addr, n.State.String(), lastSeen}
			}
			fmt.Println(ui.Table([]string{"Node", "Addr", "State", "Last seen"}, rows))
			return nil
		},
	}
}

func pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Ping the configured daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cmdutil.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			start := time.Now()
			health, err := s.Client().Health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(ui.SuccessMsg("%s answered in %s", health.Node, time.Since(start).Round(time.Millisecond)))
			return nil
		},
	}
}
