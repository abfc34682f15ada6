package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/countdown/internal/control"
)

func newCtlCmd() *cobra.Command {
	ctl := &cobra.Command{
		Use:   "ctl",
		Short: "Control a running countdown instance",
	}
	ctl.AddCommand(newCtlListCmd(), newCtlSendCmd())
	return ctl
}

func newCtlListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the timers of the running instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			timers, err := control.NewClient(cfg.Control.Addr).List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list timers: %w", err)
			}
			if len(timers) == 0 {
				fmt.Println("No timers")
				return nil
			}
			for _, t := range timers {
				window := "detached"
				if t.Window > 0 {
					window = fmt.Sprintf("window %d", t.Window)
				}
				title := t.Title
				if title == "" {
					title = t.Input
				}
				fmt.Printf("  [%s] %s %s left (%s) %s\n", strings.ToUpper(t.State), shortID(t.ID), t.TimeLeft, window, title)
			}
			return nil
		},
	}
}

func newCtlSendCmd() *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "send <command...>",
		Short: "Run a command line in the running instance, e.g. \"pause\" or \"set loop-sound on\"",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			reply, err := control.NewClient(cfg.Control.Addr).Send(ctx, strings.Join(args, " "), target)
			if err != nil {
				return err
			}
			fmt.Println(reply.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "timer id or id prefix to act on")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
