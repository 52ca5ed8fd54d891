package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/finpilot/internal/cli"
	"github.com/Veraticus/finpilot/internal/planner"
)

func pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the planning service is reachable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := newPlanner()
			if err != nil {
				return err
			}
			pinger, ok := p.(planner.Pinger)
			if !ok {
				return fmt.Errorf("planner %T cannot report health", p)
			}
			status, err := pinger.Ping(cmd.Context())
			if err != nil {
				return fmt.Errorf("planning service unreachable: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Planning service: "+status))
			return nil
		},
	}
}
