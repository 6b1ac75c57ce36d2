package main

import (
	"fmt"

	"tripplanner-service/internal/domain/entity"
	"tripplanner-service/internal/usecase"

	"github.com/spf13/cobra"
)

func newWindowsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "windows FILE",
		Short: "Find the date windows a group can travel in",
		Long: `Read a group request and print the feasible date windows, the minimum
trip length and the merged preferences that would be sent to the planner.

Example file:
  destination: Lisbon
  consensus_dates: [2025-09-01, 2025-09-02, 2025-09-03]
  grouped_preferences:
    - user_id: u1
      preferred_length_days: 2
      raw_preferences: [beaches]`,
		Args: cobra.ExactArgs(1),
		RunE: runWindows,
	}
}

func runWindows(cmd *cobra.Command, args []string) error {
	var req entity.ConsensusRequest
	if err := readInput(cmd, args[0], &req); err != nil {
		return err
	}

	group, err := usecase.BuildGroupConsensus(req)
	if err != nil {
		return fmt.Errorf("no feasible window: %w", err)
	}
	return writeOutput(cmd, group)
}
