package main

import (
	"fmt"

	"tripplanner-service/internal/domain/entity"
	"tripplanner-service/internal/usecase"

	"github.com/spf13/cobra"
)

type routeFile struct {
	OriginCity string            `yaml:"origin_city"`
	ClosedLoop *bool             `yaml:"closed_loop"`
	Stays      []entity.CityStay `yaml:"stays"`
}

func newRouteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "route FILE",
		Short: "Derive the flight legs of a trip",
		Long: `Derive the flight legs of a trip from a file listing the origin city
and the ordered city stays. Missing leg dates are inferred.

Example file:
  origin_city: London
  closed_loop: true
  stays:
    - city: Paris
      arrival_date: 2025-08-01
      departure_date: 2025-08-05`,
		Args: cobra.ExactArgs(1),
		RunE: runRoute,
	}
	cmd.Flags().String("origin", "", "Origin city, overrides the file")
	cmd.Flags().Bool("open", false, "Do not add a leg back to the origin")
	return cmd
}

func runRoute(cmd *cobra.Command, args []string) error {
	var input routeFile
	if err := readInput(cmd, args[0], &input); err != nil {
		return err
	}

	origin, _ := cmd.Flags().GetString("origin")
	if origin == "" {
		origin = input.OriginCity
	}

	closedLoop := true
	if input.ClosedLoop != nil {
		closedLoop = *input.ClosedLoop
	}
	if open, _ := cmd.Flags().GetBool("open"); open {
		closedLoop = false
	}

	plan, err := usecase.DeriveFlightRoute(origin, input.Stays, closedLoop)
	if err != nil {
		return fmt.Errorf("cannot derive route: %w", err)
	}
	return writeOutput(cmd, plan)
}
