package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	outputJSON = "json"
	outputYAML = "yaml"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "routectl",
		Short: "Offline trip route tools",
		Long: `routectl works on trip files without calling any planning service:
  - route derives the flight legs of a trip
  - windows finds the date windows a group can travel in`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("output", "o", outputJSON, "Output format (json or yaml)")

	root.AddCommand(newRouteCmd())
	root.AddCommand(newWindowsCmd())
	return root
}

// readInput decodes a YAML or JSON file into dst. "-" reads stdin.
func readInput(cmd *cobra.Command, path string, dst interface{}) error {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	// YAML is a superset of JSON, so one decoder serves both
	if err := yaml.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// writeOutput prints v in the format chosen by --output. YAML output keeps
// the JSON field names.
func writeOutput(cmd *cobra.Command, v interface{}) error {
	format, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	switch format {
	case outputJSON:
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	case outputYAML:
		var generic interface{}
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
