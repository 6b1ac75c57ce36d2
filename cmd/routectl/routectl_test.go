package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tripplanner-service/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const tripYAML = `origin_city: London
stays:
  - city: Paris
    arrival_date: 2025-08-01
    departure_date: 2025-08-03
  - city: Rome
    arrival_date: 2025-08-03
    departure_date: 2025-08-06
`

func TestRouteCommand_YAML(t *testing.T) {
	path := writeFile(t, "trip.yaml", tripYAML)

	output, err := execute(t, "route", path)
	require.NoError(t, err)

	var plan entity.FlightRoutePlan
	require.NoError(t, json.Unmarshal([]byte(output), &plan))
	assert.True(t, plan.ClosedLoop)
	require.Equal(t, 3, plan.LegCount())
	assert.Equal(t, "Rome", plan.Legs[2].Leg.OriginCity)
	assert.Equal(t, "London", plan.Legs[2].Leg.DestinationCity)
	assert.Equal(t, "2025-08-06", plan.Legs[2].Leg.DepartOn.String())
}

func TestRouteCommand_JSONOpenRoute(t *testing.T) {
	path := writeFile(t, "trip.json", `{
		"origin_city": "London",
		"closed_loop": true,
		"stays": [{"city": "Paris", "arrival_date": "2025-08-01", "departure_date": "2025-08-05"}]
	}`)

	output, err := execute(t, "route", path, "--open")
	require.NoError(t, err)

	var plan entity.FlightRoutePlan
	require.NoError(t, json.Unmarshal([]byte(output), &plan))
	require.Equal(t, 1, plan.LegCount())
	assert.Equal(t, entity.RoundTrip, plan.Legs[0].Leg.Kind)
	assert.Equal(t, "2025-08-05", plan.Legs[0].Leg.ReturnOn.String())
}

func TestRouteCommand_YAMLOutput(t *testing.T) {
	path := writeFile(t, "trip.yaml", tripYAML)

	output, err := execute(t, "route", path, "-o", "yaml", "--origin", "Berlin")
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(output), &decoded))
	assert.Equal(t, "Berlin", decoded["origin_city"])
	assert.Len(t, decoded["legs"], 3)
}

func TestRouteCommand_Errors(t *testing.T) {
	path := writeFile(t, "trip.yaml", "origin_city: Paris\nstays:\n  - city: Paris\n    arrival_date: 2025-08-01\n    departure_date: 2025-08-02\n")
	_, err := execute(t, "route", path)
	require.Error(t, err)
	assert.True(t, entity.IsInsufficientRouteData(err))

	_, err = execute(t, "route", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := writeFile(t, "bad.yaml", "stays:\n  - city: Paris\n    arrival_date: tomorrow\n")
	_, err = execute(t, "route", bad)
	assert.Error(t, err)
}

func TestWindowsCommand(t *testing.T) {
	path := writeFile(t, "group.yaml", `destination: Lisbon
consensus_dates: [2025-09-01, 2025-09-02, 2025-09-04, 2025-09-05, 2025-09-06]
grouped_preferences:
  - user_id: u1
    user_name: Ana
    raw_preferences: [beaches]
  - user_id: u2
    preferred_length_days: 3
    raw_preferences: [museums, food]
`)

	output, err := execute(t, "windows", path)
	require.NoError(t, err)

	var group struct {
		Windows       []string `json:"windows"`
		MinLengthDays int      `json:"min_length_days"`
		Preferences   []string `json:"preferences"`
		Travelers     []string `json:"travelers"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &group))
	assert.Equal(t, []string{"2025-09-04 to 2025-09-06"}, group.Windows)
	assert.Equal(t, 3, group.MinLengthDays)
	assert.Equal(t, []string{"beaches", "museums", "food"}, group.Preferences)
	assert.Equal(t, []string{"Ana", "u2"}, group.Travelers)
}

func TestWindowsCommand_NoWindow(t *testing.T) {
	path := writeFile(t, "group.yaml", `destination: Lisbon
consensus_dates: [2025-09-01]
grouped_preferences:
  - user_id: u1
    preferred_length_days: 2
`)
	_, err := execute(t, "windows", path)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no feasible window"))
}
