package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const guardedScenarioYAML = `
name: guarded-exit
description: "A denying guard cancels the second navigation"
routes:
  - path: crises
    component: CrisisList
    children:
      - path: ":id"
        component: CrisisDetail
occupied:
  - node: /crises/:id
    can_navigate: deny
navigations:
  - from: /crises/1
    to: /crises/2
    expect:
      outcome: cancelled
      error: none
`

func TestNav_RunsScenario(t *testing.T) {
	dir := t.TempDir()
	scenarioFile := writeScenarioFile(t, dir, "guarded-exit.yaml", guardedScenarioYAML)

	out, err := executeCommand("nav", scenarioFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Scenario: guarded-exit")
	assert.Contains(t, out, "✗ /crises/1 -> /crises/2: cancelled")
	assert.Contains(t, out, "1 attempt(s), 1 hook call(s) journaled")
}

func TestNav_PersistsJournal(t *testing.T) {
	dir := t.TempDir()
	scenarioFile := writeScenarioFile(t, dir, "guarded-exit.yaml", guardedScenarioYAML)
	dbPath := filepath.Join(dir, "waygate.db")

	_, err := executeCommand("nav", scenarioFile, "--db", dbPath)
	require.NoError(t, err)

	// The persisted journal is visible to the trace command. Occupy
	// consumed tok-1, so the attempt runs under tok-2.
	out, err := executeCommand("trace", "--db", dbPath, "--nav", "tok-2")
	require.NoError(t, err)
	assert.Contains(t, out, "Navigation tok-2: 1 attempt(s)")
	assert.Contains(t, out, "can_navigate@CrisisDetail")
	assert.Contains(t, out, "deny")
}

func TestNav_JSONOutput(t *testing.T) {
	dir := t.TempDir()
	scenarioFile := writeScenarioFile(t, dir, "guarded-exit.yaml", guardedScenarioYAML)

	out, err := executeCommand("--format", "json", "nav", scenarioFile)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "guarded-exit", data["scenario"])
	assert.Equal(t, float64(1), data["attempts"])
}

func TestNav_FailedExpectation(t *testing.T) {
	dir := t.TempDir()
	scenarioFile := writeScenarioFile(t, dir, "wrong.yaml", failingScenarioYAML)

	out, err := executeCommand("nav", scenarioFile)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "outcome = proceed, want cancelled")
}

func TestNav_MissingScenario(t *testing.T) {
	_, err := executeCommand("nav", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
