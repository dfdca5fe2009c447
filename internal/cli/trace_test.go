package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const redirectScenarioYAML = `
name: redirect-hop
description: "A redirecting guard sends the navigation to /heroes"
routes:
  - path: crises
    component: CrisisList
    children:
      - path: ":id"
        component: CrisisDetail
  - path: heroes
    component: HeroList
occupied:
  - node: /crises
    can_navigate: "redirect:/heroes"
navigations:
  - from: /crises/1
    to: /crises/2
    affected: ["/crises"]
    expect:
      outcome: proceed
`

// seedDatabase runs a scenario through the nav command and returns the
// journal database path.
func seedDatabase(t *testing.T, scenarioYAML, name string) string {
	t.Helper()
	dir := t.TempDir()
	scenarioFile := writeScenarioFile(t, dir, name, scenarioYAML)
	dbPath := filepath.Join(dir, "waygate.db")
	_, err := executeCommand("nav", scenarioFile, "--db", dbPath)
	require.NoError(t, err)
	return dbPath
}

func TestTrace_RecentAttempts(t *testing.T) {
	dbPath := seedDatabase(t, redirectScenarioYAML, "redirect-hop.yaml")

	out, err := executeCommand("trace", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "2 recent attempt(s):")
	assert.Contains(t, out, "/crises/1 -> /heroes: proceed")
	assert.Contains(t, out, "/crises/1 -> /crises/2: redirect")
}

func TestTrace_Navigation(t *testing.T) {
	dbPath := seedDatabase(t, redirectScenarioYAML, "redirect-hop.yaml")

	out, err := executeCommand("trace", "--db", dbPath, "--nav", "tok-2")
	require.NoError(t, err)
	assert.Contains(t, out, "Navigation tok-2: 2 attempt(s)")
	assert.Contains(t, out, "redirect -> /heroes")
	assert.Contains(t, out, "can_navigate@CrisisList")
	assert.Contains(t, out, "(/heroes)")
}

func TestTrace_NavigationJSON(t *testing.T) {
	dbPath := seedDatabase(t, redirectScenarioYAML, "redirect-hop.yaml")

	out, err := executeCommand("--format", "json", "trace", "--db", dbPath, "--nav", "tok-2")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "tok-2", data["nav_token"])

	attempts, ok := data["attempts"].([]interface{})
	require.True(t, ok)
	require.Len(t, attempts, 2)

	first, ok := attempts[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "redirect", first["outcome"])
	assert.Equal(t, "/heroes", first["redirect_to"])
}

func TestTrace_UnknownNavToken(t *testing.T) {
	dbPath := seedDatabase(t, redirectScenarioYAML, "redirect-hop.yaml")

	out, err := executeCommand("trace", "--db", dbPath, "--nav", "tok-999")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "no attempts for navigation")
}

func TestTrace_EmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")

	out, err := executeCommand("trace", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No attempts recorded.")
}
