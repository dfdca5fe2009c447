package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validRoutesCUE = `
routes: [
	{
		path:      "crises"
		component: "CrisisList"
		children: [
			{path: ":id", component: "CrisisDetail"},
		]
	},
	{path: "heroes", component: "HeroList"},
]
max_redirects: 5
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "routes.cue")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidate_ValidConfig(t *testing.T) {
	path := writeConfig(t, validRoutesCUE)

	out, err := executeCommand("validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")
	assert.Contains(t, out, "3 node(s), max 5 redirect(s)")
	assert.Contains(t, out, "CrisisDetail")
}

func TestValidate_ValidConfigJSON(t *testing.T) {
	path := writeConfig(t, validRoutesCUE)

	out, err := executeCommand("--format", "json", "validate", path)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, data["valid"])
	assert.Equal(t, float64(3), data["nodes"])
	assert.Equal(t, float64(5), data["max_redirects"])
}

func TestValidate_MissingComponent(t *testing.T) {
	path := writeConfig(t, `
routes: [
	{path: "crises"},
]
`)

	out, err := executeCommand("validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Validation failed")
	assert.Contains(t, out, "component")
}

func TestValidate_MissingFileErrors(t *testing.T) {
	out, err := executeCommand("validate", filepath.Join(t.TempDir(), "absent.cue"))
	require.Error(t, err)
	assert.Contains(t, out, "Validation failed")
}

func TestValidate_JSONErrorPayload(t *testing.T) {
	path := writeConfig(t, `routes: "not a list"`)

	out, err := executeCommand("--format", "json", "validate", path)
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeConfig, resp.Error.Code)
}
