package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMatch_Flags(t *testing.T) {
	out, err := runCLI(t, "match", "-r", "/user/:id", "-r", "/user/**", "#/user/42?tab=posts")
	require.NoError(t, err)

	assert.Contains(t, out, "#/user/42?tab=posts")
	assert.Contains(t, out, `/user/:id params={id="42"} query={tab="posts"}`)
	assert.Contains(t, out, `/user/** splat=["42"]`)
	assert.Contains(t, out, "=> done (2 matching)")
}

func TestMatch_NotFound(t *testing.T) {
	out, err := runCLI(t, "match", "-r", "/a", "/b")
	require.NoError(t, err)

	assert.Contains(t, out, "#/b")
	assert.Contains(t, out, "error 404")
	assert.Contains(t, out, "=> errored (0 matching)")
}

func TestMatch_ConfigRoutes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hashmux.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ignorecase: false\nroutes:\n  - /About\n"), 0o600))

	out, err := runCLI(t, "--config", path, "match", "#/About", "#/about")
	require.NoError(t, err)
	assert.Contains(t, out, "=> done (1 matching)")
	assert.Contains(t, out, "=> errored (0 matching)")
}

func TestMatch_NoRoutes(t *testing.T) {
	_, err := runCLI(t, "match", "#/a")
	assert.ErrorContains(t, err, "no routes")
}

func TestPush_UnknownTransport(t *testing.T) {
	t.Setenv("HASHMUX_LOCATION_TRANSPORT", "carrier-pigeon")
	_, err := runCLI(t, "push", "#/a")
	assert.ErrorContains(t, err, "unknown transport")
}
