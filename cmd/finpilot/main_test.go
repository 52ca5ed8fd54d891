package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/finpilot/internal/model"
)

// execute runs the root command with a fresh viper and a config file that
// selects plain markdown output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	cfgFile = ""
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("tui:\n  glamour_style: ascii\nlogging:\n  level: error\n"), 0o600))

	root := newRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", cfg}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeProfile(t *testing.T, in *model.Input) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, in.WriteYAML(f))
	require.NoError(t, f.Close())
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "finpilot dev")
}

func TestPlanCommand_Template(t *testing.T) {
	out, err := execute(t, "plan", "--template")
	require.NoError(t, err)

	in, err := model.LoadInput(bytes.NewBufferString(out))
	require.NoError(t, err)
	assert.Equal(t, model.ExampleInput(), in)
}

func TestPlanCommand_WithStub(t *testing.T) {
	path := writeProfile(t, model.ExampleInput())

	out, err := execute(t, "plan", path, "--provider", "stub", "--simulate", "--ask", "Is the voyager plan too risky?")
	require.NoError(t, err)

	for _, want := range []string{
		"Sentinel",
		"Voyager",
		"Retirement",
		"Sound",
		"The Pessimistic Scenario",
		"Is the voyager plan too risky?",
		"A growth path for Asha",
		"generate",
		"evaluate",
	} {
		assert.Contains(t, out, want)
	}
}

func TestPlanCommand_InvalidProfile(t *testing.T) {
	in := model.ExampleInput()
	in.Age = "old"
	path := writeProfile(t, in)

	out, err := execute(t, "plan", path, "--provider", "stub")
	require.Error(t, err)
	assert.Contains(t, out, "age")
	assert.NotContains(t, out, "Sentinel")
}

func TestPlanCommand_RequiresProfile(t *testing.T) {
	_, err := execute(t, "plan", "--provider", "stub")
	assert.ErrorContains(t, err, "profile file is required")
}

func TestPingCommand(t *testing.T) {
	t.Run("stub", func(t *testing.T) {
		out, err := execute(t, "ping", "--provider", "stub")
		require.NoError(t, err)
		assert.Contains(t, out, "stub planner ready")
	})

	t.Run("http", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"FinPilot API is running"}`))
		}))
		defer server.Close()

		out, err := execute(t, "ping", "--service-url", server.URL)
		require.NoError(t, err)
		assert.Contains(t, out, "FinPilot API is running")
	})

	t.Run("missing url", func(t *testing.T) {
		t.Setenv("FINPILOT_SERVICE_URL", "")
		_, err := execute(t, "ping")
		assert.ErrorContains(t, err, "planning service URL is required")
	})
}
