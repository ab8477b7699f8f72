package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanolab/patternshop/internal/order"
	"github.com/kanolab/patternshop/internal/store"
)

// execute runs the root command with args and captures stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "patternshop", cmd.Use)

	for _, name := range []string{"validate", "price", "serve", "test", "sessions"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, "command %s should exist", name)
		assert.Equal(t, name, sub.Name())
	}
}

func TestRootCommand_RejectsInvalidFormat(t *testing.T) {
	_, err := execute(t, "--format", "xml", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestValidate_EmbeddedDefinitions(t *testing.T) {
	out, err := execute(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "OK: 3 categories")
	assert.Contains(t, out, "c1")
	assert.Contains(t, out, "c3")
}

func TestValidate_JSON(t *testing.T) {
	out, err := execute(t, "validate", "--format", "json")
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestValidate_BadDirectoryFails(t *testing.T) {
	out, err := execute(t, "validate", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [compile-failed]")
}

func TestPrice_AppliesPolicyDefaults(t *testing.T) {
	out, err := execute(t, "price", "c3", "variant=dp&productId=p1&productPrice=3180")
	require.NoError(t, err)
	// Forced express shipping and warranty option priced in.
	assert.Contains(t, out, "¥3,630")
	assert.Contains(t, out, "お急ぎ配送")
}

func TestPrice_ControlKeepsUnselected(t *testing.T) {
	out, err := execute(t, "price", "c1", "variant=control&productId=p2&productPrice=2880")
	require.NoError(t, err)
	assert.Contains(t, out, "未選択")
	assert.Contains(t, out, "¥2,880")
}

func TestPrice_UnknownCategory(t *testing.T) {
	_, err := execute(t, "price", "c9", "variant=control")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTest_RunsScenarioDirectory(t *testing.T) {
	out, err := execute(t, "test", filepath.Join("..", "harness", "testdata", "scenarios"))
	require.NoError(t, err)
	assert.Contains(t, out, "PASS  imposed-defaults")
	assert.Contains(t, out, "4 passed, 0 failed, 4 total")
}

func TestTest_FilterSelectsSubset(t *testing.T) {
	out, err := execute(t, "test",
		filepath.Join("..", "harness", "testdata", "scenarios"),
		"--filter", "imposed-*")
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestSessions_ListAndDetail(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "funnel.db")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	_, err = st.Append(context.Background(), store.Event{
		SessionToken: "sess-a",
		CategoryID:   "c2",
		Step:         "shipping",
		Type:         store.EventStepView,
		Variant:      order.VariantDP,
		State:        order.SelectionState{Variant: order.VariantDP, ProductID: "p1", ProductPrice: 3180},
		TotalYen:     3180,
	})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := execute(t, "sessions", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "1 session(s)")
	assert.Contains(t, out, "sess-a")

	out, err = execute(t, "sessions", "--db", dbPath, "sess-a")
	require.NoError(t, err)
	assert.Contains(t, out, "c2/shipping")
	assert.Contains(t, out, "¥3,180")
}

func TestSessions_RequiresDatabaseFlag(t *testing.T) {
	_, err := execute(t, "sessions")
	require.Error(t, err)
}
