package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mediaview "+Version)
}

func TestSimulateMinimize(t *testing.T) {
	out, err := run(t, "--config", writeConfig(t), "simulate", "--mode", "minimize", "--drag", "0.8")
	require.NoError(t, err)
	assert.Contains(t, out, "window: attach")
	assert.Contains(t, out, "didPresent")
	assert.Contains(t, out, "willEndMinimizing(true)")
	assert.Contains(t, out, "didEndMinimizing(true)")
	assert.Contains(t, out, "state minimized")
}

func TestSimulateMinimizeSnapsBack(t *testing.T) {
	out, err := run(t, "--config", writeConfig(t), "simulate", "--mode", "minimize", "--drag", "0.2")
	require.NoError(t, err)
	assert.Contains(t, out, "didEndMinimizing(false)")
	assert.Contains(t, out, "state full-screen")
}

func TestSimulateDismiss(t *testing.T) {
	out, err := run(t, "--config", writeConfig(t), "simulate", "--mode", "dismiss", "--drag", "0.9")
	require.NoError(t, err)
	assert.Contains(t, out, "willEndDismissing(true)")
	assert.Contains(t, out, "didDismiss")
	assert.Contains(t, out, "window: detach")
	assert.Contains(t, out, "state inline")
}

func TestSimulateFlingDismisses(t *testing.T) {
	out, err := run(t, "--config", writeConfig(t), "simulate", "--mode", "dismiss", "--drag", "0.3", "--velocity", "1200")
	require.NoError(t, err)
	assert.Contains(t, out, "willEndDismissing(true)")
}

func TestSimulateRejectsBadInput(t *testing.T) {
	cfg := writeConfig(t)
	_, err := run(t, "--config", cfg, "simulate", "--mode", "none")
	assert.Error(t, err)
	_, err = run(t, "--config", cfg, "simulate", "--drag", "1.5")
	assert.Error(t, err)
}

func TestCacheFetchListClear(t *testing.T) {
	cfg := writeConfig(t)
	root := t.TempDir()
	src := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(src, []byte("not really a video"), 0o644))

	out, err := run(t, "--config", cfg, "--cache-dir", root, "cache", "fetch", src)
	require.NoError(t, err)
	assert.Contains(t, out, "video")
	assert.FileExists(t, filepath.Join(root, "MediaCache", "Video", "clip.mp4"))

	out, err = run(t, "--config", cfg, "--cache-dir", root, "cache", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "clip.mp4")
	assert.Contains(t, out, "1 file")

	out, err = run(t, "--config", cfg, "--cache-dir", root, "cache", "clear", "video")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared video")
	assert.NoFileExists(t, filepath.Join(root, "MediaCache", "Video", "clip.mp4"))
}

func TestCacheFetchErrors(t *testing.T) {
	cfg := writeConfig(t)
	root := t.TempDir()

	_, err := run(t, "--config", cfg, "--cache-dir", root, "cache", "fetch", "noextension")
	assert.ErrorContains(t, err, "--kind")

	_, err = run(t, "--config", cfg, "--cache-dir", root, "cache", "fetch", "--kind", "audio", filepath.Join(root, "missing.mp3"))
	assert.ErrorContains(t, err, "1 of 1 fetches failed")

	_, err = run(t, "--config", cfg, "--cache-dir", root, "cache", "clear", "images")
	assert.Error(t, err)
}

// writeConfig pins the config file so tests never pick one up from the
// working directory.
func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mediaview.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: error\n"), 0o644))
	return path
}
