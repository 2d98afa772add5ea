package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag variable to its default.
func resetFlags() {
	verbose, quiet, jsonOut = false, false, false
	initSize, initControl = "", ""
	putCharset = ""
}

// newImage runs init for a fresh image in a temp dir and returns its path.
func newImage(t *testing.T, extra ...string) string {
	t.Helper()
	resetFlags()
	path := filepath.Join(t.TempDir(), "test.rlk")
	_, err := captureOutput(t, func() error { return runInit([]string{path}) })
	require.NoError(t, err)
	if len(extra) > 0 {
		_, err = captureOutput(t, func() error { return runPut(append([]string{path}, extra...)) })
		require.NoError(t, err)
	}
	return path
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	return buf.String(), fnErr
}

// decodeJSON unmarshals output into v, failing on invalid JSON
func decodeJSON(t *testing.T, output string, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(output), v), "output: %s", output)
}
