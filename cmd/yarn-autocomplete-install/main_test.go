package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeInstallScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("install script requires a Unix shell")
	}
	path := filepath.Join(t.TempDir(), "install.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

func TestInstallSuccess(t *testing.T) {
	script := writeInstallScript(t, "echo installed\n")
	var stdout, stderr bytes.Buffer

	code := install(context.Background(), script, strings.NewReader(""), &stdout, &stderr, zap.NewNop())

	assert.Equal(t, 0, code)
	assert.Equal(t, "installed\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestInstallPropagatesExitCode(t *testing.T) {
	script := writeInstallScript(t, "echo 'no shell rc found' >&2\nexit 7\n")
	var stdout, stderr bytes.Buffer

	code := install(context.Background(), script, strings.NewReader(""), &stdout, &stderr, zap.NewNop())

	assert.Equal(t, 7, code)
	assert.Equal(t, "no shell rc found\n", stderr.String())
}

func TestInstallMissingScript(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := install(context.Background(), filepath.Join(t.TempDir(), "install.sh"), nil, &stdout, &stderr, zap.NewNop())

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "yarn-autocomplete-install:")
}
