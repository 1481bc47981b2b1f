// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-nsm.
//
// go-nsm is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-nsm/pkg/nsm"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, nsm.DevFile, cfg.Device.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.Debug())
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nsmctl.yaml")
	content := []byte("device:\n  path: /dev/nsm0\nlogging:\n  level: debug\nmetrics:\n  enabled: false\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/nsm0", cfg.Device.Path)
	assert.True(t, cfg.Debug())
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nsmctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, nsm.DevFile, cfg.Device.Path)
	assert.True(t, cfg.Debug())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nsmctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NSM_DEVICE", "/dev/nsm9")
	t.Setenv("NSM_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/dev/nsm9", cfg.Device.Path)
	assert.True(t, cfg.Debug())
}
