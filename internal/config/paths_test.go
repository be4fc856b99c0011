package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPaths(t *testing.T) {
	t.Run("relative directories resolve against base", func(t *testing.T) {
		base := t.TempDir()
		paths, err := GetPaths(PathsConfig{ReportsDir: "data/reports", LogsDir: "logs"}, base)
		require.NoError(t, err)

		assert.Equal(t, base, paths.BaseDir)
		assert.Equal(t, filepath.Join(base, "data", "reports"), paths.ReportsDir)
		assert.Equal(t, filepath.Join(base, "logs"), paths.LogsDir)
	})

	t.Run("absolute directories are kept", func(t *testing.T) {
		abs := filepath.Join(t.TempDir(), "out")
		paths, err := GetPaths(PathsConfig{ReportsDir: abs, LogsDir: "logs"}, "/srv")
		require.NoError(t, err)
		assert.Equal(t, abs, paths.ReportsDir)
	})

	t.Run("empty base uses working directory", func(t *testing.T) {
		wd, err := os.Getwd()
		require.NoError(t, err)

		paths, err := GetPaths(PathsConfig{ReportsDir: "r", LogsDir: "l"}, "")
		require.NoError(t, err)
		assert.Equal(t, wd, paths.BaseDir)
		assert.True(t, filepath.IsAbs(paths.ReportsDir))
	})
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	paths, err := GetPaths(PathsConfig{ReportsDir: "data/reports", LogsDir: "logs"}, base)
	require.NoError(t, err)

	require.NoError(t, paths.EnsureDirectories())
	assert.DirExists(t, paths.ReportsDir)
	assert.DirExists(t, paths.LogsDir)

	// idempotent
	require.NoError(t, paths.EnsureDirectories())
}

func TestPathHelperMethods(t *testing.T) {
	paths := &Paths{BaseDir: "/base", ReportsDir: "/base/reports", LogsDir: "/base/logs"}

	assert.Equal(t, filepath.Join("/base/reports", "view.json"), paths.GetReportPath("view.json"))
	assert.Equal(t, filepath.Join("/base/logs", "prodboard.log"), paths.GetLogPath("prodboard.log"))

	at := time.Date(2025, time.January, 31, 14, 25, 0, 0, time.UTC)
	assert.Equal(t, filepath.Join("/base/reports", "20250131-142500"), paths.GetRunDir(at))
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "present.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(filepath.Join(dir, "absent.txt")))
}
