package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prodboard/internal/shared/testutil"
)

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewFileValidator(logger)

	dir := filepath.Join(t.TempDir(), "reports", "20250301-093000")
	require.NoError(t, v.ValidateOutputDirectory(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "write probe must be removed")

	file := testutil.WriteFile(t, "plain.txt", "x")
	assert.Error(t, v.ValidateOutputDirectory(filepath.Join(file, "sub")))
}

func TestFileValidator_ValidateFile(t *testing.T) {
	v := NewFileValidator(nil)

	assert.NoError(t, v.ValidateFile(testutil.WriteFile(t, "a.csv", "a,b\n")))

	err := v.ValidateFile("/non/existent/file.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")

	err = v.ValidateFile(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestFileValidator_ValidateReportFile(t *testing.T) {
	v := NewFileValidator(nil)

	tests := []struct {
		name          string
		file          string
		content       string
		errorContains string
	}{
		{name: "csv", file: "lideres.csv", content: "RESPONSAVEL\nANA\n"},
		{name: "xlsx", file: "prodboard.xlsx", content: "PK"},
		{name: "json", file: "diagnostic.json", content: "{}"},
		{name: "empty", file: "pareto.csv", content: "", errorContains: "is empty"},
		{name: "wrong extension", file: "notes.txt", content: "x", errorContains: "not a report file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateReportFile(testutil.WriteFile(t, tt.file, tt.content))
			if tt.errorContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}
