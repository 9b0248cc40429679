package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProjectRoot(t *testing.T) {
	root, err := GetProjectRoot()
	require.NoError(t, err)
	assert.NotEmpty(t, root)
	assert.True(t, FileExists(filepath.Join(root, "go.mod")))
}

func TestGetProjectRootValidated(t *testing.T) {
	root, err := GetProjectRootValidated()
	require.NoError(t, err)
	assert.True(t, DirExists(filepath.Join(root, "internal")))
	assert.True(t, DirExists(filepath.Join(root, "cmd")))
}

func TestValidateProjectRootRejectsBadDir(t *testing.T) {
	err := ValidateProjectRoot(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "go.mod")
}

func TestGetTestDataDir(t *testing.T) {
	testDataDir := GetTestDataDir(t)
	assert.NotEmpty(t, testDataDir)
	assert.Contains(t, testDataDir, "testdata")
}

func TestEnsureDir(t *testing.T) {
	testDir := filepath.Join(t.TempDir(), "test", "nested", "dir")

	err := EnsureDir(testDir)
	require.NoError(t, err)
	assert.True(t, DirExists(testDir))
}

func TestFileExists(t *testing.T) {
	assert.False(t, FileExists("/non/existent/file"))

	root, err := GetProjectRoot()
	require.NoError(t, err)
	assert.True(t, FileExists(filepath.Join(root, "go.mod")))
}

func TestDirExists(t *testing.T) {
	assert.True(t, DirExists(t.TempDir()))
	assert.False(t, DirExists("/non/existent/dir"))

	root, err := GetProjectRoot()
	require.NoError(t, err)
	// go.mod is a file, not a directory
	assert.False(t, DirExists(filepath.Join(root, "go.mod")))
}
