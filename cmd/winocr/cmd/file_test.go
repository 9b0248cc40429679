package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCommand(t *testing.T) {
	assert.NotNil(t, fileCmd)
	assert.True(t, strings.HasPrefix(fileCmd.Use, "file"))
	assert.NotEmpty(t, fileCmd.Short)
	assert.NotEmpty(t, fileCmd.Long)
}

func TestFileCommandHelp(t *testing.T) {
	command := fileCmd
	buf := new(bytes.Buffer)
	command.SetOut(buf)
	command.SetErr(buf)
	// Call help directly to avoid cobra root execution differences
	err := command.Help()
	require.NoError(t, err)
	output := strings.TrimSpace(buf.String())
	assert.Contains(t, output, "Recognize text in image files")
	assert.Contains(t, output, "Usage:")
	assert.Contains(t, output, "Flags:")
}

func TestFileCommandFlags(t *testing.T) {
	flags := fileCmd.Flags()

	expectedFlags := []string{"format", "output", "language", "scale", "grayscale", "poll-interval"}
	for _, flagName := range expectedFlags {
		assert.NotNil(t, flags.Lookup(flagName), "Expected flag '%s' not found", flagName)
	}
}

func TestFileCommandWithoutFile(t *testing.T) {
	err := fileCmd.RunE(fileCmd, []string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input files")
}

func TestFileCommandUnsupportedExtension(t *testing.T) {
	err := fileCmd.RunE(fileCmd, []string{"document.txt"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported image format")
}

func TestFileCommandWithNonExistentFile(t *testing.T) {
	// Missing file or missing platform support, either way an error
	err := fileCmd.RunE(fileCmd, []string{"/non/existent/file.jpg"})
	assert.Error(t, err)
}

func TestGetFileCommand(t *testing.T) {
	assert.Same(t, fileCmd, GetFileCommand())
}
