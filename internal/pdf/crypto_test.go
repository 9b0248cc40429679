package pdf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPasswordError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "password", err: errors.New("please provide the correct password"), want: true},
		{name: "encrypted", err: errors.New("pdfcpu: this file is encrypted"), want: true},
		{name: "decrypt", err: errors.New("cannot decrypt"), want: true},
		{name: "unrelated", err: errors.New("file not found"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPasswordError(tt.err))
		})
	}
}

func TestRemoveDecryptedGuard(t *testing.T) {
	// Files outside the Decrypt naming scheme must not be touched.
	dir := t.TempDir()
	other := filepath.Join(dir, "precious.pdf")
	require.NoError(t, os.WriteFile(other, []byte("%PDF-1.4"), 0o600))

	require.NoError(t, RemoveDecrypted(other))
	_, err := os.Stat(other)
	assert.NoError(t, err)

	require.NoError(t, RemoveDecrypted(""))
}

func TestRemoveDecryptedMatches(t *testing.T) {
	dir := t.TempDir()
	temp := filepath.Join(dir, "winocr-decrypted-123.pdf")
	require.NoError(t, os.WriteFile(temp, []byte("%PDF-1.4"), 0o600))

	require.NoError(t, RemoveDecrypted(temp))
	_, err := os.Stat(temp)
	assert.True(t, os.IsNotExist(err))
}

func TestIsEncryptedMissingFile(t *testing.T) {
	_, err := IsEncrypted("/non/existent/file.pdf")
	require.Error(t, err)
}

func TestDecryptPassthrough(t *testing.T) {
	// A minimal well-formed single page PDF, not encrypted.
	pdfData := "%PDF-1.4\n" +
		"1 0 obj<</Type/Catalog/Pages 2 0 R>>endobj\n" +
		"2 0 obj<</Type/Pages/Kids[3 0 R]/Count 1>>endobj\n" +
		"3 0 obj<</Type/Page/Parent 2 0 R/MediaBox[0 0 612 792]>>endobj\n" +
		"trailer<</Root 1 0 R>>\n" +
		"%%EOF\n"

	dir := t.TempDir()
	path := filepath.Join(dir, "plain.pdf")
	require.NoError(t, os.WriteFile(path, []byte(pdfData), 0o600))

	encrypted, err := IsEncrypted(path)
	if err != nil {
		t.Skipf("PDF parser rejected minimal fixture: %v", err)
	}
	require.False(t, encrypted)

	out, err := Decrypt(path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, out)
}
