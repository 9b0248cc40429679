package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Credentials holds the passwords for an encrypted PDF document.
type Credentials struct {
	UserPassword  string `json:"user_password,omitempty"`
	OwnerPassword string `json:"owner_password,omitempty"`
}

// IsEncrypted reports whether a PDF file is password-protected.
func IsEncrypted(filename string) (bool, error) {
	_, err := api.PageCountFile(filename)
	if err != nil {
		if IsPasswordError(err) {
			return true, nil
		}
		return false, fmt.Errorf("checking encryption of %s: %w", filename, err)
	}
	return false, nil
}

// Decrypt decrypts a password-protected PDF into a temporary file and returns
// its path. Unencrypted files are returned unchanged. The caller removes the
// temporary file via RemoveDecrypted.
func Decrypt(filename string, creds *Credentials) (string, error) {
	encrypted, err := IsEncrypted(filename)
	if err != nil {
		return "", err
	}
	if !encrypted {
		return filename, nil
	}

	conf := model.NewDefaultConfiguration()
	if creds != nil {
		conf.UserPW = creds.UserPassword
		conf.OwnerPW = creds.OwnerPassword
	}

	tempFile, err := os.CreateTemp("", "winocr-decrypted-*.pdf")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tempName := tempFile.Name()
	_ = tempFile.Close()

	if err := api.DecryptFile(filename, tempName, conf); err != nil {
		_ = os.Remove(tempName)
		return "", fmt.Errorf("decrypting %s: %w", filename, err)
	}

	return tempName, nil
}

// RemoveDecrypted removes a temporary file produced by Decrypt. Paths that do
// not match the Decrypt naming scheme are left alone.
func RemoveDecrypted(path string) error {
	if !strings.Contains(path, "winocr-decrypted-") || !strings.HasSuffix(path, ".pdf") {
		return nil
	}
	return os.Remove(path)
}

// IsPasswordError reports whether an error indicates a password or
// encryption problem.
func IsPasswordError(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, keyword := range []string{"password", "encrypted", "decrypt", "authentication"} {
		if strings.Contains(msg, keyword) {
			return true
		}
	}
	return false
}
