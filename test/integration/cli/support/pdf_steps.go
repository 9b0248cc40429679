package support

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cucumber/godog"
)

// aCorruptPDFFileExists writes a file that claims to be a PDF but cannot be
// parsed. Commands reference it as {corrupt_pdf}.
func (testCtx *TestContext) aCorruptPDFFileExists() error {
	path := filepath.Join(testCtx.TempDir, "corrupt.pdf")
	content := []byte("%PDF-1.4\nthis is not a valid pdf body\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return fmt.Errorf("failed to create corrupt PDF: %w", err)
	}
	testCtx.CorruptPDFPath = path
	return nil
}

// RegisterPDFSteps registers PDF fixture step definitions.
func (testCtx *TestContext) RegisterPDFSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a corrupt PDF file exists$`, testCtx.aCorruptPDFFileExists)
}
