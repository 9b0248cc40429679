package support

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cucumber/godog"

	"github.com/MeKo-Tech/winocr/internal/testutil"
)

// aTestImageContainingTheTextExists renders a PNG with the given text into the
// scenario temp directory. Commands reference it as {test_image}.
func (testCtx *TestContext) aTestImageContainingTheTextExists(text string) error {
	path := filepath.Join(testCtx.TempDir, "sample.png")
	if err := testutil.WriteTextImage(path, text, 400, 160); err != nil {
		return fmt.Errorf("failed to generate test image: %w", err)
	}
	testCtx.TestImagePath = path
	return nil
}

// aDirectoryWithTestImagesExists fills a temp directory with generated PNGs.
// Commands reference it as {image_dir}.
func (testCtx *TestContext) aDirectoryWithTestImagesExists(count int) error {
	dir := testCtx.GetTempDir("images")
	for i := 0; i < count; i++ {
		path := filepath.Join(dir, fmt.Sprintf("page_%d.png", i+1))
		if err := testutil.WriteTextImage(path, fmt.Sprintf("Page %d", i+1), 320, 120); err != nil {
			return fmt.Errorf("failed to generate test image %d: %w", i+1, err)
		}
	}
	testCtx.ImageDirPath = dir
	return nil
}

// anEmptyDirectoryExists creates an empty temp directory referenced as {empty_dir}.
func (testCtx *TestContext) anEmptyDirectoryExists() error {
	dir := testCtx.GetTempDir("empty")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create empty directory: %w", err)
	}
	testCtx.EmptyDirPath = dir
	return nil
}

// anUnsupportedDocumentFileExists writes a plain text file referenced as {bad_file}.
func (testCtx *TestContext) anUnsupportedDocumentFileExists() error {
	path := filepath.Join(testCtx.TempDir, "document.txt")
	if err := os.WriteFile(path, []byte("not an image\n"), 0o600); err != nil {
		return fmt.Errorf("failed to create unsupported file: %w", err)
	}
	testCtx.BadFilePath = path
	return nil
}

// aFileWithAPngExtensionButInvalidContentExists writes garbage bytes with a
// .png extension, referenced as {bad_file}.
func (testCtx *TestContext) aFileWithAPngExtensionButInvalidContentExists() error {
	path := filepath.Join(testCtx.TempDir, "broken.png")
	if err := os.WriteFile(path, []byte("this is not a PNG"), 0o600); err != nil {
		return fmt.Errorf("failed to create invalid image file: %w", err)
	}
	testCtx.BadFilePath = path
	return nil
}

// RegisterImageSteps registers image fixture step definitions.
func (testCtx *TestContext) RegisterImageSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a test image containing the text "([^"]*)" exists$`, testCtx.aTestImageContainingTheTextExists)
	sc.Step(`^a directory with (\d+) test images exists$`, testCtx.aDirectoryWithTestImagesExists)
	sc.Step(`^an empty directory exists$`, testCtx.anEmptyDirectoryExists)
	sc.Step(`^an unsupported document file exists$`, testCtx.anUnsupportedDocumentFileExists)
	sc.Step(`^a file with a png extension but invalid content exists$`, testCtx.aFileWithAPngExtensionButInvalidContentExists)
}
