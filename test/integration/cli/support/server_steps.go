package support

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/MeKo-Tech/winocr/internal/testutil"
)

// aTestOCRServerIsRunning starts the in-process API server with a permissive
// CORS origin.
func (testCtx *TestContext) aTestOCRServerIsRunning() error {
	return testCtx.startTestHTTPServer("*")
}

// aTestOCRServerIsRunningWithCORSOrigin starts the server with a specific origin.
func (testCtx *TestContext) aTestOCRServerIsRunningWithCORSOrigin(origin string) error {
	return testCtx.startTestHTTPServer(origin)
}

// serverBaseURL resolves the target for HTTP steps, preferring the in-process
// server over a spawned process.
func (testCtx *TestContext) serverBaseURL() (string, error) {
	if testCtx.HTTPTestServer != nil {
		return testCtx.HTTPTestServer.URL(), nil
	}
	if testCtx.ServerProcess != nil {
		return fmt.Sprintf("http://%s:%d", testCtx.ServerHost, testCtx.ServerPort), nil
	}
	return "", errors.New("no server is running")
}

// recordResponse captures status, headers and body for later assertions.
func (testCtx *TestContext) recordResponse(resp *http.Response) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	testCtx.LastHTTPStatusCode = resp.StatusCode
	testCtx.LastHTTPResponse = string(body)
	testCtx.LastHTTPHeaders = resp.Header
	return nil
}

// iSendARequestTo performs an HTTP request against the running server.
func (testCtx *TestContext) iSendARequestTo(method, path string) error {
	base, err := testCtx.serverBaseURL()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, base+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return testCtx.recordResponse(resp)
}

// iUploadAGeneratedImageTo posts a synthetic PNG as multipart form data.
func (testCtx *TestContext) iUploadAGeneratedImageTo(path string) error {
	base, err := testCtx.serverBaseURL()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("image", "upload.png")
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	img := testutil.CreateTestImageWithText("Upload", 200, 80)
	if err := encodePNG(part, img); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+path, &buf)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	return testCtx.recordResponse(resp)
}

// theResponseStatusShouldBe verifies the HTTP status code.
func (testCtx *TestContext) theResponseStatusShouldBe(code int) error {
	if testCtx.LastHTTPStatusCode != code {
		return fmt.Errorf("expected status %d, got %d\nBody: %s",
			code, testCtx.LastHTTPStatusCode, testCtx.LastHTTPResponse)
	}
	return nil
}

// theResponseShouldContain verifies the response body contains text.
func (testCtx *TestContext) theResponseShouldContain(text string) error {
	if !strings.Contains(testCtx.LastHTTPResponse, text) {
		return fmt.Errorf("response does not contain '%s'\nBody: %s", text, testCtx.LastHTTPResponse)
	}
	return nil
}

// theResponseShouldBeValidJSON verifies the response body parses as JSON.
func (testCtx *TestContext) theResponseShouldBeValidJSON() error {
	var js json.RawMessage
	if err := json.Unmarshal([]byte(testCtx.LastHTTPResponse), &js); err != nil {
		return fmt.Errorf("response is not valid JSON: %w\nBody: %s", err, testCtx.LastHTTPResponse)
	}
	return nil
}

// theResponseHeaderShouldBe verifies a response header value.
func (testCtx *TestContext) theResponseHeaderShouldBe(name, value string) error {
	got := testCtx.LastHTTPHeaders.Get(name)
	if got != value {
		return fmt.Errorf("expected header %s to be %q, got %q", name, value, got)
	}
	return nil
}

// RegisterServerSteps registers server interaction step definitions.
func (testCtx *TestContext) RegisterServerSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a test OCR server is running$`, testCtx.aTestOCRServerIsRunning)
	sc.Step(`^a test OCR server is running with CORS origin "([^"]*)"$`, testCtx.aTestOCRServerIsRunningWithCORSOrigin)
	sc.Step(`^I send a (GET|POST|OPTIONS) request to "([^"]*)"$`, testCtx.iSendARequestTo)
	sc.Step(`^I upload a generated image to "([^"]*)"$`, testCtx.iUploadAGeneratedImageTo)
	sc.Step(`^the response status should be (\d+)$`, testCtx.theResponseStatusShouldBe)
	sc.Step(`^the response should contain "([^"]*)"$`, testCtx.theResponseShouldContain)
	sc.Step(`^the response should be valid JSON$`, testCtx.theResponseShouldBeValidJSON)
	sc.Step(`^the response header "([^"]*)" should be "([^"]*)"$`, testCtx.theResponseHeaderShouldBe)

	testCtx.registerProcessServerSteps(sc)
}
