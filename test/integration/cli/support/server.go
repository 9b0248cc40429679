package support

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/cucumber/godog"
)

// encodePNG writes img as PNG to w.
func encodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// serverBinary resolves the CLI binary under test.
func serverBinary() string {
	if bin := os.Getenv("WINOCR_BIN"); bin != "" {
		return bin
	}
	return "winocr"
}

// freePort asks the kernel for an unused TCP port.
func freePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("failed to reserve port: %w", err)
	}
	defer func() { _ = l.Close() }()

	addr, ok := l.Addr().(*net.TCPAddr)
	if !ok {
		return 0, errors.New("unexpected listener address type")
	}
	return addr.Port, nil
}

// aServerProcessIsStarted launches the real binary with `serve` on a free port
// and waits until its health endpoint answers.
func (testCtx *TestContext) aServerProcessIsStarted() error {
	if testCtx.ServerProcess != nil {
		return errors.New("server process already running")
	}

	port, err := freePort()
	if err != nil {
		return err
	}

	//nolint:gosec // G204: binary path is controlled by the test harness
	cmd := exec.Command(serverBinary(), "serve", "--host", testCtx.ServerHost, "--port", strconv.Itoa(port))
	cmd.Dir = testCtx.WorkingDir
	cmd.Env = append(os.Environ(), testCtx.EnvVars...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start server process: %w", err)
	}

	testCtx.ServerProcess = cmd.Process
	testCtx.ServerPort = port

	if err := testCtx.waitForServerHealthy(10 * time.Second); err != nil {
		_ = testCtx.StopServer()
		return err
	}
	return nil
}

// waitForServerHealthy polls the health endpoint until it responds or the
// deadline passes.
func (testCtx *TestContext) waitForServerHealthy(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	url := fmt.Sprintf("http://%s:%d/health", testCtx.ServerHost, testCtx.ServerPort)

	for time.Now().Before(deadline) {
		if testCtx.isServerHealthy(url) {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("server did not become healthy within %v", timeout)
}

func (testCtx *TestContext) isServerHealthy(url string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK
}

// theServerShouldReportHealthy asserts the spawned server answers on /health.
func (testCtx *TestContext) theServerShouldReportHealthy() error {
	if testCtx.ServerProcess == nil {
		return errors.New("no server process is running")
	}
	url := fmt.Sprintf("http://%s:%d/health", testCtx.ServerHost, testCtx.ServerPort)
	if !testCtx.isServerHealthy(url) {
		return fmt.Errorf("server at %s is not healthy", url)
	}
	return nil
}

// theServerProcessIsStopped terminates the spawned server.
func (testCtx *TestContext) theServerProcessIsStopped() error {
	if testCtx.ServerProcess == nil {
		return errors.New("no server process to stop")
	}
	return testCtx.StopServer()
}

// registerProcessServerSteps registers steps driving the real serve binary.
func (testCtx *TestContext) registerProcessServerSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a winocr server process is started$`, testCtx.aServerProcessIsStarted)
	sc.Step(`^the server should report healthy$`, testCtx.theServerShouldReportHealthy)
	sc.Step(`^the server process is stopped$`, testCtx.theServerProcessIsStopped)
}
