package support

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/MeKo-Tech/winocr/internal/server"
)

// HTTPTestServerWrapper runs the OCR HTTP API in-process on an httptest
// listener so scenarios can exercise routes without spawning a binary.
type HTTPTestServerWrapper struct {
	ts  *httptest.Server
	srv *server.Server
}

// URL returns the base URL of the running test server.
func (w *HTTPTestServerWrapper) URL() string {
	return w.ts.URL
}

// startTestHTTPServer creates the API server with the given CORS origin and
// serves it on an ephemeral port.
func (testCtx *TestContext) startTestHTTPServer(corsOrigin string) error {
	if testCtx.HTTPTestServer != nil {
		return errors.New("test HTTP server already running")
	}

	srv, err := server.NewServer(server.Config{
		CORSOrigin:  corsOrigin,
		MaxUploadMB: 50,
		TimeoutSec:  30,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	mux := http.NewServeMux()
	srv.SetupRoutes(mux)

	testCtx.HTTPTestServer = &HTTPTestServerWrapper{
		ts:  httptest.NewServer(mux),
		srv: srv,
	}
	return nil
}

// stopTestHTTPServer shuts down the in-process server and releases the engine.
func (testCtx *TestContext) stopTestHTTPServer() error {
	if testCtx.HTTPTestServer == nil {
		return nil
	}

	testCtx.HTTPTestServer.ts.Close()
	err := testCtx.HTTPTestServer.srv.Close()
	testCtx.HTTPTestServer = nil
	if err != nil {
		return fmt.Errorf("failed to close server: %w", err)
	}
	return nil
}
