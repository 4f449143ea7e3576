package harness

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/launchdarkly/posts-api-contract-tests/framework"
	h "github.com/launchdarkly/posts-api-contract-tests/framework/helpers"
)

const (
	httpListenerTimeout   = time.Second * 10
	statusQueryInterval   = time.Millisecond * 100
	DefaultRequestTimeout = time.Second * 30
)

// TestHarness is the main component that manages communication with the service under test.
//
// It always communicates with a single service, which it verifies is alive on startup. After
// that, each call to Do is exactly one HTTP round trip.
//
// It contains no domain-specific test logic, but only provides a general mechanism for test suites
// to build on.
type TestHarness struct {
	baseURL     string
	client      *http.Client
	serviceInfo ServiceInfo
	logger      framework.Logger
}

// ServiceInfo describes what the startup status query learned about the service.
type ServiceInfo struct {
	BaseURL    string
	StatusCode int
	Server     string
}

// TestHarnessConfig holds the parameters for NewTestHarness.
type TestHarnessConfig struct {
	// BaseURL is the root URL of the service under test, such as "http://localhost:3000".
	BaseURL string

	// StatusPath is the path requested during the startup status query. Defaults to "/".
	StatusPath string

	// StatusQueryTimeout is how long to keep trying the status query before giving up.
	StatusQueryTimeout time.Duration

	// RequestTimeout applies to every request made by Do. Defaults to DefaultRequestTimeout.
	RequestTimeout time.Duration

	// DebugLogger receives harness-level output that isn't associated with a test.
	DebugLogger framework.Logger

	// StartupOutput receives progress messages from the status query.
	StartupOutput io.Writer
}

// NewTestHarness creates a TestHarness instance, and verifies that the service is responding by
// querying its status path.
func NewTestHarness(config TestHarnessConfig) (*TestHarness, error) {
	logger := config.DebugLogger
	if logger == nil {
		logger = framework.NullLogger()
	}
	output := config.StartupOutput
	if output == nil {
		output = io.Discard
	}
	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	th := &TestHarness{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}

	info, err := th.queryServiceStatus(h.IfElse(config.StatusPath == "", "/", config.StatusPath),
		config.StatusQueryTimeout, output)
	if err != nil {
		return nil, err
	}
	th.serviceInfo = info
	return th, nil
}

// BaseURL returns the root URL of the service under test, without a trailing slash.
func (th *TestHarness) BaseURL() string {
	return th.baseURL
}

// ServiceInfo returns what the startup status query learned about the service.
func (th *TestHarness) ServiceInfo() ServiceInfo {
	return th.serviceInfo
}

// queryServiceStatus polls the status path until the service sends any HTTP response. A 5xx
// status is treated as a failure to start rather than something to wait out.
func (th *TestHarness) queryServiceStatus(
	statusPath string,
	timeout time.Duration,
	output io.Writer,
) (ServiceInfo, error) {
	url := th.baseURL + statusPath
	fmt.Fprintf(output, "Connecting to service at %s", url)

	var resp *http.Response
	var lastErr error
	answered := h.PollForSpecificResultValue(func() bool {
		fmt.Fprintf(output, ".")
		resp, lastErr = th.client.Get(url) //nolint:bodyclose
		if lastErr != nil {
			return false
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		return true
	}, timeout, statusQueryInterval, true)
	fmt.Fprintln(output)

	if !answered {
		return ServiceInfo{}, fmt.Errorf("timed out, result of last query was: %w", lastErr)
	}
	if resp.StatusCode >= 500 {
		return ServiceInfo{}, fmt.Errorf("service returned status code %d for %s", resp.StatusCode, url)
	}
	fmt.Fprintf(output, "Status query returned %d\n", resp.StatusCode)
	return ServiceInfo{
		BaseURL:    th.baseURL,
		StatusCode: resp.StatusCode,
		Server:     resp.Header.Get("Server"),
	}, nil
}

// StartServer runs an HTTP server on the given port in the background, and returns once the
// server is accepting requests. Every request goes to handler, including the GET of "/" that is
// used to detect the listener, so handler must tolerate that request.
func StartServer(port int, handler http.Handler) (*http.Server, error) {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // arbitrary but non-infinite timeout to avoid Slowloris Attack
	}
	listenErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			listenErr <- err
		}
	}()

	selfURL := fmt.Sprintf("http://localhost:%d", port)
	client := &http.Client{Timeout: time.Second}
	listening := h.PollForSpecificResultValue(func() bool {
		resp, err := client.Get(selfURL + "/")
		if err != nil {
			return false
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		return true
	}, httpListenerTimeout, time.Millisecond*10, true)
	if !listening {
		select {
		case err := <-listenErr:
			return nil, fmt.Errorf("could not start listener at %s: %w", server.Addr, err)
		default:
			return nil, fmt.Errorf("could not detect own listener at %s", server.Addr)
		}
	}
	return server, nil
}
