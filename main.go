package main

import (
	"bufio"
	_ "embed" // this is required in order for go:embed to work
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/launchdarkly/posts-api-contract-tests/config"
	"github.com/launchdarkly/posts-api-contract-tests/framework"
	"github.com/launchdarkly/posts-api-contract-tests/framework/harness"
	"github.com/launchdarkly/posts-api-contract-tests/framework/ldtest"
	"github.com/launchdarkly/posts-api-contract-tests/mockapi"
	"github.com/launchdarkly/posts-api-contract-tests/posttests"
)

const (
	defaultMockPort = 8111
	junitSuiteName  = "posts-api-contract-tests"
)

//go:embed VERSION
var versionString string // comes from the VERSION file which we update for each release

func main() {
	fmt.Printf("posts-api-contract-tests v%s\n", strings.TrimSpace(versionString))

	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	results, err := run(params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !results.OK() {
		if ids := namedTestIDs(results.FailedIDs()); len(ids) > 0 {
			fmt.Println()
			fmt.Println("To run only the failed tests again:")
			fmt.Printf("  %s\n", params.rerunCommand(os.Args[0], ids))
		}
		os.Exit(1)
	}
}

func run(params commandParams) (*ldtest.Results, error) {
	if params.skipFile != "" {
		if err := loadSuppressions(&params); err != nil {
			return nil, err
		}
	}

	cfg, err := loadConfig(params)
	if err != nil {
		return nil, err
	}

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = log.New(os.Stdout, "", log.LstdFlags)
	}

	if params.mock {
		server, err := startMockService(&cfg, params.mockPort, mainDebugLogger)
		if err != nil {
			return nil, err
		}
		defer func() { _ = server.Close() }()
	}

	harnessConfig := cfg.HarnessConfig()
	harnessConfig.DebugLogger = mainDebugLogger
	harnessConfig.StartupOutput = os.Stdout
	harness, err := harness.NewTestHarness(harnessConfig)
	if err != nil {
		return nil, err
	}

	var testLogger ldtest.TestLogger
	consoleLogger := ldtest.ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}
	if params.jUnitFile == "" {
		testLogger = consoleLogger
	} else {
		properties := map[string]string{
			"service.url": harness.BaseURL(),
			"version":     strings.TrimSpace(versionString),
		}
		if server := harness.ServiceInfo().Server; server != "" {
			properties["service.server"] = server
		}
		testLogger = &ldtest.MultiTestLogger{Loggers: []ldtest.TestLogger{
			consoleLogger,
			ldtest.NewJUnitTestLogger(params.jUnitFile, junitSuiteName, properties, params.filters),
		}}
	}

	results := posttests.RunPostsTestSuite(harness, cfg, params.filters, testLogger)

	fmt.Println()
	if err := testLogger.EndLog(results); err != nil {
		return nil, fmt.Errorf("error writing log: %w", err)
	}

	if params.recordFailures != "" {
		if err := writeFailures(params.recordFailures, results); err != nil {
			return nil, err
		}
	}

	return &results, nil
}

// loadConfig reads the config file if any, and then applies command-line overrides.
func loadConfig(params commandParams) (config.Config, error) {
	cfg := config.Default()
	if params.configFile != "" {
		loaded, err := config.Load(params.configFile)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if params.serviceURL != "" {
		cfg.BaseURL = params.serviceURL
	}
	if params.requestTimeout > 0 {
		cfg.RequestTimeout = config.Duration(params.requestTimeout)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// startMockService runs the mock posts service and points cfg at it.
func startMockService(cfg *config.Config, portParam int, debugLogger framework.Logger) (*http.Server, error) {
	port := portParam
	if port == 0 {
		port = cfg.Mock.Port
	}
	if port == 0 {
		port = defaultMockPort
	}
	service, err := mockapi.NewPostsService(cfg.Routes, cfg.Mock, framework.LoggerWithPrefix(debugLogger, "[mock] "))
	if err != nil {
		return nil, err
	}
	server, err := harness.StartServer(port, service)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Started mock posts service on port %d\n", port)
	cfg.BaseURL = fmt.Sprintf("http://localhost:%d", port)
	if cfg.StatusQueryTimeout == 0 {
		cfg.StatusQueryTimeout = config.Duration(time.Second)
	}
	return server, nil
}

func writeFailures(path string, results ldtest.Results) error {
	f, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("cannot create failures file: %w", err)
	}
	defer func() { _ = f.Close() }()
	for _, id := range namedTestIDs(results.FailedIDs()) {
		fmt.Fprintln(f, id)
	}
	return nil
}

func loadSuppressions(params *commandParams) error {
	file, err := os.Open(params.skipFile)
	if err != nil {
		return fmt.Errorf("cannot open provided suppression file: %w", err)
	}
	defer func() { _ = file.Close() }()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		// Ignore blank lines
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := params.filters.MustNotMatch.SetLiteral(strings.TrimSpace(line)); err != nil {
			return fmt.Errorf("cannot parse suppression: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("while processing suppression file: %w", err)
	}
	return nil
}

// namedTestIDs drops the empty ID of a failure that happened before any test started.
func namedTestIDs(ids []ldtest.TestID) []ldtest.TestID {
	ret := make([]ldtest.TestID, 0, len(ids))
	for _, id := range ids {
		if len(id) > 0 {
			ret = append(ret, id)
		}
	}
	return ret
}
