package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/launchdarkly/posts-api-contract-tests/framework/ldtest"

	"github.com/alessio/shellescape"
)

type commandParams struct {
	serviceURL     string
	configFile     string
	mock           bool
	mockPort       int
	filters        ldtest.RegexFilters
	skipFile       string
	recordFailures string
	jUnitFile      string
	debug          bool
	debugAll       bool
	requestTimeout time.Duration
}

func (c *commandParams) Read(args []string) bool {
	return c.read(args, os.Stderr) == nil
}

func (c *commandParams) read(args []string, errOut io.Writer) error {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&c.serviceURL, "url", "", "base URL of the service under test")
	fs.StringVar(&c.configFile, "config", "", "YAML or JSON file describing the service under test")
	fs.BoolVar(&c.mock, "mock", false, "start the built-in mock posts service and test it")
	fs.IntVar(&c.mockPort, "mock-port", 0,
		fmt.Sprintf("port for the mock service (default %d, or the config file's mock.port)", defaultMockPort))
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.StringVar(&c.skipFile, "skip-from", "", "file of test IDs to skip, one per line")
	fs.StringVar(&c.recordFailures, "record-failures", "", "write the IDs of failed tests to the specified file")
	fs.StringVar(&c.jUnitFile, "junit", "", "write JUnit XML output to the specified path")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")
	fs.DurationVar(&c.requestTimeout, "timeout", 0, "timeout for each request (default 30s, or the config file's requestTimeout)")

	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if c.serviceURL == "" && c.configFile == "" && !c.mock {
		err := fmt.Errorf("-url is required unless -config or -mock is given")
		fmt.Fprintln(errOut, err)
		fs.Usage()
		return err
	}
	if c.serviceURL != "" && c.mock {
		err := fmt.Errorf("-url and -mock cannot be used together")
		fmt.Fprintln(errOut, err)
		return err
	}
	return nil
}

// rerunCommand returns a shell command line that repeats this run with only the specified tests.
func (c *commandParams) rerunCommand(programName string, testIDs []ldtest.TestID) string {
	var b commandBuilder
	b.add(programName)
	if c.configFile != "" {
		b.add("-config", c.configFile)
	}
	if c.serviceURL != "" {
		b.add("-url", c.serviceURL)
	}
	if c.mock {
		b.add("-mock")
		if c.mockPort != 0 {
			b.add("-mock-port", strconv.Itoa(c.mockPort))
		}
	}
	if c.requestTimeout != 0 {
		b.add("-timeout", c.requestTimeout.String())
	}
	if c.debug {
		b.add("-debug")
	}
	if c.debugAll {
		b.add("-debug-all")
	}
	for _, id := range testIDs {
		b.add("-run", ldtest.LiteralTestIDPattern(id.String()))
	}
	return b.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
