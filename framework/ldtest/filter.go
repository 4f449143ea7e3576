package ldtest

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/launchdarkly/posts-api-contract-tests/framework"
)

// Filter determines whether to run a specific test or not.
type Filter interface {
	Match(id TestID) bool
}

// FilterFunc adapts a plain function to Filter.
type FilterFunc func(TestID) bool

func (f FilterFunc) Match(id TestID) bool { return f(id) }

// SelfDescribingFilter is a Filter that can explain to the user which tests it will skip.
type SelfDescribingFilter interface {
	Filter
	Describe(out io.Writer, supportedCapabilities, allCapabilities framework.Capabilities)
}

// RegexFilters is the Filter built from the -run and -skip command-line options.
type RegexFilters struct {
	MustMatch    TestIDPatternList
	MustNotMatch TestIDPatternList
}

// Match returns true if the test should run. A parent of a test that matches -run also
// matches, so that the runner can descend into it.
func (r RegexFilters) Match(id TestID) bool {
	return (!r.MustMatch.IsDefined() || r.MustMatch.AnyMatch(id, true)) &&
		!r.MustNotMatch.AnyMatch(id, false)
}

// Describe prints the filter criteria, and any capabilities the service lacks, if there is
// anything to report.
func (r RegexFilters) Describe(out io.Writer, supportedCapabilities, allCapabilities framework.Capabilities) {
	if r.MustMatch.IsDefined() || r.MustNotMatch.IsDefined() {
		fmt.Fprintln(out, "Some tests will be skipped based on the filter criteria for this test run:")
		if r.MustMatch.IsDefined() {
			fmt.Fprintf(out, "  skip any not matching %s\n", r.MustMatch)
		}
		if r.MustNotMatch.IsDefined() {
			fmt.Fprintf(out, "  skip any matching %s\n", r.MustNotMatch)
		}
		fmt.Fprintln(out)
	}

	if missing := supportedCapabilities.Missing(allCapabilities); len(missing) > 0 {
		fmt.Fprintln(out, "Some tests will be skipped because the service is not configured with these capabilities:")
		fmt.Fprintf(out, "  %s\n", strings.Join(missing, ", "))
		fmt.Fprintln(out)
	}
}

// TestIDPattern is one regex per TestID segment.
type TestIDPattern []*regexp.Regexp

// Match checks each segment of the ID against the corresponding regex. If the pattern is longer
// than the ID, it matches only when includeParents is true.
func (p TestIDPattern) Match(id TestID, includeParents bool) bool {
	n := len(p)
	if n > len(id) {
		if !includeParents {
			return false
		}
		n = len(id)
	}
	for i := 0; i < n; i++ {
		if !p[i].MatchString(id[i]) {
			return false
		}
	}
	return true
}

func (p TestIDPattern) String() string {
	ss := make([]string, 0, len(p))
	for _, c := range p {
		ss = append(ss, c.String())
	}
	return strings.Join(ss, "/")
}

// ParseTestIDPattern parses a slash-delimited list of regexes.
func ParseTestIDPattern(s string) (TestIDPattern, error) {
	parts := strings.Split(s, "/")
	ret := make(TestIDPattern, 0, len(parts))
	for _, part := range parts {
		rx, err := regexp.Compile(part)
		if err != nil {
			return nil, fmt.Errorf("invalid regex %q: %w", part, err)
		}
		ret = append(ret, rx)
	}
	return ret, nil
}

// TestIDPatternList is a set of alternative patterns. It implements flag.Value so that the
// option can be repeated.
type TestIDPatternList []TestIDPattern

func (l TestIDPatternList) String() string {
	ss := make([]string, 0, len(l))
	for _, p := range l {
		ss = append(ss, `"`+p.String()+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set is called by the command line parser.
func (l *TestIDPatternList) Set(value string) error {
	p, err := ParseTestIDPattern(value)
	if err != nil {
		return err
	}
	*l = append(*l, p)
	return nil
}

// SetLiteral adds a pattern that matches exactly the given test ID, such as one that was read
// from a file of recorded failures.
func (l *TestIDPatternList) SetLiteral(id string) error {
	return l.Set(LiteralTestIDPattern(id))
}

// LiteralTestIDPattern returns a pattern string that matches only the given slash-delimited test
// ID, suitable for the -run and -skip options.
func LiteralTestIDPattern(id string) string {
	parts := strings.Split(id, "/")
	quoted := make([]string, 0, len(parts))
	for _, part := range parts {
		quoted = append(quoted, "^"+regexp.QuoteMeta(part)+"$")
	}
	return strings.Join(quoted, "/")
}

func (l TestIDPatternList) IsDefined() bool {
	return len(l) != 0
}

func (l TestIDPatternList) AnyMatch(id TestID, includeParents bool) bool {
	for _, p := range l {
		if p.Match(id, includeParents) {
			return true
		}
	}
	return false
}
