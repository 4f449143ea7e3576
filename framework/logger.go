package framework

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const timestampFormat = "2006-01-02 15:04:05.000"

// Logger is the minimal logging interface used throughout the test runner. The standard library's
// *log.Logger satisfies it.
type Logger interface {
	Println(args ...interface{})
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (nullLogger) Println(args ...interface{})                {}
func (nullLogger) Printf(message string, args ...interface{}) {}

// NullLogger returns a Logger that discards all output.
func NullLogger() Logger { return nullLogger{} }

// CapturedMessage is a single line of captured output.
type CapturedMessage struct {
	Time    time.Time
	Message string
}

// CapturedOutput is everything that a CapturingLogger has recorded, in order.
type CapturedOutput []CapturedMessage

// CapturingLogger records all output from a test scope so that the test logger can decide later
// whether to show it. See ldtest.(*T).DebugLogger() for the rules about parent and child scopes.
type CapturingLogger struct {
	output   CapturedOutput
	children []*CapturingLogger
	lock     sync.Mutex
}

func (l *CapturingLogger) Println(args ...interface{}) {
	m := strings.TrimRight(fmt.Sprintln(args...), "\r\n")
	l.append(CapturedMessage{Time: time.Now(), Message: m})
}

func (l *CapturingLogger) Printf(message string, args ...interface{}) {
	l.append(CapturedMessage{Time: time.Now(), Message: fmt.Sprintf(message, args...)})
}

// While a child scope is active, output sent to the parent goes to the child instead.
func (l *CapturingLogger) append(m CapturedMessage) {
	l.lock.Lock()
	if len(l.children) == 0 {
		l.output = append(l.output, m)
		l.lock.Unlock()
		return
	}
	children := append([]*CapturingLogger(nil), l.children...)
	l.lock.Unlock()
	for _, c := range children {
		c.append(m)
	}
}

// Output returns a copy of everything captured so far.
func (l *CapturingLogger) Output() CapturedOutput {
	l.lock.Lock()
	defer l.lock.Unlock()
	return append(CapturedOutput(nil), l.output...)
}

// AddChildLogger starts redirecting output to child, and seeds child with everything this
// logger has already captured.
func (l *CapturingLogger) AddChildLogger(child *CapturingLogger) {
	l.lock.Lock()
	l.children = append(l.children, child)
	inherited := append(CapturedOutput(nil), l.output...)
	l.lock.Unlock()

	child.lock.Lock()
	child.output = append(inherited, child.output...)
	child.lock.Unlock()
}

// RemoveChildLogger stops redirecting output to child.
func (l *CapturingLogger) RemoveChildLogger(child *CapturingLogger) {
	l.lock.Lock()
	defer l.lock.Unlock()
	for i, c := range l.children {
		if c == child {
			l.children = append(l.children[:i], l.children[i+1:]...)
			return
		}
	}
}

// ToString formats the captured output with one timestamped line per message.
func (output CapturedOutput) ToString(prefix string) string {
	lines := make([]string, 0, len(output))
	for _, m := range output {
		lines = append(lines, fmt.Sprintf("%s[%s] %s", prefix, m.Time.Format(timestampFormat), m.Message))
	}
	return strings.Join(lines, "\n")
}

type prefixedLogger struct {
	base   Logger
	prefix string
}

// LoggerWithPrefix returns a Logger that adds a fixed prefix to every message.
func LoggerWithPrefix(baseLogger Logger, prefix string) Logger {
	return prefixedLogger{base: baseLogger, prefix: prefix}
}

func (p prefixedLogger) Println(args ...interface{}) {
	p.base.Println(append([]interface{}{p.prefix}, args...)...)
}

func (p prefixedLogger) Printf(message string, args ...interface{}) {
	p.base.Printf(p.prefix+message, args...)
}
