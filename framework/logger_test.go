package framework

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messagesOf(output CapturedOutput) []string {
	ret := make([]string, 0, len(output))
	for _, m := range output {
		ret = append(ret, m.Message)
	}
	return ret
}

func TestCapturingLoggerRecordsMessages(t *testing.T) {
	var l CapturingLogger
	l.Println("a", "b")
	l.Printf("c=%d", 1)
	assert.Equal(t, []string{"a b", "c=1"}, messagesOf(l.Output()))
}

func TestCapturingLoggerChildInheritsAndReceivesParentOutput(t *testing.T) {
	var parent, child CapturingLogger
	parent.Printf("before")
	child.Printf("own")

	parent.AddChildLogger(&child)
	parent.Printf("during")
	parent.RemoveChildLogger(&child)
	parent.Printf("after")

	assert.Equal(t, []string{"before", "own", "during"}, messagesOf(child.Output()))
	assert.Equal(t, []string{"before", "after"}, messagesOf(parent.Output()))
}

func TestCapturedOutputToString(t *testing.T) {
	var l CapturingLogger
	l.Printf("first")
	l.Printf("second")
	s := l.Output().ToString("DEBUG ")
	lines := strings.Split(s, "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "DEBUG ["))
	assert.True(t, strings.HasSuffix(lines[0], "] first"))
	assert.True(t, strings.HasSuffix(lines[1], "] second"))

	assert.Equal(t, "", CapturedOutput(nil).ToString("x"))
}

func TestLoggerWithPrefix(t *testing.T) {
	var l CapturingLogger
	p := LoggerWithPrefix(&l, "[mock] ")
	p.Printf("hello %s", "there")
	p.Println("bye")
	assert.Equal(t, []string{"[mock] hello there", "[mock]  bye"}, messagesOf(l.Output()))
}

func TestCapabilities(t *testing.T) {
	cs := Capabilities{"auth", "pagination"}
	assert.True(t, cs.Has("auth"))
	assert.False(t, cs.Has("protected-routes"))
	assert.Equal(t, Capabilities{"protected-routes"},
		cs.Missing(Capabilities{"auth", "protected-routes", "pagination"}))
	assert.Nil(t, cs.Missing(Capabilities{"auth"}))
}
