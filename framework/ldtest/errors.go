package ldtest

import (
	"errors"
	"fmt"
	"regexp"
	"runtime"
	"strings"
)

// ErrorWithStacktrace is a test failure along with the location in test code that reported it.
type ErrorWithStacktrace struct {
	Message    string
	Stacktrace []StacktraceInfo
}

// StacktraceInfo is one frame of an ErrorWithStacktrace.
type StacktraceInfo struct {
	FileName string
	Package  string
	Function string
	Line     int
}

func (e ErrorWithStacktrace) Error() string { return e.Message }

func (s StacktraceInfo) String() string {
	packageName := strings.TrimPrefix(s.Package, rootPackageName()+"/")
	return fmt.Sprintf("%s.%s (%s:%d)", packageName, s.Function, s.FileName, s.Line)
}

var errorTraceInMessageRegex = regexp.MustCompile(`^(?s:\s*Error Trace:.*\sError:\s*)`)

// transformError attaches our own stacktrace to an error, and strips out the stacktrace that
// testify/assert and testify/require put at the start of their messages.
func transformError(err error, stacktrace []StacktraceInfo) error {
	message := err.Error()
	if strings.Contains(message, "Error Trace:") {
		message = strings.TrimSpace(errorTraceInMessageRegex.ReplaceAllLiteralString(message, ""))
	}
	if len(stacktrace) == 0 {
		return errors.New(message)
	}
	return ErrorWithStacktrace{Message: message, Stacktrace: stacktrace}
}

func currentPackageName() string {
	pc, _, _, ok := runtime.Caller(0)
	if !ok {
		return "?"
	}
	f := runtime.FuncForPC(pc)
	if f == nil {
		return "?"
	}
	packageName, _ := parsePackageAndFunctionName(f.Name())
	return packageName
}

// rootPackageName is the module path, e.g. "github.com/launchdarkly/posts-api-contract-tests".
func rootPackageName() string {
	parts := strings.Split(currentPackageName(), "/")
	if len(parts) < 3 {
		return strings.Join(parts, "/")
	}
	return strings.Join(parts[:3], "/")
}

// getStacktrace returns the callers of the current function, up to but not including ldtest.Run.
// Frames from this package are omitted unless includeLDTestCode is true, and so are frames for
// any function named in helperFns.
func getStacktrace(includeLDTestCode bool, helperFns []string) []StacktraceInfo {
	callers := []StacktraceInfo{}
	currentPackage := currentPackageName()
	for i := 1; ; i++ { // 0 would be getStacktrace itself
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		f := runtime.FuncForPC(pc)
		if f == nil {
			break
		}
		fullFunctionName := f.Name()
		packageName, functionName := parsePackageAndFunctionName(fullFunctionName)

		if packageName == currentPackage && functionName == "Run" {
			break
		}
		if !includeLDTestCode && packageName == currentPackage {
			continue
		}
		if isHelperFunction(fullFunctionName, helperFns) {
			continue
		}

		callers = append(callers, StacktraceInfo{
			FileName: file[strings.LastIndex(file, "/")+1:],
			Package:  packageName,
			Function: functionName,
			Line:     line,
		})
	}
	return callers
}

func isHelperFunction(fullFunctionName string, helperFns []string) bool {
	for _, helperFn := range helperFns {
		if helperFn == fullFunctionName {
			return true
		}
	}
	return false
}

func parsePackageAndFunctionName(fullName string) (string, string) {
	lastSlash := strings.LastIndex(fullName, "/")
	firstDotAfterSlash := strings.Index(fullName[lastSlash+1:], ".")
	packageName := fullName[0 : lastSlash+firstDotAfterSlash+1]
	functionName := fullName[len(packageName)+1:]
	return packageName, functionName
}
