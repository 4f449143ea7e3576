package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/launchdarkly/posts-api-contract-tests/framework"
	"github.com/launchdarkly/posts-api-contract-tests/framework/helpers"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

const (
	headerContentType   = "Content-Type"
	headerAuthorization = "Authorization"
	contentTypeJSON     = "application/json"
)

// Request describes one HTTP request to the service under test.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header

	// Body is sent as-is if it is a string or []byte, so that callers can send pre-serialized
	// payloads. Any other non-nil value is JSON-encoded, and Content-Type is set to
	// application/json unless the caller already set it.
	Body interface{}

	// FailOnStatusCode makes Do return a *StatusError for any non-2xx status.
	FailOnStatusCode bool
}

// Response is the descriptor for a completed round trip.
type Response struct {
	StatusCode int
	Header     http.Header

	// Body is the parsed JSON payload, or a null value if the body was empty or not JSON.
	Body ldvalue.Value

	RawBody []byte
}

// OK returns true for any 2xx status.
func (r Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// StatusError is returned by Do when FailOnStatusCode is set and the status is not 2xx.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	message := fmt.Sprintf("service returned status %d for %s %s", e.StatusCode, e.Method, e.URL)
	if len(e.Body) > 0 {
		message += " (" + string(e.Body) + ")"
	}
	return message
}

// RequestOption modifies a Request before it is sent.
type RequestOption helpers.ConfigOption[Request]

// WithHeader sets a request header, replacing any earlier value.
func WithHeader(name, value string) RequestOption {
	return helpers.ConfigOptionFunc[Request](func(r *Request) error {
		if r.Header == nil {
			r.Header = make(http.Header)
		}
		r.Header.Set(name, value)
		return nil
	})
}

// WithBearerToken sets the Authorization header to "Bearer <token>".
func WithBearerToken(token string) RequestOption {
	return WithHeader(headerAuthorization, "Bearer "+token)
}

// WithQuery adds values for a query parameter. Calling it more than once for the same name
// repeats the parameter, as in "id=55&id=60".
func WithQuery(name string, values ...string) RequestOption {
	return helpers.ConfigOptionFunc[Request](func(r *Request) error {
		if r.Query == nil {
			r.Query = make(url.Values)
		}
		for _, v := range values {
			r.Query.Add(name, v)
		}
		return nil
	})
}

// FailOnStatusCode overrides whether a non-2xx status is returned as an error.
func FailOnStatusCode(fail bool) RequestOption {
	return helpers.ConfigOptionFunc[Request](func(r *Request) error {
		r.FailOnStatusCode = fail
		return nil
	})
}

// NewRequest builds a Request and applies options to it.
func NewRequest(method, path string, body interface{}, options ...RequestOption) (Request, error) {
	r := Request{Method: method, Path: path, Body: body}
	if err := helpers.ApplyOptions(&r, options...); err != nil {
		return Request{}, err
	}
	return r, nil
}

// URL returns the absolute URL that the request will be sent to.
func (th *TestHarness) URL(r Request) string {
	u := th.baseURL + r.Path
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}
	return u
}

// Do performs exactly one round trip. A transport failure is always an error. A non-2xx status
// is an error only if the request has FailOnStatusCode; in that case the returned Response is
// still populated.
func (th *TestHarness) Do(r Request, logger framework.Logger) (Response, error) {
	if logger == nil {
		logger = th.logger
	}
	targetURL := th.URL(r)

	bodyData, setJSONContentType, err := encodeRequestBody(r.Body)
	if err != nil {
		return Response{}, fmt.Errorf("cannot encode body for %s %s: %w", r.Method, targetURL, err)
	}
	var bodyReader io.Reader
	if bodyData != nil {
		bodyReader = bytes.NewReader(bodyData)
	}
	req, err := http.NewRequest(r.Method, targetURL, bodyReader)
	if err != nil {
		return Response{}, err
	}
	for name, values := range r.Header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	if setJSONContentType && req.Header.Get(headerContentType) == "" {
		req.Header.Set(headerContentType, contentTypeJSON)
	}

	if bodyData == nil {
		logger.Printf("%s %s", r.Method, targetURL)
	} else {
		logger.Printf("%s %s %s", r.Method, targetURL, string(bodyData))
	}

	resp, err := th.client.Do(req)
	if err != nil {
		logger.Printf("Request failed: %s", err)
		return Response{}, fmt.Errorf("%s %s failed: %w", r.Method, targetURL, err)
	}
	defer func() { _ = resp.Body.Close() }()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("error reading response to %s %s: %w", r.Method, targetURL, err)
	}

	ret := Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       parseResponseBody(respBody),
		RawBody:    respBody,
	}
	logger.Printf("Response: %d %s", ret.StatusCode, truncateForLog(respBody))

	if r.FailOnStatusCode && !ret.OK() {
		return ret, &StatusError{Method: r.Method, URL: targetURL, StatusCode: ret.StatusCode, Body: respBody}
	}
	return ret, nil
}

func encodeRequestBody(body interface{}) (data []byte, isJSON bool, err error) {
	switch b := body.(type) {
	case nil:
		return nil, false, nil
	case string:
		return []byte(b), false, nil
	case []byte:
		return b, false, nil
	default:
		data, err := json.Marshal(b)
		return data, true, err
	}
}

func parseResponseBody(data []byte) ldvalue.Value {
	if len(bytes.TrimSpace(data)) == 0 {
		return ldvalue.Null()
	}
	var v ldvalue.Value
	if err := json.Unmarshal(data, &v); err != nil {
		return ldvalue.Null()
	}
	return v
}

const maxLoggedBodyLength = 1000

func truncateForLog(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > maxLoggedBodyLength {
		return s[:maxLoggedBodyLength] + "..."
	}
	return s
}
