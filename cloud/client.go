package cloud

import (
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/joshyorko/sstui/common"
)

type internalClient struct {
	endpoint  string
	proxy     string
	transport *http.Transport
	client    *http.Client
	tracing   bool
	critical  bool
}

type Request struct {
	Url     string
	Headers map[string]string
	Body    io.Reader
	Stream  io.Writer
}

type Response struct {
	Status  int
	Err     error
	Body    []byte
	Elapsed common.Duration
}

// Stream is an open response body, for callers reading in their own chunks.
type Stream struct {
	io.ReadCloser
	Status        int
	ContentLength int64
}

type Client interface {
	Endpoint() string
	NewRequest(string) *Request
	Get(request *Request) *Response
	Open(request *Request) (*Stream, error)
	WithTimeout(time.Duration) Client
	WithTracing() Client
	Uncritical() Client
}

func EnsureHttps(endpoint string) (string, error) {
	nice := strings.TrimRight(strings.TrimSpace(endpoint), "/")
	parsed, err := url.Parse(nice)
	if err != nil {
		return "", err
	}
	if parsed.Host == "127.0.0.1" || strings.HasPrefix(parsed.Host, "127.0.0.1:") {
		return nice, nil
	}
	if parsed.Scheme != "https" {
		return "", fmt.Errorf("Endpoint '%s' must start with https:// prefix.", nice)
	}
	return nice, nil
}

func newClient(endpoint, proxy string) (*internalClient, error) {
	transport, err := ConfiguredTransport(proxy)
	if err != nil {
		return nil, err
	}
	return &internalClient{
		endpoint:  endpoint,
		proxy:     proxy,
		transport: transport,
		client:    &http.Client{Transport: transport},
		tracing:   false,
		critical:  true,
	}, nil
}

// NewUnsafeClient accepts any endpoint; used for user supplied subscription links.
func NewUnsafeClient(endpoint, proxy string) (Client, error) {
	return newClient(strings.TrimRight(strings.TrimSpace(endpoint), "/"), proxy)
}

func NewClient(endpoint, proxy string) (Client, error) {
	https, err := EnsureHttps(endpoint)
	if err != nil {
		return nil, err
	}
	return newClient(https, proxy)
}

func (it *internalClient) Uncritical() Client {
	it.critical = false
	return it
}

func (it *internalClient) WithTimeout(timeout time.Duration) Client {
	return &internalClient{
		endpoint:  it.endpoint,
		proxy:     it.proxy,
		transport: it.transport,
		client: &http.Client{
			Transport: it.transport,
			Timeout:   timeout,
		},
		tracing:  it.tracing,
		critical: it.critical,
	}
}

func (it *internalClient) WithTracing() Client {
	return &internalClient{
		endpoint:  it.endpoint,
		proxy:     it.proxy,
		transport: it.transport,
		client:    it.client,
		tracing:   true,
		critical:  it.critical,
	}
}

// Traced turns header tracing on when --trace is given.
func Traced(client Client) Client {
	if common.TraceFlag() {
		return client.WithTracing()
	}
	return client
}

func (it *internalClient) traceHeaders(response *http.Response) {
	if !it.tracing {
		return
	}
	common.Trace("Response %d headers:", response.StatusCode)
	for _, key := range slices.Sorted(maps.Keys(response.Header)) {
		common.Trace("> %s: %q", key, response.Header[key])
	}
}

func (it *internalClient) Endpoint() string {
	return it.endpoint
}

func (it *internalClient) location(request *Request) string {
	if strings.Contains(request.Url, "://") {
		return request.Url
	}
	return it.Endpoint() + request.Url
}

func (it *internalClient) report(context string, err error) {
	if it.critical {
		common.Error(context, err)
	} else {
		common.Uncritical(context, err)
	}
}

func (it *internalClient) build(method string, request *Request) (*http.Request, error) {
	httpRequest, err := http.NewRequest(method, it.location(request), request.Body)
	if err != nil {
		return nil, err
	}
	httpRequest.Header.Add("User-Agent", common.UserAgent())
	for name, value := range request.Headers {
		httpRequest.Header.Add(name, value)
	}
	return httpRequest, nil
}

func (it *internalClient) does(method string, request *Request) *Response {
	stopwatch := common.Stopwatch("stopwatch")
	response := new(Response)
	url := it.location(request)
	common.Trace("Doing %s %s", method, url)
	defer func() {
		response.Elapsed = stopwatch.Elapsed()
		common.Trace("%s %s took %s", method, url, response.Elapsed)
	}()
	httpRequest, err := it.build(method, request)
	if err != nil {
		response.Status = 9001
		response.Err = err
		return response
	}
	httpResponse, err := it.client.Do(httpRequest)
	if err != nil {
		it.report("http.Do", err)
		response.Status = 9002
		response.Err = err
		return response
	}
	defer httpResponse.Body.Close()
	it.traceHeaders(httpResponse)
	response.Status = httpResponse.StatusCode
	if request.Stream != nil {
		_, response.Err = io.Copy(request.Stream, httpResponse.Body)
	} else {
		response.Body, response.Err = io.ReadAll(httpResponse.Body)
	}
	if response.Err == nil && (response.Status < 200 || response.Status > 299) {
		response.Err = &StatusError{Url: url, Status: response.Status}
	}
	if common.DebugFlag() {
		body := "ignore"
		if response.Status > 399 {
			body = string(response.Body)
		}
		common.Debug("%v %v => %v (%v)", method, url, response.Status, body)
	}
	return response
}

// Open starts a GET and hands the body to the caller, who must close it.
func (it *internalClient) Open(request *Request) (*Stream, error) {
	url := it.location(request)
	common.Trace("Opening %s", url)
	httpRequest, err := it.build("GET", request)
	if err != nil {
		return nil, err
	}
	httpRequest.Header.Set("Accept", "application/octet-stream")
	httpResponse, err := it.client.Do(httpRequest)
	if err != nil {
		it.report("http.Open", err)
		return nil, err
	}
	it.traceHeaders(httpResponse)
	if httpResponse.StatusCode < 200 || httpResponse.StatusCode > 299 {
		httpResponse.Body.Close()
		return nil, &StatusError{Url: url, Status: httpResponse.StatusCode}
	}
	return &Stream{
		ReadCloser:    httpResponse.Body,
		Status:        httpResponse.StatusCode,
		ContentLength: httpResponse.ContentLength,
	}, nil
}

func (it *internalClient) NewRequest(url string) *Request {
	return &Request{
		Url:     url,
		Headers: make(map[string]string),
	}
}

func (it *internalClient) Get(request *Request) *Response {
	return it.does("GET", request)
}

// StatusError is non 2xx answer from server.
type StatusError struct {
	Url    string
	Status int
}

func (it *StatusError) Error() string {
	return fmt.Sprintf("%s answered with HTTP status %d %s", it.Url, it.Status, http.StatusText(it.Status))
}
