// Package fetch checks that the demo video links referenced by prompts are reachable.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 10 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; PromptLibraryLinkChecker/1.0)"

// maxRedirects matches the net/http default redirect limit.
const maxRedirects = 10

var errTooManyRedirects = errors.New("too many redirects")

// Error represents an error during link checking.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
}

// DefaultOptions returns sensible defaults for link checks.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// LinkStatus is the outcome of probing one URL.
// StatusCode is zero when no HTTP response was received.
type LinkStatus struct {
	Reachable  bool
	StatusCode int
	Error      string
}

// CheckLink probes urlStr with HEAD and, when that answers with a status of
// 400 or above, retries once with GET since some hosts reject HEAD. The link
// is reachable when the final status is below 400.
func CheckLink(ctx context.Context, urlStr string, opts *Options) LinkStatus {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return LinkStatus{Error: (&Error{URL: urlStr, Message: "invalid URL", Cause: err}).Error()}
	}

	client := newClient(opts)

	status, err := probe(ctx, client, http.MethodHead, urlStr, opts)
	if err == nil && status >= http.StatusBadRequest {
		status, err = probe(ctx, client, http.MethodGet, urlStr, opts)
	}
	if err != nil {
		return LinkStatus{Error: describeError(err, opts.Timeout)}
	}

	return LinkStatus{
		Reachable:  status < http.StatusBadRequest,
		StatusCode: status,
	}
}

func newClient(opts *Options) *http.Client {
	return &http.Client{
		Timeout: opts.Timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return errTooManyRedirects
			}
			return nil
		},
	}
}

// probe issues one request and returns its status code. The body is never
// read; it is closed as soon as the headers arrive.
func probe(ctx context.Context, client *http.Client, method, urlStr string, opts *Options) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, urlStr, nil)
	if err != nil {
		return 0, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}

	req.Header.Set("User-Agent", opts.UserAgent)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	_ = resp.Body.Close()

	return resp.StatusCode, nil
}

func describeError(err error, timeout time.Duration) string {
	var netErr net.Error
	switch {
	case errors.Is(err, errTooManyRedirects):
		return "Too many redirects"
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Sprintf("Timeout after %ss", strconv.FormatFloat(timeout.Seconds(), 'f', -1, 64))
	case isConnectionError(err):
		return "Connection error - host unreachable"
	default:
		return err.Error()
	}
}

func isConnectionError(err error) bool {
	var opErr *net.OpError
	var dnsErr *net.DNSError
	return errors.As(err, &opErr) || errors.As(err, &dnsErr)
}
