// Package transfer performs the raw I/O the transports depend on.
package transfer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/arcturial/clickatell/pkg/apierror"
)

const logPrefix = "transfer:transfer"

// DefaultUserAgent is sent when no agent is configured.
const DefaultUserAgent = "ClickatellGo/1.0"

// Request is one outbound call.
type Request struct {
	URL     string
	Method  string
	Body    string
	Headers map[string]string
}

// Response is the raw vendor reply.
type Response struct {
	Body       string
	StatusCode int
}

// Transfer executes requests. Connection-level failures are returned as
// TRANSFER_FAILED; HTTP status codes are reported, not raised.
type Transfer interface {
	Execute(ctx context.Context, req Request) (Response, error)
}

// Func adapts a function to Transfer.
type Func func(ctx context.Context, req Request) (Response, error)

// Execute calls f.
func (f Func) Execute(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

// HTTPOptions configures an HTTP transfer.
type HTTPOptions struct {
	Timeout   time.Duration
	RateLimit float64
	UserAgent string
	Client    *http.Client
}

var _ Transfer = (*HTTP)(nil)

// HTTP is a net/http backed Transfer with an optional outbound rate limit.
// It is safe for concurrent use.
type HTTP struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	timeout   time.Duration
}

// NewHTTP creates an HTTP transfer. A RateLimit of zero disables limiting.
func NewHTTP(opts HTTPOptions) *HTTP {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	agent := opts.UserAgent
	if agent == "" {
		agent = DefaultUserAgent
	}

	t := &HTTP{client: client, userAgent: agent, timeout: timeout}
	if opts.RateLimit > 0 {
		burst := int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}
		t.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return t
}

// withTimeout wraps the context with a timeout if it doesn't already have one.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// Execute sends req. Without an explicit Method, a request with a body is a
// POST and one without is a GET.
func (t *HTTP) Execute(ctx context.Context, req Request) (Response, error) {
	ctx, cancel := withTimeout(ctx, t.timeout)
	defer cancel()

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return Response{}, apierror.TransferFailed(fmt.Errorf("%s - rate limiter: %w", logPrefix, err))
		}
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
		if req.Body != "" {
			method = http.MethodPost
		}
	}

	var body io.Reader
	if req.Body != "" {
		body = strings.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return Response{}, apierror.TransferFailed(fmt.Errorf("%s - failed to create request: %w", logPrefix, err))
	}
	httpReq.Header.Set("User-Agent", t.userAgent)
	if req.Body != "" {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := t.client.Do(httpReq)
	if err != nil {
		return Response{}, apierror.TransferFailed(fmt.Errorf("%s - %s %s failed: %w", logPrefix, method, req.URL, err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, apierror.TransferFailed(fmt.Errorf("%s - failed to read response: %w", logPrefix, err))
	}

	slog.Debug(fmt.Sprintf("%s - %s %s -> %d in %s", logPrefix, method, req.URL, resp.StatusCode, time.Since(start)))
	return Response{Body: string(raw), StatusCode: resp.StatusCode}, nil
}
