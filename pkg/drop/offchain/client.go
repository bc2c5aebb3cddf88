package offchain

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/code-payments/candy-drop/pkg/metrics"
	"github.com/code-payments/candy-drop/pkg/netutil"
	"github.com/code-payments/candy-drop/pkg/rate"
	"github.com/code-payments/candy-drop/pkg/retry"
	"github.com/code-payments/candy-drop/pkg/retry/backoff"
)

const (
	metricsStructName = "drop.offchain.client"

	maxDocumentSize = 1 << 20
)

var (
	ErrNoImage          = errors.New("metadata document has no image")
	ErrUnexpectedStatus = errors.New("unexpected status code")
)

// Document is the off-chain JSON metadata document referenced by an item's
// metadata URI.
type Document struct {
	Name        string      `json:"name"`
	Symbol      string      `json:"symbol"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	ExternalURL string      `json:"external_url"`
	Attributes  []Attribute `json:"attributes"`
}

type Attribute struct {
	TraitType string      `json:"trait_type"`
	Value     interface{} `json:"value"`
}

// Client fetches off-chain metadata documents over HTTP.
type Client struct {
	conf       *conf
	httpClient *http.Client
	limiter    rate.Limiter
}

func NewClient(configProvider ConfigProvider) *Client {
	conf := configProvider()

	limiter := rate.NoLimiter()
	if rps := conf.hostRequestsPerSecond.Get(context.Background()); rps > 0 {
		limiter = rate.NewLocalLimiter(float64(rps), int(conf.hostBurst.Get(context.Background())))
	}

	return &Client{
		conf:       conf,
		httpClient: &http.Client{},
		limiter:    limiter,
	}
}

// FetchImage returns the image reference of the document at uri.
func (c *Client) FetchImage(ctx context.Context, uri string) (string, error) {
	doc, err := c.FetchDocument(ctx, uri)
	if err != nil {
		return "", err
	}

	if len(doc.Image) == 0 {
		return "", ErrNoImage
	}
	return doc.Image, nil
}

// FetchDocument downloads and decodes the document at uri. Rate limiting,
// server errors and transport failures are retried with backoff.
func (c *Client) FetchDocument(ctx context.Context, uri string) (*Document, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "FetchDocument")
	defer tracer.End()

	doc, err := c.fetchDocument(ctx, uri)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}
	return doc, nil
}

func (c *Client) fetchDocument(ctx context.Context, uri string) (*Document, error) {
	parsed, err := netutil.ParseHTTPURI(uri)
	if err != nil {
		return nil, err
	}

	var doc *Document
	_, err = retry.Retry(
		func() error {
			if err := c.limiter.Wait(ctx, parsed.Host); err != nil {
				return err
			}

			var err error
			doc, err = c.get(ctx, uri)
			return err
		},
		retry.Context(ctx),
		retry.RetriableFunc(isRetriable),
		retry.Limit(uint(c.conf.maxAttempts.Get(ctx))),
		retry.BackoffWithJitter(backoff.BinaryExponential(250*time.Millisecond), 5*time.Second, 0.1),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %s", uri)
	}
	return doc, nil
}

func (c *Client) get(ctx context.Context, uri string) (*Document, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.conf.fetchTimeout.Get(ctx))
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, uri, http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &transportError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}

	var doc Document
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxDocumentSize)).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode document")
	}
	return &doc, nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s: %d", ErrUnexpectedStatus, e.code)
}

func (e *statusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}

type transportError struct {
	err error
}

func (e *transportError) Error() string {
	return e.err.Error()
}

func (e *transportError) Unwrap() error {
	return e.err
}

func isRetriable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}

	var statusErr *statusError
	if errors.As(err, &statusErr) {
		return statusErr.code == http.StatusTooManyRequests || statusErr.code >= http.StatusInternalServerError
	}

	var transportErr *transportError
	return errors.As(err, &transportErr)
}
