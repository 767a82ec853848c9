// Package resolver verifies that asset hrefs point at objects that
// actually exist, over HTTPS or S3, before a STAC document is written
// or published.
package resolver

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/amazonia-pds/amazonia-stac/pkg/stac"
)

// Logger represents the minimal logging interface used by the resolver.
type Logger interface {
	Debugf(format string, args ...any)
	Errorf(format string, args ...any)
}

// S3API is the subset of the S3 client the resolver needs.
type S3API interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// ResolutionError reports an href whose target could not be confirmed.
type ResolutionError struct {
	Href   string
	Status int // HTTP status code, zero for S3 and transport failures
	Err    error
}

func (e *ResolutionError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("resolving %s: unexpected status code %d", e.Href, e.Status)
	}
	return fmt.Sprintf("resolving %s: %v", e.Href, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Resolver checks asset hrefs against their backing stores.
type Resolver struct {
	httpClient *http.Client
	s3Client   S3API
	region     string
	logger     Logger
}

// Option configures a Resolver during construction.
type Option func(*Resolver) error

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(r *Resolver) error {
		if httpClient == nil {
			return fmt.Errorf("resolver: nil http client")
		}
		r.httpClient = httpClient
		return nil
	}
}

// WithS3Client injects an S3 client, avoiding the default AWS config
// lookup. Tests use this to supply fakes.
func WithS3Client(client S3API) Option {
	return func(r *Resolver) error {
		r.s3Client = client
		return nil
	}
}

// WithRegion sets the region used when the default S3 client is built.
func WithRegion(region string) Option {
	return func(r *Resolver) error {
		r.region = region
		return nil
	}
}

// WithLogger registers a logger for per-href resolution events.
func WithLogger(logger Logger) Option {
	return func(r *Resolver) error {
		r.logger = logger
		return nil
	}
}

// WithTimeout sets a per-request timeout on the underlying http.Client.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Resolver) error {
		if timeout <= 0 {
			return nil
		}
		if r.httpClient == nil {
			r.httpClient = &http.Client{}
		}
		r.httpClient.Timeout = timeout
		return nil
	}
}

// New constructs a Resolver with provided options.
func New(opts ...Option) (*Resolver, error) {
	r := &Resolver{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Resolve confirms that a single href points at an existing object. It
// returns a *ResolutionError when the target is missing or unreachable.
func (r *Resolver) Resolve(ctx context.Context, href string) error {
	u, err := url.Parse(href)
	if err != nil {
		return &ResolutionError{Href: href, Err: err}
	}

	switch u.Scheme {
	case "http", "https":
		return r.resolveHTTP(ctx, href)
	case "s3":
		return r.resolveS3(ctx, u)
	default:
		return &ResolutionError{Href: href, Err: fmt.Errorf("unsupported URL scheme: %s", u.Scheme)}
	}
}

// ResolveAssets checks every asset href on an item, in key order, and
// stops at the first failure.
func (r *Resolver) ResolveAssets(ctx context.Context, item *stac.Item) error {
	keys := make([]string, 0, len(item.Assets))
	for key := range item.Assets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		href := item.Assets[key].Href
		if r.logger != nil {
			r.logger.Debugf("checking asset %s: %s", key, href)
		}
		if err := r.Resolve(ctx, href); err != nil {
			if r.logger != nil {
				r.logger.Errorf("asset %s failed resolution: %v", key, err)
			}
			return err
		}
	}
	return nil
}

func (r *Resolver) resolveHTTP(ctx context.Context, href string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, href, nil)
	if err != nil {
		return &ResolutionError{Href: href, Err: err}
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return &ResolutionError{Href: href, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ResolutionError{Href: href, Status: resp.StatusCode}
	}
	return nil
}

func (r *Resolver) resolveS3(ctx context.Context, u *url.URL) error {
	client, err := r.s3(ctx)
	if err != nil {
		return &ResolutionError{Href: u.String(), Err: err}
	}

	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")

	if _, err := client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}); err != nil {
		return &ResolutionError{Href: u.String(), Err: err}
	}
	return nil
}

// s3 lazily builds the default S3 client on first use so that runs
// touching only HTTPS hrefs never load AWS credentials.
func (r *Resolver) s3(ctx context.Context) (S3API, error) {
	if r.s3Client != nil {
		return r.s3Client, nil
	}

	loadOpts := []func(*config.LoadOptions) error{}
	if r.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(r.region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	r.s3Client = s3.NewFromConfig(cfg)
	return r.s3Client, nil
}
