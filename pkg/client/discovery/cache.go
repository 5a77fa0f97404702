// Package discovery caches the discovery document and key set of an
// authority.
package discovery

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"

	"github.com/zitadel/oidcclient/pkg/client"
	httphelper "github.com/zitadel/oidcclient/pkg/http"
)

// DefaultCacheDuration is how long a fetched document is reused.
const DefaultCacheDuration = 24 * time.Hour

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Cache lazily fetches and caches the discovery document of one authority
// together with its key set.
//
// Concurrent Get calls that miss the cache share a single fetch. A fetch
// that ends in an error response is cached like a successful one, so a
// failing authority is not asked again before the cache duration elapses
// or Refresh is called. Callers must check IsError on the result.
type Cache struct {
	authority  string
	provider   httphelper.DoerProvider
	policy     *client.DiscoveryPolicy
	clientOpts []client.Option
	clock      Clock
	metrics    *metrics

	group singleflight.Group

	mu         sync.Mutex
	duration   time.Duration
	entry      *entry
	generation uint64
}

type entry struct {
	doc       *client.DiscoveryDocumentResponse
	fetchedAt time.Time
	expired   bool
}

type Option func(*Cache) error

// WithCacheDuration overrides DefaultCacheDuration.
func WithCacheDuration(d time.Duration) Option {
	return func(c *Cache) error {
		c.duration = d
		return nil
	}
}

// WithPolicy sets the policy the document is checked against.
// It defaults to client.DefaultDiscoveryPolicy.
func WithPolicy(policy *client.DiscoveryPolicy) Option {
	return func(c *Cache) error {
		if policy == nil {
			policy = client.DefaultDiscoveryPolicy()
		}
		c.policy = policy.Clone()
		return nil
	}
}

// WithClientOptions configures the client that performs the fetches.
func WithClientOptions(opts ...client.Option) Option {
	return func(c *Cache) error {
		c.clientOpts = append(c.clientOpts, opts...)
		return nil
	}
}

// WithMetrics counts cache hits and fetches on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Cache) error {
		m, err := newMetrics(reg)
		if err != nil {
			return err
		}
		c.metrics = m
		return nil
	}
}

func WithClock(clock Clock) Option {
	return func(c *Cache) error {
		c.clock = clock
		return nil
	}
}

// NewCache creates a cache for authority, which may also be the full
// well-known URL. Every fetch asks provider for the Doer to use; a nil
// provider uses httphelper.DefaultHTTPClient.
func NewCache(authority string, provider httphelper.DoerProvider, opts ...Option) (*Cache, error) {
	endpoint, err := client.ParseDiscoveryURL(authority)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		provider = httphelper.StaticDoer(httphelper.DefaultHTTPClient)
	}
	c := &Cache{
		authority: endpoint.Authority,
		provider:  provider,
		policy:    client.DefaultDiscoveryPolicy(),
		clock:     systemClock{},
		duration:  DefaultCacheDuration,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Cache) Authority() string {
	return c.authority
}

func (c *Cache) CacheDuration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.duration
}

// SetCacheDuration changes the duration used by future expiry checks.
func (c *Cache) SetCacheDuration(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.duration = d
}

// Refresh expires the cached document. The next Get fetches it again,
// also when a fetch is in flight right now.
func (c *Cache) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	if c.entry != nil {
		c.entry.expired = true
	}
}

// Get returns the cached document, or fetches it when there is none or it
// expired. The visitors of the caller that starts a fetch are applied to
// its requests.
//
// Cancelling ctx only stops waiting: the caller gets an ErrorTypeException
// response while a shared fetch runs to completion for everybody else.
// The returned response is shared and must not be modified.
func (c *Cache) Get(ctx context.Context, visitors ...client.Visitor) *client.DiscoveryDocumentResponse {
	if doc, ok := c.cached(); ok {
		c.metrics.hit(c.authority)
		return doc
	}
	result := c.group.DoChan(c.authority, func() (any, error) {
		if doc, ok := c.cached(); ok {
			return doc, nil
		}
		return c.fetch(context.WithoutCancel(ctx), visitors), nil
	})
	select {
	case res := <-result:
		return res.Val.(*client.DiscoveryDocumentResponse)
	case <-ctx.Done():
		return &client.DiscoveryDocumentResponse{
			Response: client.Response{
				ErrorType: client.ErrorTypeException,
				Err:       ctx.Err(),
			},
		}
	}
}

func (c *Cache) cached() (*client.DiscoveryDocumentResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry
	if e == nil || e.expired || c.clock.Now().Sub(e.fetchedAt) >= c.duration {
		return nil, false
	}
	return e.doc, true
}

func (c *Cache) fetch(ctx context.Context, visitors []client.Visitor) *client.DiscoveryDocumentResponse {
	ctx, span := client.Tracer.Start(ctx, "DiscoveryCache.fetch")
	defer span.End()

	c.mu.Lock()
	generation := c.generation
	c.mu.Unlock()

	cl := client.New(c.provider(), c.clientOpts...)
	doc, err := cl.GetDiscoveryDocument(ctx, &client.DiscoveryRequest{
		Request: client.Request{Address: c.authority},
		Policy:  c.policy,
	}, visitors...)
	if err != nil {
		doc = &client.DiscoveryDocumentResponse{
			Response: client.Response{
				ErrorType: client.ErrorTypeException,
				Err:       err,
			},
		}
	}
	c.metrics.fetched(c.authority, doc.IsError())
	if logger, ok := cl.Logger(ctx); ok {
		logger.DebugContext(ctx, "discovery document fetched",
			slog.String("authority", c.authority),
			slog.Bool("error", doc.IsError()),
		)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = &entry{
		doc:       doc,
		fetchedAt: c.clock.Now(),
		expired:   generation != c.generation,
	}
	return doc
}
