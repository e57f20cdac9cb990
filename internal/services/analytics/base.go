package analytics

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	pkgcache "TrendPulse/pkg/cache"
	"TrendPulse/pkg/config"
	xhttp "TrendPulse/pkg/http"
)

// HTTPServiceBase centralizes client construction, JSON POST handling, and
// response caching for analytics services backed by an external model
// server. Identical series within the cache TTL never hit the model twice.
type HTTPServiceBase struct {
	baseURL  string
	client   *xhttp.Client
	cache    pkgcache.Service
	cacheTTL time.Duration
}

func NewHTTPServiceBase(cfg *config.Config) *HTTPServiceBase {
	timeout := cfg.Analytics.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ttl := cfg.Analytics.CacheTTL.Trends
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &HTTPServiceBase{
		baseURL:  cfg.Analytics.ModelServiceURL,
		client:   xhttp.NewClient(xhttp.WithTimeout(timeout)),
		cache:    newResponseCache(cfg),
		cacheTTL: ttl,
	}
}

// newResponseCache prefers the layered Redis cache so replicas share model
// responses, falling back to process memory when Redis is absent.
func newResponseCache(cfg *config.Config) pkgcache.Service {
	if cfg.Analytics.Redis.Enabled {
		host, port := splitHostPort(cfg.Analytics.Redis.Addr)
		rc, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisHost(host),
			pkgcache.WithRedisPort(port),
			pkgcache.WithRedisPassword(cfg.Analytics.Redis.Password),
			pkgcache.WithRedisDB(cfg.Analytics.Redis.DB),
			pkgcache.WithRedisPrefix("trendpulse:model"),
		)
		if err == nil {
			return pkgcache.NewLayeredCache(rc, pkgcache.WithLayeredMemorySize(256))
		}
	}
	return pkgcache.NewMemoryCache(pkgcache.WithMemoryMaxSize(256))
}

func splitHostPort(addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, 6379
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return host, 6379
	}
	return host, port
}

// PostJSON posts the payload to `path` under baseURL and decodes JSON into dest.
func (b *HTTPServiceBase) PostJSON(ctx context.Context, path string, payload interface{}, dest interface{}) error {
	if b.client == nil || b.baseURL == "" {
		return fmt.Errorf("analytics http client not initialized")
	}
	err := b.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    b.baseURL + path,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: payload,
	}, dest)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	return nil
}

// PostJSONWithRetry posts JSON with up to `attempts` retries for transient errors.
func (b *HTTPServiceBase) PostJSONWithRetry(ctx context.Context, path string, payload interface{}, dest interface{}, attempts int) error {
	if attempts <= 1 {
		return b.PostJSON(ctx, path, payload, dest)
	}
	var err error
	for i := 1; i <= attempts; i++ {
		err = b.PostJSON(ctx, path, payload, dest)
		if err == nil {
			return nil
		}
		select {
		case <-time.After(time.Duration(i) * 50 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

// PostJSONCached serves dest from the response cache when possible and
// caches successful model responses under cacheKey.
func (b *HTTPServiceBase) PostJSONCached(ctx context.Context, path, cacheKey string, payload, dest interface{}) error {
	if err := b.cache.Get(ctx, cacheKey, dest); err == nil {
		return nil
	}
	if err := b.PostJSONWithRetry(ctx, path, payload, dest, 3); err != nil {
		return err
	}
	_ = b.cache.Set(ctx, cacheKey, dest, b.cacheTTL)
	return nil
}
