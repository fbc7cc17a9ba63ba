
package crawler

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// DefaultEncoding is assumed when a response carries no charset parameter.
const DefaultEncoding = "ISO-8859-1"

type Response struct {
	URL              string
	Status           int
	ContentType      string
	DeclaredEncoding string
	Body             []byte
	FromCache        bool
}

type HTTPClient struct {
	client *resty.Client
	cache  *Cache
}

// NewHTTPClient builds a client. cache may be nil, in which case every
// Fetch goes to the network. A zero timeout leaves only the connection
// layer's own limits in place.
func NewHTTPClient(userAgent string, timeout time.Duration, cache *Cache) *HTTPClient {
	client := resty.New().
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &HTTPClient{client: client, cache: cache}
}

// Fetch performs a GET for rawURL, serving it from the cache when the same
// request has succeeded before.
func (h *HTTPClient) Fetch(ctx context.Context, rawURL string) (Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Response{}, &TransportError{URL: rawURL, Err: errors.New("invalid url")}
	}

	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("url", rawURL))

	if h.cache != nil {
		cached, err := h.cache.get(ctx, http.MethodGet, rawURL)
		switch {
		case err == nil:
			slog.DebugContext(ctx, "cache hit", "url", rawURL)
			return newResponse(rawURL, cached, true), nil
		case errors.Is(err, errCacheMiss):
		default:
			slog.WarnContext(ctx, "failed to read response cache", "url", rawURL, "err", err)
		}
	}

	slog.InfoContext(ctx, "fetching", "url", rawURL)
	res, err := h.client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return Response{}, &TransportError{URL: rawURL, Err: err}
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		span.SetStatus(codes.Error, res.Status())
		return Response{}, &TransportError{URL: rawURL, Status: res.StatusCode()}
	}

	fresh := cachedResponse{
		Status: res.StatusCode(),
		Header: res.Header(),
		Body:   res.Body(),
	}
	if h.cache != nil {
		if err := h.cache.set(ctx, http.MethodGet, rawURL, fresh); err != nil {
			slog.WarnContext(ctx, "failed to write response cache", "url", rawURL, "err", err)
		}
	}
	return newResponse(rawURL, fresh, false), nil
}

func newResponse(rawURL string, res cachedResponse, fromCache bool) Response {
	contentType := res.Header.Get("Content-Type")
	return Response{
		URL:              rawURL,
		Status:           res.Status,
		ContentType:      contentType,
		DeclaredEncoding: declaredEncoding(contentType),
		Body:             res.Body,
		FromCache:        fromCache,
	}
}

func declaredEncoding(contentType string) string {
	if contentType == "" {
		return DefaultEncoding
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil || params["charset"] == "" {
		return DefaultEncoding
	}
	return params["charset"]
}
