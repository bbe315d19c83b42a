package ingestion_engine

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/markdave123-py/bharathi/internal/core"
)

var _ core.ContentFetcher = (*HTTPContentFetcher)(nil)

// HTTPContentFetcher downloads linked documents. S3 URLs go through the object
// client when one is configured.
type HTTPContentFetcher struct {
	client   *http.Client
	objects  core.ObjectClient
	maxBytes int64
}

// NewContentFetcher builds a fetcher. objects may be nil.
func NewContentFetcher(timeout time.Duration, maxBytes int64, objects core.ObjectClient) *HTTPContentFetcher {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPContentFetcher{
		client:   &http.Client{Timeout: timeout},
		objects:  objects,
		maxBytes: maxBytes,
	}
}

// Fetch returns the document body. Any non-2xx status is an error; nothing is retried.
func (f *HTTPContentFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid document url: %w", err)
	}

	if bucket, key, ok := parseS3URL(u); ok {
		if f.objects != nil {
			return f.objects.GetFile(ctx, bucket, key)
		}
		if u.Scheme == "s3" {
			return nil, fmt.Errorf("cannot fetch %s: object storage not configured", rawURL)
		}
	}

	switch u.Scheme {
	case "http", "https":
	default:
		return nil, fmt.Errorf("unsupported document url scheme %q", u.Scheme)
	}
	return f.get(ctx, u.String())
}

func (f *HTTPContentFetcher) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("download %s: unexpected status %d", target, resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if f.maxBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", target, err)
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("download %s: document exceeds %d bytes", target, f.maxBytes)
	}
	return data, nil
}

// parseS3URL extracts the bucket and key from s3://bucket/key or a
// virtual-hosted style S3 URL.
// Example: https://my-bucket.s3.us-east-2.amazonaws.com/path/to/file.pdf
func parseS3URL(u *url.URL) (bucket, key string, ok bool) {
	key = strings.TrimPrefix(u.Path, "/")
	switch {
	case u.Scheme == "s3":
		bucket = u.Host
	case u.Scheme == "https" && strings.HasSuffix(u.Hostname(), ".amazonaws.com"):
		host := u.Hostname()
		i := strings.Index(host, ".s3.")
		if i <= 0 {
			i = strings.Index(host, ".s3-")
		}
		if i <= 0 {
			return "", "", false
		}
		bucket = host[:i]
	default:
		return "", "", false
	}
	if bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}
