package ingestion_engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	bucket, key string
	data        []byte
}

func (f *fakeObjects) GetFile(_ context.Context, bucket, key string) ([]byte, error) {
	f.bucket, f.key = bucket, key
	return f.data, nil
}

func TestFetchHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/profile.pdf":
			_, _ = w.Write([]byte("%PDF-1.7 data"))
		case "/big":
			_, _ = w.Write([]byte(strings.Repeat("x", 64)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewContentFetcher(5*time.Second, 32, nil)

	data, err := f.Fetch(context.Background(), srv.URL+"/profile.pdf?sig=abc")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 data", string(data))

	_, err = f.Fetch(context.Background(), srv.URL+"/missing.pdf")
	require.ErrorContains(t, err, "unexpected status 404")

	_, err = f.Fetch(context.Background(), srv.URL+"/big")
	require.ErrorContains(t, err, "exceeds")
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	f := NewContentFetcher(50*time.Millisecond, 0, nil)
	_, err := f.Fetch(context.Background(), srv.URL+"/slow.pdf")
	require.Error(t, err)
}

func TestFetchRejectsUnsupportedScheme(t *testing.T) {
	f := NewContentFetcher(time.Second, 0, nil)
	_, err := f.Fetch(context.Background(), "ftp://example.com/a.pdf")
	require.Error(t, err)

	_, err = f.Fetch(context.Background(), "s3://docs/a.pdf")
	require.ErrorContains(t, err, "object storage not configured")
}

func TestFetchS3GoesThroughObjectClient(t *testing.T) {
	objects := &fakeObjects{data: []byte("pdf")}
	f := NewContentFetcher(time.Second, 0, objects)

	data, err := f.Fetch(context.Background(), "https://acme-docs.s3.us-east-2.amazonaws.com/companies/acme/profile.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf"), data)
	assert.Equal(t, "acme-docs", objects.bucket)
	assert.Equal(t, "companies/acme/profile.pdf", objects.key)

	_, err = f.Fetch(context.Background(), "s3://other/menu.png")
	require.NoError(t, err)
	assert.Equal(t, "other", objects.bucket)
	assert.Equal(t, "menu.png", objects.key)
}

func TestParseS3URL(t *testing.T) {
	cases := []struct {
		in          string
		bucket, key string
		ok          bool
	}{
		{"s3://b/k/x.pdf", "b", "k/x.pdf", true},
		{"https://b.s3.eu-west-1.amazonaws.com/x.pdf", "b", "x.pdf", true},
		{"https://b.s3.amazonaws.com/x.pdf", "b", "x.pdf", true},
		{"https://b.s3-eu-west-1.amazonaws.com/x.pdf", "b", "x.pdf", true},
		{"https://example.com/x.pdf", "", "", false},
		{"https://b.s3.amazonaws.com/", "", "", false},
		{"https://dynamodb.us-east-1.amazonaws.com/x", "", "", false},
	}
	for _, tc := range cases {
		u, err := url.Parse(tc.in)
		require.NoError(t, err)
		bucket, key, ok := parseS3URL(u)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.bucket, bucket, tc.in)
		assert.Equal(t, tc.key, key, tc.in)
	}
}
