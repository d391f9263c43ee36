package media

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/junaidrashid-git/storefront/apperr"
	"github.com/junaidrashid-git/storefront/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testCfg = config.Cloudinary{CloudName: "demo", APIKey: "key", APISecret: "secret", Folder: "ecommerce-products"}

type fakeDestroyer struct {
	mu     sync.Mutex
	calls  []string
	failOn map[string]bool
}

func (f *fakeDestroyer) Destroy(_ context.Context, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, id)
	if f.failOn[id] {
		return "", errors.New("boom")
	}
	return "ok", nil
}

func TestExtractPublicID(t *testing.T) {
	cases := map[string]string{
		"https://res.cloudinary.com/demo/image/upload/v1712345678/ecommerce-products/abc123.jpg": "ecommerce-products/abc123",
		"https://res.cloudinary.com/demo/image/upload/sample.png":                                "sample",
	}
	for in, want := range cases {
		got, ok := ExtractPublicID(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got)
	}

	for _, in := range []string{"https://cdn.dummyjson.com/products/images/1.png", "not a url", ""} {
		_, ok := ExtractPublicID(in)
		assert.False(t, ok, in)
	}
}

func TestSign(t *testing.T) {
	s := NewWithDestroyer(testCfg, nil, zap.NewNop())
	s.now = func() time.Time { return time.Unix(1700000000, 0) }

	sig, err := s.Sign()
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), sig.Timestamp)
	assert.Equal(t, "demo", sig.CloudName)
	assert.Equal(t, "key", sig.APIKey)
	assert.Equal(t, "ecommerce-products", sig.Folder)

	want, err := api.SignParameters(url.Values{"folder": {"ecommerce-products"}, "timestamp": {"1700000000"}}, "secret")
	require.NoError(t, err)
	assert.Equal(t, want, sig.Signature)
}

func TestSignWithoutCredentials(t *testing.T) {
	s, err := New(config.Cloudinary{Folder: "ecommerce-products"}, zap.NewNop())
	require.NoError(t, err)

	_, err = s.Sign()
	require.Error(t, err)
	assert.Equal(t, 500, apperr.Status(err))
	assert.EqualError(t, err, "Cloudinary configuration missing")

	_, err = s.Delete(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestDeleteReportsPartialFailures(t *testing.T) {
	d := &fakeDestroyer{failOn: map[string]bool{"b": true}}
	s := NewWithDestroyer(testCfg, d, zap.NewNop())

	report, err := s.Delete(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.True(t, report.Success)
	assert.Equal(t, 2, report.Deleted)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Results, 3)
	assert.Equal(t, "a", report.Results[0].PublicID)
	assert.Equal(t, "ok", report.Results[0].Result.Result)
	assert.Equal(t, "Failed to delete", report.Results[1].Error)
	assert.Nil(t, report.Results[1].Result)
}

func TestDeleteEmpty(t *testing.T) {
	s := NewWithDestroyer(testCfg, nil, zap.NewNop())
	report, err := s.Delete(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, &DeleteReport{Success: true, Results: []DeleteResult{}}, report)
}

func TestDeleteURLsSkipsForeignHosts(t *testing.T) {
	d := &fakeDestroyer{}
	s := NewWithDestroyer(testCfg, d, zap.NewNop())

	s.DeleteURLs(context.Background(), []string{
		"https://res.cloudinary.com/demo/image/upload/v1/ecommerce-products/one.webp",
		"https://cdn.example.com/two",
		"https://res.cloudinary.com/demo/image/upload/ecommerce-products/three.jpg",
	})

	sort.Strings(d.calls)
	assert.Equal(t, []string{"ecommerce-products/one", "ecommerce-products/three"}, d.calls)
}
