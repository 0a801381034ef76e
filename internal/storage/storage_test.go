package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	s := NewMemoryStorage("http://cdn.test/bucket/")

	url, err := s.Put(context.Background(), "products/a.png", strings.NewReader("png"), 3, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "http://cdn.test/bucket/products/a.png", url)

	_, err = s.Put(context.Background(), "users/b.jpg", strings.NewReader("jpg"), 3, "image/jpeg")
	require.NoError(t, err)

	products, err := s.List(context.Background(), "products/")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "products/a.png", products[0].Key)
	assert.Equal(t, int64(3), products[0].Size)

	all, err := s.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, s.Delete(context.Background(), "products/a.png"))
	assert.False(t, s.Has("products/a.png"))
	assert.Equal(t, 1, s.Len())
}

func TestKeyFromURL(t *testing.T) {
	s := NewMemoryStorage("http://cdn.test/bucket")

	tests := []struct {
		name   string
		url    string
		want   string
		wantOK bool
	}{
		{name: "own object", url: "http://cdn.test/bucket/products/a.png", want: "products/a.png", wantOK: true},
		{name: "foreign host", url: "https://elsewhere.test/products/a.png"},
		{name: "bare base", url: "http://cdn.test/bucket/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := KeyFromURL(s, tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, key)
		})
	}
}

func TestBasename(t *testing.T) {
	assert.Equal(t, "a-1.png", Basename("https://b.s3.us-east-1.amazonaws.com/products/a-1.png"))
	assert.Equal(t, "a-1.png", Basename("products/a-1.png?v=2"))
	assert.Equal(t, "a-1.png", Basename("a-1.png"))
}
