package pagination

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
		wantErr   error
	}{
		{name: "defaults", query: "", wantPage: 1, wantLimit: 10},
		{name: "explicit", query: "?page=3&limit=25", wantPage: 3, wantLimit: 25},
		{name: "limit clamped", query: "?limit=1000", wantPage: 1, wantLimit: MaxLimit},
		{name: "zero page", query: "?page=0", wantErr: ErrInvalidPage},
		{name: "negative limit", query: "?limit=-1", wantErr: ErrInvalidLimit},
		{name: "non numeric page", query: "?page=abc", wantErr: ErrInvalidPage},
		{name: "non numeric limit", query: "?limit=ten", wantErr: ErrInvalidLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/items"+tt.query, nil)

			p, err := FromRequest(r, DefaultLimit)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
		})
	}
}

func TestFetchSecondPage(t *testing.T) {
	records := make([]int, 25)
	for i := range records {
		records[i] = i + 1
	}

	p, err := New(2, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, p.Offset())

	page, err := Fetch(context.Background(), p,
		func(context.Context) (int, error) { return len(records), nil },
		func(_ context.Context, offset, limit int) ([]int, error) {
			end := min(offset+limit, len(records))
			return records[offset:end], nil
		},
	)
	require.NoError(t, err)

	assert.Equal(t, 25, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, []int{11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, page.Items)
}

func TestFetchPropagatesErrors(t *testing.T) {
	boom := errors.New("count failed")
	p, _ := New(1, 10)

	_, err := Fetch(context.Background(), p,
		func(context.Context) (int, error) { return 0, boom },
		func(context.Context, int, int) ([]string, error) { return nil, nil },
	)
	assert.ErrorIs(t, err, boom)
}

func TestFetchEmptyItemsIsNotNil(t *testing.T) {
	p, _ := New(5, 10)

	page, err := Fetch(context.Background(), p,
		func(context.Context) (int, error) { return 3, nil },
		func(context.Context, int, int) ([]string, error) { return nil, nil },
	)
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

func TestEnvelope(t *testing.T) {
	page := &Page[string]{Page: 1, Limit: 2, Total: 3, Items: []string{"a", "b"}}
	mapped := Map(page, func(s string) int { return len(s) })

	env := Envelope(mapped, "things")
	assert.Equal(t, 3, env["total"])
	assert.Equal(t, []int{1, 1}, env["things"])
}
