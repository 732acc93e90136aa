package pagination

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	token, err := EncodeCursor(Cursor{ID: "1234", CreatedAt: "2024-05-01T10:00:00.5Z"})
	require.NoError(t, err)
	assert.NotContains(t, token, "=")

	cursor, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.Equal(t, "1234", cursor.ID)
	assert.Equal(t, "2024-05-01T10:00:00.5Z", cursor.CreatedAt)
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	_, err := DecodeCursor("not a token!")
	assert.Error(t, err)

	_, err = DecodeCursor("bm90LWpzb24") // "not-json"
	assert.Error(t, err)
}

type row struct{ n int }

func rows(n int) []*row {
	out := make([]*row, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, &row{n: i})
	}
	return out
}

func TestBuildCursorPageInfo(t *testing.T) {
	last := func(r *row) string { return strconv.Itoa(r.n) }

	tests := []struct {
		name  string
		data  []*row
		limit int32
		want  PageInfo
	}{
		{name: "empty", data: nil, limit: 2, want: PageInfo{}},
		{name: "short page", data: rows(1), limit: 2, want: PageInfo{}},
		{name: "exact page", data: rows(2), limit: 2, want: PageInfo{}},
		{name: "extra row", data: rows(3), limit: 2, want: PageInfo{HasMore: true, NextPageToken: "2"}},
		{name: "no limit", data: rows(3), limit: 0, want: PageInfo{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildCursorPageInfo(tt.data, tt.limit, last)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}
