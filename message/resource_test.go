package message

import (
	"testing"

	"github.com/tony-montemuro/webserver/internal/assert"
)

func TestEscapeSequence_unescape(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		index       int
		expected    byte
		expectError bool
	}{
		{
			name:     "Basic example",
			data:     "%3Ftest",
			index:    0,
			expected: '?',
		},
		{
			name:     "End of string",
			data:     "test%ad",
			index:    4,
			expected: 173,
		},
		{
			name:        "Malformed escape sequence",
			data:        "Te%1jst",
			index:       2,
			expectError: true,
		},
		{
			name:        "Truncated escape sequence",
			data:        "Test%",
			index:       4,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := escapeSequence(tt.data).unescape(tt.index)

			ok := assert.ErrorStatus(t, err, tt.expectError)
			if !ok {
				return
			}

			assert.Equal(t, res, tt.expected)
		})
	}
}

func TestResource_Path(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		path     string
		query    string
		segments []string
	}{
		{
			name:     "Root",
			target:   "/",
			path:     "/",
			segments: []string{""},
		},
		{
			name:     "Empty target",
			target:   "",
			path:     "",
			segments: []string{""},
		},
		{
			name:     "Single segment",
			target:   "/test",
			path:     "/test",
			segments: []string{"test"},
		},
		{
			name:     "API path",
			target:   "/api/shipping/orders",
			path:     "/api/shipping/orders",
			segments: []string{"api", "shipping", "orders"},
		},
		{
			name:     "Query is not part of the path",
			target:   "/api/shipping/orders?limit=2",
			path:     "/api/shipping/orders",
			query:    "limit=2",
			segments: []string{"api", "shipping", "orders"},
		},
		{
			name:     "Escaped bytes decoded",
			target:   "/my%20page.html",
			path:     "/my page.html",
			segments: []string{"my page.html"},
		},
		{
			name:     "Broken escape left as is",
			target:   "/bad%zz",
			path:     "/bad%zz",
			segments: []string{"bad%zz"},
		},
		{
			name:     "Trailing slash",
			target:   "/api/",
			path:     "/api/",
			segments: []string{"api", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Resource{Target: tt.target}

			assert.Equal(t, r.Path(), tt.path)
			assert.Equal(t, r.Query(), tt.query)
			assert.SliceEqual(t, r.Segments(), tt.segments)
			assert.Equal(t, r.String(), tt.target)
		})
	}
}

func TestResource_Segment(t *testing.T) {
	r := Resource{Target: "/api/shipping"}

	assert.Equal(t, r.Segment(0), "api")
	assert.Equal(t, r.Segment(1), "shipping")
	assert.Equal(t, r.Segment(2), "")
	assert.Equal(t, r.Segment(-1), "")
}
