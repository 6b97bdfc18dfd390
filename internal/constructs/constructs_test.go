package constructs

import (
	"testing"

	"github.com/tony-montemuro/webserver/internal/assert"
)

type byteCheck struct {
	name     string
	byte     byte
	expected bool
}

func TestHttpByte_IsEscape(t *testing.T) {
	tests := []byteCheck{
		{
			name:     "Percent sign (%)",
			byte:     '%',
			expected: true,
		},
		{
			name:     "Not percent sign (%)",
			byte:     'a',
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, HttpByte(tt.byte).IsEscape(), tt.expected)
		})
	}
}

func TestHex_Value(t *testing.T) {
	tests := []struct {
		name        string
		byte        byte
		expected    byte
		expectError bool
	}{
		{
			name:     "Digit",
			byte:     '7',
			expected: 7,
		},
		{
			name:     "Lowercase",
			byte:     'c',
			expected: 12,
		},
		{
			name:     "Uppercase",
			byte:     'F',
			expected: 15,
		},
		{
			name:        "Not hex",
			byte:        'g',
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Hex(tt.byte).Value()

			ok := assert.ErrorStatus(t, err, tt.expectError)
			if !ok {
				return
			}

			assert.Equal(t, res, tt.expected)
		})
	}
}

func TestTrimPadding(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected string
	}{
		{
			name:     "No padding",
			data:     []byte("GET / HTTP/1.1\r\n\r\n"),
			expected: "GET / HTTP/1.1\r\n\r\n",
		},
		{
			name:     "Trailing padding",
			data:     append([]byte("GET / HTTP/1.1\r\n\r\n"), make([]byte, 16)...),
			expected: "GET / HTTP/1.1\r\n\r\n",
		},
		{
			name:     "Garbage after padding",
			data:     []byte("GET / HTTP/1.1\r\n\r\n\x00\x00stale"),
			expected: "GET / HTTP/1.1\r\n\r\n",
		},
		{
			name:     "Only padding",
			data:     make([]byte, 8),
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, string(TrimPadding(tt.data)), tt.expected)
		})
	}
}

func TestHeaderEnd(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		end      int
		size     int
		hasBound bool
	}{
		{
			name:     "CRLF terminator",
			data:     []byte("GET / HTTP/1.1\r\nHost: a\r\n\r\nbody"),
			end:      23,
			size:     4,
			hasBound: true,
		},
		{
			name:     "LF terminator",
			data:     []byte("GET / HTTP/1.1\nHost: a\n\nbody"),
			end:      22,
			size:     2,
			hasBound: true,
		},
		{
			name:     "Incomplete",
			data:     []byte("GET / HTTP/1.1\r\nHost: a\r\n"),
			end:      -1,
			hasBound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			end, size := HeaderEnd(tt.data)

			assert.Equal(t, end, tt.end)
			if tt.hasBound {
				assert.Equal(t, size, tt.size)
			}
		})
	}
}

func TestSplitHead(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		head string
		body string
	}{
		{
			name: "Head and body",
			data: []byte("POST / HTTP/1.1\r\nA:1\r\n\r\nhello"),
			head: "POST / HTTP/1.1\r\nA:1",
			body: "hello",
		},
		{
			name: "No terminator",
			data: []byte("GET / HTTP/1.1\r\nA:1"),
			head: "GET / HTTP/1.1\r\nA:1",
			body: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			head, body := SplitHead(tt.data)

			assert.Equal(t, string(head), tt.head)
			assert.Equal(t, string(body), tt.body)
		})
	}
}

func TestLines(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expected []string
	}{
		{
			name:     "Empty",
			data:     "",
			expected: nil,
		},
		{
			name:     "CRLF endings",
			data:     "GET / HTTP/1.1\r\nHost: a",
			expected: []string{"GET / HTTP/1.1", "Host: a"},
		},
		{
			name:     "Mixed endings",
			data:     "GET / HTTP/1.1\nHost: a\r\n",
			expected: []string{"GET / HTTP/1.1", "Host: a", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.SliceEqual(t, Lines(tt.data), tt.expected)
		})
	}
}

func TestIsBlank(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expected bool
	}{
		{name: "Empty", data: "", expected: true},
		{name: "Whitespace", data: " \t\r", expected: true},
		{name: "Text", data: " a ", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, IsBlank(tt.data), tt.expected)
		})
	}
}
