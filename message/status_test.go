package message

import (
	"testing"

	"github.com/tony-montemuro/webserver/internal/assert"
)

func TestStatusText(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		expected string
	}{
		{name: "OK", code: 200, expected: "OK"},
		{name: "Bad Request", code: 400, expected: "Bad Request"},
		{name: "Not Found", code: 404, expected: "Not Found"},
		{name: "Internal Server Error", code: 500, expected: "Internal Server Error"},
		{name: "Outside table", code: 201, expected: "Unreachable"},
		{name: "Unauthorized is not in the table", code: 401, expected: "Unreachable"},
		{name: "Zero", code: 0, expected: "Unreachable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, StatusText(tt.code), tt.expected)
			assert.Equal(t, NewResponse(tt.code, nil, "").StatusMsg, tt.expected)
		})
	}
}

func TestMethod_String(t *testing.T) {
	assert.Equal(t, MethodGet.String(), "GET")
	assert.Equal(t, MethodUnrecognized.String(), "UNRECOGNIZED")
	assert.Equal(t, Version20.String(), "HTTP/2.0")
	assert.Equal(t, VersionUnrecognized.String(), "UNRECOGNIZED")
}
