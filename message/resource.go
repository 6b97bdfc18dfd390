package message

import (
	"fmt"
	"strings"

	"github.com/tony-montemuro/webserver/internal/constructs"
)

// Resource is the request-target exactly as it appeared on the request line.
type Resource struct {
	Target string
}

type escapeSequence string

func (s escapeSequence) unescape(i int) (byte, error) {
	var b byte

	for j := 1; j <= 2; j++ {
		if i+j == len(s) {
			return b, ClientError{message: fmt.Sprintf("truncated escape sequence: (char pos: %d, \"%s\")", i+j-1, s)}
		}

		val, err := constructs.Hex(s[i+j]).Value()
		if err != nil {
			return b, ClientError{message: fmt.Sprintf("malformed escape sequence: (char pos: %d, \"%s\")", i+j, s[:i+j])}
		}

		b += val << (4 * (2 - j))
	}

	return b, nil
}

func (s escapeSequence) decode() (string, error) {
	var res strings.Builder
	i := 0

	for i < len(s) {
		if !constructs.HttpByte(s[i]).IsEscape() {
			res.WriteByte(s[i])
			i++
			continue
		}

		c, err := s.unescape(i)
		if err != nil {
			return "", err
		}
		res.WriteByte(c)
		i += 3
	}

	return res.String(), nil
}

func (r Resource) rawPath() string {
	path, _, _ := strings.Cut(r.Target, string(constructs.ByteQuery))
	return path
}

// Path is the percent-decoded target without its query. Targets with broken
// escapes are returned undecoded.
func (r Resource) Path() string {
	raw := r.rawPath()

	path, err := escapeSequence(raw).decode()
	if err != nil {
		return raw
	}
	return path
}

func (r Resource) Query() string {
	_, query, _ := strings.Cut(r.Target, string(constructs.ByteQuery))
	return query
}

// Segments splits the path on '/'. The leading separator does not produce a
// segment, so the root path yields the single segment "".
func (r Resource) Segments() []string {
	path := strings.TrimPrefix(r.Path(), string(constructs.ByteSeparator))
	return strings.Split(path, string(constructs.ByteSeparator))
}

// Segment returns the i-th path segment, or "" when the path is shorter.
func (r Resource) Segment(i int) string {
	segments := r.Segments()
	if i < 0 || i >= len(segments) {
		return ""
	}
	return segments[i]
}

func (r Resource) String() string {
	return r.Target
}
