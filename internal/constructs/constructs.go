package constructs

import (
	"bytes"
	"fmt"
	"strings"
)

const (
	ByteSeparator = '/'
	ByteQuery     = '?'
	ByteHeader    = ':'
	Crlf          = "\r\n"
	Lf            = "\n"
	Nul           = 0x00
)

var terminators = [][]byte{
	[]byte(Crlf + Crlf),
	[]byte(Lf + Lf),
	[]byte(Lf + Crlf),
}

type Hex byte

func (b Hex) Value() (byte, error) {
	switch {
	case b >= '0' && b <= '9':
		return byte(b - '0'), nil
	case b >= 'a' && b <= 'f':
		return byte(b - 'a' + 10), nil
	case b >= 'A' && b <= 'F':
		return byte(b - 'A' + 10), nil
	}

	return 0, fmt.Errorf("escape sequence contains non-hex byte")
}

type HttpByte byte

func (b HttpByte) IsEscape() bool {
	return b == '%'
}

func (b HttpByte) IsWhitespace() bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// TrimPadding drops everything from the first NUL byte onwards. Fixed-size
// read buffers leave NUL padding behind the logical request.
func TrimPadding(data []byte) []byte {
	i := bytes.IndexByte(data, Nul)
	if i == -1 {
		return data
	}

	return data[:i]
}

// HeaderEnd reports the index of the first header terminator and its length.
// It returns -1 when the header section is not complete yet.
func HeaderEnd(data []byte) (int, int) {
	end, size := -1, 0

	for _, t := range terminators {
		i := bytes.Index(data, t)
		if i != -1 && (end == -1 || i < end) {
			end, size = i, len(t)
		}
	}

	return end, size
}

// SplitHead cuts data at the first header terminator. When no terminator is
// present the whole input is the head.
func SplitHead(data []byte) ([]byte, []byte) {
	end, size := HeaderEnd(data)
	if end == -1 {
		return data, nil
	}

	return data[:end], data[end+size:]
}

// Lines splits s on LF and strips a trailing CR from every line.
func Lines(s string) []string {
	if len(s) == 0 {
		return nil
	}

	lines := strings.Split(s, Lf)
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	return lines
}

func IsBlank(s string) bool {
	for i := 0; i < len(s); i++ {
		if !HttpByte(s[i]).IsWhitespace() {
			return false
		}
	}

	return true
}
