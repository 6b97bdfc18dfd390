package message

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tony-montemuro/webserver/internal/constructs"
)

const requestLineMarker = "HTTP"

// ParseRequest builds a Request from the bytes read off a connection.
//
// The parser is a line heuristic, not a conforming HTTP parser. Input is cut
// at the first NUL byte and split at the first blank line. In the header
// section the first line mentioning HTTP is the request line, lines holding
// a colon are headers and anything else is a body candidate. The first
// non-blank line after the blank line, when present, is the body.
func ParseRequest(raw []byte) (*Request, error) {
	data := constructs.TrimPadding(raw)
	if constructs.IsBlank(string(data)) {
		return nil, ErrEmptyRequest
	}

	head, tail := constructs.SplitHead(data)
	req := &Request{Headers: make(map[string]string)}
	hasLine := false

	for _, line := range constructs.Lines(string(head)) {
		switch {
		case !hasLine && strings.Contains(line, requestLineMarker):
			rl, err := requestLineParser(line).parse()
			if err != nil {
				return nil, err
			}
			req.RequestLine = rl
			hasLine = true
		case strings.IndexByte(line, constructs.ByteHeader) != -1:
			name, value := headerParser(line).parse()
			req.Headers[name] = value
		case constructs.IsBlank(line):
		default:
			req.Body = line
		}
	}

	if !hasLine {
		return nil, ClientError{message: fmt.Sprintf("Invalid request: no request line found (%q)", firstLine(head))}
	}

	if body, ok := bodyParser(tail).parse(); ok {
		req.Body = body
	}

	return req, nil
}

type requestLineParser string

func (rl requestLineParser) parse() (RequestLine, error) {
	parts := strings.Fields(string(rl))
	if len(parts) != 3 {
		return RequestLine{}, ClientError{message: fmt.Sprintf("Invalid request line: malformed request line (%s)", string(rl))}
	}

	return RequestLine{
		Method:   parseMethod(parts[0]),
		Resource: Resource{Target: parts[1]},
		Version:  parseVersion(parts[2]),
	}, nil
}

// headerParser splits on the first colon. The value is kept verbatim,
// including the space that usually follows the colon.
type headerParser string

func (h headerParser) parse() (string, string) {
	name, value, _ := strings.Cut(string(h), string(constructs.ByteHeader))
	return name, value
}

type bodyParser []byte

func (b bodyParser) parse() (string, bool) {
	for _, line := range constructs.Lines(string(b)) {
		if !constructs.IsBlank(line) {
			return line, true
		}
	}

	return "", false
}

// DeclaredLength reads a Content-Length header out of a raw header section.
// The connection loop uses it to decide how many body bytes to wait for; the
// parser itself never delimits the body by length.
func DeclaredLength(head []byte) (int, bool) {
	for _, line := range constructs.Lines(string(head)) {
		name, value := headerParser(line).parse()
		if !strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			continue
		}

		n, err := strconv.Atoi(strings.TrimSpace(value))
		if errors.Is(err, strconv.ErrRange) && n > 0 {
			// Too long for an int, larger than any request limit.
			return math.MaxInt, true
		}
		if err != nil || n < 0 {
			return 0, false
		}
		return n, true
	}

	return 0, false
}

func firstLine(data []byte) string {
	lines := constructs.Lines(string(data))
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}
