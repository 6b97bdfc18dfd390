package message

import (
	"fmt"
	"io"
	"sort"

	"github.com/tony-montemuro/webserver/internal/constructs"
)

// Marshal renders the response in wire form. Content-Length is always
// computed from the body here and never taken from Headers.
func (r Response) Marshal() []byte {
	var marshaled []byte

	marshaled = append(marshaled, r.marshalLine()...)
	marshaled = append(marshaled, r.Headers.marshal()...)
	marshaled = fmt.Appendf(marshaled, "Content-Length: %d%s%s", len(r.Body), constructs.Crlf, constructs.Crlf)

	return append(marshaled, r.Body...)
}

func (r Response) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.Marshal())
	return int64(n), err
}

func (r Response) marshalLine() []byte {
	version := r.Version
	if len(version) == 0 {
		version = DefaultVersion
	}

	msg := r.StatusMsg
	if len(msg) == 0 {
		msg = StatusText(r.StatusCode)
	}

	return fmt.Appendf([]byte{}, "%s %d %s%s", version, r.StatusCode, msg, constructs.Crlf)
}

func (h Headers) marshal() []byte {
	var headers []byte

	for _, header := range h {
		headers = fmt.Appendf(headers, "%s%s%s", header.Key, header.Value, constructs.Crlf)
	}

	return headers
}

func getSortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
