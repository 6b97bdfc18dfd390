package message

const (
	DefaultVersion     = "HTTP/1.1"
	HeaderContentType  = "Content-Type:"
	defaultContentType = "text/html"
)

type Header struct {
	Key   string
	Value string
}

// Headers keeps response headers in insertion order. Keys carry their own
// punctuation ("Content-Type:"), the serializer adds nothing between key and
// value.
type Headers []Header

func (h Headers) Get(key string) (string, bool) {
	for _, header := range h {
		if header.Key == key {
			return header.Value, true
		}
	}
	return "", false
}

// Set replaces the value of an existing key in place or appends a new one.
func (h *Headers) Set(key, value string) {
	for i := range *h {
		if (*h)[i].Key == key {
			(*h)[i].Value = value
			return
		}
	}
	*h = append(*h, Header{Key: key, Value: value})
}

// HeadersFromMap orders the map by key so serialization is deterministic.
func HeadersFromMap(m map[string]string) Headers {
	if m == nil {
		return nil
	}

	headers := make(Headers, 0, len(m))
	for _, key := range getSortedKeys(m) {
		headers = append(headers, Header{Key: key, Value: m[key]})
	}
	return headers
}

func ContentType(value string) Headers {
	return Headers{{Key: HeaderContentType, Value: value}}
}

type Response struct {
	Version    string
	StatusCode int
	StatusMsg  string
	Headers    Headers
	Body       string
}

// NewResponse derives the status message from code. A nil headers argument
// is replaced by a single text/html content type; an empty, non-nil one is
// kept empty.
func NewResponse(code int, headers Headers, body string) Response {
	if headers == nil {
		headers = ContentType(defaultContentType)
	}

	return Response{
		Version:    DefaultVersion,
		StatusCode: code,
		StatusMsg:  StatusText(code),
		Headers:    headers,
		Body:       body,
	}
}
