package message

type RequestLine struct {
	Method   Method
	Resource Resource
	Version  Version
}

// Request is built once per connection by ParseRequest and is not modified
// afterwards. Header names are kept as sent; a repeated name keeps the last
// value.
type Request struct {
	RequestLine
	Headers map[string]string
	Body    string
}

func (r *Request) Header(name string) (string, bool) {
	v, ok := r.Headers[name]
	return v, ok
}
