package router

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tony-montemuro/webserver/message"
)

// AnySegment registers a route that matches every path for its method.
const AnySegment = "*"

// Handler maps a request to the response written back on the connection.
type Handler interface {
	Handle(req *message.Request) message.Response
}

type HandlerFunc func(req *message.Request) message.Response

func (f HandlerFunc) Handle(req *message.Request) message.Response {
	return f(req)
}

type routeKey struct {
	method  message.Method
	segment string
}

// Router holds the route table. Routes are normally registered before the
// server starts; the lock only guards late registrations.
type Router struct {
	mu       sync.RWMutex
	routes   map[routeKey]Handler
	notFound Handler
	logger   zerolog.Logger
}

func New(notFound Handler, logger zerolog.Logger) *Router {
	return &Router{
		routes:   make(map[routeKey]Handler),
		notFound: notFound,
		logger:   logger,
	}
}

// Handle registers h for requests with the given method whose first path
// segment equals segment, or for every path when segment is AnySegment.
func (r *Router) Handle(method message.Method, segment string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.routes[routeKey{method: method, segment: segment}] = h
}

func (r *Router) GET(segment string, h Handler) {
	r.Handle(message.MethodGet, segment, h)
}

func (r *Router) POST(segment string, h Handler) {
	r.Handle(message.MethodPost, segment, h)
}

// Match returns the handler Route would dispatch req to.
func (r *Router) Match(req *message.Request) Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	segment := req.Resource.Segment(0)
	if h, ok := r.routes[routeKey{method: req.Method, segment: segment}]; ok {
		return h
	}
	if h, ok := r.routes[routeKey{method: req.Method, segment: AnySegment}]; ok {
		return h
	}

	return r.notFound
}

// Route answers req with the matching handler. A handler that panics is
// answered with 500 so one bad request cannot take the server down.
func (r *Router) Route(req *message.Request) (res message.Response) {
	h := r.Match(req)

	defer func() {
		if rec := recover(); rec != nil {
			err := message.NewServerError("handler panicked: %s", fmt.Sprint(rec))
			r.logger.Error().
				Err(err).
				Str("method", req.Method.String()).
				Str("path", req.Resource.Path()).
				Msg("handler failed")
			res = message.ErrorResponse(err)
		}
	}()

	return h.Handle(req)
}
