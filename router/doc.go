// Package router selects the handler that answers a parsed request.
//
// Routes are keyed by method and by the first segment of the request path:
//
//	r := router.New(notFound, logger)
//	r.GET("api", api)
//	r.GET(router.AnySegment, static)
//	res := r.Route(req)
//
// A request whose method has no matching route is answered by the not-found
// handler. With the wiring above every method other than GET ends there.
package router
