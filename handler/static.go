package handler

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/tony-montemuro/webserver/message"
)

const (
	indexPage    = "index.html"
	testPage     = "test.html"
	notFoundPage = "404.html"
)

// FileLoader is the file access the content handlers need.
type FileLoader interface {
	LoadFile(name string) (string, bool)
}

// StaticPage serves files from the content root by the first path segment.
// The root path maps to index.html.
type StaticPage struct {
	Files FileLoader
}

func (h StaticPage) Handle(req *message.Request) message.Response {
	switch name := req.Resource.Segment(0); name {
	case "":
		return h.page(indexPage, nil)
	case "test":
		return h.page(testPage, nil)
	default:
		return h.page(name, message.ContentType(contentType(name)))
	}
}

func (h StaticPage) page(name string, headers message.Headers) message.Response {
	content, ok := h.Files.LoadFile(name)
	if !ok {
		return notFound(h.Files)
	}

	return message.NewResponse(message.StatusOK, headers, content)
}

func contentType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))

	switch ext {
	case ".css":
		return "text/css"
	case ".js":
		return "text/javascript"
	case ".html", ".htm", "":
		return "text/html"
	}

	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "text/html"
}

// PageNotFound answers every request with 404 and the not-found page.
type PageNotFound struct {
	Files FileLoader
}

func (h PageNotFound) Handle(req *message.Request) message.Response {
	return notFound(h.Files)
}

func notFound(files FileLoader) message.Response {
	body, ok := files.LoadFile(notFoundPage)
	if !ok {
		body = message.StatusText(message.StatusNotFound)
	}

	return message.NewResponse(message.StatusNotFound, nil, body)
}
