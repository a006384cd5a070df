// Package module mounts self-contained HTTP modules under path prefixes.
package module

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/amink7/assets-manager/pkg/middleware"
)

// Module serves an inner router below a path prefix. The prefix is
// stripped before the module's middleware and router see the request.
type Module struct {
	prefix string
	router http.Handler
	chain  middleware.Chain

	once    sync.Once
	handler http.Handler
}

// New creates a Module mounted at prefix, e.g. "/api" or "/api/v2".
// It panics on a prefix that is empty, relative, "/" itself, or that has
// a trailing or doubled slash.
func New(prefix string, router http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{prefix: prefix, router: router}
}

// Use appends middleware. It must be called before the module serves its
// first request; the stack is frozen after that.
func (m *Module) Use(fn middleware.Func) {
	m.chain.Use(fn)
}

// Handler returns the router wrapped in the module's middleware.
func (m *Module) Handler() http.Handler {
	m.once.Do(func() {
		m.handler = m.chain.Then(m.router)
	})
	return m.handler
}

// Prefix returns the mount prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Serve strips the prefix from req and dispatches it. Requests outside the
// prefix get 404.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	if !m.matches(req.URL.Path) {
		http.NotFound(w, req)
		return
	}
	m.Handler().ServeHTTP(w, withPath(req, m.strip(req.URL.Path)))
}

func (m *Module) matches(path string) bool {
	return path == m.prefix || strings.HasPrefix(path, m.prefix+"/")
}

func (m *Module) strip(path string) string {
	if rest := path[len(m.prefix):]; rest != "" {
		return rest
	}
	return "/"
}

func withPath(req *http.Request, path string) *http.Request {
	r := new(http.Request)
	*r = *req
	r.URL = new(url.URL)
	*r.URL = *req.URL
	r.URL.Path = path
	r.URL.RawPath = ""
	return r
}

func validatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("module prefix cannot be empty")
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	case prefix == "/":
		return fmt.Errorf("module prefix cannot be the root path")
	case strings.HasSuffix(prefix, "/"):
		return fmt.Errorf("module prefix cannot end with /: %s", prefix)
	case strings.Contains(prefix, "//"):
		return fmt.Errorf("module prefix has an empty segment: %s", prefix)
	}
	return nil
}
