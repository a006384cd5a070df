package module

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
)

// Router sends each request to the mounted module with the longest matching
// prefix. Paths no module claims go to a fallback ServeMux, which carries the
// health endpoints. A trailing slash is dropped before matching, so
// "/api/mgmt/1/assets/" and "/api/mgmt/1/assets" reach the same route.
type Router struct {
	modules  []*Module
	fallback *http.ServeMux
}

// NewRouter creates a Router with no modules.
func NewRouter() *Router {
	return &Router{fallback: http.NewServeMux()}
}

// HandleFunc registers a handler on the fallback mux.
func (r *Router) HandleFunc(pattern string, handler http.HandlerFunc) {
	r.fallback.HandleFunc(pattern, handler)
}

// Mount adds a module. It panics if another module already owns the prefix.
func (r *Router) Mount(m *Module) {
	for _, existing := range r.modules {
		if existing.prefix == m.prefix {
			panic(fmt.Errorf("module prefix already mounted: %s", m.prefix))
		}
	}
	r.modules = append(r.modules, m)
	slices.SortFunc(r.modules, func(a, b *Module) int {
		return len(b.prefix) - len(a.prefix)
	})
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if p := req.URL.Path; len(p) > 1 && strings.HasSuffix(p, "/") {
		req = withPath(req, strings.TrimSuffix(p, "/"))
	}

	for _, m := range r.modules {
		if m.matches(req.URL.Path) {
			m.Serve(w, req)
			return
		}
	}

	r.fallback.ServeHTTP(w, req)
}
