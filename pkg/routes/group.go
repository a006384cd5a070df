// Package routes registers grouped handlers on a ServeMux and documents them.
package routes

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/amink7/assets-manager/pkg/openapi"
)

// Group organizes routes under a common prefix with shared tags and schemas.
type Group struct {
	Prefix   string
	Tags     []string
	Schemas  map[string]*openapi.Schema
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, "", group)
	}
}

// Document adds the documented routes and schemas of the given groups to spec.
func Document(spec *openapi.Spec, groups ...Group) {
	for _, group := range groups {
		documentGroup(spec, "", nil, group)
	}
}

func registerGroup(mux *http.ServeMux, parentPrefix string, group Group) {
	fullPrefix := parentPrefix + group.Prefix
	for _, route := range group.Routes {
		pattern := route.Method + " " + fullPrefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	for _, child := range group.Children {
		registerGroup(mux, fullPrefix, child)
	}
}

func documentGroup(spec *openapi.Spec, parentPrefix string, parentTags []string, group Group) {
	fullPrefix := parentPrefix + group.Prefix
	tags := append(append([]string{}, parentTags...), group.Tags...)

	if group.Schemas != nil {
		spec.Components.AddSchemas(group.Schemas)
	}

	for _, route := range group.Routes {
		if route.OpenAPI == nil {
			continue
		}

		op := route.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = tags
		}

		path := fullPrefix + strings.TrimSuffix(route.Pattern, "/")
		if path == "" {
			path = "/"
		}

		item, ok := spec.Paths[path]
		if !ok {
			item = &openapi.PathItem{}
			spec.Paths[path] = item
		}

		if !item.Set(route.Method, op) {
			panic(fmt.Sprintf("routes: cannot document %s %s", route.Method, path))
		}
	}

	for _, child := range group.Children {
		documentGroup(spec, fullPrefix, tags, child)
	}
}
