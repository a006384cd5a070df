package routes

import (
	"net/http"

	"github.com/amink7/assets-manager/pkg/openapi"
)

// Route binds an HTTP method and pattern to a handler.
// OpenAPI documents the route; routes without it are left out of the spec.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}
