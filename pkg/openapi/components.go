package openapi

import (
	"maps"
	"net/http"
)

// APIKeySchemeName is the security scheme name registered by NewComponents.
const APIKeySchemeName = "ApiKeyAuth"

// Components holds reusable schemas, responses, and security schemes.
type Components struct {
	Schemas         map[string]*Schema         `json:"schemas,omitempty"`
	Responses       map[string]*Response       `json:"responses,omitempty"`
	SecuritySchemes map[string]*SecurityScheme `json:"securitySchemes,omitempty"`
}

// SecurityScheme describes an authentication mechanism.
type SecurityScheme struct {
	Type string `json:"type"`
	In   string `json:"in,omitempty"`
	Name string `json:"name,omitempty"`
}

// errorResponses names the shared component response for each error status.
var errorResponses = map[int]string{
	http.StatusBadRequest:            "BadRequest",
	http.StatusUnauthorized:          "Unauthorized",
	http.StatusNotFound:              "NotFound",
	http.StatusRequestEntityTooLarge: "PayloadTooLarge",
	http.StatusServiceUnavailable:    "ServiceUnavailable",
}

// NewComponents creates Components with the shared error schema, the standard
// error responses, and the X-API-KEY header security scheme.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Error": Object(map[string]*Schema{
				"error": String().Describe("Error message"),
			}, "error"),
		},
		Responses:       errorComponents(),
		SecuritySchemes: map[string]*SecurityScheme{
			APIKeySchemeName: {
				Type: "apiKey",
				In:   "header",
				Name: "X-API-KEY",
			},
		},
	}
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}

func errorComponents() map[string]*Response {
	out := make(map[string]*Response, len(errorResponses))
	for status, name := range errorResponses {
		out[name] = ResponseJSON(http.StatusText(status), "Error")
	}
	return out
}
