package openapi

import "net/http"

// Info represents the OpenAPI info object.
type Info struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

// Server represents an OpenAPI server object.
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// PathItem groups the operations registered on one path.
type PathItem struct {
	Get  *Operation `json:"get,omitempty"`
	Post *Operation `json:"post,omitempty"`
}

// Set attaches op under method. It reports false for methods the API does
// not serve.
func (p *PathItem) Set(method string, op *Operation) bool {
	switch method {
	case http.MethodGet:
		p.Get = op
	case http.MethodPost:
		p.Post = op
	default:
		return false
	}
	return true
}

// Operation describes a single API operation on a path.
type Operation struct {
	Summary     string                 `json:"summary,omitempty"`
	Description string                 `json:"description,omitempty"`
	OperationID string                 `json:"operationId,omitempty"`
	Tags        []string               `json:"tags,omitempty"`
	Parameters  []*Parameter           `json:"parameters,omitempty"`
	RequestBody *RequestBody           `json:"requestBody,omitempty"`
	Responses   map[int]*Response      `json:"responses"`
	Security    *[]map[string][]string `json:"security,omitempty"`
}

// Respond adds responses to op and returns op.
func (op *Operation) Respond(responses map[int]*Response) *Operation {
	if op.Responses == nil {
		op.Responses = make(map[int]*Response, len(responses))
	}
	for status, r := range responses {
		op.Responses[status] = r
	}
	return op
}

type Parameter struct {
	Name        string  `json:"name"`
	In          string  `json:"in"`
	Required    bool    `json:"required,omitempty"`
	Description string  `json:"description,omitempty"`
	Schema      *Schema `json:"schema"`
}

type RequestBody struct {
	Description string                `json:"description,omitempty"`
	Required    bool                  `json:"required,omitempty"`
	Content     map[string]*MediaType `json:"content"`
}

type Response struct {
	Description string                `json:"description,omitempty"`
	Content     map[string]*MediaType `json:"content,omitempty"`
	Ref         string                `json:"$ref,omitempty"`
}

type MediaType struct {
	Schema *Schema `json:"schema,omitempty"`
}

// Schema is the subset of JSON Schema the API documents.
type Schema struct {
	Type        string             `json:"type,omitempty"`
	Format      string             `json:"format,omitempty"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Ref         string             `json:"$ref,omitempty"`
	Default     any                `json:"default,omitempty"`
	Enum        []any              `json:"enum,omitempty"`
}

// Describe sets the schema description and returns s.
func (s *Schema) Describe(description string) *Schema {
	s.Description = description
	return s
}

// Schema constructors.

func String() *Schema { return &Schema{Type: "string"} }
func UUID() *Schema { return &Schema{Type: "string", Format: "uuid"} }
func DateTime() *Schema { return &Schema{Type: "string", Format: "date-time"} }
func Binary() *Schema { return &Schema{Type: "string", Format: "binary"} }
func Base64() *Schema { return &Schema{Type: "string", Format: "byte"} }
func Int64() *Schema { return &Schema{Type: "integer", Format: "int64"} }
func ArrayOf(s *Schema) *Schema { return &Schema{Type: "array", Items: s} }

// Object builds an object schema. Properties named in required must exist.
func Object(props map[string]*Schema, required ...string) *Schema {
	for _, name := range required {
		if _, ok := props[name]; !ok {
			panic("openapi: required property " + name + " is not defined")
		}
	}
	return &Schema{Type: "object", Properties: props, Required: required}
}

// Enum builds a string schema restricted to values, defaulting to def when
// def is not empty.
func Enum(def string, values ...string) *Schema {
	s := &Schema{Type: "string", Enum: make([]any, len(values))}
	for i, v := range values {
		s.Enum[i] = v
	}
	if def != "" {
		s.Default = def
	}
	return s
}

// SchemaRef returns a Schema with a $ref to the named component schema.
func SchemaRef(name string) *Schema {
	return &Schema{Ref: "#/components/schemas/" + name}
}

// ResponseRef returns a Response with a $ref to the named component response.
func ResponseRef(name string) *Response {
	return &Response{Ref: "#/components/responses/" + name}
}

// Errors returns references to the shared error responses for the given
// status codes. It panics on a status NewComponents does not define.
func Errors(statuses ...int) map[int]*Response {
	out := make(map[int]*Response, len(statuses))
	for _, status := range statuses {
		name, ok := errorResponses[status]
		if !ok {
			panic("openapi: no shared response for status " + http.StatusText(status))
		}
		out[status] = ResponseRef(name)
	}
	return out
}

// PathParam creates a required UUID path parameter.
func PathParam(name, description string) *Parameter {
	return &Parameter{Name: name, In: "path", Required: true, Description: description, Schema: UUID()}
}

// QueryParam creates an optional query parameter.
func QueryParam(name, description string, schema *Schema) *Parameter {
	return &Parameter{Name: name, In: "query", Description: description, Schema: schema}
}

// Body describes a required request body with one schema per media type.
func Body(content map[string]*Schema) *RequestBody {
	return &RequestBody{Required: true, Content: mediaTypes(content)}
}

// RequestBodyJSON creates a JSON request body referencing the named schema.
func RequestBodyJSON(schemaName string, required bool) *RequestBody {
	rb := Body(map[string]*Schema{"application/json": SchemaRef(schemaName)})
	rb.Required = required
	return rb
}

// Content creates a response with one schema per media type.
func Content(description string, content map[string]*Schema) *Response {
	return &Response{Description: description, Content: mediaTypes(content)}
}

// ResponseJSON creates a JSON response referencing the named schema.
func ResponseJSON(description, schemaName string) *Response {
	return Content(description, map[string]*Schema{"application/json": SchemaRef(schemaName)})
}

func mediaTypes(content map[string]*Schema) map[string]*MediaType {
	out := make(map[string]*MediaType, len(content))
	for mt, s := range content {
		out[mt] = &MediaType{Schema: s}
	}
	return out
}
