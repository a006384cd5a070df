package openapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amink7/assets-manager/pkg/openapi"
)

func TestNewSpec(t *testing.T) {
	spec := openapi.NewSpec("Assets", "1.0.0")
	spec.AddServer("/api", "asset management API")
	spec.SetDescription("asset lifecycle")

	if spec.OpenAPI != "3.1.0" {
		t.Errorf("openapi version: got %s, want 3.1.0", spec.OpenAPI)
	}
	if spec.Info.Title != "Assets" || spec.Info.Version != "1.0.0" || spec.Info.Description != "asset lifecycle" {
		t.Errorf("info: got %+v", spec.Info)
	}
	if len(spec.Servers) != 1 || spec.Servers[0].URL != "/api" {
		t.Errorf("servers: got %v", spec.Servers)
	}
}

func TestNewComponentsDefaults(t *testing.T) {
	c := openapi.NewComponents()

	if _, ok := c.Schemas["Error"]; !ok {
		t.Error("missing Error schema")
	}

	for _, name := range []string{"BadRequest", "Unauthorized", "NotFound", "PayloadTooLarge", "ServiceUnavailable"} {
		resp, ok := c.Responses[name]
		if !ok {
			t.Errorf("missing default response: %s", name)
			continue
		}
		if resp.Content["application/json"].Schema.Ref != "#/components/schemas/Error" {
			t.Errorf("%s should reference the Error schema", name)
		}
	}

	scheme := c.SecuritySchemes[openapi.APIKeySchemeName]
	if scheme == nil || scheme.Type != "apiKey" || scheme.In != "header" || scheme.Name != "X-API-KEY" {
		t.Errorf("security scheme: got %+v", scheme)
	}
}

func TestHelpers(t *testing.T) {
	if ref := openapi.SchemaRef("Asset").Ref; ref != "#/components/schemas/Asset" {
		t.Errorf("SchemaRef: got %s", ref)
	}
	if ref := openapi.ResponseRef("NotFound").Ref; ref != "#/components/responses/NotFound" {
		t.Errorf("ResponseRef: got %s", ref)
	}

	rb := openapi.RequestBodyJSON("UploadRequest", true)
	if !rb.Required || rb.Content["application/json"].Schema.Ref != "#/components/schemas/UploadRequest" {
		t.Errorf("RequestBodyJSON: got %+v", rb)
	}

	p := openapi.PathParam("id", "Asset ID")
	if p.In != "path" || !p.Required || p.Schema.Format != "uuid" {
		t.Errorf("PathParam: got %+v", p)
	}

	e := openapi.QueryParam("sort_direction", "Sort", openapi.Enum("DESC", "ASC", "DESC"))
	if e.Required || e.In != "query" || len(e.Schema.Enum) != 2 || e.Schema.Default != "DESC" {
		t.Errorf("QueryParam enum: got %+v", e.Schema)
	}

	if s := openapi.Enum("", "A"); s.Default != nil {
		t.Errorf("Enum without default: got default %v", s.Default)
	}
}

func TestErrorsReferenceSharedResponses(t *testing.T) {
	got := openapi.Errors(http.StatusNotFound, http.StatusRequestEntityTooLarge)
	if len(got) != 2 {
		t.Fatalf("Errors: got %d responses, want 2", len(got))
	}
	if ref := got[http.StatusNotFound].Ref; ref != "#/components/responses/NotFound" {
		t.Errorf("404 ref = %s", ref)
	}
	if ref := got[http.StatusRequestEntityTooLarge].Ref; ref != "#/components/responses/PayloadTooLarge" {
		t.Errorf("413 ref = %s", ref)
	}

	defer func() {
		if recover() == nil {
			t.Error("Errors with an undefined status should panic")
		}
	}()
	openapi.Errors(http.StatusTeapot)
}

func TestObjectRequiresDefinedProperties(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Object with an undefined required property should panic")
		}
	}()
	openapi.Object(map[string]*openapi.Schema{"id": openapi.UUID()}, "name")
}

func TestOperationRespondMerges(t *testing.T) {
	op := (&openapi.Operation{}).
		Respond(map[int]*openapi.Response{http.StatusOK: openapi.ResponseJSON("ok", "Asset")}).
		Respond(openapi.Errors(http.StatusBadRequest))

	if len(op.Responses) != 2 || op.Responses[http.StatusOK] == nil {
		t.Errorf("Respond: got %+v", op.Responses)
	}
}

func TestPathItemSet(t *testing.T) {
	var item openapi.PathItem
	op := &openapi.Operation{}
	if !item.Set(http.MethodGet, op) || item.Get != op {
		t.Error("Set(GET) did not attach the operation")
	}
	if item.Set(http.MethodDelete, op) {
		t.Error("Set(DELETE) should report false")
	}
}

func TestRequireAPIKey(t *testing.T) {
	spec := openapi.NewSpec("Assets", "1.0.0")
	spec.RequireAPIKey()

	if len(spec.Security) != 1 {
		t.Fatalf("security: got %v", spec.Security)
	}
	if _, ok := spec.Security[0][openapi.APIKeySchemeName]; !ok {
		t.Errorf("security should require %s", openapi.APIKeySchemeName)
	}
}

func TestServeSpec(t *testing.T) {
	spec := openapi.NewSpec("Assets", "1.0.0")
	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}

	rec := httptest.NewRecorder()
	openapi.ServeSpec(data)(rec, httptest.NewRequest("GET", "/openapi.json", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}

	var parsed map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if parsed["openapi"] != "3.1.0" {
		t.Errorf("openapi: got %v", parsed["openapi"])
	}

	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatal("ETag header missing")
	}

	req := httptest.NewRequest("GET", "/openapi.json", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	openapi.ServeSpec(data)(rec, req)

	if rec.Code != http.StatusNotModified || rec.Body.Len() != 0 {
		t.Errorf("revalidation: got %d with %d bytes, want 304 and no body", rec.Code, rec.Body.Len())
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("ASSETS_OPENAPI_TITLE", "Custom")

	cfg := openapi.Config{}
	if err := cfg.Finalize(&openapi.ConfigEnv{Title: "ASSETS_OPENAPI_TITLE"}); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Title != "Custom" {
		t.Errorf("title: got %s, want Custom", cfg.Title)
	}
	if cfg.Description == "" {
		t.Error("description default should be set")
	}
}

func TestConfigPublicURL(t *testing.T) {
	tests := []struct {
		name      string
		publicURL string
		wantURL   string
		wantErr   bool
	}{
		{"unset", "", "/api", false},
		{"proxy origin", "https://assets.example.com", "https://assets.example.com/api", false},
		{"trailing slash", "https://assets.example.com/", "https://assets.example.com/api", false},
		{"relative", "assets.example.com", "", true},
		{"other scheme", "ftp://assets.example.com", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ASSETS_OPENAPI_PUBLIC_URL", tt.publicURL)

			cfg := openapi.Config{}
			err := cfg.Finalize(&openapi.ConfigEnv{PublicURL: "ASSETS_OPENAPI_PUBLIC_URL"})
			if (err != nil) != tt.wantErr {
				t.Fatalf("finalize error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && cfg.ServerURL("/api") != tt.wantURL {
				t.Errorf("server url: got %s, want %s", cfg.ServerURL("/api"), tt.wantURL)
			}
		})
	}
}
