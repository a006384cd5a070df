package assets_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/amink7/assets-manager/internal/assets"
	"github.com/amink7/assets-manager/pkg/routes"
	"github.com/amink7/assets-manager/pkg/workers"
)

type stubSystem struct {
	uploaded  []assets.UploadCommand
	uploadErr error
	criteria  assets.Criteria
	results   []assets.Asset
	records   map[uuid.UUID]assets.Asset
}

func (s *stubSystem) Handler(max int64) *assets.Handler {
	return assets.NewHandler(s, slog.New(slog.NewTextHandler(io.Discard, nil)), max)
}

func (s *stubSystem) Upload(_ context.Context, cmd assets.UploadCommand) (uuid.UUID, error) {
	if s.uploadErr != nil {
		return uuid.Nil, s.uploadErr
	}
	s.uploaded = append(s.uploaded, cmd)
	return uuid.New(), nil
}

func (s *stubSystem) Find(_ context.Context, id uuid.UUID) (*assets.Asset, error) {
	a, ok := s.records[id]
	if !ok {
		return nil, assets.ErrNotFound
	}
	return &a, nil
}

func (s *stubSystem) Search(_ context.Context, c assets.Criteria) ([]assets.Asset, error) {
	s.criteria = c
	if s.results == nil {
		return []assets.Asset{}, nil
	}
	return s.results, nil
}

func serve(sys *stubSystem, max int64, req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler(max).Routes())
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func jsonUpload(t *testing.T, body map[string]string) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("POST", "/mgmt/1/assets/actions/upload", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHandlerUploadJSON(t *testing.T) {
	sys := &stubSystem{}
	rec := serve(sys, 1024, jsonUpload(t, map[string]string{
		"filename":     "hello.txt",
		"content_type": "text/plain",
		"encoded_file": base64.StdEncoding.EncodeToString([]byte("hello")),
	}))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status: got %d, want 202 (%s)", rec.Code, rec.Body)
	}

	var resp assets.UploadResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID == uuid.Nil {
		t.Error("response id is nil")
	}

	if len(sys.uploaded) != 1 {
		t.Fatalf("uploads: got %d, want 1", len(sys.uploaded))
	}
	cmd := sys.uploaded[0]
	if string(cmd.Data) != "hello" || cmd.Filename != "hello.txt" || cmd.ContentType != "text/plain" {
		t.Errorf("command: got %+v", cmd)
	}
}

func TestHandlerUploadJSONRejects(t *testing.T) {
	big := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte("x"), 100))

	tests := []struct {
		name string
		req  func(t *testing.T) *http.Request
		want int
	}{
		{"malformed json", func(t *testing.T) *http.Request {
			return httptest.NewRequest("POST", "/mgmt/1/assets/actions/upload", strings.NewReader("{"))
		}, http.StatusBadRequest},
		{"bad base64", func(t *testing.T) *http.Request {
			return jsonUpload(t, map[string]string{"filename": "a", "content_type": "text/plain", "encoded_file": "!!!"})
		}, http.StatusBadRequest},
		{"blank filename", func(t *testing.T) *http.Request {
			return jsonUpload(t, map[string]string{"filename": " ", "content_type": "text/plain", "encoded_file": "eA=="})
		}, http.StatusBadRequest},
		{"blank content type", func(t *testing.T) *http.Request {
			return jsonUpload(t, map[string]string{"filename": "a", "encoded_file": "eA=="})
		}, http.StatusBadRequest},
		{"decoded too large", func(t *testing.T) *http.Request {
			return jsonUpload(t, map[string]string{"filename": "a", "content_type": "text/plain", "encoded_file": big})
		}, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := &stubSystem{}
			rec := serve(sys, 10, tt.req(t))
			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d (%s)", rec.Code, tt.want, rec.Body)
			}
			if len(sys.uploaded) != 0 {
				t.Error("rejected upload reached the system")
			}
		})
	}
}

func TestHandlerUploadPoolClosed(t *testing.T) {
	sys := &stubSystem{uploadErr: workers.ErrPoolClosed}
	rec := serve(sys, 1024, jsonUpload(t, map[string]string{
		"filename":     "a.txt",
		"content_type": "text/plain",
		"encoded_file": "eA==",
	}))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", rec.Code)
	}
}

func TestHandlerUploadMultipart(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "page.html")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("<html><body>hi</body></html>"))
	mw.Close()

	req := httptest.NewRequest("POST", "/mgmt/1/assets", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	sys := &stubSystem{}
	rec := serve(sys, 1024, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status: got %d, want 202 (%s)", rec.Code, rec.Body)
	}
	if len(sys.uploaded) != 1 {
		t.Fatalf("uploads: got %d, want 1", len(sys.uploaded))
	}
	cmd := sys.uploaded[0]
	if cmd.Filename != "page.html" {
		t.Errorf("filename: got %q", cmd.Filename)
	}
	if !strings.HasPrefix(cmd.ContentType, "text/html") {
		t.Errorf("detected content type: got %q, want text/html", cmd.ContentType)
	}
}

func TestHandlerUploadMultipartMissingFile(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("content_type", "text/plain")
	mw.Close()

	req := httptest.NewRequest("POST", "/mgmt/1/assets", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := serve(&stubSystem{}, 1024, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestHandlerFind(t *testing.T) {
	a := assets.NewAsset("a.txt", "text/plain")
	sys := &stubSystem{records: map[uuid.UUID]assets.Asset{a.ID: a}}

	tests := []struct {
		name string
		path string
		want int
	}{
		{"found", "/mgmt/1/assets/" + a.ID.String(), http.StatusOK},
		{"missing", "/mgmt/1/assets/" + uuid.NewString(), http.StatusNotFound},
		{"invalid id", "/mgmt/1/assets/not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(sys, 1024, httptest.NewRequest("GET", tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}

	rec := serve(sys, 1024, httptest.NewRequest("GET", "/mgmt/1/assets/"+a.ID.String(), nil))
	var got map[string]any
	json.NewDecoder(rec.Body).Decode(&got)
	if got["status"] != "PENDING" || got["location"] != nil {
		t.Errorf("body: got %v", got)
	}
}

func TestHandlerSearch(t *testing.T) {
	sys := &stubSystem{}
	rec := serve(sys, 1024, httptest.NewRequest("GET",
		"/mgmt/1/assets?filename=report*&uploadDateStart=2020-01-01T00:00:00Z&sort_direction=asc", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (%s)", rec.Code, rec.Body)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("body: got %q, want []", rec.Body.String())
	}

	c := sys.criteria
	if c.Filename == nil || *c.Filename != "report*" {
		t.Errorf("filename: got %v", c.Filename)
	}
	if c.Start == nil || !c.Start.Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start: got %v", c.Start)
	}
	if c.Sort != assets.SortAsc {
		t.Errorf("sort: got %q", c.Sort)
	}
}

func TestHandlerSearchRejects(t *testing.T) {
	tests := []string{
		"/mgmt/1/assets?filename=",
		"/mgmt/1/assets?filetype=",
		"/mgmt/1/assets?upload_date_start=bogus",
		"/mgmt/1/assets?upload_date_start=2020-02-01T00:00:00Z&upload_date_end=2020-01-01T00:00:00Z",
		"/mgmt/1/assets?sort_direction=sideways",
		"/mgmt/1/assets?format=xml",
	}

	for _, path := range tests {
		t.Run(path, func(t *testing.T) {
			rec := serve(&stubSystem{}, 1024, httptest.NewRequest("GET", path, nil))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", rec.Code)
			}
		})
	}
}

func TestHandlerSearchCSV(t *testing.T) {
	at := time.Date(2020, 1, 10, 0, 0, 0, 0, time.UTC)
	sys := &stubSystem{results: []assets.Asset{published("report1.txt", at)}}

	rec := serve(sys, 1024, httptest.NewRequest("GET", "/mgmt/1/assets?format=csv", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type: got %q", ct)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines: got %d, want 2\n%s", len(lines), rec.Body)
	}
	if lines[0] != "id,filename,content_type,location,size,published_at,status" {
		t.Errorf("header: got %q", lines[0])
	}
	if !strings.Contains(lines[1], "report1.txt") || !strings.HasSuffix(lines[1], "PUBLISHED") {
		t.Errorf("row: got %q", lines[1])
	}
}
