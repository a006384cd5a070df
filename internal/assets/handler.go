package assets

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/amink7/assets-manager/pkg/handlers"
	"github.com/amink7/assets-manager/pkg/middleware"
	"github.com/amink7/assets-manager/pkg/routes"
)

// jsonUploadHeadroom covers the JSON envelope around the base64 payload.
const jsonUploadHeadroom = 64 << 10

// Handler provides HTTP endpoints for asset operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

// UploadRequest is the JSON body of the base64 upload endpoint.
type UploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	EncodedFile string `json:"encoded_file"`
}

// UploadResponse returns the id of an accepted upload.
type UploadResponse struct {
	ID uuid.UUID `json:"id"`
}

// NewHandler creates a Handler with the given system, logger, and upload size limit.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "assets"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for asset endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "/mgmt/1/assets",
		Tags:    []string{"Assets"},
		Schemas: Spec.Schemas(),
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Search, OpenAPI: Spec.Search},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: Spec.Find},
			{Method: "POST", Pattern: "", Handler: h.UploadMultipart, OpenAPI: Spec.UploadMultipart},
			{Method: "POST", Pattern: "/actions/upload", Handler: h.Upload, OpenAPI: Spec.Upload},
		},
	}
}

// Upload accepts a JSON body carrying a base64 encoded file.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	limit := int64(base64.StdEncoding.EncodedLen(int(h.maxUploadSize))) + jsonUploadHeadroom
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesExceeded(err) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: malformed body", ErrInvalidUpload))
		return
	}

	if strings.TrimSpace(req.Filename) == "" || strings.TrimSpace(req.ContentType) == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: filename and content_type required", ErrInvalidUpload))
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.EncodedFile)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: encoded_file is not valid base64", ErrInvalidUpload))
		return
	}
	if int64(len(data)) > h.maxUploadSize {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	h.accept(w, r, UploadCommand{
		Data:        data,
		Filename:    req.Filename,
		ContentType: req.ContentType,
	})
}

// UploadMultipart accepts a multipart form upload with a file part.
func (h *Handler) UploadMultipart(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+jsonUploadHeadroom)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		if maxBytesExceeded(err) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: malformed form", ErrInvalidUpload))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: file part required", ErrInvalidUpload))
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadSize {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrInvalidUpload, err))
		return
	}

	contentType := r.FormValue("content_type")
	if contentType == "" {
		contentType = header.Header.Get("Content-Type")
	}

	h.accept(w, r, UploadCommand{
		Data:        data,
		Filename:    header.Filename,
		ContentType: detectContentType(contentType, data),
	})
}

// Find returns a single asset by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	asset, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, asset)
}

// Search returns the assets matching the query parameter criteria,
// as JSON or as a CSV export when format=csv.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	criteria, err := ParseCriteria(query)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	results, err := h.sys.Search(r.Context(), criteria)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	switch strings.ToLower(query.Get("format")) {
	case "", "json":
		handlers.RespondJSON(w, http.StatusOK, results)
	case "csv":
		if err := handlers.RespondCSV(w, "assets.csv", results); err != nil {
			handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		}
	default:
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: unsupported format %q", ErrInvalidCriteria, query.Get("format")))
	}
}

func (h *Handler) accept(w http.ResponseWriter, r *http.Request, cmd UploadCommand) {
	id, err := h.sys.Upload(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	middleware.AddLogAttrs(r.Context(), "asset_id", id, "filename", cmd.Filename, "upload_size", len(cmd.Data))
	handlers.RespondJSON(w, http.StatusAccepted, UploadResponse{ID: id})
}

func maxBytesExceeded(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func detectContentType(header string, data []byte) string {
	header = strings.TrimSpace(header)
	if header != "" && header != "application/octet-stream" {
		return header
	}
	return http.DetectContentType(data)
}
