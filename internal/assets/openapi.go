package assets

import (
	"net/http"

	"github.com/amink7/assets-manager/pkg/openapi"
)

type spec struct {
	Search          *openapi.Operation
	Find            *openapi.Operation
	Upload          *openapi.Operation
	UploadMultipart *openapi.Operation
}

var accepted = map[int]*openapi.Response{
	http.StatusAccepted: openapi.ResponseJSON("Upload accepted", "UploadResponse"),
}

// Spec documents the asset endpoints.
var Spec = spec{
	Search: (&openapi.Operation{
		Summary:     "Search assets",
		Description: "Filters assets by publication window, filename pattern and content type. Results are ordered by published_at with unpublished assets last.",
		OperationID: "searchAssets",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("upload_date_start", "Inclusive lower bound on published_at (RFC 3339)", openapi.DateTime()),
			openapi.QueryParam("upload_date_end", "Inclusive upper bound on published_at (RFC 3339)", openapi.DateTime()),
			openapi.QueryParam("filename", "Filename pattern; '*' matches any run of characters", openapi.String()),
			openapi.QueryParam("filetype", "Exact content type", openapi.String()),
			openapi.QueryParam("sort_direction", "Order by published_at", openapi.Enum(string(SortDesc), string(SortAsc), string(SortDesc))),
			openapi.QueryParam("format", "Response format", openapi.Enum("json", "json", "csv")),
		},
		Responses: map[int]*openapi.Response{
			http.StatusOK: openapi.Content("Matching assets", map[string]*openapi.Schema{
				"application/json": openapi.ArrayOf(openapi.SchemaRef("Asset")),
				"text/csv":         openapi.String(),
			}),
		},
	}).Respond(openapi.Errors(http.StatusBadRequest, http.StatusUnauthorized)),

	Find: (&openapi.Operation{
		Summary:     "Find asset by ID",
		OperationID: "findAsset",
		Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Asset UUID")},
		Responses: map[int]*openapi.Response{
			http.StatusOK: openapi.ResponseJSON("Asset details", "Asset"),
		},
	}).Respond(openapi.Errors(http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound)),

	Upload: (&openapi.Operation{
		Summary:     "Upload a base64 encoded asset",
		Description: "Records the asset as PENDING and publishes it in the background.",
		OperationID: "uploadAsset",
		RequestBody: openapi.RequestBodyJSON("UploadRequest", true),
	}).Respond(accepted).Respond(uploadErrors()),

	UploadMultipart: (&openapi.Operation{
		Summary:     "Upload an asset as multipart form data",
		Description: "Records the asset as PENDING and publishes it in the background. The content type is detected when not supplied.",
		OperationID: "uploadAssetMultipart",
		RequestBody: openapi.Body(map[string]*openapi.Schema{
			"multipart/form-data": openapi.Object(map[string]*openapi.Schema{
				"file":         openapi.Binary(),
				"content_type": openapi.String(),
			}, "file"),
		}),
	}).Respond(accepted).Respond(uploadErrors()),
}

func uploadErrors() map[int]*openapi.Response {
	return openapi.Errors(
		http.StatusBadRequest,
		http.StatusUnauthorized,
		http.StatusRequestEntityTooLarge,
		http.StatusServiceUnavailable,
	)
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Asset": openapi.Object(map[string]*openapi.Schema{
			"id":           openapi.UUID(),
			"filename":     openapi.String(),
			"content_type": openapi.String(),
			"location":     openapi.String().Describe("Set once published"),
			"size":         openapi.Int64().Describe("Set once published"),
			"published_at": openapi.DateTime().Describe("Set once published"),
			"status":       openapi.Enum("", string(StatusPending), string(StatusProcessing), string(StatusPublished), string(StatusFailed)),
		}, "id", "filename", "content_type", "status"),
		"UploadRequest": openapi.Object(map[string]*openapi.Schema{
			"filename":     openapi.String(),
			"content_type": openapi.String(),
			"encoded_file": openapi.Base64(),
		}, "filename", "content_type", "encoded_file"),
		"UploadResponse": openapi.Object(map[string]*openapi.Schema{
			"id": openapi.UUID(),
		}),
	}
}
