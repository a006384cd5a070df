package assets

import (
	"errors"
	"net/http"

	"github.com/amink7/assets-manager/pkg/workers"
)

// Domain errors for asset operations.
var (
	ErrNotFound          = errors.New("asset not found")
	ErrInvalidID         = errors.New("invalid asset id")
	ErrInvalidUpload     = errors.New("invalid upload")
	ErrFileTooLarge      = errors.New("file exceeds maximum upload size")
	ErrInvalidCriteria   = errors.New("invalid search criteria")
	ErrInvalidSort       = errors.New("sort direction must be ASC or DESC")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInconsistentAsset = errors.New("inconsistent asset record")
	ErrPublishFailed     = errors.New("publish failed")
)

// MapHTTPStatus maps asset domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrInvalidUpload),
		errors.Is(err, ErrInvalidCriteria),
		errors.Is(err, ErrInvalidSort):
		return http.StatusBadRequest
	case errors.Is(err, workers.ErrPoolClosed):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
