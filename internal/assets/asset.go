// Package assets implements the asset lifecycle domain.
// An upload is persisted as a PENDING record and published asynchronously;
// the record then moves through PROCESSING to PUBLISHED or FAILED.
// The package also provides the search criteria shared by every repository.
package assets

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Asset is the lifecycle record of one uploaded file.
// Location, Size and PublishedAt are set together when the asset is
// published and are nil in every other status.
type Asset struct {
	ID          uuid.UUID  `json:"id" csv:"id"`
	Filename    string     `json:"filename" csv:"filename"`
	ContentType string     `json:"content_type" csv:"content_type"`
	Location    *string    `json:"location" csv:"location"`
	Size        *int64     `json:"size" csv:"size"`
	PublishedAt *time.Time `json:"published_at" csv:"published_at"`
	Status      Status     `json:"status" csv:"status"`
}

// UploadCommand carries the bytes and metadata of a new upload.
type UploadCommand struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Validate rejects commands with an empty filename, content type, or payload.
func (c UploadCommand) Validate() error {
	if c.Filename == "" {
		return fmt.Errorf("%w: filename required", ErrInvalidUpload)
	}
	if c.ContentType == "" {
		return fmt.Errorf("%w: content type required", ErrInvalidUpload)
	}
	if len(c.Data) == 0 {
		return fmt.Errorf("%w: empty file", ErrInvalidUpload)
	}
	return nil
}

// NewAsset creates a PENDING asset with a fresh identifier.
func NewAsset(filename, contentType string) Asset {
	return Asset{
		ID:          uuid.New(),
		Filename:    filename,
		ContentType: contentType,
		Status:      StatusPending,
	}
}

// Processing returns a copy of a in PROCESSING status.
func (a Asset) Processing() (Asset, error) {
	return a.transition(StatusProcessing)
}

// Published returns a copy of a in PUBLISHED status carrying the publication
// result. The timestamp is stored in UTC.
func (a Asset) Published(location string, size int64, at time.Time) (Asset, error) {
	next, err := a.transition(StatusPublished)
	if err != nil {
		return Asset{}, err
	}

	at = at.UTC()
	next.Location = &location
	next.Size = &size
	next.PublishedAt = &at
	return next, nil
}

// Failed returns a copy of a in FAILED status.
func (a Asset) Failed() (Asset, error) {
	return a.transition(StatusFailed)
}

// Validate checks that the publish-only fields are present exactly when the
// asset is PUBLISHED.
func (a Asset) Validate() error {
	if !a.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInconsistentAsset, a.Status)
	}

	set := 0
	if a.Location != nil {
		set++
	}
	if a.Size != nil {
		set++
	}
	if a.PublishedAt != nil {
		set++
	}

	switch {
	case a.Status == StatusPublished && set != 3:
		return fmt.Errorf("%w: published asset missing location, size or published_at", ErrInconsistentAsset)
	case a.Status != StatusPublished && set != 0:
		return fmt.Errorf("%w: %s asset carries publication fields", ErrInconsistentAsset, a.Status)
	}
	return nil
}

func (a Asset) transition(to Status) (Asset, error) {
	if !a.Status.CanTransition(to) {
		return Asset{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, a.Status, to)
	}

	return Asset{
		ID:          a.ID,
		Filename:    a.Filename,
		ContentType: a.ContentType,
		Status:      to,
	}, nil
}
