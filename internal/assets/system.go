package assets

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for asset lifecycle operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	// Upload persists a PENDING asset, schedules its publication and returns
	// its id without waiting for the publish outcome.
	Upload(ctx context.Context, cmd UploadCommand) (uuid.UUID, error)
	Find(ctx context.Context, id uuid.UUID) (*Asset, error)
	Search(ctx context.Context, c Criteria) ([]Asset, error)
}
