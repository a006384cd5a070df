package assets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/amink7/assets-manager/pkg/workers"
)

// Scheduler runs publish tasks in the background.
// *workers.Pool satisfies it.
type Scheduler interface {
	Submit(ctx context.Context, task workers.Task) error
}

type orchestrator struct {
	repo      Repository
	publisher Publisher
	scheduler Scheduler
	logger    *slog.Logger
	now       func() time.Time
}

// New creates the asset lifecycle orchestrator implementing System.
func New(repo Repository, publisher Publisher, scheduler Scheduler, logger *slog.Logger) System {
	return &orchestrator{
		repo:      repo,
		publisher: publisher,
		scheduler: scheduler,
		logger:    logger.With("system", "assets"),
		now:       time.Now,
	}
}

func (o *orchestrator) Handler(maxUploadSize int64) *Handler {
	return NewHandler(o, o.logger, maxUploadSize)
}

func (o *orchestrator) Upload(ctx context.Context, cmd UploadCommand) (uuid.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return uuid.Nil, err
	}

	asset := NewAsset(cmd.Filename, cmd.ContentType)
	if _, err := o.repo.Save(ctx, asset); err != nil {
		return uuid.Nil, fmt.Errorf("save pending asset: %w", err)
	}

	data := slices.Clone(cmd.Data)
	task := func(ctx context.Context) {
		o.publish(ctx, asset.ID, data, cmd.Filename, cmd.ContentType)
	}

	if err := o.scheduler.Submit(ctx, task); err != nil {
		o.logger.Error("publish not scheduled, asset left pending", "id", asset.ID, "error", err)
		return uuid.Nil, fmt.Errorf("schedule publish of %s: %w", asset.ID, err)
	}

	o.logger.Info("upload accepted", "id", asset.ID, "filename", cmd.Filename, "size", len(data))
	return asset.ID, nil
}

func (o *orchestrator) Find(ctx context.Context, id uuid.UUID) (*Asset, error) {
	return o.repo.Find(ctx, id)
}

func (o *orchestrator) Search(ctx context.Context, c Criteria) ([]Asset, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return o.repo.Search(ctx, c)
}

// publish runs on a worker. Its outcome is only ever recorded on the asset
// and logged; nothing is returned to the uploader.
func (o *orchestrator) publish(ctx context.Context, id uuid.UUID, data []byte, filename, contentType string) {
	logger := o.logger.With("id", id)

	processing, ok := o.advance(ctx, logger, id, Asset.Processing)
	if !ok {
		return
	}
	logger.Info("publishing asset", "filename", processing.Filename)

	result, err := o.attempt(ctx, data, filename, contentType)
	if err != nil {
		logger.Error("publish failed", "error", err)
		o.advance(ctx, logger, id, Asset.Failed)
		return
	}

	publishedAt := o.now().UTC().Truncate(time.Millisecond)
	published, ok := o.advance(ctx, logger, id, func(a Asset) (Asset, error) {
		return a.Published(result.Location, result.Size, publishedAt)
	})
	if ok {
		logger.Info("asset published", "location", *published.Location, "size", *published.Size)
	}
}

// advance re-reads the asset, applies step and persists the result.
func (o *orchestrator) advance(
	ctx context.Context,
	logger *slog.Logger,
	id uuid.UUID,
	step func(Asset) (Asset, error),
) (Asset, bool) {
	current, err := o.repo.Find(ctx, id)
	if errors.Is(err, ErrNotFound) {
		logger.Warn("asset no longer exists, skipping")
		return Asset{}, false
	}
	if err != nil {
		logger.Error("load asset failed", "error", err)
		return Asset{}, false
	}

	next, err := step(*current)
	if err != nil {
		logger.Warn("transition refused", "status", current.Status, "error", err)
		return Asset{}, false
	}

	if _, err := o.repo.Save(ctx, next); err != nil {
		logger.Error("save asset failed", "status", next.Status, "error", err)
		return Asset{}, false
	}

	return next, true
}

func (o *orchestrator) attempt(ctx context.Context, data []byte, filename, contentType string) (result *Published, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("%w: publisher panic: %v", ErrPublishFailed, r)
		}
	}()

	result, err = o.publisher.Publish(ctx, data, filename, contentType)
	switch {
	case err != nil && !errors.Is(err, ErrPublishFailed):
		return nil, fmt.Errorf("%w: %w", ErrPublishFailed, err)
	case err != nil:
		return nil, err
	case result == nil:
		return nil, fmt.Errorf("%w: publisher returned no result", ErrPublishFailed)
	}
	return result, nil
}
