package assets

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/amink7/assets-manager/pkg/query"
	"github.com/amink7/assets-manager/pkg/repository"
)

// Repository persists asset records. Each call is atomic on its own.
type Repository interface {
	// Save upserts a by identifier. The stored record is replaced as a
	// whole; the last write wins and nothing is merged.
	Save(ctx context.Context, a Asset) (*Asset, error)
	// Find returns the asset with the given id or ErrNotFound.
	Find(ctx context.Context, id uuid.UUID) (*Asset, error)
	// Search returns the assets matching c in c's order, or an empty slice.
	Search(ctx context.Context, c Criteria) ([]Asset, error)
}

var (
	saveErrors = repository.Errors{Constraint: ErrInconsistentAsset}
	findErrors = repository.Errors{NotFound: ErrNotFound}
)

type postgres struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresRepository creates a Repository backed by the assets table.
func NewPostgresRepository(db *sql.DB, logger *slog.Logger) Repository {
	return &postgres{
		db:     db,
		logger: logger.With("repository", "postgres"),
	}
}

func (p *postgres) Save(ctx context.Context, a Asset) (*Asset, error) {
	saved, err := repository.QueryOne(ctx, p.db, upsertQuery, upsertArgs(a), scanAsset)
	if err != nil {
		return nil, fmt.Errorf("save asset %s: %w", a.ID, saveErrors.Map(err))
	}

	p.logger.Debug("asset saved", "id", saved.ID, "status", saved.Status)
	return &saved, nil
}

func (p *postgres) Find(ctx context.Context, id uuid.UUID) (*Asset, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, p.db, q, args, scanAsset)
	if err != nil {
		return nil, findErrors.Map(err)
	}
	return &a, nil
}

func (p *postgres) Search(ctx context.Context, c Criteria) ([]Asset, error) {
	q, args := c.Apply(query.NewBuilder(projection)).Build()

	list, err := repository.QueryMany(ctx, p.db, q, args, scanAsset)
	if err != nil {
		return nil, fmt.Errorf("search assets: %w", err)
	}
	return list, nil
}
