package assets

import (
	"github.com/amink7/assets-manager/pkg/query"
	"github.com/amink7/assets-manager/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "assets", "a").
	Project("id", "ID").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("location", "Location").
	Project("size", "Size").
	Project("published_at", "PublishedAt").
	Project("status", "Status")

const upsertQuery = `
	INSERT INTO assets(id, filename, content_type, location, size, published_at, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO UPDATE SET
		filename = EXCLUDED.filename,
		content_type = EXCLUDED.content_type,
		location = EXCLUDED.location,
		size = EXCLUDED.size,
		published_at = EXCLUDED.published_at,
		status = EXCLUDED.status,
		updated_at = NOW()
	RETURNING id, filename, content_type, location, size, published_at, status`

// Apply adds the criteria's filter and ordering terms to a query builder.
// Absent filters add nothing.
func (c Criteria) Apply(b *query.Builder) *query.Builder {
	var like *string
	if c.Filename != nil {
		p := FilenameLikePattern(*c.Filename)
		like = &p
	}

	return b.
		WhereGreaterOrEqual("PublishedAt", c.Start).
		WhereLessOrEqual("PublishedAt", c.End).
		WhereLike("Filename", like).
		WhereEquals("ContentType", c.ContentType).
		OrderByFields([]query.SortField{{
			Field:      "PublishedAt",
			Descending: c.Sort != SortAsc,
			NullsLast:  true,
		}})
}

func upsertArgs(a Asset) []any {
	return []any{
		a.ID,
		a.Filename,
		a.ContentType,
		a.Location,
		a.Size,
		a.PublishedAt,
		string(a.Status),
	}
}

func scanAsset(s repository.Scanner) (Asset, error) {
	var a Asset
	err := s.Scan(
		&a.ID,
		&a.Filename,
		&a.ContentType,
		&a.Location,
		&a.Size,
		&a.PublishedAt,
		&a.Status,
	)
	if err == nil && a.PublishedAt != nil {
		t := a.PublishedAt.UTC()
		a.PublishedAt = &t
	}
	return a, err
}
