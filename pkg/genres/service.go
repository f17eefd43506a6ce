package genres

import (
	"context"
	"strings"

	"github.com/arcanetranslator/arcane/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Genre is one distinct genre across the catalog. Names that differ only in
// ASCII case are counted together.
type Genre struct {
	Name       string `bun:"name" json:"name"`
	NovelCount int    `bun:"novel_count" json:"novelCount"`
}

type ListGenresOptions struct {
	Source *string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// ListGenres returns every genre attached to at least one novel, most used
// first.
func (svc *Service) ListGenres(ctx context.Context, opts ListGenresOptions) ([]*Genre, error) {
	genres := []*Genre{}

	q := svc.db.
		NewSelect().
		Model((*models.Novel)(nil)).
		TableExpr("json_each(n.genres) AS g").
		ColumnExpr("MIN(TRIM(g.value)) AS name").
		ColumnExpr("COUNT(DISTINCT n.id) AS novel_count").
		Where("TRIM(g.value) != ''").
		GroupExpr("LOWER(TRIM(g.value))").
		OrderExpr("novel_count DESC, name ASC")

	if opts.Source != nil && strings.TrimSpace(*opts.Source) != "" {
		q = q.Where("n.source = ?", strings.TrimSpace(*opts.Source))
	}

	err := q.Scan(ctx, &genres)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return genres, nil
}
