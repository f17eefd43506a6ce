package sources

import (
	"context"
	"database/sql"
	"strings"

	"github.com/arcanetranslator/arcane/pkg/errcodes"
	"github.com/arcanetranslator/arcane/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type ListSourcesOptions struct {
	Language *string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateSource(ctx context.Context, source *models.Source) error {
	if err := validateSource(source); err != nil {
		return err
	}

	return svc.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.Source)(nil)).
			Where("s.id = ?", source.ID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if exists {
			return errcodes.Conflict("Source " + source.ID + " already exists.")
		}

		_, err = tx.NewInsert().
			Model(source).
			Exec(ctx)
		return errors.WithStack(err)
	})
}

// EnsureSources inserts any of the given sources that aren't stored yet and
// returns how many were added. Existing rows are never modified.
func (svc *Service) EnsureSources(ctx context.Context, sources []*models.Source) (int, error) {
	if len(sources) == 0 {
		return 0, nil
	}
	for _, s := range sources {
		if err := validateSource(s); err != nil {
			return 0, err
		}
	}

	res, err := svc.db.NewInsert().
		Model(&sources).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return int(n), nil
}

func (svc *Service) RetrieveSource(ctx context.Context, id string) (*models.Source, error) {
	source := &models.Source{}
	err := svc.db.NewSelect().
		Model(source).
		Where("s.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Source")
		}
		return nil, errors.WithStack(err)
	}
	return source, nil
}

func (svc *Service) ListSources(ctx context.Context, opts ListSourcesOptions) ([]*models.Source, error) {
	sources := []*models.Source{}

	q := svc.db.NewSelect().
		Model(&sources).
		Order("s.name ASC", "s.id ASC")

	if opts.Language != nil && *opts.Language != "" {
		q = q.Where("s.language = ?", *opts.Language)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return sources, nil
}

func validateSource(source *models.Source) error {
	required := []struct {
		name  string
		value string
	}{
		{"id", source.ID},
		{"name", source.Name},
		{"url", source.URL},
		{"language", source.Language},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return errcodes.ValidationError(`"` + r.name + `" is required`)
		}
	}
	return nil
}
