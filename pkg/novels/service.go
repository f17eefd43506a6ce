package novels

import (
	"context"
	"database/sql"
	"math"
	"strings"

	"github.com/arcanetranslator/arcane/pkg/errcodes"
	"github.com/arcanetranslator/arcane/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveNovelOptions struct {
	ID *string
}

const (
	SortTitle           = "title"
	SortRecentlyUpdated = "recently_updated"
)

type ListNovelsOptions struct {
	Limit    *int
	Offset   *int
	Source   *string
	Language *string
	Search   *string
	Genre    *string
	Status   *string
	Sort     *string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreateNovel inserts a new novel. IDs are immutable, so an existing ID is a
// conflict rather than an update.
func (svc *Service) CreateNovel(ctx context.Context, novel *models.Novel) error {
	if err := validateNovel(novel); err != nil {
		return err
	}
	if novel.Genres == nil {
		novel.Genres = models.StringList{}
	}

	return svc.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.
			NewSelect().
			Model((*models.Novel)(nil)).
			Where("n.id = ?", novel.ID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if exists {
			return errcodes.Conflict("Novel " + novel.ID + " already exists.")
		}

		_, err = tx.
			NewInsert().
			Model(novel).
			Exec(ctx)
		return errors.WithStack(err)
	})
}

func (svc *Service) RetrieveNovel(ctx context.Context, opts RetrieveNovelOptions) (*models.Novel, error) {
	novel := &models.Novel{}

	q := svc.db.
		NewSelect().
		Model(novel)

	if opts.ID != nil {
		q = q.Where("n.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Novel")
		}
		return nil, errors.WithStack(err)
	}

	return novel, nil
}

// DeleteNovel removes a novel and its chapters. It's only used to roll back
// an import that failed partway.
func (svc *Service) DeleteNovel(ctx context.Context, id string) error {
	return svc.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*models.Chapter)(nil)).
			Where("novel_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		res, err := tx.NewDelete().
			Model((*models.Novel)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errcodes.NotFound("Novel")
		}
		return nil
	})
}

// ListNovels returns novels ordered by title (or by last update when
// opts.Sort is SortRecentlyUpdated), with the ID breaking ties so the order
// is the same on every call.
//
// Search and genre matching fold ASCII letters only, since SQLite's LOWER
// leaves everything else untouched. Non-ASCII text has to match exactly.
func (svc *Service) ListNovels(ctx context.Context, opts ListNovelsOptions) ([]*models.Novel, error) {
	novels := []*models.Novel{}

	q := svc.db.
		NewSelect().
		Model(&novels)

	if opts.Sort != nil && *opts.Sort == SortRecentlyUpdated {
		q = q.Order("n.last_updated DESC", "n.id ASC")
	} else {
		q = q.Order("n.title ASC", "n.id ASC")
	}

	if opts.Source != nil && *opts.Source != "" {
		q = q.Where("n.source = ?", *opts.Source)
	}
	if opts.Language != nil && *opts.Language != "" {
		q = q.Where("n.source IN (SELECT s.id FROM sources AS s WHERE s.language = ?)", *opts.Language)
	}
	if opts.Status != nil && *opts.Status != "" {
		q = q.Where("n.status = ?", *opts.Status)
	}
	if opts.Genre != nil && strings.TrimSpace(*opts.Genre) != "" {
		genre := asciiLower(strings.TrimSpace(*opts.Genre))
		q = q.Where("EXISTS (SELECT 1 FROM json_each(n.genres) AS g WHERE LOWER(TRIM(g.value)) = ?)", genre)
	}
	if opts.Search != nil && strings.TrimSpace(*opts.Search) != "" {
		pattern := "%" + escapeLike(asciiLower(strings.TrimSpace(*opts.Search))) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where(`LOWER(n.title) LIKE ? ESCAPE '!'`, pattern).
				WhereOr(`LOWER(n.original_title) LIKE ? ESCAPE '!'`, pattern).
				WhereOr(`LOWER(n.author) LIKE ? ESCAPE '!'`, pattern)
		})
	}
	if opts.Limit != nil && *opts.Limit > 0 {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil && *opts.Offset > 0 {
		if opts.Limit == nil || *opts.Limit <= 0 {
			// SQLite rejects OFFSET without LIMIT, and bun drops negative limits.
			q = q.Limit(math.MaxInt32)
		}
		q = q.Offset(*opts.Offset)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return novels, nil
}

func validateNovel(novel *models.Novel) error {
	required := []struct {
		name  string
		value string
	}{
		{"id", novel.ID},
		{"title", novel.Title},
		{"source", novel.Source},
		{"url", novel.URL},
		{"summary", novel.Summary},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return errcodes.ValidationError(`"` + r.name + `" is required`)
		}
	}
	if novel.ChaptersCount < 0 {
		return errcodes.ValidationError(`"chaptersCount" must be greater than or equal to 0`)
	}
	if novel.LastUpdated <= 0 {
		return errcodes.ValidationError(`"lastUpdated" is required`)
	}
	if novel.DateAdded <= 0 {
		return errcodes.ValidationError(`"dateAdded" is required`)
	}
	if novel.Status != nil {
		valid := false
		for _, s := range models.NovelStatuses {
			if *novel.Status == s {
				valid = true
				break
			}
		}
		if !valid {
			return errcodes.ValidationError(`"status" must be one of the following: "Ongoing", "Completed", "Unknown"`)
		}
	}
	return nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)
	return r.Replace(s)
}

// asciiLower lowercases A-Z only, matching SQLite's built-in LOWER.
func asciiLower(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}
