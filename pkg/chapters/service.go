package chapters

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/arcanetranslator/arcane/pkg/errcodes"
	"github.com/arcanetranslator/arcane/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveChapterOptions struct {
	ID      *string
	NovelID *string
	Number  *int
}

type ListChaptersOptions struct {
	NovelID string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// ListChapters returns the chapters of a novel in ascending number order. A
// novel without chapters, or one that doesn't exist, yields an empty list.
func (svc *Service) ListChapters(ctx context.Context, opts ListChaptersOptions) ([]*models.Chapter, error) {
	chapters := []*models.Chapter{}
	err := svc.db.NewSelect().
		Model(&chapters).
		Where("ch.novel_id = ?", opts.NovelID).
		Order("ch.number ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return chapters, nil
}

func (svc *Service) RetrieveChapter(ctx context.Context, opts RetrieveChapterOptions) (*models.Chapter, error) {
	chapter := &models.Chapter{}

	q := svc.db.
		NewSelect().
		Model(chapter)

	if opts.ID != nil {
		q = q.Where("ch.id = ?", *opts.ID)
	}
	if opts.NovelID != nil {
		q = q.Where("ch.novel_id = ?", *opts.NovelID)
	}
	if opts.Number != nil {
		q = q.Where("ch.number = ?", *opts.Number)
	}

	err := q.Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Chapter")
		}
		return nil, errors.WithStack(err)
	}

	return chapter, nil
}

// CreateChapter inserts a single chapter. The novel has to exist and the
// chapter number has to be free within it.
func (svc *Service) CreateChapter(ctx context.Context, chapter *models.Chapter) error {
	return svc.CreateChapters(ctx, chapter.NovelID, []*models.Chapter{chapter})
}

// CreateChapters inserts chapters for one novel in a single transaction. If
// any chapter is invalid or collides with an existing number, nothing is
// written.
func (svc *Service) CreateChapters(ctx context.Context, novelID string, chapters []*models.Chapter) error {
	seen := map[int]bool{}
	for _, ch := range chapters {
		if ch.NovelID == "" {
			ch.NovelID = novelID
		}
		if ch.NovelID != novelID {
			return errcodes.ValidationError(`"novelId" must match the novel being written`)
		}
		if err := validateChapter(ch); err != nil {
			return err
		}
		if seen[ch.Number] {
			return errcodes.Conflict("Chapter " + strconv.Itoa(ch.Number) + " is listed more than once.")
		}
		seen[ch.Number] = true
	}
	if len(chapters) == 0 {
		return nil
	}

	err := svc.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.Novel)(nil)).
			Where("n.id = ?", novelID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.NotFound("Novel")
		}

		numbers := make([]int, 0, len(chapters))
		for _, ch := range chapters {
			numbers = append(numbers, ch.Number)
		}
		var taken []int
		err = tx.NewSelect().
			Model((*models.Chapter)(nil)).
			Column("ch.number").
			Where("ch.novel_id = ?", novelID).
			Where("ch.number IN (?)", bun.In(numbers)).
			Order("ch.number ASC").
			Scan(ctx, &taken)
		if err != nil {
			return errors.WithStack(err)
		}
		if len(taken) > 0 {
			return errcodes.Conflict("Chapter " + strconv.Itoa(taken[0]) + " already exists for novel " + novelID + ".")
		}

		_, err = tx.NewInsert().
			Model(&chapters).
			Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil && isUniqueViolation(err) {
		return errcodes.Conflict("Chapter already exists.")
	}
	return err
}

func validateChapter(ch *models.Chapter) error {
	if strings.TrimSpace(ch.ID) == "" {
		return errcodes.ValidationError(`"id" is required`)
	}
	if ch.Number < 1 {
		return errcodes.ValidationError(`"number" must be greater than or equal to 1`)
	}
	if strings.TrimSpace(ch.Title) == "" {
		return errcodes.ValidationError(`"title" is required`)
	}
	if strings.TrimSpace(ch.Content) == "" {
		return errcodes.ValidationError(`"content" is required`)
	}
	if ch.DateTranslated <= 0 {
		return errcodes.ValidationError(`"dateTranslated" is required`)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
