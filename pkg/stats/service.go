package stats

import (
	"context"

	"github.com/arcanetranslator/arcane/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type NovelStats struct {
	NovelCount   int `json:"novelCount"`
	ChapterCount int `json:"chapterCount"`
	SourceCount  int `json:"sourceCount"`
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) NovelStats(ctx context.Context) (*NovelStats, error) {
	stats := &NovelStats{}

	var err error
	stats.NovelCount, err = svc.db.NewSelect().Model((*models.Novel)(nil)).Count(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	stats.ChapterCount, err = svc.db.NewSelect().Model((*models.Chapter)(nil)).Count(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	stats.SourceCount, err = svc.db.NewSelect().Model((*models.Source)(nil)).Count(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return stats, nil
}
