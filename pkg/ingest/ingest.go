// Package ingest loads novels and their translated chapters into the store
// from a JSON bundle.
package ingest

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/arcanetranslator/arcane/pkg/chapters"
	"github.com/arcanetranslator/arcane/pkg/errcodes"
	"github.com/arcanetranslator/arcane/pkg/htmlutil"
	"github.com/arcanetranslator/arcane/pkg/models"
	"github.com/arcanetranslator/arcane/pkg/novels"
	"github.com/arcanetranslator/arcane/pkg/sources"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"
	"github.com/uptrace/bun"
)

// Bundle is the import file format:
//
//	{"sources": [...], "novels": [{...novel, "chapters": [...]}]}
type Bundle struct {
	Sources []*models.Source `json:"sources"`
	Novels  []*NovelEntry    `json:"novels"`
}

type NovelEntry struct {
	models.Novel
	Chapters []*models.Chapter `json:"chapters"`
}

type Result struct {
	SourcesCreated  int `json:"sourcesCreated"`
	NovelsCreated   int `json:"novelsCreated"`
	NovelsSkipped   int `json:"novelsSkipped"`
	ChaptersCreated int `json:"chaptersCreated"`
}

// Decode reads a bundle, rejecting unknown fields so typos in hand-written
// files don't go unnoticed.
func Decode(r io.Reader) (*Bundle, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	bundle := &Bundle{}
	if err := dec.Decode(bundle); err != nil {
		return nil, errors.Wrap(err, "failed to decode bundle")
	}
	return bundle, nil
}

func DecodeFile(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()
	return Decode(f)
}

type Importer struct {
	novels   *novels.Service
	chapters *chapters.Service
	sources  *sources.Service
	now      func() time.Time
}

func NewImporter(db *bun.DB) *Importer {
	return &Importer{
		novels:   novels.NewService(db),
		chapters: chapters.NewService(db),
		sources:  sources.NewService(db),
		now:      time.Now,
	}
}

// Import writes the bundle. Sources and novels that already exist are left
// untouched; a novel and its chapters are written together or not at all,
// but novels earlier in the bundle stay written if a later one fails.
func (imp *Importer) Import(ctx context.Context, bundle *Bundle) (*Result, error) {
	log := logger.FromContext(ctx)
	res := &Result{}

	created, err := imp.sources.EnsureSources(ctx, bundle.Sources)
	if err != nil {
		return res, errors.WithStack(err)
	}
	res.SourcesCreated = created

	now := imp.now().Unix()
	for _, entry := range bundle.Novels {
		novel := &entry.Novel
		if novel.DateAdded == 0 {
			novel.DateAdded = now
		}
		if novel.LastUpdated == 0 {
			novel.LastUpdated = novel.DateAdded
		}
		if novel.ChaptersCount == 0 {
			novel.ChaptersCount = len(entry.Chapters)
		}
		for _, ch := range entry.Chapters {
			fillChapter(ch, novel.ID, now)
		}

		err := imp.novels.CreateNovel(ctx, novel)
		if isConflict(err) {
			log.Info("novel already exists, skipping", logger.Data{"novel_id": novel.ID})
			res.NovelsSkipped++
			continue
		}
		if err != nil {
			return res, errors.Wrapf(err, "novel %s", novel.ID)
		}
		if err := imp.chapters.CreateChapters(ctx, novel.ID, entry.Chapters); err != nil {
			// Don't leave a novel behind without the chapters it came with.
			if derr := imp.novels.DeleteNovel(ctx, novel.ID); derr != nil {
				log.Err(derr).Error("failed to remove partially imported novel")
			}
			return res, errors.Wrapf(err, "novel %s", novel.ID)
		}

		log.Info("imported novel", logger.Data{"novel_id": novel.ID, "chapters": len(entry.Chapters)})
		res.NovelsCreated++
		res.ChaptersCreated += len(entry.Chapters)
	}

	return res, nil
}

func fillChapter(ch *models.Chapter, novelID string, now int64) {
	if ch.ID == "" {
		ch.ID = uuid.NewString()
	}
	if ch.NovelID == "" {
		ch.NovelID = novelID
	}
	if ch.DateTranslated == 0 {
		ch.DateTranslated = now
	}
	if ch.WordCount == nil {
		n := htmlutil.CountHTMLWords(ch.Content)
		ch.WordCount = &n
	}
}

func isConflict(err error) bool {
	var e *errcodes.Error
	return errors.As(err, &e) && e.Code == "conflict"
}
