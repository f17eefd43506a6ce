package translation

import (
	"context"
	"sync"

	"github.com/arcanetranslator/arcane/pkg/errcodes"
	"github.com/arcanetranslator/arcane/pkg/models"
	"github.com/arcanetranslator/arcane/pkg/novels"
	"github.com/arcanetranslator/arcane/pkg/scraper"
	"github.com/pkg/errors"
)

type fakeFetcher struct {
	pages map[string]*scraper.Page
	calls []string
	mu    sync.Mutex
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*scraper.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	page, ok := f.pages[url]
	if !ok {
		return nil, errors.Errorf("dial tcp: lookup %s: no such host", url)
	}
	return page, nil
}

type fakeProvider struct {
	details     *NovelDetails
	translation *ChapterTranslation
	err         error

	gotContent string
	gotGenres  []string
}

func (p *fakeProvider) ExtractNovelDetails(_ context.Context, content string) (*NovelDetails, error) {
	p.gotContent = content
	return p.details, p.err
}

func (p *fakeProvider) TranslateChapter(_ context.Context, knownGenres []string, content string) (*ChapterTranslation, error) {
	p.gotContent = content
	p.gotGenres = knownGenres
	return p.translation, p.err
}

type fakeLookup struct {
	novels map[string]*models.Novel
	err    error
}

func (l *fakeLookup) RetrieveNovel(_ context.Context, opts novels.RetrieveNovelOptions) (*models.Novel, error) {
	if l.err != nil {
		return nil, l.err
	}
	if opts.ID != nil {
		if n, ok := l.novels[*opts.ID]; ok {
			return n, nil
		}
	}
	return nil, errors.WithStack(errcodes.NotFound("Novel"))
}
