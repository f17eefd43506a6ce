package translation

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/arcanetranslator/arcane/pkg/errcodes"
	"github.com/arcanetranslator/arcane/pkg/htmlutil"
	"github.com/arcanetranslator/arcane/pkg/models"
	"github.com/arcanetranslator/arcane/pkg/novels"
	"github.com/arcanetranslator/arcane/pkg/scraper"
	"github.com/arcanetranslator/arcane/pkg/sources"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"golang.org/x/time/rate"
)

type Options struct {
	// RequestsPerMinute caps provider calls across all requests. Zero means
	// unlimited.
	RequestsPerMinute int
	// MaxContentRunes truncates page content before it's sent to the
	// provider. Zero means no limit.
	MaxContentRunes int
}

type Service struct {
	fetcher  Fetcher
	provider Provider
	novels   NovelLookup
	limiter  *rate.Limiter
	maxRunes int
}

func NewService(fetcher Fetcher, provider Provider, lookup NovelLookup, opts Options) *Service {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}
	return &Service{
		fetcher:  fetcher,
		provider: provider,
		novels:   lookup,
		limiter:  limiter,
		maxRunes: opts.MaxContentRunes,
	}
}

// ExtractNovel fetches (or parses the supplied) novel page and asks the
// provider for its metadata. Every failure is returned as is; nothing is
// retried.
func (svc *Service) ExtractNovel(ctx context.Context, req ExtractNovelRequest) (*NovelDraft, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	if strings.TrimSpace(req.URL) == "" {
		return nil, errors.New("url is required")
	}

	page, err := svc.loadPage(ctx, req.URL, req.HTMLContent)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	if page.Title != "" {
		b.WriteString("Page title: " + page.Title + "\n")
	}
	if page.Description != "" {
		b.WriteString("Page description: " + page.Description + "\n")
	}
	b.WriteString(page.Text)
	content := htmlutil.TruncateRunes(b.String(), svc.maxRunes)

	if err := svc.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limit wait")
	}
	details, err := svc.provider.ExtractNovelDetails(ctx, content)
	if err != nil {
		log.Warn("novel extraction failed", logger.Data{"url": req.URL, "source": req.Source, "error": err.Error()})
		return nil, errors.Wrap(err, "provider")
	}
	if details == nil {
		return nil, errors.New("provider returned no details")
	}

	draft := &NovelDraft{
		NovelID:              sources.NovelIDFromURL(req.Source, req.URL),
		Source:               req.Source,
		URL:                  req.URL,
		TitleOriginal:        strings.TrimSpace(details.TitleOriginal),
		TitleTranslated:      strings.TrimSpace(details.TitleTranslated),
		SummaryTranslated:    strings.TrimSpace(details.SummaryTranslated),
		AuthorTranslated:     strings.TrimSpace(details.AuthorTranslated),
		Genres:               dedupe(details.Genres, nil),
		ChapterCountEstimate: details.ChapterCount,
		Status:               models.NormalizeNovelStatus(details.Status),
		Cover:                page.CoverURL,
	}
	if draft.ChapterCountEstimate < 0 {
		draft.ChapterCountEstimate = 0
	}
	if draft.TitleTranslated == "" {
		return nil, errors.New("provider returned an empty title")
	}

	log.Info("extracted novel", logger.Data{
		"url":         req.URL,
		"source":      req.Source,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return draft, nil
}

// TranslateChapter translates one chapter. The novel's known genres are
// passed along so the provider only suggests new ones; a novel that isn't
// stored yet simply has none.
func (svc *Service) TranslateChapter(ctx context.Context, req TranslateChapterRequest) (*TranslatedChapter, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	var original, next string
	switch {
	case strings.TrimSpace(req.OriginalContent) != "":
		original = htmlutil.StripTags(req.OriginalContent)
		// Supplied content can still carry the site's navigation links.
		if strings.TrimSpace(req.ChapterURL) != "" {
			if page, err := scraper.ParseHTML(req.ChapterURL, req.OriginalContent); err == nil {
				next = page.NextChapterURL
			}
		}
	case strings.TrimSpace(req.ChapterURL) != "":
		page, err := svc.loadPage(ctx, req.ChapterURL, "")
		if err != nil {
			return nil, err
		}
		original = page.Text
		next = page.NextChapterURL
	default:
		return nil, errors.New("either chapter url or original content is required")
	}
	if original == "" {
		return nil, errors.New("chapter content is empty")
	}

	var known models.StringList
	novel, err := svc.novels.RetrieveNovel(ctx, novels.RetrieveNovelOptions{ID: &req.NovelID})
	switch {
	case err == nil:
		known = novel.Genres
	case errors.Is(err, errcodes.NotFound("Novel")):
	default:
		return nil, errors.Wrap(err, "failed to look up novel")
	}

	if err := svc.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limit wait")
	}
	result, err := svc.provider.TranslateChapter(ctx, known, htmlutil.TruncateRunes(original, svc.maxRunes))
	if err != nil {
		log.Warn("chapter translation failed", logger.Data{"novel_id": req.NovelID, "chapter_number": req.ChapterNumber, "error": err.Error()})
		return nil, errors.Wrap(err, "provider")
	}
	if result == nil || strings.TrimSpace(result.TranslatedContent) == "" {
		return nil, errors.New("provider returned an empty translation")
	}

	chapter := &TranslatedChapter{
		NovelID:           req.NovelID,
		ChapterNumber:     req.ChapterNumber,
		TranslatedTitle:   strings.TrimSpace(result.TranslatedTitle),
		OriginalTitle:     strings.TrimSpace(result.OriginalTitle),
		TranslatedContent: strings.TrimSpace(result.TranslatedContent),
		InferredGenres:    dedupe(result.NewGenres, known),
		NextChapterURL:    next,
	}
	if chapter.TranslatedTitle == "" {
		chapter.TranslatedTitle = "Chapter " + strconv.Itoa(req.ChapterNumber)
	}
	chapter.WordCount = htmlutil.CountHTMLWords(chapter.TranslatedContent)

	log.Info("translated chapter", logger.Data{
		"novel_id":       req.NovelID,
		"chapter_number": req.ChapterNumber,
		"words":          chapter.WordCount,
		"duration_ms":    time.Since(start).Milliseconds(),
	})

	return chapter, nil
}

func (svc *Service) loadPage(ctx context.Context, url, html string) (*scraper.Page, error) {
	if strings.TrimSpace(html) != "" {
		page, err := scraper.ParseHTML(url, html)
		return page, errors.WithStack(err)
	}
	page, err := svc.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return page, nil
}

// dedupe trims the genres, drops empty ones and case-insensitive duplicates,
// and drops anything already in known. The result is never nil.
func dedupe(genres []string, known models.StringList) []string {
	out := []string{}
	seen := models.StringList{}
	for _, g := range genres {
		g = strings.TrimSpace(g)
		if g == "" || seen.Contains(g) || known.Contains(g) {
			continue
		}
		seen = append(seen, g)
		out = append(out, g)
	}
	return out
}
