// Package translation turns source pages into novel drafts and translated
// chapters. It owns the contracts; fetching pages and talking to the
// generative model are plugged in through Fetcher and Provider.
package translation

import (
	"context"

	"github.com/arcanetranslator/arcane/pkg/models"
	"github.com/arcanetranslator/arcane/pkg/novels"
	"github.com/arcanetranslator/arcane/pkg/scraper"
)

type ExtractNovelRequest struct {
	URL    string
	Source string
	// HTMLContent, when set, is used instead of fetching URL.
	HTMLContent string
}

// NovelDraft is the structured metadata extracted from a novel page. It isn't
// stored; callers decide whether to create a novel from it.
type NovelDraft struct {
	NovelID              string   `json:"novelId,omitempty"`
	Source               string   `json:"source"`
	URL                  string   `json:"url"`
	TitleOriginal        string   `json:"titleOriginal"`
	TitleTranslated      string   `json:"titleTranslated"`
	SummaryTranslated    string   `json:"summaryTranslated"`
	AuthorTranslated     string   `json:"authorTranslated"`
	Genres               []string `json:"genres"`
	ChapterCountEstimate int      `json:"chapterCountEstimate"`
	Status               string   `json:"status"`
	Cover                string   `json:"cover,omitempty"`
}

type TranslateChapterRequest struct {
	NovelID       string
	ChapterNumber int
	// One of ChapterURL and OriginalContent is needed. OriginalContent wins
	// when both are set.
	ChapterURL      string
	OriginalContent string
}

type TranslatedChapter struct {
	NovelID           string   `json:"novelId"`
	ChapterNumber     int      `json:"chapterNumber"`
	TranslatedTitle   string   `json:"translatedTitle"`
	OriginalTitle     string   `json:"originalTitle,omitempty"`
	TranslatedContent string   `json:"translatedContent"`
	InferredGenres    []string `json:"inferredGenres"`
	WordCount         int      `json:"wordCount"`
	NextChapterURL    string   `json:"nextChapterUrl,omitempty"`
}

// NovelDetails is what a Provider reads out of a novel page.
type NovelDetails struct {
	TitleOriginal     string
	TitleTranslated   string
	SummaryTranslated string
	AuthorTranslated  string
	Genres            []string
	ChapterCount      int
	Status            string
}

// ChapterTranslation is what a Provider returns for a chapter.
type ChapterTranslation struct {
	TranslatedTitle   string
	OriginalTitle     string
	TranslatedContent string
	NewGenres         []string
}

type Extractor interface {
	ExtractNovel(ctx context.Context, req ExtractNovelRequest) (*NovelDraft, error)
}

type Translator interface {
	TranslateChapter(ctx context.Context, req TranslateChapterRequest) (*TranslatedChapter, error)
}

type Fetcher interface {
	Fetch(ctx context.Context, url string) (*scraper.Page, error)
}

type Provider interface {
	ExtractNovelDetails(ctx context.Context, content string) (*NovelDetails, error)
	TranslateChapter(ctx context.Context, knownGenres []string, content string) (*ChapterTranslation, error)
}

// NovelLookup finds the novel a chapter belongs to.
type NovelLookup interface {
	RetrieveNovel(ctx context.Context, opts novels.RetrieveNovelOptions) (*models.Novel, error)
}
