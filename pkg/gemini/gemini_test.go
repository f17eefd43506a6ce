package gemini

import (
	"context"
	"testing"

	"github.com/arcanetranslator/arcane/pkg/translation"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	text string
	err  error

	gotModel  string
	gotPrompt string
	gotConfig *genai.GenerateContentConfig
}

func (g *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	g.gotModel = model
	g.gotConfig = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		g.gotPrompt = contents[0].Parts[0].Text
	}
	if g.err != nil {
		return nil, g.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromText(g.text, genai.RoleModel)},
		},
	}, nil
}

var _ translation.Provider = (*Client)(nil)

func TestNew_RequiresKey(t *testing.T) {
	t.Parallel()
	_, err := New(context.Background(), " ", "")
	require.Error(t, err)
}

func TestClient_ExtractNovelDetails(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{text: `{
		"novel_title_original": "仙逆",
		"novel_title_translated": "Renegade Immortal",
		"novel_summary_translated": "<p>Going along is mortal.</p>",
		"novel_author_translated": "Er Gen",
		"possible_novel_genres": ["Xianxia", "Action"],
		"number_of_chapters": "2088",
		"status": "Completed"
	}`}
	c := newClient(gen, "")

	details, err := c.ExtractNovelDetails(context.Background(), "作者：耳根")
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, gen.gotModel)
	assert.Contains(t, gen.gotPrompt, "作者：耳根")
	assert.Equal(t, responseMIMEType, gen.gotConfig.ResponseMIMEType)
	assert.Same(t, novelDetailsSchema, gen.gotConfig.ResponseSchema)

	assert.Equal(t, &translation.NovelDetails{
		TitleOriginal:     "仙逆",
		TitleTranslated:   "Renegade Immortal",
		SummaryTranslated: "<p>Going along is mortal.</p>",
		AuthorTranslated:  "Er Gen",
		Genres:            []string{"Xianxia", "Action"},
		ChapterCount:      2088,
		Status:            "Completed",
	}, details)
}

func TestClient_TranslateChapter(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{text: "```json\n" + `{
		"translated_chapter_title": "Chapter 1",
		"original_chapter_title": "第一章",
		"translated_chapter_contents": "<p>Hello.</p>",
		"possible_new_genres": []
	}` + "\n```"}
	c := newClient(gen, "gemini-test")

	res, err := c.TranslateChapter(context.Background(), []string{"Xianxia", "Action"}, "你好。")
	require.NoError(t, err)

	assert.Equal(t, "gemini-test", gen.gotModel)
	assert.Contains(t, gen.gotPrompt, "Xianxia, Action")
	assert.Contains(t, gen.gotPrompt, "你好。")
	assert.Equal(t, "Chapter 1", res.TranslatedTitle)
	assert.Equal(t, "第一章", res.OriginalTitle)
	assert.Equal(t, "<p>Hello.</p>", res.TranslatedContent)
	assert.Empty(t, res.NewGenres)
}

func TestClient_Errors(t *testing.T) {
	t.Parallel()

	t.Run("request error", func(t *testing.T) {
		t.Parallel()
		c := newClient(&fakeGenerator{err: errors.New("429 resource exhausted")}, "")
		_, err := c.ExtractNovelDetails(context.Background(), "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "resource exhausted")
	})

	t.Run("empty response", func(t *testing.T) {
		t.Parallel()
		c := newClient(&fakeGenerator{text: "  "}, "")
		_, err := c.TranslateChapter(context.Background(), nil, "x")
		require.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		t.Parallel()
		c := newClient(&fakeGenerator{text: "not json"}, "")
		_, err := c.ExtractNovelDetails(context.Background(), "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode")
	})
}

func TestChapterPrompt_NoKnownGenres(t *testing.T) {
	t.Parallel()
	assert.Contains(t, chapterPrompt(nil, "x"), "Genres already known for this novel: none")
}

func TestCount_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := map[string]int{
		`120`:       120,
		`"120"`:     120,
		`" 45 "`:    45,
		`12.0`:      12,
		`"unknown"`: 0,
		`null`:      0,
	}
	for in, want := range tests {
		var c count
		require.NoError(t, c.UnmarshalJSON([]byte(in)), in)
		assert.Equal(t, want, int(c), in)
	}
}
