package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arcanetranslator/arcane/pkg/chapters"
	"github.com/arcanetranslator/arcane/pkg/config"
	"github.com/arcanetranslator/arcane/pkg/database"
	"github.com/arcanetranslator/arcane/pkg/models"
	"github.com/arcanetranslator/arcane/pkg/novels"
	"github.com/arcanetranslator/arcane/pkg/schema"
	"github.com/arcanetranslator/arcane/pkg/sources"
	"github.com/arcanetranslator/arcane/pkg/translation"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type fakeAdapters struct {
	err error
}

func (f *fakeAdapters) ExtractNovel(_ context.Context, req translation.ExtractNovelRequest) (*translation.NovelDraft, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &translation.NovelDraft{
		Source:          req.Source,
		URL:             req.URL,
		TitleTranslated: "Renegade Immortal",
		Genres:          []string{"Xianxia"},
		Status:          models.NovelStatusOngoing,
	}, nil
}

func (f *fakeAdapters) TranslateChapter(_ context.Context, req translation.TranslateChapterRequest) (*translation.TranslatedChapter, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &translation.TranslatedChapter{
		NovelID:           req.NovelID,
		ChapterNumber:     req.ChapterNumber,
		TranslatedTitle:   "Chapter 1",
		TranslatedContent: "<p>Hello.</p>",
		InferredGenres:    []string{},
	}, nil
}

func setupServer(t *testing.T, adapters *fakeAdapters) (http.Handler, *bun.DB) {
	t.Helper()

	cfg := config.NewForTest()
	db, err := database.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})
	require.NoError(t, schema.Initialize(context.Background(), db))

	srv, err := New(cfg, db, adapters, adapters)
	require.NoError(t, err)
	return srv.Handler, db
}

func seed(t *testing.T, db *bun.DB) {
	t.Helper()
	ctx := context.Background()

	_, err := sources.NewService(db).EnsureSources(ctx, sources.Defaults())
	require.NoError(t, err)

	author := "Er Gen"
	err = novels.NewService(db).CreateNovel(ctx, &models.Novel{
		ID:          "36573",
		Title:       "Renegade Immortal",
		Source:      "69shuba",
		URL:         "https://www.69shuba.com/book/36573.htm",
		Summary:     "<p>Going along is mortal.</p>",
		Author:      &author,
		Genres:      models.StringList{"Xianxia"},
		LastUpdated: 1700000000,
		DateAdded:   1700000000,
	})
	require.NoError(t, err)

	chs := []*models.Chapter{}
	for _, n := range []int{3, 1, 2} {
		chs = append(chs, &models.Chapter{
			ID:             "c" + string(rune('0'+n)),
			Number:         n,
			Title:          "Chapter",
			Content:        "<p>text</p>",
			DateTranslated: 1700000000,
		})
	}
	require.NoError(t, chapters.NewService(db).CreateChapters(ctx, "36573", chs))
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func post(h http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestServer_ReadEndpoints(t *testing.T) {
	h, db := setupServer(t, &fakeAdapters{})
	seed(t, db)

	t.Run("root", func(t *testing.T) {
		rr := get(h, "/")
		require.Equal(t, http.StatusOK, rr.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "Novel Translation API", body["message"])
	})

	t.Run("health", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, get(h, "/health").Code)
	})

	t.Run("list novels", func(t *testing.T) {
		rr := get(h, "/novels")
		require.Equal(t, http.StatusOK, rr.Code)
		var list []*models.Novel
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
		require.Len(t, list, 1)
		assert.Equal(t, "36573", list[0].ID)
		assert.Equal(t, models.StringList{"Xianxia"}, list[0].Genres)
	})

	t.Run("filter novels by language", func(t *testing.T) {
		rr := get(h, "/novels?language=Japanese")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("offset without a limit", func(t *testing.T) {
		for _, path := range []string{"/novels?offset=1", "/novels?limit=0&offset=1"} {
			rr := get(h, path)
			require.Equal(t, http.StatusOK, rr.Code, path)
			assert.JSONEq(t, `[]`, rr.Body.String(), path)
		}

		rr := get(h, "/novels?offset=0")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"id":"36573"`)
	})

	t.Run("filter novels by genre and status", func(t *testing.T) {
		rr := get(h, "/novels?genre=xianxia&sort=recently_updated")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"id":"36573"`)

		rr = get(h, "/novels?genre=Romance")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())

		rr = get(h, "/novels?status=Completed")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("invalid list options", func(t *testing.T) {
		rr := get(h, "/novels?status=Paused")
		require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), `\"status\" must be one of the following: \"Ongoing\", \"Completed\", \"Unknown\"`)

		rr = get(h, "/novels?sort=popular")
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("genres", func(t *testing.T) {
		rr := get(h, "/genres")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[{"name":"Xianxia","novelCount":1}]`, rr.Body.String())
	})

	t.Run("retrieve novel", func(t *testing.T) {
		rr := get(h, "/novels/36573")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"author":"Er Gen"`)
		assert.Contains(t, rr.Body.String(), `"chaptersCount":0`)
	})

	t.Run("missing novel", func(t *testing.T) {
		rr := get(h, "/novels/nope")
		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "Novel not found.")
	})

	t.Run("chapters are ordered by number", func(t *testing.T) {
		rr := get(h, "/novels/36573/chapters")
		require.Equal(t, http.StatusOK, rr.Code)
		var list []*models.Chapter
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
		require.Len(t, list, 3)
		assert.Equal(t, []int{1, 2, 3}, []int{list[0].Number, list[1].Number, list[2].Number})
	})

	t.Run("chapters of an unknown novel", func(t *testing.T) {
		rr := get(h, "/novels/nope/chapters")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("chapter by number", func(t *testing.T) {
		rr := get(h, "/novels/36573/chapters/2")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"id":"c2"`)

		assert.Equal(t, http.StatusNotFound, get(h, "/novels/36573/chapters/9").Code)
		assert.Equal(t, http.StatusNotFound, get(h, "/novels/36573/chapters/abc").Code)
	})

	t.Run("sources", func(t *testing.T) {
		rr := get(h, "/sources")
		require.Equal(t, http.StatusOK, rr.Code)
		var list []*models.Source
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
		assert.Len(t, list, len(sources.Defaults()))

		rr = get(h, "/sources/syosetu")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"language":"Japanese"`)

		assert.Equal(t, http.StatusNotFound, get(h, "/sources/nope").Code)
	})

	t.Run("stats", func(t *testing.T) {
		rr := get(h, "/stats/novels")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"novelCount":1`)
		assert.Contains(t, rr.Body.String(), `"chapterCount":3`)
	})

	t.Run("unknown path", func(t *testing.T) {
		rr := get(h, "/nothing/here")
		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "not_found")
	})

	t.Run("invalid query", func(t *testing.T) {
		rr := get(h, "/novels?limit=abc")
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})
}

func TestServer_Adapters(t *testing.T) {
	t.Run("extract", func(t *testing.T) {
		h, _ := setupServer(t, &fakeAdapters{})

		rr := post(h, "/novels/extract?url=https://www.69shuba.com/book/36573.htm&source=69shuba", "")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Contains(t, rr.Body.String(), `"titleTranslated":"Renegade Immortal"`)
	})

	t.Run("translate", func(t *testing.T) {
		h, _ := setupServer(t, &fakeAdapters{})

		rr := post(h, "/chapters/translate", `{"novelId":"36573","chapterNumber":1,"originalContent":"<p>你好</p>"}`)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var res translation.TranslatedChapter
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
		assert.Equal(t, "<p>Hello.</p>", res.TranslatedContent)
	})

	t.Run("adapter failure", func(t *testing.T) {
		h, _ := setupServer(t, &fakeAdapters{err: errors.New("dial tcp: connection refused")})

		rr := post(h, "/novels/extract?url=http://127.0.0.1:1/&source=x", "")
		require.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), "Error extracting novel details: dial tcp: connection refused")

		rr = post(h, "/chapters/translate", `{"novelId":"n","chapterNumber":1,"originalContent":"x"}`)
		require.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), "Error translating chapter")
	})
}

func TestServer_CORS(t *testing.T) {
	h, _ := setupServer(t, &fakeAdapters{})

	req := httptest.NewRequest(http.MethodGet, "/novels", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "http://localhost:8080", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/novels", nil)
	req.Header.Set("Origin", "http://evil.test")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_TestRoutes(t *testing.T) {
	h, _ := setupServer(t, &fakeAdapters{})

	rr := post(h, "/test/bundles", `{"novels": [{
		"id": "n1", "title": "One", "source": "s", "url": "http://x/n1", "summary": "s",
		"chapters": [{"number": 1, "title": "c", "content": "<p>a b c</p>"}]
	}]}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"sourcesCreated":0,"novelsCreated":1,"novelsSkipped":0,"chaptersCreated":1}`, rr.Body.String())

	rr = get(h, "/novels/n1/chapters/1")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"wordCount":3`)

	req := httptest.NewRequest(http.MethodDelete, "/test/novels", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"deleted":1}`, rr.Body.String())

	assert.Equal(t, http.StatusNotFound, get(h, "/novels/n1").Code)

	rr = get(h, "/stats/novels")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"chapterCount":0`)
}

func TestQueryLogging(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	assert.False(t, database.LoggingEnabled(c.Request().Context()))

	called := false
	err := queryLogging(func(c echo.Context) error {
		called = true
		assert.True(t, database.LoggingEnabled(c.Request().Context()))
		return nil
	})(c)
	require.NoError(t, err)
	assert.True(t, called)
}

func TestServer_DatabaseDebug(t *testing.T) {
	cfg := config.NewForTest()
	cfg.DatabaseDebug = true
	db, err := database.New(cfg)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, schema.Initialize(context.Background(), db))

	srv, err := New(cfg, db, &fakeAdapters{}, &fakeAdapters{})
	require.NoError(t, err)

	rr := get(srv.Handler, "/novels")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestServer_TestRoutesOnlyInTest(t *testing.T) {
	cfg := config.NewForTest()
	cfg.Environment = "production"
	db, err := database.New(cfg)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, schema.Initialize(context.Background(), db))

	srv, err := New(cfg, db, &fakeAdapters{}, &fakeAdapters{})
	require.NoError(t, err)

	rr := post(srv.Handler, "/test/bundles", `{}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
