package translation

import (
	"net/http"

	"github.com/arcanetranslator/arcane/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	extractor  Extractor
	translator Translator
}

func (h *handler) extract(c echo.Context) error {
	ctx := c.Request().Context()

	params := ExtractNovelPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	draft, err := h.extractor.ExtractNovel(ctx, ExtractNovelRequest{
		URL:         params.URL,
		Source:      params.Source,
		HTMLContent: params.HTMLContent,
	})
	if err != nil {
		return adapterError("extracting novel details", err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, draft))
}

func (h *handler) translate(c echo.Context) error {
	ctx := c.Request().Context()

	params := TranslateChapterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	chapter, err := h.translator.TranslateChapter(ctx, TranslateChapterRequest{
		NovelID:         params.NovelID,
		ChapterNumber:   params.ChapterNumber,
		ChapterURL:      params.ChapterURL,
		OriginalContent: params.OriginalContent,
	})
	if err != nil {
		return adapterError("translating chapter", err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, chapter))
}

// adapterError keeps errors that already carry an HTTP code and reports
// everything else as an adapter failure with its message intact.
func adapterError(action string, err error) error {
	var e *errcodes.Error
	if errors.As(err, &e) {
		return err
	}
	return errcodes.AdapterFailure(action, err)
}
