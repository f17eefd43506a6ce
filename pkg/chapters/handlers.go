package chapters

import (
	"net/http"
	"strconv"

	"github.com/arcanetranslator/arcane/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	chapterService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	chapters, err := h.chapterService.ListChapters(ctx, ListChaptersOptions{
		NovelID: c.Param("id"),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, chapters))
}

func (h *handler) retrieveByNumber(c echo.Context) error {
	ctx := c.Request().Context()
	novelID := c.Param("id")

	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		return errcodes.NotFound("Chapter")
	}

	chapter, err := h.chapterService.RetrieveChapter(ctx, RetrieveChapterOptions{
		NovelID: &novelID,
		Number:  &number,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, chapter))
}
