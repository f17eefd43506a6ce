package novels

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	novelService *Service
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	novel, err := h.novelService.RetrieveNovel(ctx, RetrieveNovelOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, novel))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListNovelsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	novels, err := h.novelService.ListNovels(ctx, ListNovelsOptions{
		Limit:    &params.Limit,
		Offset:   &params.Offset,
		Source:   params.Source,
		Language: params.Language,
		Search:   params.Search,
		Genre:    params.Genre,
		Status:   params.Status,
		Sort:     params.Sort,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, novels))
}
