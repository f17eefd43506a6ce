package sources

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	sourceService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListSourcesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	sources, err := h.sourceService.ListSources(ctx, ListSourcesOptions{
		Language: params.Language,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, sources))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	source, err := h.sourceService.RetrieveSource(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, source))
}
