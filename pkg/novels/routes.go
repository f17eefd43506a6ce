package novels

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers novel routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		novelService: NewService(db),
	}

	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
}
