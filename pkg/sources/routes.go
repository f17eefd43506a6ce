package sources

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		sourceService: NewService(db),
	}

	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
}
