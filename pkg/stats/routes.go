package stats

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		statsService: NewService(db),
	}

	g.GET("/novels", h.novels)
}
