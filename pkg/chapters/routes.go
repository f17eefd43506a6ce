package chapters

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers the chapter routes nested under a novel
// group, i.e. /novels/:id/chapters.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		chapterService: NewService(db),
	}

	g.GET("/:id/chapters", h.list)
	g.GET("/:id/chapters/:number", h.retrieveByNumber)
}
