package translation

import (
	"github.com/arcanetranslator/arcane/pkg/binder"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers the extraction and translation endpoints. Both
// accept their parameters either as a JSON body or in the query string.
func RegisterRoutes(e *echo.Echo, extractor Extractor, translator Translator) {
	h := &handler{
		extractor:  extractor,
		translator: translator,
	}

	e.POST("/novels/extract", h.extract, allowQueryParams)
	e.POST("/chapters/translate", h.translate, allowQueryParams)
}

func allowQueryParams(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Set(binder.AllowQueryParams, true)
		return next(c)
	}
}
