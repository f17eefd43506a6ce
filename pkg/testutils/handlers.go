package testutils

import (
	"context"
	"net/http"

	"github.com/arcanetranslator/arcane/pkg/errcodes"
	"github.com/arcanetranslator/arcane/pkg/ingest"
	"github.com/arcanetranslator/arcane/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type handler struct {
	db *bun.DB
}

// importBundle loads an ingest bundle from the request body.
// POST /test/bundles.
func (h *handler) importBundle(c echo.Context) error {
	ctx := c.Request().Context()

	bundle, err := ingest.Decode(c.Request().Body)
	if err != nil {
		return errcodes.ValidationError(err.Error())
	}

	res, err := ingest.NewImporter(h.db).Import(ctx, bundle)
	if err != nil {
		return errors.Wrap(err, "failed to import bundle")
	}

	return c.JSON(http.StatusCreated, res)
}

type deleteAllNovelsResponse struct {
	Deleted int `json:"deleted"`
}

// deleteAllNovels deletes every novel and chapter. Sources are kept.
// DELETE /test/novels.
func (h *handler) deleteAllNovels(c echo.Context) error {
	ctx := c.Request().Context()

	var deleted int64
	err := h.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// foreign_keys is off, so nothing cascades. Drop chapters explicitly
		// so none are left pointing at a deleted novel.
		_, err := tx.NewDelete().
			Model((*models.Chapter)(nil)).
			Where("1=1").
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to delete chapters")
		}

		result, err := tx.NewDelete().
			Model((*models.Novel)(nil)).
			Where("1=1").
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to delete novels")
		}
		deleted, _ = result.RowsAffected()
		return nil
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, deleteAllNovelsResponse{
		Deleted: int(deleted),
	})
}
