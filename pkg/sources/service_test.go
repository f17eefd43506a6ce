package sources

import (
	"context"
	"database/sql"
	"testing"

	"github.com/arcanetranslator/arcane/pkg/errcodes"
	"github.com/arcanetranslator/arcane/pkg/models"
	"github.com/arcanetranslator/arcane/pkg/schema"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	err = schema.Initialize(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestEnsureSources(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := NewService(setupTestDB(t))

	n, err := svc.EnsureSources(ctx, Defaults())
	require.NoError(t, err)
	assert.Equal(t, len(Defaults()), n)

	n, err = svc.EnsureSources(ctx, Defaults())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	sources, err := svc.ListSources(ctx, ListSourcesOptions{})
	require.NoError(t, err)
	assert.Len(t, sources, len(Defaults()))
}

func TestCreateSource(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := NewService(setupTestDB(t))

	icon := "https://example.com/favicon.ico"
	source := &models.Source{ID: "example", Name: "Example", URL: "https://example.com", Language: models.LanguageKorean, Icon: &icon}
	require.NoError(t, svc.CreateSource(ctx, source))

	got, err := svc.RetrieveSource(ctx, "example")
	require.NoError(t, err)
	assert.Equal(t, source, got)

	err = svc.CreateSource(ctx, source)
	var e *errcodes.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "conflict", e.Code)

	err = svc.CreateSource(ctx, &models.Source{ID: "x", Name: "X", URL: "https://x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"language" is required`)
}

func TestRetrieveSource_NotFound(t *testing.T) {
	t.Parallel()
	svc := NewService(setupTestDB(t))

	_, err := svc.RetrieveSource(context.Background(), "missing")
	assert.True(t, errors.Is(err, errcodes.NotFound("Source")))
}

func TestListSources(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := NewService(setupTestDB(t))
	_, err := svc.EnsureSources(ctx, Defaults())
	require.NoError(t, err)

	t.Run("ordered by name", func(t *testing.T) {
		sources, err := svc.ListSources(ctx, ListSourcesOptions{})
		require.NoError(t, err)
		names := []string{}
		for _, s := range sources {
			names = append(names, s.Name)
		}
		assert.Equal(t, []string{"69Shuba", "69Yue", "Doupo", "Shuhaige", "Syosetu", "Twkan"}, names)
	})

	t.Run("filtered by language", func(t *testing.T) {
		lang := models.LanguageJapanese
		sources, err := svc.ListSources(ctx, ListSourcesOptions{Language: &lang})
		require.NoError(t, err)
		require.Len(t, sources, 1)
		assert.Equal(t, "syosetu", sources[0].ID)
	})
}
