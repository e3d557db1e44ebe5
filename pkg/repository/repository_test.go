package repository

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/helpdesk/pkg/db/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type widget struct {
	ID    string `gorm:"primaryKey"`
	Kind  string
	Score int
}

func newWidgetStore(t *testing.T) Repository[widget] {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, conn.AutoMigrate(&widget{}))
	return ProvideStore[widget](conn)
}

func TestStoreCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newWidgetStore(t)

	require.NoError(t, repo.BatchCreate(ctx, []*widget{
		{ID: "a", Kind: "x", Score: 2},
		{ID: "b", Kind: "x", Score: 1},
		{ID: "c", Kind: "y", Score: 3},
	}))

	found, err := repo.Find(ctx, &widget{Kind: "x"}, option.OrderBy("score asc"))
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "b", found[0].ID)

	limited, err := repo.Find(ctx, &widget{}, option.OrderBy("score desc"), option.Limit(1))
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "c", limited[0].ID)

	one, err := repo.FindOne(ctx, &widget{ID: "missing"})
	require.NoError(t, err)
	assert.Nil(t, one)

	rows, err := repo.Update(ctx, &widget{ID: "a"}, map[string]any{"score": 9})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
	one, err = repo.FindOne(ctx, &widget{ID: "a"})
	require.NoError(t, err)
	assert.Equal(t, 9, one.Score)

	rows, err = repo.Delete(ctx, &widget{ID: "b"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	count, err := repo.Count(ctx, &widget{Kind: "x"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
