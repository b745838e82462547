package database

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/dataadapter/internal/apperr"
	"github.com/mrlokans/dataadapter/internal/entities"
)

// setupTestDB creates a fresh test database
func setupTestDB(t *testing.T) *Database {
	t.Helper()
	dbPath := "./test_" + t.Name() + ".db"
	db, err := NewDatabase(dbPath, "silent")
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})
	return db
}

func seedArticles(t *testing.T, table *Table[entities.Article]) {
	t.Helper()
	ctx := context.Background()
	for _, a := range []entities.Article{
		{Title: "one", PublishTime: "2024-01-01T00:00:00Z", IsFeatured: true},
		{Title: "two", PublishTime: "2024-02-01T00:00:00Z"},
		{Title: "three", PublishTime: "2024-03-01T00:00:00Z", IsFeatured: true},
	} {
		a := a
		require.NoError(t, table.Insert(ctx, &a))
	}
}

func TestTable_InsertAssignsIdentity(t *testing.T) {
	db := setupTestDB(t)
	table := NewTable[entities.Submission](db.DB)

	s := entities.Submission{CompanyName: "Acme", UserName: "Lee", Phone: "1", CompanyTypes: entities.StringList{"A"}}
	require.NoError(t, table.Insert(context.Background(), &s))

	assert.Len(t, s.ID, 36)
	assert.False(t, s.CreatedAt.IsZero())

	got, err := table.First(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.StringList{"A"}, got.CompanyTypes)
	assert.Equal(t, entities.SubmissionPending, got.Status)
}

func TestTable_FindOrdersAndWindows(t *testing.T) {
	db := setupTestDB(t)
	table := NewTable[entities.Article](db.DB)
	seedArticles(t, table)
	ctx := context.Background()

	rows, err := table.Find(ctx, Query{OrderBy: "publish_time", Desc: true, Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "two", rows[0].Title)

	rows, err = table.Find(ctx, Query{Filters: []Filter{Eq("is_featured", true)}, OrderBy: "publish_time"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "one", rows[0].Title)
	assert.Equal(t, "three", rows[1].Title)

	rows, err = table.Find(ctx, Query{Offset: 10})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestTable_Count(t *testing.T) {
	db := setupTestDB(t)
	table := NewTable[entities.Article](db.DB)
	seedArticles(t, table)
	ctx := context.Background()

	n, err := table.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = table.Count(ctx, Filter{Column: "publish_time", Op: OpLte, Value: "2024-02-15T00:00:00Z"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestTable_FirstMissing(t *testing.T) {
	db := setupTestDB(t)
	table := NewTable[entities.Case](db.DB)

	_, err := table.First(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestTable_UpdateSelectedColumns(t *testing.T) {
	db := setupTestDB(t)
	table := NewTable[entities.CaseConfiguration](db.DB)
	ctx := context.Background()

	cfg := entities.CaseConfiguration{Title: "Banner", Subtitle: "keep", IsActive: true, SortOrder: 3}
	require.NoError(t, table.Insert(ctx, &cfg))

	n, err := table.Update(ctx, cfg.ID, &entities.CaseConfiguration{Title: "ignored", IsActive: false}, "is_active")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := table.First(ctx, cfg.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, "Banner", got.Title)
	assert.Equal(t, "keep", got.Subtitle)
	assert.Equal(t, 3, got.SortOrder)
}

func TestTable_UpdateAllColumns(t *testing.T) {
	db := setupTestDB(t)
	table := NewTable[entities.Case](db.DB)
	ctx := context.Background()

	c := entities.Case{CompanyName: "Acme", Metrics: entities.JSONObject{"a": "1"}, SortOrder: 2}
	require.NoError(t, table.Insert(ctx, &c))

	n, err := table.Update(ctx, c.ID, &entities.Case{CompanyName: "Acme 2", Status: entities.CaseInactive})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := table.First(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme 2", got.CompanyName)
	assert.Nil(t, got.Metrics)
	assert.Equal(t, 0, got.SortOrder)
	assert.Equal(t, c.CreatedAt.Unix(), got.CreatedAt.Unix())
	assert.Equal(t, c.ID, got.ID)
}

func TestTable_UpdateMissing(t *testing.T) {
	db := setupTestDB(t)
	table := NewTable[entities.Article](db.DB)

	n, err := table.Update(context.Background(), "missing", &entities.Article{Title: "x"}, "title")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTable_Delete(t *testing.T) {
	db := setupTestDB(t)
	table := NewTable[entities.Article](db.DB)
	seedArticles(t, table)
	ctx := context.Background()

	rows, err := table.Find(ctx, Query{OrderBy: "publish_time"})
	require.NoError(t, err)

	n, err := table.Delete(ctx, rows[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = table.Delete(ctx, rows[0].ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = table.DeleteMany(ctx, []string{rows[1].ID, rows[2].ID, "missing"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	count, err := table.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
