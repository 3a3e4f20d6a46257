package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statkit/domain/stats"
	"statkit/internal/analysis"
	"statkit/internal/testkit"
	"statkit/ports"
)

// openTestDB connects to the database named by TEST_DATABASE_URL. Tests in
// this package are integration tests and skip without it.
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := sqlx.Connect("postgres", url)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func irisResult(t *testing.T) *stats.AnalysisResult {
	t.Helper()
	request, err := testkit.IrisRequest()
	require.NoError(t, err)
	result, err := analysis.NewEngine(nil).Analyze(context.Background(), request)
	require.NoError(t, err)
	return result
}

func TestSaveGetRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewAnalysisRepository(db).(*AnalysisRepositoryImpl)
	ctx := context.Background()
	require.NoError(t, repo.EnsureSchema(ctx))

	result := irisResult(t)
	require.NoError(t, repo.Save(ctx, result))

	loaded, err := repo.Get(ctx, result.ID)
	require.NoError(t, err)
	assert.Equal(t, result.ID, loaded.ID)
	assert.Equal(t, result.Test.TestType, loaded.Test.TestType)
	assert.Len(t, loaded.Descriptive, 3)
}

func TestGetUnknownIDIsNotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewAnalysisRepository(db).(*AnalysisRepositoryImpl)
	ctx := context.Background()
	require.NoError(t, repo.EnsureSchema(ctx))

	_, err := repo.Get(ctx, "3b51a1fe-f9ad-4bb0-9f03-2b6b3d7b8a10")
	require.Error(t, err)
}

func TestListFiltersByTestType(t *testing.T) {
	db := openTestDB(t)
	repo := NewAnalysisRepository(db).(*AnalysisRepositoryImpl)
	ctx := context.Background()
	require.NoError(t, repo.EnsureSchema(ctx))

	result := irisResult(t)
	require.NoError(t, repo.Save(ctx, result))

	testType := result.Test.TestType
	summaries, err := repo.List(ctx, ports.AnalysisFilters{TestType: &testType})
	require.NoError(t, err)
	require.NotEmpty(t, summaries)
	for _, s := range summaries {
		assert.Equal(t, testType, s.TestType)
	}
}
