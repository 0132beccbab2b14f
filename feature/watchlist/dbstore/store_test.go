package dbstore

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"watchsync/feature/watchlist/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	store, err := New(db, zap.NewNop())
	require.NoError(t, err)
	return store
}

func sampleRecord(title, letterboxdID string) models.MovieRecord {
	return models.MovieRecord{
		Title:          title,
		Runtime:        "1:42",
		Location:       "Netflix",
		Year:           2022,
		LetterboxdID:   letterboxdID,
		LetterboxdLink: "https://letterboxd.com/film/" + letterboxdID + "/",
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, sampleRecord("Aftersun", "714840")))
	require.NoError(t, store.Insert(ctx, sampleRecord("Causeway", "680201")))

	records, err := store.ListMovies(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Read-back rows carry a workspace id; everything else round-trips.
	assert.Equal(t, "Aftersun", records[0].Title)
	assert.NotEmpty(t, records[0].WorkspaceID)
	withoutID := records[0]
	withoutID.WorkspaceID = ""
	assert.Equal(t, sampleRecord("Aftersun", "714840"), withoutID)
}

func TestStoreDelete(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, sampleRecord("Aftersun", "714840")))
	records, err := store.ListMovies(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	require.NoError(t, store.Delete(ctx, records[0]))

	records, err = store.ListMovies(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStoreDelete_MissingWorkspaceID(t *testing.T) {
	store := testStore(t)

	err := store.Delete(context.Background(), sampleRecord("Aftersun", "714840"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no workspace id")
}

func TestStoreDelete_InvalidWorkspaceID(t *testing.T) {
	store := testStore(t)

	record := sampleRecord("Aftersun", "714840")
	record.WorkspaceID = "page-8f2a"
	err := store.Delete(context.Background(), record)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid workspace id")
}

func TestStoreListMovies_QueryError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .* FROM `watchlist_movies`").
		WillReturnError(assert.AnError)

	store := &Store{db: db, log: zap.NewNop()}
	_, err = store.ListMovies(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list movies")
}
