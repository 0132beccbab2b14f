package sync

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"watchsync/core/reconcile"
	"watchsync/core/storage/mocks"
	"watchsync/feature/watchlist/models"
)

type fakeSource struct {
	records []models.MovieRecord
	err     error
}

func (f *fakeSource) Fetch(ctx context.Context) ([]models.MovieRecord, error) {
	return f.records, f.err
}

// fakeWorkspace records mutations in call order.
type fakeWorkspace struct {
	existing []models.MovieRecord
	calls    []string
	failOn   string
}

func (f *fakeWorkspace) ListMovies(ctx context.Context) ([]models.MovieRecord, error) {
	return f.existing, nil
}

func (f *fakeWorkspace) Delete(ctx context.Context, record models.MovieRecord) error {
	f.calls = append(f.calls, "delete:"+record.Title)
	if record.Title == f.failOn {
		return assert.AnError
	}
	return nil
}

func (f *fakeWorkspace) Insert(ctx context.Context, record models.MovieRecord) error {
	f.calls = append(f.calls, "insert:"+record.Title)
	if record.Title == f.failOn {
		return assert.AnError
	}
	return nil
}

func record(title, workspaceID string) models.MovieRecord {
	return models.MovieRecord{
		Title:          title,
		Runtime:        "1:42",
		Location:       "Netflix",
		Year:           2022,
		LetterboxdID:   title,
		LetterboxdLink: "https://letterboxd.com/film/" + title + "/",
		WorkspaceID:    workspaceID,
	}
}

func newTestService(source *fakeSource, workspace *fakeWorkspace) *Service {
	return NewService(source, workspace, DestinationNotion, nil, zap.NewNop())
}

func TestPlan_IdentityIgnoresWorkspaceID(t *testing.T) {
	// A persisted record differing from the fresh one only by workspace id
	// must be kept, not deleted and re-added.
	source := &fakeSource{records: []models.MovieRecord{
		record("Aftersun", ""),
		record("Causeway", ""),
	}}
	workspace := &fakeWorkspace{existing: []models.MovieRecord{
		record("Aftersun", "page-1"),
		record("To Leslie", "page-2"),
	}}

	plan, err := newTestService(source, workspace).Plan(context.Background())
	require.NoError(t, err)

	require.Len(t, plan.Keep, 1)
	assert.Equal(t, "Aftersun", plan.Keep[0].Title)
	assert.Equal(t, "page-1", plan.Keep[0].WorkspaceID)

	require.Len(t, plan.Delete, 1)
	assert.Equal(t, "To Leslie", plan.Delete[0].Title)

	require.Len(t, plan.Add, 1)
	assert.Equal(t, "Causeway", plan.Add[0].Title)
}

func TestRun_DryRunMutatesNothing(t *testing.T) {
	source := &fakeSource{records: []models.MovieRecord{record("Causeway", "")}}
	workspace := &fakeWorkspace{existing: []models.MovieRecord{record("To Leslie", "page-2")}}

	report, err := newTestService(source, workspace).Run(context.Background(), reconcile.Options{DryRun: true, Confirmed: true})
	require.NoError(t, err)

	assert.Empty(t, workspace.calls)
	assert.True(t, report.DryRun)
	assert.Equal(t, 0, report.Executed)
	assert.Equal(t, 1, report.Summary.Deleted)
	assert.Equal(t, 1, report.Summary.Added)
}

func TestRun_UnconfirmedMutatesNothing(t *testing.T) {
	source := &fakeSource{records: []models.MovieRecord{record("Causeway", "")}}
	workspace := &fakeWorkspace{existing: []models.MovieRecord{record("To Leslie", "page-2")}}

	report, err := newTestService(source, workspace).Run(context.Background(), reconcile.Options{})
	require.NoError(t, err)
	assert.Empty(t, workspace.calls)
	assert.True(t, report.DryRun)
}

func TestRun_DeletesBeforeInserts(t *testing.T) {
	source := &fakeSource{records: []models.MovieRecord{
		record("Aftersun", ""),
		record("Causeway", ""),
	}}
	workspace := &fakeWorkspace{existing: []models.MovieRecord{
		record("Aftersun", "page-1"),
		record("To Leslie", "page-2"),
	}}

	report, err := newTestService(source, workspace).Run(context.Background(), reconcile.Options{Confirmed: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"delete:To Leslie", "insert:Causeway"}, workspace.calls)
	assert.Equal(t, 2, report.Executed)
	assert.False(t, report.DryRun)
	assert.Equal(t, 1, report.Summary.Kept)

	// Steps were timed in pipeline order.
	var steps []string
	for _, s := range report.Steps {
		steps = append(steps, s.Step)
	}
	assert.Equal(t, []string{"fetch_fresh", "list_existing", "apply"}, steps)
}

func TestRun_MissingWorkspaceIDAborts(t *testing.T) {
	// A stale record read back without its workspace id must stop the run
	// before any mutation is issued.
	source := &fakeSource{records: []models.MovieRecord{record("Aftersun", "")}}
	workspace := &fakeWorkspace{existing: []models.MovieRecord{record("To Leslie", "")}}

	_, err := newTestService(source, workspace).Run(context.Background(), reconcile.Options{Confirmed: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "precondition failed")
	assert.Empty(t, workspace.calls)
}

func TestRun_DeleteErrorAbortsPhase(t *testing.T) {
	source := &fakeSource{records: []models.MovieRecord{record("Causeway", "")}}
	workspace := &fakeWorkspace{
		existing: []models.MovieRecord{record("To Leslie", "page-2")},
		failOn:   "To Leslie",
	}

	report, err := newTestService(source, workspace).Run(context.Background(), reconcile.Options{Confirmed: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete phase aborted")
	// The failed deletion was the only call; no insertion ran.
	assert.Equal(t, []string{"delete:To Leslie"}, workspace.calls)
	require.NotNil(t, report)
	assert.Equal(t, 0, report.Executed)
}

func TestApply_ExecutesTheReviewedPlan(t *testing.T) {
	source := &fakeSource{records: []models.MovieRecord{record("Causeway", "")}}
	workspace := &fakeWorkspace{existing: []models.MovieRecord{record("To Leslie", "page-2")}}
	service := newTestService(source, workspace)

	plan, err := service.Plan(context.Background())
	require.NoError(t, err)

	// The watchlist and the workspace both change between review and apply.
	// The mutations must still come from the reviewed plan, not a recomputed
	// one.
	source.records = []models.MovieRecord{record("Navalny", "")}
	workspace.existing = []models.MovieRecord{
		record("To Leslie", "page-2"),
		record("Aftersun", "page-3"),
	}

	report, err := service.Apply(context.Background(), plan, reconcile.Options{Confirmed: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"delete:To Leslie", "insert:Causeway"}, workspace.calls)
	assert.Equal(t, 2, report.Executed)
	assert.Equal(t, plan.Summary, report.Summary)
}

func TestApply_MissingWorkspaceIDAborts(t *testing.T) {
	workspace := &fakeWorkspace{}
	service := newTestService(&fakeSource{}, workspace)

	plan := reconcile.BuildPlan(
		[]models.MovieRecord{record("To Leslie", "")},
		nil,
		models.MovieRecord.IdentityKey,
	)

	_, err := service.Apply(context.Background(), plan, reconcile.Options{Confirmed: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "precondition failed")
	assert.Empty(t, workspace.calls)
}

func TestApply_DryRunMutatesNothing(t *testing.T) {
	workspace := &fakeWorkspace{}
	service := newTestService(&fakeSource{}, workspace)

	plan := reconcile.BuildPlan(
		[]models.MovieRecord{record("To Leslie", "page-2")},
		[]models.MovieRecord{record("Causeway", "")},
		models.MovieRecord.IdentityKey,
	)

	report, err := service.Apply(context.Background(), plan, reconcile.Options{DryRun: true, Confirmed: true})
	require.NoError(t, err)
	assert.Empty(t, workspace.calls)
	assert.True(t, report.DryRun)
	assert.Equal(t, 0, report.Executed)
}

func TestRun_SourceErrorSurfaces(t *testing.T) {
	source := &fakeSource{err: assert.AnError}
	workspace := &fakeWorkspace{}

	_, err := newTestService(source, workspace).Run(context.Background(), reconcile.Options{Confirmed: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch fresh records")
	assert.Empty(t, workspace.calls)
}

func TestArchiver(t *testing.T) {
	report := &Report{
		StartedAt:   time.Date(2023, 2, 4, 12, 30, 0, 0, time.UTC),
		Destination: DestinationNotion,
	}

	t.Run("Creates Missing Bucket", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "watchsync-reports").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "watchsync-reports", mock.Anything).Return(nil)
		client.On("PutObject", mock.Anything, "watchsync-reports", "reports/sync-20230204-123000.json",
			mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

		archiver := NewArchiver(client, "watchsync-reports", zap.NewNop())
		require.NoError(t, archiver.Archive(context.Background(), report))
		client.AssertExpectations(t)
	})

	t.Run("Existing Bucket", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "watchsync-reports").Return(true, nil)
		client.On("PutObject", mock.Anything, "watchsync-reports", mock.Anything,
			mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

		archiver := NewArchiver(client, "watchsync-reports", zap.NewNop())
		require.NoError(t, archiver.Archive(context.Background(), report))
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Bucket Check Error", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "watchsync-reports").Return(false, assert.AnError)

		archiver := NewArchiver(client, "watchsync-reports", zap.NewNop())
		assert.Error(t, archiver.Archive(context.Background(), report))
	})
}

func TestArchiverListReports(t *testing.T) {
	t.Run("Missing Bucket Reads Empty", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "watchsync-reports").Return(false, nil)

		archiver := NewArchiver(client, "watchsync-reports", zap.NewNop())
		names, err := archiver.ListReports(context.Background())
		require.NoError(t, err)
		assert.Empty(t, names)
		client.AssertNotCalled(t, "ListObjects", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Strips Prefix", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "watchsync-reports").Return(true, nil)
		client.On("ListObjects", mock.Anything, "watchsync-reports", mock.Anything).Return(
			func(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
				ch := make(chan minio.ObjectInfo, 2)
				ch <- minio.ObjectInfo{Key: "reports/sync-20230204-123000.json"}
				ch <- minio.ObjectInfo{Key: "reports/sync-20230211-090000.json"}
				close(ch)
				return ch
			})

		archiver := NewArchiver(client, "watchsync-reports", zap.NewNop())
		names, err := archiver.ListReports(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"sync-20230204-123000.json", "sync-20230211-090000.json"}, names)
	})

	t.Run("Object Error Surfaces", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "watchsync-reports").Return(true, nil)
		client.On("ListObjects", mock.Anything, "watchsync-reports", mock.Anything).Return(
			func(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
				ch := make(chan minio.ObjectInfo, 1)
				ch <- minio.ObjectInfo{Err: assert.AnError}
				close(ch)
				return ch
			})

		archiver := NewArchiver(client, "watchsync-reports", zap.NewNop())
		_, err := archiver.ListReports(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "list reports")
	})
}

func TestArchiverGetReport(t *testing.T) {
	stored := &Report{
		StartedAt:   time.Date(2023, 2, 4, 12, 30, 0, 0, time.UTC),
		Destination: DestinationNotion,
		Executed:    3,
	}
	encoded, err := json.Marshal(stored)
	require.NoError(t, err)

	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, "watchsync-reports", "reports/sync-20230204-123000.json",
		mock.Anything).Return(io.NopCloser(bytes.NewReader(encoded)), nil)

	archiver := NewArchiver(client, "watchsync-reports", zap.NewNop())
	report, err := archiver.GetReport(context.Background(), "sync-20230204-123000.json")
	require.NoError(t, err)
	assert.Equal(t, DestinationNotion, report.Destination)
	assert.Equal(t, 3, report.Executed)
	assert.True(t, stored.StartedAt.Equal(report.StartedAt))
}

func TestReports_ArchivingDisabled(t *testing.T) {
	service := newTestService(&fakeSource{}, &fakeWorkspace{})

	_, err := service.ListReports(context.Background())
	assert.ErrorIs(t, err, ErrArchivingDisabled)

	_, err = service.GetReport(context.Background(), "sync-20230204-123000.json")
	assert.ErrorIs(t, err, ErrArchivingDisabled)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, Config{Destination: DestinationNotion}.Validate())
	assert.NoError(t, Config{Destination: DestinationDatabase}.Validate())
	assert.Error(t, Config{Destination: "filesystem"}.Validate())
	assert.Error(t, Config{}.Validate())
}
