package sync

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"watchsync/core/reconcile"
	"watchsync/core/storage"
)

// StepTiming records how long one phase of a run took.
type StepTiming struct {
	Step     string        `json:"step"`
	Duration time.Duration `json:"duration"`
}

// Report is the outcome of one sync run.
type Report struct {
	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`
	// Destination names the workspace driver the run targeted.
	Destination string `json:"destination"`
	// DryRun reports whether mutations were suppressed.
	DryRun bool `json:"dry_run"`
	// Summary carries the plan's partition counts.
	Summary reconcile.Summary `json:"summary"`
	// Executed is the number of mutations actually issued.
	Executed int `json:"executed"`
	// Steps holds per-phase timings in execution order.
	Steps []StepTiming `json:"steps"`
}

// reportPrefix namespaces archived reports within the bucket.
const reportPrefix = "reports/"

// Archiver uploads sync reports to object storage.
type Archiver struct {
	client storage.Client
	bucket string
	log    *zap.Logger
}

// NewArchiver creates an archiver writing into the given bucket.
func NewArchiver(client storage.Client, bucket string, log *zap.Logger) *Archiver {
	return &Archiver{client: client, bucket: bucket, log: log}
}

// Archive uploads one report as JSON, creating the bucket on first use.
// The object name is derived from the run's start time.
func (a *Archiver) Archive(ctx context.Context, report *Report) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("check report bucket: %w", err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create report bucket: %w", err)
		}
	}

	encoded, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	name := reportPrefix + "sync-" + report.StartedAt.UTC().Format("20060102-150405") + ".json"
	_, err = a.client.PutObject(ctx, a.bucket, name, bytes.NewReader(encoded), int64(len(encoded)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("upload report: %w", err)
	}

	a.log.Info("archived sync report",
		zap.String("bucket", a.bucket),
		zap.String("object", name))
	return nil
}

// ListReports returns the names of all archived reports, without the
// reports/ prefix. A missing bucket reads as no reports.
func (a *Archiver) ListReports(ctx context.Context) ([]string, error) {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return nil, fmt.Errorf("check report bucket: %w", err)
	}
	if !exists {
		return nil, nil
	}

	var names []string
	objects := a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{
		Prefix:    reportPrefix,
		Recursive: true,
	})
	for object := range objects {
		if object.Err != nil {
			return nil, fmt.Errorf("list reports: %w", object.Err)
		}
		names = append(names, strings.TrimPrefix(object.Key, reportPrefix))
	}
	return names, nil
}

// GetReport reads one archived report back by the name ListReports returned.
func (a *Archiver) GetReport(ctx context.Context, name string) (*Report, error) {
	object, err := a.client.GetObject(ctx, a.bucket, reportPrefix+name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetch report %s: %w", name, err)
	}
	defer object.Close()

	raw, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", name, err)
	}

	var report Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", name, err)
	}
	return &report, nil
}
