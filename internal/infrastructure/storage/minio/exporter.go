package minio

import (
	"context"
	"path"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/turtacn/drugkit/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/drugkit/pkg/errors"
)

// SDFContentType is the MIME type attached to uploaded SDF files.
const SDFContentType = "chemical/x-mdl-sdfile"

// ExportedObject describes one uploaded file.
type ExportedObject struct {
	Bucket     string
	ObjectKey  string
	ETag       string
	Size       int64
	UploadedAt time.Time
}

// Exporter uploads run outputs to an S3-compatible bucket under
// "<prefix>/<runID>/<file name>".
type Exporter struct {
	api    MinIOAPI
	bucket string
	prefix string
	region string
	logger logging.Logger
}

// NewExporter wraps api.
func NewExporter(api MinIOAPI, cfg MinIOConfig, log logging.Logger) *Exporter {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Exporter{api: api, bucket: cfg.Bucket, prefix: cfg.Prefix, region: cfg.Region, logger: log}
}

// ObjectKey returns the key under which localPath is stored for runID.
func (e *Exporter) ObjectKey(runID, localPath string) string {
	return path.Join(e.prefix, runID, filepath.Base(localPath))
}

// EnsureBucket creates the target bucket when it does not exist.
func (e *Exporter) EnsureBucket(ctx context.Context) error {
	exists, err := e.api.BucketExists(ctx, e.bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExport, "failed to check bucket").WithDetail(e.bucket)
	}
	if exists {
		return nil
	}
	if err := e.api.MakeBucket(ctx, e.bucket, minio.MakeBucketOptions{Region: e.region}); err != nil {
		return errors.Wrap(err, errors.ErrCodeExport, "failed to create bucket").WithDetail(e.bucket)
	}
	e.logger.Info("created export bucket", logging.String("bucket", e.bucket))
	return nil
}

// Export uploads every file in paths.  The first failure aborts the export;
// objects uploaded before it are kept.
func (e *Exporter) Export(ctx context.Context, runID string, paths []string) ([]ExportedObject, error) {
	if err := e.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	out := make([]ExportedObject, 0, len(paths))
	for _, p := range paths {
		key := e.ObjectKey(runID, p)
		info, err := e.api.FPutObject(ctx, e.bucket, key, p, minio.PutObjectOptions{
			ContentType:  SDFContentType,
			UserMetadata: map[string]string{"run-id": runID},
		})
		if err != nil {
			return out, errors.Wrap(err, errors.ErrCodeExport, "upload failed").WithDetail(p)
		}
		e.logger.Debug("exported output",
			logging.String("bucket", e.bucket),
			logging.String("key", key),
			logging.Int64("size", info.Size))
		out = append(out, ExportedObject{
			Bucket:     e.bucket,
			ObjectKey:  key,
			ETag:       info.ETag,
			Size:       info.Size,
			UploadedAt: time.Now(),
		})
	}
	return out, nil
}

//Personal.AI order the ending
