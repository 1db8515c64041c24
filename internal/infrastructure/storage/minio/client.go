package minio

import (
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/turtacn/drugkit/pkg/errors"
)

// MinIOAPI is the subset of *minio.Client used by drugkit.  Tests substitute
// a mock.
type MinIOAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// MinIOConfig holds the connection parameters of the export target.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
	Bucket    string
	Prefix    string
}

// NewMinIOClient builds a client for cfg.  No request is issued until the
// first call.
func NewMinIOClient(cfg MinIOConfig) (MinIOAPI, error) {
	if cfg.Endpoint == "" {
		return nil, errors.InvalidParam("minio endpoint is required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExport, "failed to create minio client")
	}
	return client, nil
}

//Personal.AI order the ending
