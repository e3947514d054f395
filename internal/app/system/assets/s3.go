// internal/app/system/assets/s3.go
package assets

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// putObjectAPI is the part of the S3 client the uploader needs.
type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 stores photos in a bucket served from PublicBaseURL (the bucket's
// website endpoint or a CDN in front of it).
type S3 struct {
	api           putObjectAPI
	Bucket        string
	Prefix        string
	PublicBaseURL string
	MaxBytes      int64
	Log           *zap.Logger

	now func() time.Time
}

// S3Config configures NewS3.
type S3Config struct {
	Region        string
	Bucket        string
	Prefix        string
	PublicBaseURL string
	MaxBytes      int64
}

// NewS3 builds an uploader using the default AWS credential chain.
func NewS3(ctx context.Context, cfg S3Config, logger *zap.Logger) (*S3, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newS3(s3.NewFromConfig(awsCfg), cfg, logger), nil
}

func newS3(api putObjectAPI, cfg S3Config, logger *zap.Logger) *S3 {
	if logger == nil {
		logger = zap.NewNop()
	}
	prefix := strings.Trim(cfg.Prefix, "/")
	if prefix == "" {
		prefix = "photos"
	}
	return &S3{
		api:           api,
		Bucket:        cfg.Bucket,
		Prefix:        prefix,
		PublicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		MaxBytes:      cfg.MaxBytes,
		Log:           logger,
		now:           time.Now,
	}
}

// Upload puts the photo under <prefix>/YYYY/MM/<uuid>-<name> and returns
// its public URL.
func (u *S3) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	im, err := readImage(r, u.MaxBytes)
	if err != nil {
		return "", err
	}

	key := u.objectKey(filename, im.ext)
	_, err = u.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.Bucket),
		Key:           aws.String(key),
		Body:          im.reader(),
		ContentType:   aws.String(im.contentType),
		ContentLength: aws.Int64(int64(len(im.data))),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		u.Log.Warn("s3 photo upload failed",
			zap.String("bucket", u.Bucket), zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("s3: put %s: %w", key, err)
	}
	return u.PublicBaseURL + "/" + key, nil
}

func (u *S3) objectKey(filename, ext string) string {
	t := u.now().UTC()
	return fmt.Sprintf("%s/%04d/%02d/%s-%s",
		u.Prefix, t.Year(), int(t.Month()), uuid.NewString(), cleanName(filename, ext))
}
