package bundle

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	v1 "github.com/assetkit/assetkit/apis/v1"
)

// Uploader is the slice of the S3 transfer manager the sink needs; tests
// substitute a recorder.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Sink ships bundle files to S3-compatible object storage.
type S3Sink struct {
	bucket    string
	keyPrefix string
	uploader  Uploader
}

// NewS3Sink builds a sink from the manifest's upload spec.
func NewS3Sink(ctx context.Context, spec v1.S3Spec) (*S3Sink, error) {
	var opts []func(*config.LoadOptions) error

	if spec.Region != "" {
		opts = append(opts, config.WithRegion(spec.Region))
	}
	if spec.AccessKeyID != "" && spec.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(spec.AccessKeyID, spec.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if spec.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(spec.Endpoint)
		})
	}
	if spec.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Opts...)

	return NewS3SinkWithUploader(spec.Bucket, spec.KeyPrefix, manager.NewUploader(client)), nil
}

// NewS3SinkWithUploader wires a custom uploader, for tests.
func NewS3SinkWithUploader(bucket, keyPrefix string, uploader Uploader) *S3Sink {
	return &S3Sink{bucket: bucket, keyPrefix: keyPrefix, uploader: uploader}
}

func (s *S3Sink) Name() string {
	if s.keyPrefix != "" {
		return fmt.Sprintf("s3(%s/%s)", s.bucket, s.keyPrefix)
	}
	return fmt.Sprintf("s3(%s)", s.bucket)
}

func (s *S3Sink) Write(ctx context.Context, objectPath string, data io.Reader) error {
	key := objectPath
	if s.keyPrefix != "" {
		key = path.Join(s.keyPrefix, objectPath)
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   data,
	}
	if contentType := contentTypeFromPath(objectPath); contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return fmt.Errorf("upload to s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}

func (s *S3Sink) Close(context.Context) error {
	return nil
}

// contentTypeFromPath maps a file extension to the Content-Type set on
// the uploaded object.
func contentTypeFromPath(p string) string {
	switch path.Ext(p) {
	case ".json":
		return "application/json"
	case ".yaml", ".yml":
		return "application/x-yaml"
	case ".txt":
		return "text/plain"
	case ".tar":
		return "application/x-tar"
	case ".gz":
		return "application/gzip"
	case ".xz":
		return "application/x-xz"
	case ".zst":
		return "application/zstd"
	case ".zip":
		return "application/zip"
	default:
		return ""
	}
}
