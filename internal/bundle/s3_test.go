package bundle

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockUploader struct {
	uploads []mockUpload
}

type mockUpload struct {
	bucket      string
	key         string
	body        []byte
	contentType string
}

func (m *mockUploader) Upload(_ context.Context, input *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	body, _ := io.ReadAll(input.Body)
	up := mockUpload{bucket: *input.Bucket, key: *input.Key, body: body}
	if input.ContentType != nil {
		up.contentType = *input.ContentType
	}
	m.uploads = append(m.uploads, up)
	return &manager.UploadOutput{}, nil
}

func TestS3Sink_Name(t *testing.T) {
	sink := NewS3SinkWithUploader("my-bucket", "", &mockUploader{})
	assert.Equal(t, "s3(my-bucket)", sink.Name())

	sink = NewS3SinkWithUploader("my-bucket", "releases/v2", &mockUploader{})
	assert.Equal(t, "s3(my-bucket/releases/v2)", sink.Name())
}

func TestS3Sink_WriteJoinsKeyPrefix(t *testing.T) {
	uploader := &mockUploader{}
	sink := NewS3SinkWithUploader("bucket", "nightly", uploader)

	err := sink.Write(t.Context(), "app.tar.zst", bytes.NewReader([]byte("archive bytes")))
	require.NoError(t, err)

	require.Len(t, uploader.uploads, 1)
	up := uploader.uploads[0]
	assert.Equal(t, "bucket", up.bucket)
	assert.Equal(t, "nightly/app.tar.zst", up.key)
	assert.Equal(t, "application/zstd", up.contentType)
	assert.Equal(t, "archive bytes", string(up.body))
}

func TestContentTypeFromPath(t *testing.T) {
	tests := map[string]string{
		"a.tar.gz": "application/gzip",
		"a.tar.xz": "application/x-xz",
		"a.zip":    "application/zip",
		"a.json":   "application/json",
		"a.bin":    "",
	}
	for p, want := range tests {
		assert.Equal(t, want, contentTypeFromPath(p), p)
	}
}
