package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"ImageLibrary/internal/cli/model"
	"ImageLibrary/internal/cli/store"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	bucket, key, contentType string
	body                     []byte
	err                      error
}

func (f *fakePutter) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.err != nil {
		return minio.UploadInfo{}, f.err
	}
	b, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	if int64(len(b)) != objectSize {
		return minio.UploadInfo{}, errors.New("size mismatch")
	}
	f.bucket, f.key, f.contentType, f.body = bucketName, objectName, opts.ContentType, b
	return minio.UploadInfo{Bucket: bucketName, Key: objectName, Size: objectSize}, nil
}

func TestBuildManifest_NoFileBytesAndNoNulls(t *testing.T) {
	recs := []model.ImageRecord{stagedRecord(-1, "a"), persistedRecord(2, "b")}
	m := BuildManifest(recs, store.Stats{Total: 2, Pending: 1}, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 2, m.Count)
	assert.Equal(t, "2024-01-01T00:00:00Z", m.GeneratedAt)

	var buf bytes.Buffer
	require.NoError(t, WriteManifest(&buf, m))
	out := buf.String()
	assert.NotContains(t, out, "null")
	assert.Contains(t, out, `"pending": 1`)
	assert.NotContains(t, out, `"data"`)
}

func TestUploadManifest(t *testing.T) {
	m := BuildManifest([]model.ImageRecord{persistedRecord(1, "a")}, store.Stats{Total: 1}, time.Now())
	p := &fakePutter{}

	key, err := UploadManifest(context.Background(), p, "assets", "", m)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "exports/library-"))
	assert.Equal(t, "assets", p.bucket)
	assert.Equal(t, "application/json", p.contentType)
	var back Manifest
	require.NoError(t, json.Unmarshal(p.body, &back))
	assert.Equal(t, 1, back.Count)

	key, err = UploadManifest(context.Background(), p, "assets", "/custom/x.json", m)
	require.NoError(t, err)
	assert.Equal(t, "custom/x.json", key)

	p.err = errors.New("access denied")
	_, err = UploadManifest(context.Background(), p, "assets", "k", m)
	assert.ErrorContains(t, err, "access denied")
}

func TestNewS3Client(t *testing.T) {
	_, err := NewS3Client(S3Config{})
	assert.Error(t, err)
	c, err := NewS3Client(S3Config{Endpoint: "localhost:9000", Bucket: "b", AccessKey: "k", SecretKey: "s"})
	require.NoError(t, err)
	var _ ObjectPutter = c
}
