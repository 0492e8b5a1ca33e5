package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	headErr    error
	size       int64
	deletedKey string
}

func (f *fakeS3) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	return &s3.HeadObjectOutput{ContentLength: aws.Int64(f.size)}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletedKey = aws.ToString(in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

type fakePresigner struct {
	lastKey         string
	lastContentType string
}

func (f *fakePresigner) PresignPutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.lastKey = aws.ToString(in.Key)
	f.lastContentType = aws.ToString(in.ContentType)
	return &v4.PresignedHTTPRequest{URL: "https://bucket.s3/put/" + f.lastKey, Method: "PUT"}, nil
}

func (f *fakePresigner) PresignGetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.lastKey = aws.ToString(in.Key)
	return &v4.PresignedHTTPRequest{URL: "https://bucket.s3/get/" + f.lastKey, Method: "GET"}, nil
}

func TestS3Storage_Presign(t *testing.T) {
	p := &fakePresigner{}
	s := &S3Storage{client: &fakeS3{}, presign: p, bucket: "docs"}

	u, err := s.GeneratePresignedUploadURL(context.Background(), "esg_report/1/r.pdf", "application/pdf", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.s3/put/esg_report/1/r.pdf", u)
	assert.Equal(t, "application/pdf", p.lastContentType)

	u, err = s.GeneratePresignedDownloadURL(context.Background(), "esg_report/1/r.pdf", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.s3/get/esg_report/1/r.pdf", u)

	_, err = s.GeneratePresignedUploadURL(context.Background(), "../x", "text/plain", time.Minute)
	assert.Error(t, err)
}

func TestS3Storage_FileExists(t *testing.T) {
	s := &S3Storage{client: &fakeS3{size: 42}, presign: &fakePresigner{}, bucket: "docs"}
	ok, size, err := s.FileExists(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(42), size)

	s.client = &fakeS3{headErr: &types.NotFound{}}
	ok, _, err = s.FileExists(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)

	s.client = &fakeS3{headErr: errors.New("throttled")}
	_, _, err = s.FileExists(context.Background(), "k")
	assert.Error(t, err)
}

func TestS3Storage_DeleteFile(t *testing.T) {
	f := &fakeS3{}
	s := &S3Storage{client: f, presign: &fakePresigner{}, bucket: "docs"}
	require.NoError(t, s.DeleteFile(context.Background(), "k/1"))
	assert.Equal(t, "k/1", f.deletedKey)
}
