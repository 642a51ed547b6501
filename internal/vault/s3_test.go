package vault

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"nn-go/internal/nn"
)

// fakeS3 is an in-memory bucket. Only single-part uploads are supported,
// which is all the backups in these tests need.
type fakeS3 struct {
	mu      sync.Mutex
	bucket  string
	objects map[string][]byte
}

func newFakeS3(bucket string) *fakeS3 {
	return &fakeS3{bucket: bucket, objects: make(map[string][]byte)}
}

var errMultipart = errors.New("multipart upload not supported by fake")

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) UploadPart(context.Context, *s3.UploadPartInput, ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	return nil, errMultipart
}

func (f *fakeS3) CreateMultipartUpload(context.Context, *s3.CreateMultipartUploadInput, ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	return nil, errMultipart
}

func (f *fakeS3) CompleteMultipartUpload(context.Context, *s3.CompleteMultipartUploadInput, ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	return nil, errMultipart
}

func (f *fakeS3) AbortMultipartUpload(context.Context, *s3.AbortMultipartUploadInput, ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return &s3.AbortMultipartUploadOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("no such key")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := &s3.ListObjectsV2Output{}
	modified := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for k, v := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			out.Contents = append(out.Contents, types.Object{
				Key:          aws.String(k),
				Size:         aws.Int64(int64(len(v))),
				LastModified: aws.Time(modified),
			})
		}
	}
	return out, nil
}

func (f *fakeS3) HeadBucket(_ context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if aws.ToString(in.Bucket) != f.bucket {
		return nil, &types.NotFound{}
	}
	return &s3.HeadBucketOutput{}, nil
}

func TestS3Vault(t *testing.T) {
	testVaultContract(t, func(t *testing.T) nn.Vault {
		return newS3Vault("test", "notes", "nn/", newFakeS3("notes"))
	})
}

func TestS3Vault_KeysLiveUnderPrefix(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3("notes")
	v := newS3Vault("test", "notes", "/team/laptop/", fake)

	if err := v.PutBackup(ctx, "b.nnbackup.age", bytes.NewReader([]byte("xyz")), 3); err != nil {
		t.Fatalf("PutBackup() error = %v", err)
	}
	if _, ok := fake.objects["team/laptop/backups/b.nnbackup.age"]; !ok {
		t.Errorf("object keys = %v, want team/laptop/backups/b.nnbackup.age", fake.objects)
	}

	// Objects outside the backups prefix are not listed.
	fake.objects["team/laptop/other/x"] = []byte("x")
	got, err := v.ListBackups(ctx)
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "b.nnbackup.age" || got[0].Size != 3 {
		t.Errorf("ListBackups() = %+v", got)
	}
}

func TestS3Vault_ValidateSetup_WrongBucket(t *testing.T) {
	v := newS3Vault("test", "missing", "", newFakeS3("notes"))
	if err := v.ValidateSetup(context.Background()); err == nil {
		t.Error("ValidateSetup() should fail for an unknown bucket")
	}
}
