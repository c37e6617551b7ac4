package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/avolkov/accountsvc/internal/common"
)

func TestUpload_Validate(t *testing.T) {
	tests := []struct {
		name    string
		upload  Upload
		wantErr error
	}{
		{
			name:   "valid png",
			upload: Upload{Data: []byte("img"), MimeType: "image/png", Size: 3},
		},
		{
			name:   "valid webp",
			upload: Upload{Data: []byte("img"), MimeType: "image/webp", Size: 3},
		},
		{
			name:    "too large by header",
			upload:  Upload{Data: []byte("img"), MimeType: "image/png", Size: MaxUploadSize + 1},
			wantErr: common.ErrFileTooLarge,
		},
		{
			name:    "too large by data",
			upload:  Upload{Data: make([]byte, MaxUploadSize+1), MimeType: "image/png", Size: 0},
			wantErr: common.ErrFileTooLarge,
		},
		{
			name:    "unsupported mime",
			upload:  Upload{Data: []byte("%PDF"), MimeType: "application/pdf", Size: 4},
			wantErr: common.ErrUnsupportedFile,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.upload.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestStorageKey_Layout(t *testing.T) {
	key := storageKey()
	matched, err := regexp.MatchString(`^avatars/\d{4}/\d{1,2}/\d{1,2}/[0-9a-f-]{36}$`, key)
	if err != nil {
		t.Fatalf("regexp error: %v", err)
	}
	if !matched {
		t.Fatalf("unexpected key layout: %q", key)
	}
	if key == storageKey() {
		t.Fatal("keys must be unique")
	}
}

func TestS3Store_Store(t *testing.T) {
	var gotInput *s3.PutObjectInput

	origNew := newS3ClientFromConfig
	origPut := putObject
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		gotInput = in
		return &s3.PutObjectOutput{}, nil
	}
	defer func() {
		newS3ClientFromConfig = origNew
		putObject = origPut
	}()

	store := NewS3Store("admin", "secret", "avatars", "us-east-1", "http://127.0.0.1:9000/")

	url, err := store.Store(context.Background(), []byte("img-bytes"), "image/png")
	if err != nil {
		t.Fatalf("Store error: %v", err)
	}

	if *gotInput.Bucket != "avatars" {
		t.Fatalf("unexpected bucket: %s", *gotInput.Bucket)
	}
	if *gotInput.ContentType != "image/png" {
		t.Fatalf("unexpected content type: %s", *gotInput.ContentType)
	}
	body, err := io.ReadAll(gotInput.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !bytes.Equal(body, []byte("img-bytes")) {
		t.Fatalf("unexpected body: %q", body)
	}
	if !strings.HasPrefix(url, "http://127.0.0.1:9000/avatars/avatars/") {
		t.Fatalf("unexpected url: %s", url)
	}
	if !strings.HasSuffix(url, *gotInput.Key) {
		t.Fatalf("url %q does not end with key %q", url, *gotInput.Key)
	}
}

func TestS3Store_PutError(t *testing.T) {
	origNew := newS3ClientFromConfig
	origPut := putObject
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return nil, errors.New("bucket missing")
	}
	defer func() {
		newS3ClientFromConfig = origNew
		putObject = origPut
	}()

	store := NewS3Store("admin", "secret", "avatars", "us-east-1", "http://127.0.0.1:9000/")

	_, err := store.Store(context.Background(), []byte("x"), "image/png")
	if err == nil || !strings.Contains(err.Error(), "media store error") {
		t.Fatalf("expected wrapped media store error, got %v", err)
	}
}
