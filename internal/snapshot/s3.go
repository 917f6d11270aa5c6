// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/sheetwatch/sheetwatch/internal/failure"
	"github.com/sheetwatch/sheetwatch/internal/log"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	metaDigest      = "digest"
	metaSavedAt     = "saved-at"
)

// S3 keeps the snapshot as a single object.
type S3 struct {
	client *s3v2.Client
	bucket string
	key    string
}

// NewS3 returns an S3 store for bucket/key.
func NewS3(client *s3v2.Client, bucket, key string) *S3 {
	return &S3{client: client, bucket: bucket, key: key}
}

func (s *S3) Driver() Driver   { return DriverS3 }
func (s *S3) Location() string { return "s3://" + s.bucket + "/" + s.key }

// Load fetches the object. NoSuchKey and 404 are reported as absent.
func (s *S3) Load(ctx context.Context) ([]byte, bool, error) {
	out, err := s.client.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(s.bucket),
		Key:    awsv2.String(s.key),
	})
	if isNotFound(err) {
		log.Debugf("no snapshot at %s", s.Location())
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: failed to get %s: %w", failure.ErrStorage, s.Location(), err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, false, fmt.Errorf("%w: failed to read %s: %w", failure.ErrStorage, s.Location(), err)
	}
	return data, true, nil
}

// Save overwrites the object and records digest and save time as metadata.
func (s *S3) Save(ctx context.Context, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3v2.PutObjectInput{
		Bucket:        awsv2.String(s.bucket),
		Key:           awsv2.String(s.key),
		Body:          bytes.NewReader(data),
		ContentLength: awsv2.Int64(int64(len(data))),
		ContentType:   awsv2.String(xlsxContentType),
		Metadata: map[string]string{
			metaDigest:  Digest(data),
			metaSavedAt: time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("%w: failed to put %s: %w", failure.ErrStorage, s.Location(), err)
	}
	log.Debugf("snapshot written: location=%s size=%d", s.Location(), len(data))
	return nil
}

// Stat heads the object.
func (s *S3) Stat(ctx context.Context) (Info, bool, error) {
	out, err := s.client.HeadObject(ctx, &s3v2.HeadObjectInput{
		Bucket: awsv2.String(s.bucket),
		Key:    awsv2.String(s.key),
	})
	if isNotFound(err) {
		return Info{}, false, nil
	}
	if err != nil {
		return Info{}, false, fmt.Errorf("%w: failed to head %s: %w", failure.ErrStorage, s.Location(), err)
	}

	info := Info{
		Driver:   DriverS3,
		Location: s.Location(),
		Size:     awsv2.ToInt64(out.ContentLength),
		Digest:   out.Metadata[metaDigest],
		SavedAt:  awsv2.ToTime(out.LastModified).UTC(),
	}
	if t, err := time.Parse(time.RFC3339, out.Metadata[metaSavedAt]); err == nil {
		info.SavedAt = t.UTC()
	}
	return info, true, nil
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}
