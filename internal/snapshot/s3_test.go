// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package snapshot

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheetwatch/sheetwatch/internal/failure"
)

type fakeObject struct {
	body []byte
	meta http.Header
}

// fakeS3 answers path-style HEAD, GET and PUT requests from memory.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]fakeObject
	status  int
	auth    []string
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.auth = append(f.auth, req.Header.Get("Authorization"))
	if f.status != 0 {
		return respond(f.status, nil, nil), nil
	}

	key := strings.TrimPrefix(req.URL.Path, "/")
	switch req.Method {
	case http.MethodPut:
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		if strings.Contains(req.Header.Get("Content-Encoding"), "aws-chunked") {
			body = dechunk(body)
		}
		meta := http.Header{}
		for k, v := range req.Header {
			if strings.HasPrefix(strings.ToLower(k), "x-amz-meta-") {
				meta[k] = v
			}
		}
		f.objects[key] = fakeObject{body: body, meta: meta}
		return respond(http.StatusOK, nil, http.Header{"Etag": {`"etag"`}}), nil
	case http.MethodGet, http.MethodHead:
		obj, ok := f.objects[key]
		if !ok {
			return respond(http.StatusNotFound, nil, nil), nil
		}
		h := obj.meta.Clone()
		h.Set("Content-Length", strconv.Itoa(len(obj.body)))
		h.Set("Last-Modified", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC).Format(http.TimeFormat))
		if req.Method == http.MethodHead {
			return respond(http.StatusOK, nil, h), nil
		}
		return respond(http.StatusOK, obj.body, h), nil
	}
	return respond(http.StatusNotImplemented, nil, nil), nil
}

func respond(status int, body []byte, h http.Header) *http.Response {
	if h == nil {
		h = http.Header{}
	}
	return &http.Response{
		StatusCode:    status,
		Header:        h,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
	}
}

// dechunk strips aws-chunked framing: "<hex>[;ext]\r\n<data>\r\n" repeated,
// ending with a zero-size chunk and optional trailers.
func dechunk(b []byte) []byte {
	var out []byte
	r := bufio.NewReader(bytes.NewReader(b))
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return out
		}
		sizeHex, _, _ := strings.Cut(strings.TrimSpace(line), ";")
		n, err := strconv.ParseInt(sizeHex, 16, 64)
		if err != nil || n == 0 {
			return out
		}
		chunk := make([]byte, n)
		if _, err := io.ReadFull(r, chunk); err != nil {
			return out
		}
		out = append(out, chunk...)
		_, _ = r.ReadString('\n')
	}
}

func newFakeS3Store(t *testing.T) (*S3, *fakeS3) {
	t.Helper()
	t.Setenv("AWS_CONFIG_FILE", "/nonexistent")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/nonexistent")

	fake := &fakeS3{objects: map[string]fakeObject{}}
	store, err := Open(context.Background(), Config{
		Driver:    DriverS3,
		Path:      "snapshots/last.xlsx",
		Bucket:    "reports",
		Region:    "us-east-1",
		Endpoint:  "http://s3.fake.local",
		PathStyle: true,
		AccessKey: "AKIA",
		SecretKey: "SECRET",
		S3Options: []func(*s3v2.Options){
			func(o *s3v2.Options) {
				o.HTTPClient = &http.Client{Transport: fake}
				o.RequestChecksumCalculation = awsv2.RequestChecksumCalculationWhenRequired
				o.RetryMaxAttempts = 1
			},
		},
	})
	require.NoError(t, err)
	return store.(*S3), fake
}

func TestS3_LoadMissing(t *testing.T) {
	s, _ := newFakeS3Store(t)

	data, ok, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)

	_, ok, err = s.Stat(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestS3_SaveLoadStat(t *testing.T) {
	ctx := context.Background()
	s, fake := newFakeS3Store(t)
	payload := []byte("spreadsheet bytes")

	require.NoError(t, s.Save(ctx, payload))
	assert.Contains(t, fake.objects, "reports/snapshots/last.xlsx")

	data, ok, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, payload, data)

	info, ok, err := s.Stat(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, DriverS3, info.Driver)
	assert.Equal(t, "s3://reports/snapshots/last.xlsx", info.Location)
	assert.Equal(t, int64(len(payload)), info.Size)
	assert.Equal(t, Digest(payload), info.Digest)
	assert.WithinDuration(t, time.Now(), info.SavedAt, time.Minute)
}

func TestS3_Errors(t *testing.T) {
	ctx := context.Background()
	s, fake := newFakeS3Store(t)
	fake.status = http.StatusForbidden

	_, _, err := s.Load(ctx)
	assert.ErrorIs(t, err, failure.ErrStorage)

	err = s.Save(ctx, []byte("x"))
	assert.ErrorIs(t, err, failure.ErrStorage)

	_, _, err = s.Stat(ctx)
	assert.ErrorIs(t, err, failure.ErrStorage)
}

func TestIsNotFound(t *testing.T) {
	assert.False(t, isNotFound(nil))
	assert.False(t, isNotFound(fmt.Errorf("boom")))
}

func TestS3_SignsWithStaticCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "ENVKEY")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "ENVSECRET")
	store, fake := newFakeS3Store(t)

	_, _, err := store.Load(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, fake.auth)
	assert.Contains(t, fake.auth[0], "Credential=AKIA/")
	assert.NotContains(t, fake.auth[0], "ENVKEY")
}
