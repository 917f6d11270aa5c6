// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/crypto/blake2b"

	"github.com/sheetwatch/sheetwatch/internal/aws"
	"github.com/sheetwatch/sheetwatch/internal/failure"
	"github.com/sheetwatch/sheetwatch/internal/log"
)

// DefaultPath is where the fs driver keeps the snapshot when none is given.
const DefaultPath = "last_snapshot.xlsx"

// Driver names a storage backend.
type Driver string

const (
	DriverFS     Driver = "fs"
	DriverS3     Driver = "s3"
	DriverMemory Driver = "memory"
)

// Drivers lists every supported driver in display order.
var Drivers = []Driver{DriverFS, DriverS3, DriverMemory}

// ParseDriver maps a flag value to a Driver. The empty string is DriverFS.
func ParseDriver(s string) (Driver, error) {
	d := Driver(strings.ToLower(strings.TrimSpace(s)))
	if d == "" {
		return DriverFS, nil
	}
	for _, known := range Drivers {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: unknown snapshot driver %q", failure.ErrConfig, s)
}

// Info describes the stored snapshot.
type Info struct {
	Driver   Driver
	Location string
	Size     int64
	Digest   string
	SavedAt  time.Time
}

// Store holds exactly one snapshot. Load reports false when nothing has been
// saved yet; that is the first-run signal, not an error.
type Store interface {
	Load(ctx context.Context) ([]byte, bool, error)
	Save(ctx context.Context, data []byte) error
	Stat(ctx context.Context) (Info, bool, error)
	Driver() Driver
	Location() string
}

// Config selects and configures a driver.
type Config struct {
	Driver Driver
	// Path is the file path for fs and the object key for s3.
	Path string

	Bucket    string
	Region    string
	Endpoint  string
	PathStyle bool
	Profile   string
	AccessKey string
	SecretKey string
	// Retries caps S3 attempts per call. Zero keeps the SDK default.
	Retries int

	// S3Options are applied after the settings above when building the client.
	S3Options []func(*s3v2.Options)
}

// Open returns the Store named by cfg.Driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	driver, err := ParseDriver(string(cfg.Driver))
	if err != nil {
		return nil, err
	}

	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	log.Debugf("opening snapshot store: driver=%s path=%s", driver, path)

	switch driver {
	case DriverS3:
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("%w: s3 snapshot driver requires a bucket", failure.ErrConfig)
		}
		if (cfg.AccessKey == "") != (cfg.SecretKey == "") {
			return nil, fmt.Errorf("%w: s3 access key and secret key must be set together", failure.ErrConfig)
		}
		awsOpts := []aws.Option{
			aws.WithProfile(cfg.Profile),
			aws.WithRegion(cfg.Region),
			aws.WithStaticCredentials(cfg.AccessKey, cfg.SecretKey),
		}
		if cfg.Retries > 0 {
			awsOpts = append(awsOpts, aws.WithRetryer(retryer(cfg.Retries)))
		}
		awsCfg, err := aws.LoadAWSConfig(ctx, awsOpts...)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to load aws config: %w", failure.ErrConfig, err)
		}
		opts := append([]func(*s3v2.Options){
			aws.WithS3Endpoint(cfg.Endpoint),
			aws.WithS3PathStyle(cfg.PathStyle),
		}, cfg.S3Options...)
		return NewS3(aws.NewS3(awsCfg, opts...), cfg.Bucket, path), nil
	case DriverMemory:
		return NewMemory(), nil
	default:
		return NewFS(path), nil
	}
}

// retryer returns a standard SDK retryer capped at attempts.
func retryer(attempts int) func() awsv2.Retryer {
	return func() awsv2.Retryer {
		return retry.NewStandard(func(o *retry.StandardOptions) {
			o.MaxAttempts = attempts
		})
	}
}

// Digest returns the hex blake2b-256 sum of data.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}
