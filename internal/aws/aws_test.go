// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package aws

import (
	"context"
	"net/http"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		expected options
		loadLen  int
	}{
		{
			name:     "none",
			expected: options{},
			loadLen:  0,
		},
		{
			name:     "profile and region",
			opts:     []Option{WithProfile("ops"), WithRegion("us-west-2")},
			expected: options{profile: "ops", region: "us-west-2"},
			loadLen:  2,
		},
		{
			name:     "static credentials",
			opts:     []Option{WithStaticCredentials("AKIA", "SECRET")},
			expected: options{accessKey: "AKIA", secretKey: "SECRET"},
			loadLen:  1,
		},
		{
			name:     "empty access key keeps chain",
			opts:     []Option{WithStaticCredentials("", "SECRET")},
			expected: options{secretKey: "SECRET"},
			loadLen:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o options
			for _, opt := range tt.opts {
				opt(&o)
			}
			assert.Equal(t, tt.expected, o)
			assert.Len(t, o.loadOptions(), tt.loadLen)
		})
	}
}

func TestWithRetryer(t *testing.T) {
	var o options
	WithRetryer(func() awsv2.Retryer { return retry.NewStandard() })(&o)

	require.NotNil(t, o.retryer)
	assert.NotNil(t, o.retryer())
	assert.Len(t, o.loadOptions(), 1)
}

func TestLoadAWSConfig_StaticCredentials(t *testing.T) {
	t.Setenv("AWS_CONFIG_FILE", "/nonexistent")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/nonexistent")

	cfg, err := LoadAWSConfig(context.Background(),
		WithRegion("eu-west-1"),
		WithStaticCredentials("AKIA", "SECRET"))
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", cfg.Region)
	creds, err := cfg.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AKIA", creds.AccessKeyID)
	assert.Equal(t, "SECRET", creds.SecretAccessKey)
}

func TestS3Options(t *testing.T) {
	hc := &http.Client{}

	var o s3v2.Options
	WithS3Endpoint("http://localhost:9000")(&o)
	WithS3PathStyle(true)(&o)
	WithS3HTTPClient(hc)(&o)

	require.NotNil(t, o.BaseEndpoint)
	assert.Equal(t, "http://localhost:9000", *o.BaseEndpoint)
	assert.True(t, o.UsePathStyle)
	assert.Same(t, hc, o.HTTPClient)

	var empty s3v2.Options
	WithS3Endpoint("")(&empty)
	WithS3HTTPClient(nil)(&empty)
	assert.Nil(t, empty.BaseEndpoint)
	assert.Nil(t, empty.HTTPClient)
}

func TestNewS3(t *testing.T) {
	cfg := awsv2.Config{Region: "us-east-1"}
	client := NewS3(cfg, WithS3PathStyle(true))

	require.NotNil(t, client)
	assert.True(t, client.Options().UsePathStyle)
	assert.Equal(t, "us-east-1", client.Options().Region)
}
