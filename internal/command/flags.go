// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/sheetwatch/sheetwatch/internal/differ"
	"github.com/sheetwatch/sheetwatch/internal/fetch"
	"github.com/sheetwatch/sheetwatch/internal/notify"
	"github.com/sheetwatch/sheetwatch/internal/snapshot"
	"github.com/sheetwatch/sheetwatch/internal/tracker"
)

// DefaultURL is the report fetched when --url is not given.
const DefaultURL = "https://www.nerc.com/globalassets/align-reports/one-stop-shop.xlsx"

// sources builds a value chain for a flag: the env vars in order, then, when
// a config file is loaded, the namespaced key followed by the bare key.
func sources(ns, path, name string, envs ...string) cli.ValueSourceChain {
	var chain []cli.ValueSource
	for _, e := range envs {
		chain = append(chain, cli.EnvVar(e))
	}
	if path != "" {
		if ns != "" {
			chain = append(chain, yaml.YAML(ns+"."+name, altsrc.StringSourcer(path)))
		}
		chain = append(chain, yaml.YAML(name, altsrc.StringSourcer(path)))
	}
	return cli.NewValueSourceChain(chain...)
}

// NewReportFlags are the flags that shape the comparison itself.
func NewReportFlags(ns, path string) []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "max-sample",
			Aliases: []string{"n"},
			Usage:   "rows listed per added/removed section",
			Value:   differ.DefaultMaxSample,
			Sources: sources(ns, path, "max-sample", "SHEETWATCH_MAX_SAMPLE"),
			Validator: func(value int) error {
				return FlagValidators(value, SampleValidator)
			},
		},
		&cli.StringFlag{
			Name:    "mode",
			Usage:   "duplicate row handling (set, multiset)",
			Value:   string(differ.ModeSet),
			Sources: sources(ns, path, "mode", "SHEETWATCH_MODE"),
			Validator: func(value string) error {
				return FlagValidators(value, ModeValidator)
			},
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "only compare rows matching these column filters",
			Sources: sources(ns, path, "filter", "SHEETWATCH_FILTER"),
			Validator: func(value string) error {
				return FlagValidators(value, FilterValidator)
			},
		},
	}
}

// NewSnapshotFlags select and configure the snapshot store.
func NewSnapshotFlags(ns, path string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "snapshot-driver",
			Usage:   "snapshot storage (fs, s3, memory)",
			Value:   string(snapshot.DriverFS),
			Sources: sources(ns, path, "snapshot-driver", "SHEETWATCH_SNAPSHOT_DRIVER"),
			Validator: func(value string) error {
				return FlagValidators(value, DriverValidator)
			},
		},
		&cli.StringFlag{
			Name:    "snapshot",
			Usage:   "snapshot file path (fs) or object key (s3)",
			Value:   snapshot.DefaultPath,
			Sources: sources(ns, path, "snapshot", "SHEETWATCH_SNAPSHOT"),
		},
		&cli.StringFlag{
			Name:    "bucket",
			Usage:   "s3 bucket holding the snapshot",
			Sources: sources(ns, path, "bucket", "SHEETWATCH_S3_BUCKET"),
		},
		&cli.StringFlag{
			Name:    "region",
			Usage:   "s3 region",
			Sources: sources(ns, path, "region", "SHEETWATCH_S3_REGION", "AWS_REGION"),
		},
		&cli.StringFlag{
			Name:    "endpoint",
			Usage:   "s3-compatible endpoint URL",
			Sources: sources(ns, path, "endpoint", "SHEETWATCH_S3_ENDPOINT"),
		},
		&cli.BoolFlag{
			Name:    "path-style",
			Usage:   "use path-style s3 addressing",
			Sources: sources(ns, path, "path-style", "SHEETWATCH_S3_PATH_STYLE"),
		},
		&cli.StringFlag{
			Name:    "aws-profile",
			Usage:   "shared config profile for the s3 driver",
			Sources: sources(ns, path, "aws-profile", "SHEETWATCH_AWS_PROFILE", "AWS_PROFILE"),
		},
		&cli.StringFlag{
			Name:    "aws-access-key",
			Usage:   "static s3 access key, used with --aws-secret-key",
			Sources: sources(ns, path, "aws-access-key", "SHEETWATCH_S3_ACCESS_KEY"),
		},
		&cli.StringFlag{
			Name:    "aws-secret-key",
			Usage:   "static s3 secret key, used with --aws-access-key",
			Sources: sources(ns, path, "aws-secret-key", "SHEETWATCH_S3_SECRET_KEY"),
		},
	}
}

// NewRunFlags are everything the run command needs beyond the report and
// snapshot flags.
func NewRunFlags(ns, path string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "url",
			Aliases: []string{"u"},
			Usage:   "report URL",
			Value:   DefaultURL,
			Sources: sources(ns, path, "url", "SHEETWATCH_URL"),
		},
		&cli.StringFlag{
			Name:    "title",
			Usage:   "report name used in subjects and bodies",
			Value:   tracker.DefaultTitle,
			Sources: sources(ns, path, "title", "SHEETWATCH_TITLE"),
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Usage:   "network timeout for the fetch and the mail submission",
			Value:   fetch.DefaultTimeout,
			Sources: sources(ns, path, "timeout", "SHEETWATCH_TIMEOUT"),
			Validator: func(value time.Duration) error {
				return FlagValidators(value, TimeoutValidator)
			},
		},
		&cli.StringFlag{
			Name:    "commit",
			Usage:   "when to replace the snapshot (eager, after-delivery)",
			Value:   string(tracker.CommitEager),
			Sources: sources(ns, path, "commit", "SHEETWATCH_COMMIT"),
			Validator: func(value string) error {
				return FlagValidators(value, CommitValidator)
			},
		},
		&cli.StringFlag{
			Name:    "smtp-host",
			Usage:   "SMTP submission host",
			Value:   notify.DefaultHost,
			Sources: sources(ns, path, "smtp-host", "SHEETWATCH_SMTP_HOST"),
		},
		&cli.IntFlag{
			Name:    "smtp-port",
			Usage:   "SMTP submission port (STARTTLS)",
			Value:   notify.DefaultPort,
			Sources: sources(ns, path, "smtp-port", "SHEETWATCH_SMTP_PORT"),
		},
		&cli.StringFlag{
			Name:    "smtp-user",
			Usage:   "SMTP username, also the sender address",
			Sources: sources(ns, path, "smtp-user", "SHEETWATCH_SMTP_USER", "GMAIL_USER"),
		},
		&cli.StringFlag{
			Name:    "smtp-pass",
			Usage:   "SMTP password",
			Sources: sources(ns, path, "smtp-pass", "SHEETWATCH_SMTP_PASS", "GMAIL_PASS"),
		},
		&cli.StringFlag{
			Name:    "from",
			Usage:   "sender address when it differs from --smtp-user",
			Sources: sources(ns, path, "from", "SHEETWATCH_MAIL_FROM"),
		},
		&cli.StringFlag{
			Name:    "recipients",
			Aliases: []string{"r"},
			Usage:   "comma-separated recipient list",
			Value:   notify.DefaultRecipients,
			Sources: sources(ns, path, "recipients", "SHEETWATCH_RECIPIENTS", "RECIPIENTS"),
		},
		&cli.StringFlag{
			Name:    "metrics-file",
			Usage:   "write Prometheus textfile metrics to this path",
			Sources: sources(ns, path, "metrics-file", "SHEETWATCH_METRICS_FILE"),
		},
		&cli.BoolFlag{
			Name:    "dry-run",
			Usage:   "print the message instead of saving the snapshot and sending mail",
			Sources: sources(ns, path, "dry-run", "SHEETWATCH_DRY_RUN"),
		},
	}
}

// NewOutputFlags control terminal rendering.
func NewOutputFlags(ns, path string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format (text, table, json, yaml)",
			Value:   "text",
			Sources: sources(ns, path, "output", "SHEETWATCH_OUTPUT"),
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "color text output (defaults to on for a terminal)",
			Sources: sources(ns, path, "color", "SHEETWATCH_COLOR"),
		},
	}
}
