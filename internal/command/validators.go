// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/sheetwatch/sheetwatch/internal/differ"
	"github.com/sheetwatch/sheetwatch/internal/failure"
	"github.com/sheetwatch/sheetwatch/internal/filters"
	"github.com/sheetwatch/sheetwatch/internal/output"
	"github.com/sheetwatch/sheetwatch/internal/snapshot"
	"github.com/sheetwatch/sheetwatch/internal/tracker"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// GlobalFlagsValidator checks combinations a single flag validator cannot see.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	if c.String("snapshot-driver") == string(snapshot.DriverS3) && c.String("bucket") == "" {
		return fmt.Errorf("%w: --bucket is required with --snapshot-driver s3", failure.ErrConfig)
	}
	return nil
}

func OutputValidator(value any) error {
	s, _ := value.(string)
	if !slices.Contains(output.Formats, s) {
		return fmt.Errorf("must be one of %v", output.Formats)
	}
	return nil
}

func ModeValidator(value any) error {
	s, _ := value.(string)
	_, err := differ.ParseMode(s)
	return err
}

func CommitValidator(value any) error {
	s, _ := value.(string)
	_, err := tracker.ParseCommit(s)
	return err
}

func DriverValidator(value any) error {
	s, _ := value.(string)
	_, err := snapshot.ParseDriver(s)
	return err
}

func SampleValidator(value any) error {
	n, ok := value.(int)
	if !ok || n < 0 {
		return fmt.Errorf("must be a non-negative integer")
	}
	return nil
}

func TimeoutValidator(value any) error {
	d, ok := value.(time.Duration)
	if !ok || d <= 0 {
		return fmt.Errorf("must be a positive duration")
	}
	return nil
}

func FilterValidator(value any) error {
	s, _ := value.(string)
	_, err := filters.Build(s)
	return err
}
