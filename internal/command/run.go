// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/sheetwatch/sheetwatch/internal/config"
	"github.com/sheetwatch/sheetwatch/internal/differ"
	"github.com/sheetwatch/sheetwatch/internal/failure"
	"github.com/sheetwatch/sheetwatch/internal/fetch"
	"github.com/sheetwatch/sheetwatch/internal/filters"
	"github.com/sheetwatch/sheetwatch/internal/log"
	"github.com/sheetwatch/sheetwatch/internal/meta"
	"github.com/sheetwatch/sheetwatch/internal/metrics"
	"github.com/sheetwatch/sheetwatch/internal/notify"
	"github.com/sheetwatch/sheetwatch/internal/tracker"
)

// DryRunNote ends --dry-run output; the printed body may claim otherwise.
const DryRunNote = "(dry run: not stored)"

// runCommandAction fetches the report, compares it to the stored snapshot,
// persists and mails per the commit policy.
func runCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("run: id=%s config=%q", m.RunID, m.ConfigFile())

	mode, err := differ.ParseMode(cmd.String("mode"))
	if err != nil {
		return fmt.Errorf("%w: %w", failure.ErrConfig, err)
	}
	commit, err := tracker.ParseCommit(cmd.String("commit"))
	if err != nil {
		return err
	}
	fs, err := filters.Build(cmd.String("filter"))
	if err != nil {
		return err
	}

	timeout := cmd.Duration("timeout")
	dryRun := cmd.Bool("dry-run")

	// Mail submission shares --timeout unless mail.timeout is configured.
	mailTimeout, err := config.GetDuration("mail.timeout", timeout)
	if err != nil || mailTimeout <= 0 {
		return fmt.Errorf("%w: mail.timeout must be a positive duration", failure.ErrConfig)
	}
	mailCfg := notify.Config{
		Host:       cmd.String("smtp-host"),
		Port:       cmd.Int("smtp-port"),
		Username:   cmd.String("smtp-user"),
		Password:   cmd.String("smtp-pass"),
		From:       cmd.String("from"),
		Recipients: notify.ParseRecipients(cmd.String("recipients")),
		Timeout:    mailTimeout,
		RunID:      m.RunID,
	}

	// Missing credentials end the run before anything is fetched or written.
	if !dryRun {
		if err := mailCfg.Validate(); err != nil {
			return err
		}
	}

	store, err := OpenSnapshotStore(ctx, cmd)
	if err != nil {
		return err
	}

	var rec *metrics.Recorder
	metricsFile := cmd.String("metrics-file")
	if metricsFile != "" {
		rec = metrics.New()
	}

	t := tracker.New(
		fetch.New(cmd.String("url"), fetch.WithTimeout(timeout)),
		store,
		notify.NewMailer(mailCfg),
		tracker.Options{
			Title:     cmd.String("title"),
			MaxSample: cmd.Int("max-sample"),
			Mode:      mode,
			Commit:    commit,
			Filters:   fs,
			DryRun:    dryRun,
			Metrics:   rec,
		},
	)

	out, runErr := t.Run(ctx)
	if err := rec.WriteTextfile(metricsFile); err != nil {
		log.WithError(err).Warnf("metrics not written")
	}
	if runErr != nil {
		log.WithError(runErr).
			WithField("kind", failure.Kind(runErr)).
			WithField("run", m.RunID).
			Errorf("run failed")
		return runErr
	}

	w := Stdout(cmd)
	if dryRun {
		fmt.Fprintf(w, "Subject: %s\n\n%s\n%s\n", out.Subject, out.Body, DryRunNote)
		return nil
	}
	fmt.Fprintf(w, "%s (snapshot: %s, recipients: %d)\n",
		out.Subject, store.Location(), len(mailCfg.Recipients))
	return nil
}

func runCommandBuilder(meta meta.Meta) *cli.Command {
	ns, path := "run", meta.ConfigFile()
	flags := append(NewRunFlags(ns, path), NewReportFlags(ns, path)...)
	flags = append(flags, NewSnapshotFlags(ns, path)...)

	return &cli.Command{
		Name:      "run",
		Usage:     "fetch, compare, store and mail once",
		UsageText: "sheetwatch [run] [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: runCommandAction,
	}
}
