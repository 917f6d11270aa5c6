// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sheetwatch/sheetwatch/internal/differ"
	"github.com/sheetwatch/sheetwatch/internal/failure"
	"github.com/sheetwatch/sheetwatch/internal/filters"
	"github.com/sheetwatch/sheetwatch/internal/log"
	"github.com/sheetwatch/sheetwatch/internal/metrics"
	"github.com/sheetwatch/sheetwatch/internal/rowset"
	"github.com/sheetwatch/sheetwatch/internal/sheet"
)

// DefaultTitle names the tracked report in subjects and bodies.
const DefaultTitle = "NERC One Stop Shop"

const dateLayout = "2006-01-02"

// Fetcher retrieves today's report bytes.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Store holds the previous report. Load returns false when none exists.
type Store interface {
	Load(ctx context.Context) ([]byte, bool, error)
	Save(ctx context.Context, data []byte) error
}

// Notifier delivers one message.
type Notifier interface {
	Send(ctx context.Context, subject, body string) error
}

// Commit decides whether the snapshot is replaced before or after mail goes
// out.
type Commit string

const (
	// CommitEager persists the new snapshot, then notifies. A failed send
	// leaves the new snapshot in place.
	CommitEager Commit = "eager"
	// CommitAfterDelivery notifies first and persists only once the message
	// was accepted, so a failed send keeps the old baseline.
	CommitAfterDelivery Commit = "after-delivery"
)

// ParseCommit maps a flag value to a Commit. The empty string is CommitEager.
func ParseCommit(s string) (Commit, error) {
	switch Commit(strings.ToLower(strings.TrimSpace(s))) {
	case "", CommitEager:
		return CommitEager, nil
	case CommitAfterDelivery:
		return CommitAfterDelivery, nil
	}
	return "", fmt.Errorf("%w: invalid commit policy %q: must be %s or %s",
		failure.ErrConfig, s, CommitEager, CommitAfterDelivery)
}

// Options tune a run.
type Options struct {
	Title     string
	MaxSample int
	Mode      differ.Mode
	Commit    Commit
	// Filters narrow both sheets before comparison. The snapshot is always
	// saved whole.
	Filters []filters.Filter
	// DryRun computes the report but neither saves nor sends.
	DryRun bool

	Now     func() time.Time
	Metrics *metrics.Recorder
}

// Outcome describes what a run did. It is returned alongside errors with
// whatever was known when the run stopped.
type Outcome struct {
	Date          string
	Baseline      bool
	Changed       bool
	Result        differ.Result
	Report        string
	Subject       string
	Body          string
	SnapshotSaved bool
	Delivered     bool
}

// Tracker runs the fetch, compare, persist and notify pipeline once per call.
type Tracker struct {
	fetcher  Fetcher
	store    Store
	notifier Notifier
	opts     Options
}

// New returns a Tracker. Zero-valued options get defaults.
func New(fetcher Fetcher, store Store, notifier Notifier, opts Options) *Tracker {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.Mode == "" {
		opts.Mode = differ.ModeSet
	}
	if opts.Commit == "" {
		opts.Commit = CommitEager
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Tracker{fetcher: fetcher, store: store, notifier: notifier, opts: opts}
}

// Run executes one pass. Any failure aborts the remaining steps.
func (t *Tracker) Run(ctx context.Context) (out *Outcome, err error) {
	start := t.opts.Now()
	out = &Outcome{Date: start.UTC().Format(dateLayout)}
	defer func() {
		t.opts.Metrics.Finish(start, t.opts.Now(), err)
	}()

	log.Infof("run started: date=%s title=%q mode=%s commit=%s dry-run=%t",
		out.Date, t.opts.Title, t.opts.Mode, t.opts.Commit, t.opts.DryRun)

	current, err := t.fetcher.Fetch(ctx)
	if err != nil {
		return out, err
	}

	currSet, err := t.rows(current)
	if err != nil {
		return out, fmt.Errorf("current report: %w", err)
	}

	previous, found, err := t.store.Load(ctx)
	if err != nil {
		return out, err
	}

	if !found {
		out.Baseline = true
		out.Subject = BaselineSubject(t.opts.Title, out.Date)
		out.Body = BaselineBody(t.opts.Title)
		t.opts.Metrics.ObserveBaseline(sizeOf(currSet, t.opts.Mode))
		log.Infof("no previous snapshot; storing baseline")
	} else {
		prevSet, err := t.rows(previous)
		if err != nil {
			return out, fmt.Errorf("previous snapshot: %w", err)
		}

		out.Result = differ.Compare(prevSet, currSet, t.opts.Mode)
		out.Report = differ.Render(out.Result, t.opts.MaxSample)
		out.Changed = differ.HasChanges(out.Report)
		out.Subject = DiffSubject(t.opts.Title, out.Date, out.Changed)
		out.Body = DiffBody(t.opts.Title, out.Date, out.Report)
		t.opts.Metrics.ObserveDiff(out.Result.PreviousTotal, out.Result.CurrentTotal,
			len(out.Result.Added), len(out.Result.Removed))
		log.Infof("compared: previous=%d current=%d added=%d removed=%d",
			out.Result.PreviousTotal, out.Result.CurrentTotal, len(out.Result.Added), len(out.Result.Removed))
	}

	if t.opts.DryRun {
		log.Infof("dry run: snapshot not saved, mail not sent (subject %q)", out.Subject)
		return out, nil
	}

	if t.opts.Commit == CommitAfterDelivery {
		if err := t.notify(ctx, out); err != nil {
			return out, err
		}
		return out, t.persist(ctx, out, current)
	}

	if err := t.persist(ctx, out, current); err != nil {
		return out, err
	}
	return out, t.notify(ctx, out)
}

// rows parses a workbook and applies the configured filters.
func (t *Tracker) rows(data []byte) (*rowset.Set, error) {
	table, err := sheet.Parse(data)
	if err != nil {
		return nil, err
	}
	table, err = filters.Apply(table, t.opts.Filters)
	if err != nil {
		return nil, err
	}
	return rowset.FromTable(table), nil
}

func (t *Tracker) persist(ctx context.Context, out *Outcome, data []byte) error {
	if err := t.store.Save(ctx, data); err != nil {
		return err
	}
	out.SnapshotSaved = true
	log.Debugf("snapshot saved: size=%d", len(data))
	return nil
}

func (t *Tracker) notify(ctx context.Context, out *Outcome) error {
	if err := t.notifier.Send(ctx, out.Subject, out.Body); err != nil {
		return err
	}
	out.Delivered = true
	return nil
}

func sizeOf(s *rowset.Set, mode differ.Mode) int {
	if mode == differ.ModeMultiset {
		return s.Total()
	}
	return s.Len()
}

// DiffSubject is the subject of a compared run.
func DiffSubject(title, date string, changed bool) string {
	if changed {
		return fmt.Sprintf("[%s] Changes detected for %s", title, date)
	}
	return fmt.Sprintf("[%s] No changes detected for %s", title, date)
}

// BaselineSubject is the subject of a first run.
func BaselineSubject(title, date string) string {
	return fmt.Sprintf("[%s] Initial snapshot stored (%s)", title, date)
}

// Signature closes every compared-run body.
const Signature = "This email was generated automatically by your NERC tracking bot."

// DiffBody wraps a report with a greeting line and a signature.
func DiffBody(title, date, report string) string {
	return fmt.Sprintf("%s daily check for %s.\n\n%s\n\n--\n%s", title, date, report, Signature)
}

// BaselineBody explains that there is nothing to compare yet.
func BaselineBody(title string) string {
	return fmt.Sprintf("This is the first run of the %s tracker.\n"+
		"Today's file has been stored as the baseline. No diff to report yet.\n", title)
}
