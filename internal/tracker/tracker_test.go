// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sheetwatch/sheetwatch/internal/differ"
	"github.com/sheetwatch/sheetwatch/internal/failure"
	"github.com/sheetwatch/sheetwatch/internal/filters"
	"github.com/sheetwatch/sheetwatch/internal/metrics"
	"github.com/sheetwatch/sheetwatch/internal/rowset"
	"github.com/sheetwatch/sheetwatch/internal/snapshot"
)

type fakeFetcher struct {
	data []byte
	err  error
}

func (f fakeFetcher) Fetch(context.Context) ([]byte, error) {
	return f.data, f.err
}

type sent struct {
	subject string
	body    string
}

// fakeNotifier records messages and, when set, observes the store at send
// time so commit ordering can be checked.
type fakeNotifier struct {
	err       error
	messages  []sent
	store     *snapshot.Memory
	sawStored []byte
}

func (n *fakeNotifier) Send(ctx context.Context, subject, body string) error {
	if n.store != nil {
		n.sawStored, _, _ = n.store.Load(ctx)
	}
	if n.err != nil {
		return n.err
	}
	n.messages = append(n.messages, sent{subject, body})
	return nil
}

type failingStore struct {
	loadErr error
	saveErr error
}

func (s failingStore) Load(context.Context) ([]byte, bool, error) { return nil, false, s.loadErr }
func (s failingStore) Save(context.Context, []byte) error        { return s.saveErr }

func xlsx(t *testing.T, rows ...[]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", fmt.Sprintf("A%d", i+1), &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

var (
	header   = []interface{}{"Name", "Count"}
	fixedNow = func() time.Time { return time.Date(2026, 3, 4, 23, 30, 0, 0, time.FixedZone("X", -5*3600)) }
)

func opts() Options {
	return Options{MaxSample: differ.DefaultMaxSample, Now: fixedNow}
}

func TestParseCommit(t *testing.T) {
	c, err := ParseCommit("")
	require.NoError(t, err)
	assert.Equal(t, CommitEager, c)

	c, err = ParseCommit("After-Delivery")
	require.NoError(t, err)
	assert.Equal(t, CommitAfterDelivery, c)

	_, err = ParseCommit("never")
	assert.ErrorIs(t, err, failure.ErrConfig)
}

func TestSubjectsAndBodies(t *testing.T) {
	assert.Equal(t, "[T] Changes detected for 2026-01-02", DiffSubject("T", "2026-01-02", true))
	assert.Equal(t, "[T] No changes detected for 2026-01-02", DiffSubject("T", "2026-01-02", false))
	assert.Equal(t, "[T] Initial snapshot stored (2026-01-02)", BaselineSubject("T", "2026-01-02"))
	assert.Equal(t,
		"T daily check for 2026-01-02.\n\nREPORT\n\n--\nThis email was generated automatically by your NERC tracking bot.",
		DiffBody("T", "2026-01-02", "REPORT"))
	assert.Equal(t,
		"This is the first run of the T tracker.\nToday's file has been stored as the baseline. No diff to report yet.\n",
		BaselineBody("T"))
}

func TestRun_Unchanged(t *testing.T) {
	data := xlsx(t, header, []interface{}{"A", 1}, []interface{}{"B", 2})
	store := snapshot.NewMemoryWith(data)
	notifier := &fakeNotifier{}

	out, err := New(fakeFetcher{data: data}, store, notifier, opts()).Run(context.Background())

	require.NoError(t, err)
	assert.False(t, out.Baseline)
	assert.False(t, out.Changed)
	assert.Equal(t, "2026-03-05", out.Date, "date is UTC")
	assert.Contains(t, out.Report, "Rows added: 0")
	assert.Contains(t, out.Report, "Rows removed: 0")
	assert.Contains(t, out.Report, differ.NoChanges)
	require.Len(t, notifier.messages, 1)
	assert.Equal(t, "[NERC One Stop Shop] No changes detected for 2026-03-05", notifier.messages[0].subject)
	assert.True(t, out.SnapshotSaved)
	assert.True(t, out.Delivered)
}

func TestRun_Changed(t *testing.T) {
	prev := xlsx(t, header, []interface{}{"A", 1}, []interface{}{"B", 2})
	curr := xlsx(t, header, []interface{}{"A", 1}, []interface{}{"C", 3})
	store := snapshot.NewMemoryWith(prev)
	notifier := &fakeNotifier{}
	o := opts()
	o.Title = "Weekly"

	out, err := New(fakeFetcher{data: curr}, store, notifier, o).Run(context.Background())

	require.NoError(t, err)
	assert.True(t, out.Changed)
	assert.Equal(t, []rowset.Row{{"C", "3"}}, out.Result.Added)
	assert.Equal(t, []rowset.Row{{"B", "2"}}, out.Result.Removed)
	require.Len(t, notifier.messages, 1)
	msg := notifier.messages[0]
	assert.Equal(t, "[Weekly] Changes detected for 2026-03-05", msg.subject)
	assert.True(t, strings.HasPrefix(msg.body, "Weekly daily check for 2026-03-05.\n\n"))
	assert.Contains(t, msg.body, "=== Added rows (sample) ===\nC | 3")
	assert.Contains(t, msg.body, "=== Removed rows (sample) ===\nB | 2")

	stored, _, _ := store.Load(context.Background())
	assert.Equal(t, curr, stored)
}

func TestRun_Baseline(t *testing.T) {
	curr := xlsx(t, header, []interface{}{"A", 1})
	store := snapshot.NewMemory()
	notifier := &fakeNotifier{}
	rec := metrics.New()
	o := opts()
	o.Metrics = rec

	out, err := New(fakeFetcher{data: curr}, store, notifier, o).Run(context.Background())

	require.NoError(t, err)
	assert.True(t, out.Baseline)
	require.Len(t, notifier.messages, 1)
	assert.Equal(t, "[NERC One Stop Shop] Initial snapshot stored (2026-03-05)", notifier.messages[0].subject)
	assert.Equal(t, BaselineBody(DefaultTitle), notifier.messages[0].body)

	stored, ok, _ := store.Load(context.Background())
	assert.True(t, ok)
	assert.Equal(t, curr, stored)

	n, err := testutil.GatherAndCount(rec.Registry(), "sheetwatch_baseline")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRun_FetchFailureTouchesNothing(t *testing.T) {
	prev := xlsx(t, header, []interface{}{"A", 1})
	store := snapshot.NewMemoryWith(prev)
	notifier := &fakeNotifier{}
	fetchErr := fmt.Errorf("%w: 503", failure.ErrTransport)

	_, err := New(fakeFetcher{err: fetchErr}, store, notifier, opts()).Run(context.Background())

	assert.ErrorIs(t, err, failure.ErrTransport)
	assert.Empty(t, notifier.messages)
	stored, _, _ := store.Load(context.Background())
	assert.Equal(t, prev, stored)
}

func TestRun_ParseFailures(t *testing.T) {
	good := xlsx(t, header, []interface{}{"A", 1})

	t.Run("current", func(t *testing.T) {
		store := snapshot.NewMemoryWith(good)
		notifier := &fakeNotifier{}

		_, err := New(fakeFetcher{data: []byte("<html>")}, store, notifier, opts()).Run(context.Background())

		assert.ErrorIs(t, err, failure.ErrParse)
		assert.Empty(t, notifier.messages)
		stored, _, _ := store.Load(context.Background())
		assert.Equal(t, good, stored)
	})

	t.Run("previous", func(t *testing.T) {
		store := snapshot.NewMemoryWith([]byte("corrupt"))
		notifier := &fakeNotifier{}

		_, err := New(fakeFetcher{data: good}, store, notifier, opts()).Run(context.Background())

		assert.ErrorIs(t, err, failure.ErrParse)
		assert.Contains(t, err.Error(), "previous snapshot")
		assert.Empty(t, notifier.messages)
		stored, _, _ := store.Load(context.Background())
		assert.Equal(t, []byte("corrupt"), stored)
	})
}

func TestRun_CommitPolicies(t *testing.T) {
	prev := xlsx(t, header, []interface{}{"A", 1})
	curr := xlsx(t, header, []interface{}{"B", 2})
	sendErr := fmt.Errorf("%w: 535 auth failed", failure.ErrDelivery)

	tests := []struct {
		name        string
		commit      Commit
		sendErr     error
		wantStored  []byte
		wantSawNew  bool
		wantErr     error
		wantSaved   bool
		wantDeliver bool
	}{
		{"eager success", CommitEager, nil, curr, true, nil, true, true},
		{"eager send failure loses baseline", CommitEager, sendErr, curr, true, failure.ErrDelivery, true, false},
		{"after-delivery success", CommitAfterDelivery, nil, curr, false, nil, true, true},
		{"after-delivery send failure keeps baseline", CommitAfterDelivery, sendErr, prev, false, failure.ErrDelivery, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := snapshot.NewMemoryWith(prev)
			notifier := &fakeNotifier{err: tt.sendErr, store: store}
			o := opts()
			o.Commit = tt.commit

			out, err := New(fakeFetcher{data: curr}, store, notifier, o).Run(context.Background())

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			stored, _, _ := store.Load(context.Background())
			assert.Equal(t, tt.wantStored, stored)
			if tt.wantSawNew {
				assert.Equal(t, curr, notifier.sawStored)
			} else {
				assert.Equal(t, prev, notifier.sawStored)
			}
			assert.Equal(t, tt.wantSaved, out.SnapshotSaved)
			assert.Equal(t, tt.wantDeliver, out.Delivered)
		})
	}
}

func TestRun_StoreFailures(t *testing.T) {
	curr := xlsx(t, header, []interface{}{"A", 1})
	storeErr := fmt.Errorf("%w: disk full", failure.ErrStorage)

	notifier := &fakeNotifier{}
	_, err := New(fakeFetcher{data: curr}, failingStore{loadErr: storeErr}, notifier, opts()).Run(context.Background())
	assert.ErrorIs(t, err, failure.ErrStorage)
	assert.Empty(t, notifier.messages)

	notifier = &fakeNotifier{}
	_, err = New(fakeFetcher{data: curr}, failingStore{saveErr: storeErr}, notifier, opts()).Run(context.Background())
	assert.ErrorIs(t, err, failure.ErrStorage)
	assert.Empty(t, notifier.messages, "eager commit stops before sending")
}

func TestRun_DryRun(t *testing.T) {
	prev := xlsx(t, header, []interface{}{"A", 1})
	curr := xlsx(t, header, []interface{}{"B", 2})
	store := snapshot.NewMemoryWith(prev)
	notifier := &fakeNotifier{}
	o := opts()
	o.DryRun = true

	out, err := New(fakeFetcher{data: curr}, store, notifier, o).Run(context.Background())

	require.NoError(t, err)
	assert.True(t, out.Changed)
	assert.NotEmpty(t, out.Body)
	assert.Empty(t, notifier.messages)
	assert.False(t, out.SnapshotSaved)
	stored, _, _ := store.Load(context.Background())
	assert.Equal(t, prev, stored)
}

func TestRun_MetricsOnFailure(t *testing.T) {
	rec := metrics.New()
	o := opts()
	o.Metrics = rec

	_, err := New(fakeFetcher{err: errors.New("boom")}, snapshot.NewMemory(), &fakeNotifier{}, o).Run(context.Background())
	require.Error(t, err)

	n, err := testutil.GatherAndCount(rec.Registry(), "sheetwatch_last_run_success")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRun_Filters(t *testing.T) {
	prev := xlsx(t, header, []interface{}{"A", 1}, []interface{}{"B", 2})
	curr := xlsx(t, header, []interface{}{"A", 1}, []interface{}{"B", 3}, []interface{}{"C", 20})
	store := snapshot.NewMemoryWith(prev)
	notifier := &fakeNotifier{}

	fs, err := filters.Build("Count>10")
	require.NoError(t, err)
	o := opts()
	o.Filters = fs

	out, err := New(fakeFetcher{data: curr}, store, notifier, o).Run(context.Background())

	require.NoError(t, err)
	assert.True(t, out.Changed)
	assert.Equal(t, []rowset.Row{{"C", "20"}}, out.Result.Added)
	assert.Empty(t, out.Result.Removed)
	stored, _, _ := store.Load(context.Background())
	assert.Equal(t, curr, stored, "the snapshot keeps every row")
}

func TestRun_FilterColumnMissing(t *testing.T) {
	store := snapshot.NewMemory()
	fs, err := filters.Build("Region=WECC")
	require.NoError(t, err)
	o := opts()
	o.Filters = fs

	_, err = New(fakeFetcher{data: xlsx(t, header, []interface{}{"A", 1})}, store, &fakeNotifier{}, o).
		Run(context.Background())

	assert.ErrorIs(t, err, failure.ErrConfig)
	_, found, _ := store.Load(context.Background())
	assert.False(t, found)
}
