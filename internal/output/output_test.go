// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"github.com/sheetwatch/sheetwatch/internal/differ"
	"github.com/sheetwatch/sheetwatch/internal/rowset"
)

func init() {
	darkBackground = func() bool { return true }
}

func changed() differ.Result {
	return differ.Result{
		PreviousTotal: 2,
		CurrentTotal:  2,
		Added:         []rowset.Row{{"C", "3"}},
		Removed:       []rowset.Row{{"B", "2"}},
	}
}

func TestEmit_Text(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Emit(&buf, changed(), Options{MaxSample: differ.DefaultMaxSample}))

	assert.Equal(t, differ.Render(changed(), differ.DefaultMaxSample)+"\n", buf.String())
}

func TestEmit_TextColor(t *testing.T) {
	var plain, colored bytes.Buffer

	require.NoError(t, Emit(&plain, changed(), Options{Format: "text", MaxSample: 20}))
	require.NoError(t, Emit(&colored, changed(), Options{Format: "text", MaxSample: 20, Color: true}))

	assert.NotEqual(t, plain.String(), colored.String())
	assert.Contains(t, colored.String(), "\x1b[")
	assert.Contains(t, colored.String(), "Total rows yesterday: 2\n", "counts stay plain")
	assert.Contains(t, colored.String(), "C | 3")
}

func TestEmit_JSON(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Emit(&buf, changed(), Options{Format: "json"}))

	var got Summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 1, got.AddedCount)
	assert.Equal(t, 1, got.RemovedCount)
	assert.True(t, got.Changed)
	assert.Equal(t, [][]string{{"C", "3"}}, got.Added)
	assert.Equal(t, [][]string{{"B", "2"}}, got.Removed)
}

func TestEmit_JSONEmptyLists(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Emit(&buf, differ.Result{PreviousTotal: 1, CurrentTotal: 1}, Options{Format: "json"}))

	assert.Contains(t, buf.String(), `"added": []`)
	assert.Contains(t, buf.String(), `"changed": false`)
}

func TestEmit_YAML(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Emit(&buf, changed(), Options{Format: "yaml"}))

	var got map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 2, got["previous_total"])
	assert.Equal(t, true, got["changed"])
	assert.Contains(t, buf.String(), "added_count: 1")
}

func TestEmit_Table(t *testing.T) {
	var buf bytes.Buffer

	err := Emit(&buf, changed(), Options{Format: "table", MaxSample: 20, Columns: []string{"Name", "Count"}})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "Count")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	var plus, minus bool
	for _, l := range lines {
		f := strings.Fields(l)
		if len(f) == 3 && f[0] == "+" {
			plus = assert.Equal(t, []string{"+", "C", "3"}, f)
		}
		if len(f) == 3 && f[0] == "-" {
			minus = assert.Equal(t, []string{"-", "B", "2"}, f)
		}
	}
	assert.True(t, plus, "added row rendered")
	assert.True(t, minus, "removed row rendered")
}

func TestEmit_TableNoChanges(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Emit(&buf, differ.Result{}, Options{Format: "table"}))

	assert.Equal(t, differ.NoChanges+"\n", buf.String())
}

func TestEmit_UnknownFormat(t *testing.T) {
	err := Emit(&bytes.Buffer{}, changed(), Options{Format: "xml"})
	assert.Error(t, err)
}
