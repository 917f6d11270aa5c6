// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"

	"github.com/sheetwatch/sheetwatch/internal/failure"
	"github.com/sheetwatch/sheetwatch/internal/log"
)

// FS keeps the snapshot in a single local file. A JSON sidecar next to it
// records size, digest and save time.
type FS struct {
	path string
}

// NewFS returns an FS store at path.
func NewFS(path string) *FS {
	return &FS{path: path}
}

func (s *FS) Driver() Driver   { return DriverFS }
func (s *FS) Location() string { return s.path }

func (s *FS) metaPath() string {
	return s.path + ".meta.json"
}

// Load reads the snapshot file. A missing file is reported as absent.
func (s *FS) Load(_ context.Context) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debugf("no snapshot at %s", s.path)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: failed to read snapshot %s: %w", failure.ErrStorage, s.path, err)
	}
	return data, true, nil
}

// Save replaces the snapshot. The new bytes go to a temp file in the same
// directory which is then renamed over the old one, so readers see either
// the previous snapshot or the new one.
func (s *FS) Save(_ context.Context, data []byte) error {
	if err := writeAtomic(s.path, data); err != nil {
		return fmt.Errorf("%w: failed to write snapshot %s: %w", failure.ErrStorage, s.path, err)
	}
	log.Debugf("snapshot written: path=%s size=%d", s.path, len(data))

	meta, err := json.MarshalIndent(sidecar{
		Size:    int64(len(data)),
		Digest:  Digest(data),
		SavedAt: time.Now().UTC(),
	}, "", "  ")
	if err == nil {
		err = writeAtomic(s.metaPath(), meta)
	}
	if err != nil {
		log.WithError(err).Warnf("failed to write snapshot metadata %s", s.metaPath())
	}
	return nil
}

// Stat describes the snapshot file. Sidecar values are used when their size
// matches and the file is no newer than the recorded save time; otherwise the
// digest is computed and the mtime is used.
func (s *FS) Stat(_ context.Context) (Info, bool, error) {
	fi, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Info{}, false, nil
	}
	if err != nil {
		return Info{}, false, fmt.Errorf("%w: failed to stat snapshot %s: %w", failure.ErrStorage, s.path, err)
	}
	if fi.IsDir() {
		return Info{}, false, fmt.Errorf("%w: snapshot path %s is a directory", failure.ErrStorage, s.path)
	}

	info := Info{
		Driver:   DriverFS,
		Location: s.path,
		Size:     fi.Size(),
		SavedAt:  fi.ModTime().UTC(),
	}

	if raw, err := os.ReadFile(s.metaPath()); err == nil && gjson.ValidBytes(raw) {
		meta := gjson.ParseBytes(raw)
		savedAt := meta.Get("saved_at").Time()
		// The sidecar is written after the file, so a newer mtime means the
		// file was replaced behind our back.
		if meta.Get("size").Int() == fi.Size() && meta.Get("digest").String() != "" &&
			!savedAt.IsZero() && !fi.ModTime().After(savedAt) {
			info.Digest = meta.Get("digest").String()
			info.SavedAt = savedAt.UTC()
			return info, true, nil
		}
		log.Debugf("snapshot metadata %s is stale", s.metaPath())
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return Info{}, false, fmt.Errorf("%w: failed to read snapshot %s: %w", failure.ErrStorage, s.path, err)
	}
	info.Digest = Digest(data)
	return info, true, nil
}

type sidecar struct {
	Size    int64     `json:"size"`
	Digest  string    `json:"digest"`
	SavedAt time.Time `json:"saved_at"`
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil { //nolint:mnd
		return err
	}
	return os.Rename(tmp.Name(), path)
}
