// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcherDeliversReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.History.Dir = filepath.Join(dir, "history")
	require.NoError(t, cfg.SaveTo(path))

	w, err := NewWatcher(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	// Change the file on disk; the watcher should deliver the new config.
	cfg.UI.Theme = "light"
	require.NoError(t, cfg.SaveTo(path))

	select {
	case updated := <-w.Updates():
		require.Equal(t, "light", updated.UI.Theme)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}

func TestWatcherDropsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.History.Dir = filepath.Join(dir, "history")
	require.NoError(t, cfg.SaveTo(path))

	w, err := NewWatcher(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	// A half-edited file mid-save must not surface as an update.
	require.NoError(t, os.WriteFile(path, []byte("[backend]\nurl = \"not a url"), 0600))

	select {
	case cfg := <-w.Updates():
		t.Fatalf("unexpected update for invalid config: %+v", cfg)
	case <-time.After(time.Second):
	}
}
