// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the config file when it changes on disk and delivers the
// parsed result on a channel. Editors save via rename, so the watch is on
// the directory, filtered to the config file name.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	updates chan *Config
}

// NewWatcher starts watching the config file at path.
func NewWatcher(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{
		path:    path,
		watcher: fw,
		updates: make(chan *Config, 1),
	}, nil
}

// Updates returns the channel carrying reloaded configs. Invalid configs
// (parse or validation failures mid-edit) are dropped; the previous config
// stays in effect.
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

// Run processes filesystem events until ctx is done. Write bursts are
// debounced so one save produces one reload.
func (w *Watcher) Run(ctx context.Context) {
	const debounce = 200 * time.Millisecond

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.watcher.Close()
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			cfg, err := LoadFrom(w.path)
			if err != nil {
				continue
			}
			select {
			case w.updates <- cfg:
			default:
				// Drop if the consumer has not drained the last update.
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}
