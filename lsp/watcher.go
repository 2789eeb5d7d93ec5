// Copyright © 2025 The movan authors

package lsp

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"
)

// workspaceWatcher invalidates cached state when Move sources change on
// disk outside the editor, e.g. after a branch switch.
type workspaceWatcher struct {
	fs      *fsnotify.Watcher
	onEvent func(path string)
	log     commonlog.Logger
	done    chan struct{}
}

func newWorkspaceWatcher(root string, onEvent func(path string)) (*workspaceWatcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &workspaceWatcher{
		fs:      fs,
		onEvent: onEvent,
		log:     commonlog.GetLogger("movan.lsp.watcher"),
		done:    make(chan struct{}),
	}

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || !info.IsDir() {
			return nil
		}
		if strings.HasPrefix(info.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		return fs.Add(path)
	})
	if err != nil {
		fs.Close()
		return nil, err
	}

	go w.run()
	return w, nil
}

func (w *workspaceWatcher) run() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(ev.Name, ".move") {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.log.Debugf("disk change: %s", ev.Name)
			w.onEvent(ev.Name)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Errorf("watch: %v", err)
		}
	}
}

// Close stops the watcher.
func (w *workspaceWatcher) Close() {
	close(w.done)
	w.fs.Close()
}
