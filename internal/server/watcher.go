package server

import (
	"log"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadSettleDelay is how long the watcher waits after the last change
// before broadcasting. A full resync rewrites every page; the delay
// collapses such bursts into a single reload.
const reloadSettleDelay = 150 * time.Millisecond

// siteWatcher watches the mirrored site on disk and notifies the hub
// once changes settle.
type siteWatcher struct {
	fs    *fsnotify.Watcher
	hub   *reloadHub
	delay time.Duration
}

func newSiteWatcher(hub *reloadHub, delay time.Duration, dirs ...string) (*siteWatcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &siteWatcher{fs: fs, hub: hub, delay: delay}
	for _, dir := range dirs {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		if err := fs.Add(dir); err != nil {
			log.Printf("reload: watch %s: %v", dir, err)
		}
	}
	go w.loop()
	return w, nil
}

func (w *siteWatcher) loop() {
	var settle <-chan time.Time
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						w.fs.Add(event.Name)
					}
				}
				settle = time.After(w.delay)
			}
		case <-settle:
			settle = nil
			w.hub.broadcast("reload")
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("reload: watcher: %v", err)
		}
	}
}

func (w *siteWatcher) Close() error {
	return w.fs.Close()
}
