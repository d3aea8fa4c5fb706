// Package watcher reports changes to a single file, such as the editor's
// settings file.
//
// The file's parent directory is watched with fsnotify and events are
// filtered by base name, so editors that save by writing a temp file and
// renaming it over the original are still seen. When fsnotify cannot be
// used (network mounts, exhausted inotify instances) the watcher falls back
// to polling the file's size and modification time.
//
// Bursts of events are debounced into one.
//
//	w := watcher.New("/path/to/Preferences.sublime-settings", watcher.DefaultOptions())
//	go func() {
//	    for ev := range w.Events() {
//	        // reload
//	    }
//	}()
//	err := w.Run(ctx)
package watcher
