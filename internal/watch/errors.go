package watch

import "errors"

var (
	// ErrWatcherClosed indicates the watcher has been closed.
	ErrWatcherClosed = errors.New("watcher closed")

	// ErrPathNotExist indicates a watched path does not exist.
	ErrPathNotExist = errors.New("path does not exist")
)
