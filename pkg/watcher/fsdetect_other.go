//go:build !linux

package watcher

// isRemoteFilesystem is a no-op off Linux: fsnotify's backends handle their
// own platform quirks, and a failed Add falls back to polling anyway.
func isRemoteFilesystem(string) bool {
	return false
}
