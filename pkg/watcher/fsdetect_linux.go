//go:build linux

package watcher

import "golang.org/x/sys/unix"

// Filesystem magic numbers for which inotify is unreliable; see statfs(2).
const (
	nfsSuperMagic  = 0x6969
	smbSuperMagic  = 0x517b
	smb2SuperMagic = 0xfe534d42
	cifsMagic      = 0xff534d42
	fuseSuperMagic = 0x65735546
	sshfsMagic     = 0x65735543
)

// isRemoteFilesystem reports whether the path lives on a filesystem where
// inotify events are unreliable and polling should be used instead.
// Detection failures default to false: fsnotify's own Add error handling
// still catches genuinely unwatchable paths.
func isRemoteFilesystem(path string) bool {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return false
	}
	switch uint32(st.Type) {
	case nfsSuperMagic, smbSuperMagic, smb2SuperMagic, cifsMagic, fuseSuperMagic, sshfsMagic:
		return true
	}
	return false
}
