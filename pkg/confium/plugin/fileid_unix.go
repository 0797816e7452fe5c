//go:build unix

package plugin

import "golang.org/x/sys/unix"

func identify(path string) (FileID, bool) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return FileID{}, false
	}
	return FileID{Dev: uint64(st.Dev), Ino: uint64(st.Ino)}, true
}
