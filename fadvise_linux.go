//go:build linux

package shogun

import "golang.org/x/sys/unix"

// fadviseSequential hints to the kernel that the stream input file will be
// read front to back. Applied when a FileReader maps its input.
// Best-effort: errors are silently ignored.
func fadviseSequential(fd int, offset, length int64) {
	_ = unix.Fadvise(fd, offset, length, unix.FADV_SEQUENTIAL)
}
